// Package config loads, normalizes, and validates the meetscan configuration.
//
// Configuration is TOML with a small number of sections:
//   - [library]: location of the read-only Calibre metadata and full-text databases
//   - [select]: default author and tag-prefix filters for meeting selection
//   - [reports]: directory holding the category report tables and run history
//   - [llm]: extraction mode and connection settings for the LLM extractor
//   - [debug]: per-meeting request/response capture
//   - [render]: PDF rendering of report files
//   - [logging]: log level, format, and optional log file
//
// Secrets may come from the environment instead of the file: the LLM API key
// falls back to MEETSCAN_LLM_API_KEY and then OPENAI_API_KEY.
package config
