// Package logging constructs the slog loggers used across meetscan.
//
// It supports a human-oriented console format for interactive runs and a
// JSON format for cron-driven invocations whose output lands in a log file.
// Helper constructors keep attribute keys consistent between packages.
package logging
