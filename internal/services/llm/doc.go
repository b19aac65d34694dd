// Package llm wraps an OpenAI-compatible chat-completions endpoint.
//
// The client issues synchronous JSON-only requests with a bounded completion
// budget, retries transient failures with exponential backoff (honoring
// Retry-After), and surfaces output-length truncation as ErrTruncated so
// callers can tell the operator to raise the token budget instead of
// silently dropping items.
package llm
