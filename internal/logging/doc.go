// Package logging assembles structured slog loggers and formatting helpers
// used by the card parser, the library scanner and the CLI.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so a scan can tag every line
// with one correlation ID. NewNop provides a silent logger for tests and for
// callers that do not care about diagnostics.
//
// Parse failures are reported through WarnWithContext, which fills in
// event_type, error_hint and impact when the caller omits them.
package logging
