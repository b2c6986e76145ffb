// Package logger provides structured logging for worldsync.
//
// It wraps log/slog with a level that can change at runtime, JSON or
// text output, and redaction of secrets (gateway API keys, snapshot
// passphrases) before they reach any handler. Context helpers carry the
// logger, the request id and the reconstruction run id across calls.
package logger
