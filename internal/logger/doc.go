// Package logger wraps zap with a global sugared logger and context helpers.
//
// Services store a named logger in the context (WithName, WithKV) and log
// through it with the package-level helpers (InfoKV, WarnKV, ...). The output
// stream is configurable so the terminal display can keep stdout to itself.
package logger
