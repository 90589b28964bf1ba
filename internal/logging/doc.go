// Package logging configures structured zerolog output for nutriboard.
//
// Loggers travel through context.Context together with a ULID trace ID so that
// every HTTP request and view transition from a single CLI invocation can be
// correlated in the log file. File output is size-rotated with lumberjack.
package logging
