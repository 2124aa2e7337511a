// Package logger provides structured logging for AAAMesh.
//
// It wraps log/slog:
//
//   - logger.go: handler construction and the shared dynamic level
//   - context.go: context propagation of the logger and the node id
//   - redact.go: masking of AAA secrets in attribute values
//   - rotate.go: size-rotated log files
//
// Library packages (pkg/cluster, internal/core/service) take a plain
// *slog.Logger; obtain one from a Logger with Slog so redaction and the
// dynamic level apply to them too.
package logger
