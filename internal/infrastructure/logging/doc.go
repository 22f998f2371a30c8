// Package logging provides structured logging for the configuration generator.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the generator.
//
// # Features
//
//   - Text output for interactive runs (human-readable)
//   - JSON output for CI pipelines (machine-parsable)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "text"     # json, text
//	  output: "stderr"   # stdout, stderr
//
// # Security
//
// Never log secret values. Log the secret key instead:
//
//	logger.Warn("secret not found", "key", key)
package logging
