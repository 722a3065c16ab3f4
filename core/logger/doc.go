// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production) and attaches per-run correlation identifiers.
//
// # Run Awareness
//
// Every sync run is tagged with a run ID. The WithRunID helper attaches it to
// the log entry, ensuring that all logs related to a specific run can be
// correlated across listing, planning, and execution.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Sync started")
//
//	// During a run:
//	l := logger.WithRunID(log, runID)
//	l.Error("Upload failed", zap.Error(err))
package logger
