// Package logging provides structured logging configuration for recstore.
//
// This package wraps log/slog so both API surfaces, the server middleware and
// the CLI log the same way. It supports configurable levels, text or JSON
// output, and an optional JSON log file written alongside the console.
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelInfo,
//	    Format: logging.FormatText,
//	})
//
//	logger.Info("surface listening", "surface", "memo", "addr", ":5000")
//
// # Integration
//
// Components accept a *slog.Logger through an option. If none is provided
// they fall back to logging.Nop().
package logging
