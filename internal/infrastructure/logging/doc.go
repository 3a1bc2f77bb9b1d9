// Package logging provides structured logging for the web device core.
//
// This package wraps Go's standard log/slog package so every component logs
// with the same handler, level filter and default fields.
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("route registered", "path", "/root/device0")
//
// Library packages do not import this package directly. They declare a small
// Logger interface (Debug, Info, Warn, Error) which *Logger satisfies.
package logging
