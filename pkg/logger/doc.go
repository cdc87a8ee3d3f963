// Package logger provides a structured logging interface for the report
// pipeline.
//
// It wraps the zerolog library to provide a clean API with support for:
// - Multiple log levels (Debug, Info, Warn, Error, Fatal)
// - Structured logging with fields
// - Pretty console output
// - Optional file output alongside the console
// - Global logger instance for easy access
//
// Basic Usage:
//
//	import "wikifauna/pkg/logger"
//
//	// Initialize the global logger
//	cfg := &config.LoggingConfig{Level: "info"}
//	err := logger.Initialize(cfg)
//
//	// Use the global logger
//	logger.Info("pipeline started")
//	logger.WithField("animal", "Aardvark").Info("image resolved")
//	logger.WithError(err).Error("failed to download image")
//
// Structured events carry the attempt number, animal name and outcome so any
// backend can format them:
//
//	log.InfoWithFields("download completed", map[string]interface{}{
//	    "animal":  "Aardvark",
//	    "attempt": 2,
//	    "outcome": "downloaded",
//	})
package logger
