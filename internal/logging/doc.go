// Package logging provides structured logging for diskavl.
//
// # Overview
//
// The logging package provides a structured logging interface with support for:
//
//   - Multiple log levels (debug, info, warn, error)
//   - Text and JSON output formats
//   - Request ID tracking per command
//   - Field-based contextual logging
//
// # Creating a Logger
//
//	logger := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "stderr",
//	})
//
// For testing, use a no-op logger:
//
//	logger := logging.NewNop()
//
// # Structured Logging
//
//	logger.Info("key inserted", "key", 42, "root", "0x14")
//
// Text format:
//
//	2026-10-18T10:30:00Z [info] key inserted key=42 root=0x14
//
// JSON format:
//
//	{"key":42,"level":"info","msg":"key inserted","root":"0x14","ts":"2026-10-18T10:30:00Z"}
//
// # Request IDs
//
//	reqLogger := logger.WithRequestID(logging.GenerateRequestID())
package logging
