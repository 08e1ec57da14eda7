// Package log provides the structured logging used across txnload.
//
// Components log through the Logger interface so tests can swap in
// [NoopLogger] or a zerolog logger writing to a buffer. [New] builds the
// zerolog adapter used by the command:
//
//	logger, err := log.New(log.Options{Level: "info", Format: "console"})
//	logger.Info("batch written", log.Int("batch", 3), log.Int("total", 12))
package log
