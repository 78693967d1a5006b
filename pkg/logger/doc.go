// Package logger provides structured logging built on zerolog.
//
// The package exposes a Logger interface so callers never depend on
// the backing implementation; a TestLogger that captures messages is
// provided for tests.
//
// Usage:
//
//	log, err := logger.New(&cfg.Logging)
//	if err != nil {
//		return err
//	}
//
//	log.Info("collection started")
//	log.InfoWithFields("page fetched", map[string]interface{}{
//		"page":    2,
//		"results": 100,
//	})
//
//	runLog := log.WithField("query", "#golang")
//	runLog.Debug("loading reference data")
//
// A process-wide instance is available through Initialize and
// GetLogger; GetLogger falls back to a default console logger when
// Initialize was never called. Output goes to stdout in console format
// and, when a file is configured, to the file as JSON as well.
package logger
