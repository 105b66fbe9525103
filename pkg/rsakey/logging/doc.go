// Package logging provides the logging facade used by rsakey.
//
// Logger wraps the subset of log/slog the library needs. Applications can
// supply their own implementation to redirect or filter output:
//
//	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})
//	lib, err := rsakey.Open(rsakey.Config{
//	    Logger: logging.New(slog.New(handler)),
//	})
//
// Key material must never reach a log line. Use Redacted to record that a
// value was intentionally left out:
//
//	logger.Debug(ctx, "imported key", "key_id", id, logging.Redacted("d"))
//	// key_id=... d=[redacted]
package logging
