// Package logger provides the structured logging interface used across the bot.
//
// It wraps zerolog behind a small Logger interface so packages can attach
// fields without depending on zerolog directly:
//
//	logger.Initialize(&cfg.Logging)
//	logger.WithField("profile_id", id).Info("Profile added")
//	log.InfoWithFields("Batch completed", map[string]interface{}{"processed": n})
//
// Console output uses the coloured zerolog ConsoleWriter; when a log file is
// configured the same events are also written there as JSON lines.
// NewNopLogger and NewTestLogger are meant for tests.
package logger
