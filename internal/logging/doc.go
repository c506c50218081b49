// Package logging provides structured logging for chessbridge runs.
//
// It wraps log/slog with a JSON handler. Every record carries the
// attributes of the logger it was written through, so a session's lines can
// be filtered by run ID and component after the fact.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/var/log/chessbridge", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	log := logger.WithSession(runID).WithComponent("session")
//	log.Info("move accepted", "move", "e2e4")
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"move accepted","session_id":"...","component":"session","move":"e2e4"}
//
// With an empty directory the logger writes to stderr.
//
// # Log Rotation
//
// [NewRotatingLogger] takes a [RotationConfig]. Rotated files are named
// bridge.log.1 (newest) through bridge.log.N, with a .gz suffix when
// compression is on.
//
// # Configuration
//
//	logging:
//	  enabled: true
//	  level: info
//	  dir: ""
//	  max_size_mb: 10
//	  max_backups: 3
//	  compress: false
//
// Tests use [NopLogger] or [NewWriterLogger] over a bytes.Buffer.
package logging
