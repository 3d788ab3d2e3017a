// Package logging provides structured logging for quizdesk.
//
// It wraps Go's log/slog JSON handler. The TUI owns the terminal, so logs
// always go to a file ({dir}/quizdesk.log) that is rotated by size.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger(dir, "INFO", logging.DefaultRotationConfig())
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.WithQuiz("q1").WithOperation("delete").Info("mutation confirmed")
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"mutation confirmed","quiz_id":"q1","op":"delete"}
//
// # Testing
//
// Use [NopLogger] to discard output, or [NewWriterLogger] with a
// bytes.Buffer to assert on entries.
package logging
