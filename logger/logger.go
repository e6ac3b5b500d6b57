package logger

// Logger is the diagnostics sink for the jasper client. It defines methods
// for different log levels (Debug, Info, Warn, Error) so that users can plug
// in their preferred logging implementation (e.g., glog, logrus, zap,
// standard log) or use the provided Noop logger to disable logging entirely.
//
// The logger is used throughout the client for:
// - outbound request path/query tracing
// - rate-limit status and backoff waits
// - queue lifecycle and cancellation events
//
// A failure to log is never treated as an error by the client.
//
// Usage Example:
//
//	// Using with a custom logger implementation
//	client, err := jasper.New(token, host, jasper.WithLogger(myLogger))
//
//	// Disable logging entirely (the default)
//	client, err := jasper.New(token, host, jasper.WithLogger(&logger.Noop{}))
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}
