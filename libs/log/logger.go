package log

// Logger is the logging interface every dalight package takes. The
// concrete implementation is zerolog, but callers only see this surface
// so tests can substitute a nop or capture logger.
type Logger interface {
	Debug(msg string, keyvals ...interface{})
	Info(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})

	With(keyvals ...interface{}) Logger
}
