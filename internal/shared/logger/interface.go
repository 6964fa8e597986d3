package logger

import "log/slog"

// Interface is the structured logger injected into use cases, repositories
// and infrastructure components.
type Interface interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Interface
	Named(name string) Interface

	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
}

type slogLogger struct {
	logger *slog.Logger
}

func NewLogger() Interface {
	return &slogLogger{logger: Get()}
}

func NewLoggerWithSlog(l *slog.Logger) Interface {
	return &slogLogger{logger: l}
}

func (l *slogLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

func (l *slogLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l *slogLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *slogLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

func (l *slogLogger) With(args ...any) Interface {
	return &slogLogger{logger: l.logger.With(args...)}
}

func (l *slogLogger) Named(name string) Interface {
	return &slogLogger{logger: l.logger.With("logger", name)}
}

func (l *slogLogger) Debugw(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *slogLogger) Infow(msg string, keysAndValues ...any) {
	l.logger.Info(msg, keysAndValues...)
}

func (l *slogLogger) Warnw(msg string, keysAndValues ...any) {
	l.logger.Warn(msg, keysAndValues...)
}

func (l *slogLogger) Errorw(msg string, keysAndValues ...any) {
	l.logger.Error(msg, keysAndValues...)
}

type nopLogger struct{}

var nop = &nopLogger{}

// NewNopLogger returns a logger that discards everything. Used in tests.
func NewNopLogger() Interface {
	return nop
}

func (n *nopLogger) Debug(string, ...any) {}

func (n *nopLogger) Info(string, ...any) {}

func (n *nopLogger) Warn(string, ...any) {}

func (n *nopLogger) Error(string, ...any) {}

func (n *nopLogger) With(...any) Interface {
	return n
}

func (n *nopLogger) Named(string) Interface {
	return n
}

func (n *nopLogger) Debugw(string, ...any) {}

func (n *nopLogger) Infow(string, ...any) {}

func (n *nopLogger) Warnw(string, ...any) {}

func (n *nopLogger) Errorw(string, ...any) {}

