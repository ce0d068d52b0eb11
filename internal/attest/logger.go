package attest

// Logger provides structured logging for the service layer.
// The args follow slog conventions: alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// WithFields returns a Logger that appends fields to the args of every call.
func WithFields(l Logger, fields ...any) Logger {
	if len(fields) == 0 {
		return l
	}
	if f, ok := l.(*fieldLogger); ok {
		return &fieldLogger{next: f.next, fields: append(append([]any{}, f.fields...), fields...)}
	}
	return &fieldLogger{next: l, fields: fields}
}

type fieldLogger struct {
	next   Logger
	fields []any
}

func (f *fieldLogger) args(args []any) []any {
	return append(append(make([]any, 0, len(f.fields)+len(args)), f.fields...), args...)
}

func (f *fieldLogger) Debug(msg string, args ...any) { f.next.Debug(msg, f.args(args)...) }
func (f *fieldLogger) Info(msg string, args ...any)  { f.next.Info(msg, f.args(args)...) }
func (f *fieldLogger) Warn(msg string, args ...any)  { f.next.Warn(msg, f.args(args)...) }
func (f *fieldLogger) Error(msg string, args ...any) { f.next.Error(msg, f.args(args)...) }

// NopLogger discards all output.
type NopLogger struct{}

func NewNopLogger() *NopLogger { return &NopLogger{} }

func (*NopLogger) Debug(string, ...any) {}
func (*NopLogger) Info(string, ...any)  {}
func (*NopLogger) Warn(string, ...any)  {}
func (*NopLogger) Error(string, ...any) {}
