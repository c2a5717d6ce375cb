package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"

	redacted = "[redacted]"
)

// Keys whose values are replaced before they reach the log. Matched
// case-insensitively against WithField / WithFields keys.
var sensitiveKeys = map[string]struct{}{
	"password":         {},
	"confirm_password": {},
	"password_hash":    {},
	"token":            {},
	"authorization":    {},
}

// Options configures the structured logger.
type Options struct {
	ServiceName string
	Level       zerolog.Level
	// Format is FormatJSON (default) or FormatConsole.
	Format    string
	WarnStack bool
	Output    io.Writer
}

// Logger writes structured entries enriched with fields carried on the
// request context.
type Logger struct {
	base      zerolog.Logger
	warnStack bool
}

type ctxKey struct{}

func New(opts Options) *Logger {
	if opts.Level == zerolog.NoLevel {
		opts.Level = zerolog.InfoLevel
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if strings.EqualFold(strings.TrimSpace(opts.Format), FormatConsole) {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	return &Logger{
		base: zerolog.New(out).
			With().
			Timestamp().
			Str("service", opts.ServiceName).
			Logger().
			Level(opts.Level),
		warnStack: opts.WarnStack,
	}
}

// ParseLevel maps a config string to a level, defaulting to info.
func ParseLevel(value string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) entry(ctx context.Context) zerolog.Logger {
	if ctx != nil {
		if entry, ok := ctx.Value(ctxKey{}).(zerolog.Logger); ok {
			return entry
		}
	}
	return l.base
}

func (l *Logger) WithField(ctx context.Context, key string, value any) context.Context {
	return l.WithFields(ctx, map[string]any{key: value})
}

// WithFields returns a context whose log entries carry fields. Sensitive keys
// are redacted.
func (l *Logger) WithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	builder := l.entry(ctx).With()
	for key, value := range fields {
		if isSensitive(key) {
			value = redacted
		}
		builder = builder.Interface(key, value)
	}
	return context.WithValue(ctx, ctxKey{}, builder.Logger())
}

func (l *Logger) WithRequestID(ctx context.Context, requestID string) context.Context {
	return l.WithField(ctx, "request_id", requestID)
}

func (l *Logger) WithUserID(ctx context.Context, userID string) context.Context {
	return l.WithField(ctx, "user_id", userID)
}

func (l *Logger) WithActorRole(ctx context.Context, role string) context.Context {
	return l.WithField(ctx, "actor_role", role)
}

func (l *Logger) Debug(ctx context.Context, msg string) {
	entry := l.entry(ctx)
	entry.Debug().Msg(msg)
}

func (l *Logger) Info(ctx context.Context, msg string) {
	entry := l.entry(ctx)
	entry.Info().Msg(msg)
}

// Warn logs msg, with a stack trace when WarnStack is enabled.
func (l *Logger) Warn(ctx context.Context, msg string) {
	entry := l.entry(ctx)
	event := entry.Warn()
	if l.warnStack {
		event = event.Str("stack", stackTrace())
	}
	event.Msg(msg)
}

// Error always records a stack trace.
func (l *Logger) Error(ctx context.Context, msg string, err error) {
	entry := l.entry(ctx)
	event := entry.Error()
	if err != nil {
		event = event.Err(err)
	}
	event.Str("stack", stackTrace()).Msg(msg)
}

func isSensitive(key string) bool {
	_, ok := sensitiveKeys[strings.ToLower(key)]
	return ok
}

func stackTrace() string {
	return strings.TrimSpace(string(debug.Stack()))
}
