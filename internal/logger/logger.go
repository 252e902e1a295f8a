// Package logger wraps zerolog with context-carried fields so request- and
// job-scoped attributes follow an operation through every layer without
// threading a logger value explicitly.
package logger

import (
    "context"
    "io"
    "os"
    "strings"
    "time"

    "github.com/rs/zerolog"
)

// Options configures the structured logger.
type Options struct {
    ServiceName string
    Level       zerolog.Level
    Console     bool
    Output      io.Writer
}

// Logger is the service-wide structured logger.
type Logger struct {
    base *zerolog.Logger
}

type ctxKey struct{}

// New builds a Logger.  Output defaults to stdout; Console switches from
// JSON lines to a human-readable format for local development.
func New(opts Options) *Logger {
    if opts.Level == zerolog.NoLevel {
        opts.Level = zerolog.InfoLevel
    }
    var output io.Writer = opts.Output
    if output == nil {
        output = os.Stdout
    }
    if opts.Console {
        output = zerolog.ConsoleWriter{Out: output, TimeFormat: "15:04:05"}
    }
    zerolog.TimeFieldFormat = time.RFC3339Nano
    base := zerolog.New(output).With().Timestamp().Str("service", opts.ServiceName).Logger().Level(opts.Level)
    return &Logger{base: &base}
}

// ParseLevel converts an environment string into a zerolog level,
// defaulting to info on anything unparseable.
func ParseLevel(value string) zerolog.Level {
    s := strings.ToLower(strings.TrimSpace(value))
    if s == "" {
        return zerolog.InfoLevel
    }
    if lvl, err := zerolog.ParseLevel(s); err == nil {
        return lvl
    }
    return zerolog.InfoLevel
}

func (l *Logger) fromContext(ctx context.Context) *zerolog.Logger {
    if ctx != nil {
        if entry, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok {
            return entry
        }
    }
    return l.base
}

func (l *Logger) attach(ctx context.Context, entry zerolog.Logger) context.Context {
    e := entry
    return context.WithValue(ctx, ctxKey{}, &e)
}

// WithField returns a context whose log entries carry key=value.
func (l *Logger) WithField(ctx context.Context, key string, value any) context.Context {
    entry := l.fromContext(ctx)
    return l.attach(ctx, entry.With().Interface(key, value).Logger())
}

// Info logs msg at info level with the context's fields.
func (l *Logger) Info(ctx context.Context, msg string) {
    l.fromContext(ctx).Info().Msg(msg)
}

// Warn logs msg at warn level with the context's fields.
func (l *Logger) Warn(ctx context.Context, msg string) {
    l.fromContext(ctx).Warn().Msg(msg)
}

// Error logs msg and err at error level with the context's fields.
func (l *Logger) Error(ctx context.Context, msg string, err error) {
    l.fromContext(ctx).Error().Err(err).Msg(msg)
}
