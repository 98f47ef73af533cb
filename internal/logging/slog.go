package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
)

type SlogLogger struct {
	l *slog.Logger
}

func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: l}
}

func (s *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.l.DebugContext(ctx, msg, args...)
}

func (s *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.l.InfoContext(ctx, msg, args...)
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.l.WarnContext(ctx, msg, args...)
}

func (s *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.l.ErrorContext(ctx, msg, args...)
}

func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{l: s.l.With(args...)}
}

// Option configures a logger built with New.
type Option func(*options)

type options struct {
	level  slog.Level
	pretty bool
	json   bool
	writer io.Writer
}

// WithDebug lowers the level to Debug when debug is true.
func WithDebug(debug bool) Option {
	return func(o *options) {
		if debug {
			o.level = slog.LevelDebug
		} else {
			o.level = slog.LevelInfo
		}
	}
}

// WithPretty selects the colorized console handler for interactive use.
func WithPretty(pretty bool) Option {
	return func(o *options) { o.pretty = pretty }
}

// WithJSON selects slog's JSON handler. Pretty output takes precedence.
func WithJSON(json bool) Option {
	return func(o *options) { o.json = json }
}

// WithWriter overrides the output writer (os.Stderr by default).
func WithWriter(w io.Writer) Option {
	return func(o *options) { o.writer = w }
}

// New builds a SlogLogger from opts. Without options it writes text records
// at Info level to os.Stderr.
func New(opts ...Option) *SlogLogger {
	o := &options{level: slog.LevelInfo, writer: os.Stderr}
	for _, opt := range opts {
		opt(o)
	}

	var h slog.Handler
	switch {
	case o.pretty:
		cl := charmlog.NewWithOptions(o.writer, charmlog.Options{
			ReportTimestamp: true,
			Level:           charmlog.Level(o.level),
		})
		h = cl
	case o.json:
		h = slog.NewJSONHandler(o.writer, &slog.HandlerOptions{Level: o.level})
	default:
		h = slog.NewTextHandler(o.writer, &slog.HandlerOptions{Level: o.level})
	}

	return NewSlogLogger(slog.New(h))
}

// Nop returns a logger that discards everything.
func Nop() *SlogLogger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1})))
}
