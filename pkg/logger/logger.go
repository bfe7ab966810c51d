// Package logger builds configured slog.Logger instances for the service.
// Production environments get JSON output at info level, development gets
// human-readable text at debug level. Context extractors allow request-scoped
// values to be attached to every record automatically.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Format represents logger output format.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ContextExtractor extracts a slog attribute from context at log time.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// Option configures logger creation.
type Option func(*settings)

type settings struct {
	level      slog.Level
	format     Format
	output     io.Writer
	attrs      []slog.Attr
	extractors []ContextExtractor
}

func WithLevel(l slog.Level) Option {
	return func(s *settings) { s.level = l }
}

// WithFormat sets output format. Invalid formats panic so that a
// misconfigured process fails at startup instead of at first log call.
func WithFormat(f Format) Option {
	return func(s *settings) {
		switch f {
		case FormatJSON, FormatText:
			s.format = f
		default:
			panic(fmt.Errorf("invalid log format %q: must be %q or %q", f, FormatJSON, FormatText))
		}
	}
}

// WithOutput sets a custom output destination. Nil writers are ignored.
func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		if w != nil {
			s.output = w
		}
	}
}

// WithAttr adds static attributes to every log record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(s *settings) {
		s.attrs = append(s.attrs, attrs...)
	}
}

// WithContextExtractors registers functions that inject attributes from
// context. Nil extractors are filtered out.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(s *settings) {
		for _, ex := range extractors {
			if ex != nil {
				s.extractors = append(s.extractors, ex)
			}
		}
	}
}

// WithEnvironment applies service-wide defaults for the given environment
// name: "production"/"prod" and "staging"/"stage" get JSON at info level,
// anything else gets text at debug level.
func WithEnvironment(env, service string) Option {
	return func(s *settings) {
		switch env {
		case "production", "prod", "staging", "stage":
			s.level = slog.LevelInfo
			s.format = FormatJSON
		default:
			s.level = slog.LevelDebug
			s.format = FormatText
		}
		if service != "" {
			s.attrs = append(s.attrs,
				slog.String("service", service),
				slog.String("env", env),
			)
		}
	}
}

// New creates a configured slog.Logger. Defaults are production-safe:
// JSON output at info level to stdout.
func New(opts ...Option) *slog.Logger {
	s := &settings{
		level:  slog.LevelInfo,
		format: FormatJSON,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}

	handlerOpts := &slog.HandlerOptions{Level: s.level}

	var handler slog.Handler
	if s.format == FormatText {
		handler = slog.NewTextHandler(s.output, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(s.output, handlerOpts)
	}

	if len(s.attrs) > 0 {
		handler = handler.WithAttrs(s.attrs)
	}

	return slog.New(newContextHandler(handler, s.extractors))
}

// SetAsDefault installs l as the process default logger.
func SetAsDefault(l *slog.Logger) {
	slog.SetDefault(l)
}
