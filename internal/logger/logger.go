package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the global logger instance
var Log *slog.Logger

type Options struct {
	Development bool
	SentryDSN   string
	// LogFile, when set, also writes JSON logs to a rotated file.
	LogFile string
}

// Init initializes the global logger based on environment
// Development: Text format with Debug level
// Production: JSON format with Info level
// Errors go to Sentry when a DSN is configured.
func Init(opts Options) {
	Log = slog.New(newHandler(os.Stdout, opts))
	slog.SetDefault(Log)
}

func newHandler(stdout io.Writer, opts Options) slog.Handler {
	level := slog.LevelInfo
	if opts.Development {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handlers []slog.Handler
	if opts.Development {
		handlers = append(handlers, slog.NewTextHandler(stdout, handlerOpts))
	} else {
		handlers = append(handlers, slog.NewJSONHandler(stdout, handlerOpts))
	}

	if opts.LogFile != "" {
		handlers = append(handlers, slog.NewJSONHandler(rotatingFile(opts.LogFile), handlerOpts))
	}

	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              opts.SentryDSN,
			TracesSampleRate: 1.0,
		})
		if err == nil {
			handlers = append(handlers, slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler())
		}
	}

	if len(handlers) == 1 {
		return handlers[0]
	}
	return slogmulti.Fanout(handlers...)
}

func rotatingFile(path string) io.Writer {
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
}
