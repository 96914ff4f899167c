package app

import (
	"io"
	"log/slog"
)

// App encapsulates the application's configuration, logger and lifecycle.
type App struct {
	outW   io.Writer
	errW   io.Writer
	logger *slog.Logger
	config *Config
}

// NewApp constructs the application with an isolated logger. Report tables
// go to outW; logs go to errW so the two streams can be separated.
func NewApp(outW, errW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, cfg.Trace, errW)
	for _, note := range cfg.notes {
		logger.Warn("Configuration value replaced with default.", "detail", note)
	}

	return &App{
		outW:   outW,
		errW:   errW,
		logger: logger,
		config: cfg,
	}
}
