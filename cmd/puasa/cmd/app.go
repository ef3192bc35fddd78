package cmd

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"github.com/waktunyapuasa/puasa/internal/app"
	"github.com/waktunyapuasa/puasa/internal/config"
	"github.com/waktunyapuasa/puasa/internal/dateiso"
	"github.com/waktunyapuasa/puasa/internal/logger"
)

// loadApp reads configuration from the environment and wires the stores.
// The caller must Close the returned app.
func loadApp(ctx context.Context) (*app.App, error) {
	cfg := config.Load()
	logger.Init(logger.Options{
		Development: cfg.IsDevelopment(),
		SentryDSN:   cfg.SentryDSN,
		LogFile:     cfg.LogFile,
	})
	return app.New(ctx, cfg)
}

func closeApp(a *app.App) {
	err := a.Close()
	if err != nil {
		slog.Error("failed to close app", "error", err)
	}
}

// todayIn is the current date in the named zone.
func todayIn(zone string) string {
	return dateiso.FormatInZone(time.Now(), zone)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
