package ctxkeys

import (
	"context"
	"time"

	"github.com/waktunyapuasa/puasa/internal/config"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	URLPathKey   contextKey = "url_path"
	ConfigKey    contextKey = "config"
	CSRFTokenKey contextKey = "csrf_token"
	LocationKey  contextKey = "location"
)

func URLPath(ctx context.Context) string {
	path, _ := ctx.Value(URLPathKey).(string)
	return path
}

func WithURLPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, URLPathKey, path)
}

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}

func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(CSRFTokenKey).(string)
	return token
}

func WithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, CSRFTokenKey, token)
}

// Location is the client's resolved time zone, or nil outside a request.
func Location(ctx context.Context) *time.Location {
	loc, _ := ctx.Value(LocationKey).(*time.Location)
	return loc
}

func WithLocation(ctx context.Context, loc *time.Location) context.Context {
	return context.WithValue(ctx, LocationKey, loc)
}
