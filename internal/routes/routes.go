package routes

import (
	"net/http"

	"github.com/waktunyapuasa/puasa/internal/app"
	"github.com/waktunyapuasa/puasa/internal/handler"
	"github.com/waktunyapuasa/puasa/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler(app.CheckinService, app.ProgressService)
	checkin := handler.NewCheckinHandler(app.CheckinService)
	progress := handler.NewProgressHandler(app.ProgressService)
	calendar := handler.NewCalendarHandler(app.CalendarService)

	mux := http.NewServeMux()

	// Submissions are rate limited per client IP
	rateLimiter := middleware.RateLimitSubmit(app.Cfg.SubmitRateLimit, app.Cfg.SubmitRateWindow)

	// ============================================================================
	// PAGES
	// ============================================================================

	mux.HandleFunc("GET /{$}", home.HomePage)
	mux.HandleFunc("GET /check-in", home.CheckInPage)
	mux.HandleFunc("POST /check-in", rateLimiter(home.CheckInSubmit))

	// ============================================================================
	// JSON API
	// ============================================================================

	mux.HandleFunc("GET /api/progress", progress.Summary)
	mux.HandleFunc("GET /api/progress/checkpoints", progress.Checkpoints)
	mux.HandleFunc("GET /api/checkins", checkin.List)
	mux.HandleFunc("GET /api/checkins/{date}", checkin.Get)
	mux.HandleFunc("POST /api/checkins", rateLimiter(checkin.Submit))
	mux.HandleFunc("GET /api/calendar", calendar.Windows)
	mux.HandleFunc("GET /api/calendar/{year}", calendar.Window)
	mux.HandleFunc("GET /api/calendar/{year}/days", calendar.Days)

	mux.HandleFunc("GET /healthz", handler.Healthz)

	// ============================================================================
	// FALLBACK
	// ============================================================================

	// 404
	mux.HandleFunc("/{path...}", home.NotFoundPage)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg),
		middleware.NonceMiddleware, // Must be before SecurityHeaders
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.TimeZone(app.Cfg.DefaultTimeZone),
		middleware.CSRFProtection, // Form posts only; /api/ is exempt
		middleware.WithURLPath,
	)

	return handler
}
