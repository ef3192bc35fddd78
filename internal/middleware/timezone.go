package middleware

import (
	"net/http"

	"github.com/waktunyapuasa/puasa/internal/ctxkeys"
	"github.com/waktunyapuasa/puasa/internal/dateiso"
)

const (
	timeZoneQuery  = "tz"
	TimeZoneCookie = "tz"
)

// TimeZone resolves the client's IANA zone from the tz query parameter or
// cookie, falling back to defaultZone, and stores the location in context.
// Unknown names fall back silently.
func TimeZone(defaultZone string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name := r.URL.Query().Get(timeZoneQuery)
			if name == "" {
				if cookie, err := r.Cookie(TimeZoneCookie); err == nil {
					name = cookie.Value
				}
			}

			loc := dateiso.ResolveTimeZone(name, defaultZone)
			next.ServeHTTP(w, r.WithContext(ctxkeys.WithLocation(r.Context(), loc)))
		})
	}
}
