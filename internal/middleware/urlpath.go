package middleware

import (
	"net/http"
	"strings"

	"github.com/waktunyapuasa/puasa/internal/ctxkeys"
)

// WithURLPath adds the page path to the context for navigation highlighting.
// A trailing slash is dropped so /check-in/ and /check-in match the same link.
func WithURLPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if len(path) > 1 {
			path = strings.TrimSuffix(path, "/")
		}
		next.ServeHTTP(w, r.WithContext(ctxkeys.WithURLPath(r.Context(), path)))
	})
}
