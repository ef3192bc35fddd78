package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/waktunyapuasa/puasa/internal/ctxkeys"
)

const (
	csrfCookieName = "csrf_token"
	csrfFormField  = "csrf_token"
	csrfHeader     = "X-CSRF-Token"
	csrfTokenBytes = 32
	csrfCookieTTL  = 7 * 24 * time.Hour
)

// CSRFProtection issues a double-submit token cookie and, for form posts,
// requires the same token back in the X-CSRF-Token header or csrf_token
// field. The JSON API under /api/ carries no session cookie and is exempt.
func CSRFProtection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !safeMethod(r.Method) && strings.HasPrefix(r.URL.Path, "/api/") {
			next.ServeHTTP(w, r)
			return
		}

		token := csrfCookieToken(w, r)
		if !safeMethod(r.Method) && !sameToken(token, submittedCSRFToken(r)) {
			slog.Warn("csrf token mismatch", "method", r.Method, "path", r.URL.Path, "ip", getClientIP(r))
			http.Error(w, "Invalid CSRF token", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctxkeys.WithCSRFToken(r.Context(), token)))
	})
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func submittedCSRFToken(r *http.Request) string {
	if token := r.Header.Get(csrfHeader); token != "" {
		return token
	}
	return r.PostFormValue(csrfFormField)
}

// csrfCookieToken returns the token in the request cookie, minting and
// setting a fresh one when the cookie is missing or malformed.
func csrfCookieToken(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(csrfCookieName); err == nil && len(cookie.Value) == base64.RawURLEncoding.EncodedLen(csrfTokenBytes) {
		return cookie.Value
	}

	cfg := ctxkeys.Config(r.Context())
	token := generateCSRFToken()
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(csrfCookieTTL / time.Second),
		HttpOnly: true,
		Secure:   cfg != nil && cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

func generateCSRFToken() string {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		panic("csrf: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

func sameToken(expected, actual string) bool {
	return expected != "" && actual != "" &&
		subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) == 1
}
