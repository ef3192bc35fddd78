package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/waktunyapuasa/puasa/internal/ctxkeys"
	"github.com/waktunyapuasa/puasa/internal/dateiso"
)

const maxRequestBody = 4 << 10

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(v)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body too large")
		}
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

// today is the calendar date of now in the request's resolved time zone.
func today(r *http.Request, now func() time.Time) string {
	return dateiso.Format(now(), ctxkeys.Location(r.Context()))
}

// queryDate reads a date query parameter, falling back to def when absent.
func queryDate(r *http.Request, key, def string) (string, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	if !dateiso.Valid(v) {
		return "", fmt.Errorf("%s must be a YYYY-MM-DD date", key)
	}
	return v, nil
}

// queryYear reads the year query parameter, defaulting to the year of date.
func queryYear(r *http.Request, date string) (int, error) {
	v := r.URL.Query().Get("year")
	if v == "" {
		return dateiso.Year(date)
	}
	return parseYear(v)
}

func parseYear(v string) (int, error) {
	year, err := strconv.Atoi(v)
	if err != nil || year <= 0 {
		return 0, fmt.Errorf("year must be a positive integer")
	}
	return year, nil
}
