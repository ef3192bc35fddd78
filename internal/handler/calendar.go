package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/waktunyapuasa/puasa/internal/calendar"
	"github.com/waktunyapuasa/puasa/internal/model"
	"github.com/waktunyapuasa/puasa/internal/service"
)

type CalendarHandler struct {
	calendarService *service.CalendarService
}

func NewCalendarHandler(calendarService *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendarService,
	}
}

type windowResponse struct {
	model.RamadanWindow
	EndDate string `json:"endDate"`
}

type unsupportedYearResponse struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason"`
}

func toWindowResponse(w model.RamadanWindow) windowResponse {
	return windowResponse{RamadanWindow: w, EndDate: calendar.EndDate(w)}
}

func (h *CalendarHandler) Window(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(r.PathValue("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	window, ok := h.calendarService.Window(year)
	if !ok {
		writeJSON(w, http.StatusNotFound, unsupportedYearResponse{OK: false, Reason: model.ReasonUnsupportedYear})
		return
	}
	writeJSON(w, http.StatusOK, toWindowResponse(window))
}

func (h *CalendarHandler) Windows(w http.ResponseWriter, r *http.Request) {
	windows := h.calendarService.Windows()
	out := make([]windowResponse, 0, len(windows))
	for _, window := range windows {
		out = append(out, toWindowResponse(window))
	}
	writeJSON(w, http.StatusOK, out)
}

// Days lists the seeded day rows of a year. An unseeded year is an empty list.
func (h *CalendarHandler) Days(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(r.PathValue("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, ok := h.calendarService.Window(year); !ok {
		writeJSON(w, http.StatusNotFound, unsupportedYearResponse{OK: false, Reason: model.ReasonUnsupportedYear})
		return
	}

	days, err := h.calendarService.Days(r.Context(), year)
	switch {
	case errors.Is(err, service.ErrDaysStoreDisabled):
		writeError(w, http.StatusNotImplemented, err.Error())
		return
	case err != nil:
		slog.Error("failed to list ramadan days", "year", year, "error", err)
		writeJSON(w, http.StatusServiceUnavailable, model.Rejected(reasonStoreUnavailable))
		return
	}

	if days == nil {
		days = []*model.RamadanDay{}
	}
	writeJSON(w, http.StatusOK, days)
}
