package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/waktunyapuasa/puasa/internal/ctxkeys"
	"github.com/waktunyapuasa/puasa/internal/dateiso"
	"github.com/waktunyapuasa/puasa/internal/model"
	"github.com/waktunyapuasa/puasa/internal/service"
	"github.com/waktunyapuasa/puasa/internal/ui"
	"github.com/waktunyapuasa/puasa/internal/ui/pages"
)

type HomeHandler struct {
	checkinService  *service.CheckinService
	progressService *service.ProgressService
	now             func() time.Time
}

func NewHomeHandler(checkinService *service.CheckinService, progressService *service.ProgressService) *HomeHandler {
	return &HomeHandler{
		checkinService:  checkinService,
		progressService: progressService,
		now:             time.Now,
	}
}

// clientDay is today in the request's zone plus the zone name and year.
type clientDay struct {
	Today    string
	Year     int
	TimeZone string
}

func (h *HomeHandler) clientDay(r *http.Request) clientDay {
	loc := ctxkeys.Location(r.Context())
	if loc == nil {
		loc = dateiso.ResolveTimeZone("", "")
	}
	t := h.now().In(loc)
	return clientDay{Today: t.Format(dateiso.Layout), Year: t.Year(), TimeZone: loc.String()}
}

func (h *HomeHandler) HomePage(w http.ResponseWriter, r *http.Request) {
	day := h.clientDay(r)

	summary, err := h.progressService.Summary(r.Context(), day.Year, day.Today)
	if err != nil {
		slog.Error("failed to compute progress", "error", err, "year", day.Year)
		http.Error(w, "Failed to load progress", http.StatusInternalServerError)
		return
	}
	checkpoints, err := h.progressService.Checkpoints(r.Context(), day.Year, day.Today)
	if err != nil {
		slog.Error("failed to compute checkpoints", "error", err, "year", day.Year)
		http.Error(w, "Failed to load progress", http.StatusInternalServerError)
		return
	}
	todayCheckin, _ := h.checkinService.Checkin(r.Context(), day.Year, day.Today)

	ui.Render(w, r, pages.Home(pages.HomeData{
		Year:         day.Year,
		Today:        day.Today,
		TimeZone:     day.TimeZone,
		Summary:      summary,
		Checkpoints:  checkpoints,
		TodayCheckin: todayCheckin,
	}))
}

// CheckInPage shows the form for today or, with ?date=, yesterday.
func (h *HomeHandler) CheckInPage(w http.ResponseWriter, r *http.Request) {
	day := h.clientDay(r)
	allowed, _ := dateiso.AllowedDates(day.Today)

	date := r.URL.Query().Get("date")
	if !allowed.Contains(date) {
		date = allowed.Today
	}

	data := h.checkInData(r, day, allowed, date)
	ui.Render(w, r, pages.CheckIn(data))
}

func (h *HomeHandler) CheckInSubmit(w http.ResponseWriter, r *http.Request) {
	day := h.clientDay(r)
	allowed, _ := dateiso.AllowedDates(day.Today)

	date := r.FormValue("date")
	status := model.CheckinStatus(r.FormValue("status"))
	reason := r.FormValue("reason")

	if !allowed.Contains(date) {
		data := h.checkInData(r, day, allowed, allowed.Today)
		data.Error = "Tanggal check-in hanya boleh hari ini atau kemarin."
		w.WriteHeader(http.StatusBadRequest)
		ui.Render(w, r, pages.CheckIn(data))
		return
	}

	result, err := h.checkinService.Submit(r.Context(), service.SubmitCheckin{
		Year:    day.Year,
		DateISO: date,
		Status:  status,
		Reason:  &reason,
	})

	data := h.checkInData(r, day, allowed, date)
	data.Status = status
	switch {
	case errors.Is(err, service.ErrStoreUnavailable):
		slog.Error("checkin page submit failed", "error", err, "date", date)
		data.Error = "Gagal simpan check-in."
		w.WriteHeader(http.StatusServiceUnavailable)
	case err != nil:
		data.Error = "Status check-in tidak sah."
		w.WriteHeader(http.StatusBadRequest)
	case result.OK:
		data.Saved = true
	case result.Reason == model.RejectLocked:
		data.Error = "Check-in untuk tanggal ini sudah dikunci."
		w.WriteHeader(http.StatusConflict)
	case result.Reason == model.RejectReasonTooShort:
		data.Error = "Alasan minimal 5 karakter."
		data.Reason = reason
		w.WriteHeader(http.StatusUnprocessableEntity)
	}

	ui.Render(w, r, pages.CheckIn(data))
}

func (h *HomeHandler) checkInData(r *http.Request, day clientDay, allowed dateiso.Allowed, date string) pages.CheckInData {
	existing, _ := h.checkinService.Checkin(r.Context(), day.Year, date)
	return pages.CheckInData{
		Year:     day.Year,
		TimeZone: day.TimeZone,
		Allowed:  []string{allowed.Today, allowed.Yesterday},
		Date:     date,
		Status:   model.CheckinStatusFasting,
		Existing: existing,
	}
}

func (h *HomeHandler) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	ui.Render(w, r, pages.NotFound())
}
