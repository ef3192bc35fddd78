package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/waktunyapuasa/puasa/internal/dateiso"
	"github.com/waktunyapuasa/puasa/internal/model"
	"github.com/waktunyapuasa/puasa/internal/service"
	"github.com/waktunyapuasa/puasa/internal/validation"
)

type CheckinHandler struct {
	checkinService *service.CheckinService
	now            func() time.Time
}

func NewCheckinHandler(checkinService *service.CheckinService) *CheckinHandler {
	return &CheckinHandler{
		checkinService: checkinService,
		now:            time.Now,
	}
}

// reasonStoreUnavailable tells API clients a submit may be retried.
const reasonStoreUnavailable model.RejectReason = "store_unavailable"

type submitCheckinRequest struct {
	Year   int     `json:"year" validate:"gte=0"`
	Date   string  `json:"date" validate:"required,isodate"`
	Status string  `json:"status" validate:"required,oneof=fasting not_fasting"`
	Reason *string `json:"reason"`
}

func (h *CheckinHandler) Get(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if !dateiso.Valid(date) {
		writeError(w, http.StatusBadRequest, "date must be a YYYY-MM-DD date")
		return
	}
	year, err := queryYear(r, date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	checkin, err := h.checkinService.Checkin(r.Context(), year, date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// A missing record is a normal answer, encoded as null
	writeJSON(w, http.StatusOK, checkin)
}

// List returns every record of a year ordered by date.
func (h *CheckinHandler) List(w http.ResponseWriter, r *http.Request) {
	year, err := queryYear(r, today(r, h.now))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	checkins, err := h.checkinService.Checkins(r.Context(), year)
	if err != nil {
		slog.Error("failed to list checkins", "error", err, "year", year)
		writeError(w, http.StatusInternalServerError, "failed to list checkins")
		return
	}

	if r.URL.Query().Get("download") != "" {
		w.Header().Set("Content-Disposition", "attachment; filename=checkins-export.json")
	}
	writeJSON(w, http.StatusOK, checkins)
}

func (h *CheckinHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitCheckinRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	err = validation.Struct(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	year := req.Year
	if year == 0 {
		year, _ = dateiso.Year(req.Date)
	}

	result, err := h.checkinService.Submit(r.Context(), service.SubmitCheckin{
		Year:    year,
		DateISO: req.Date,
		Status:  model.CheckinStatus(req.Status),
		Reason:  req.Reason,
	})
	switch {
	case errors.Is(err, service.ErrStoreUnavailable):
		slog.Error("checkin submit failed", "error", err, "year", year, "date", req.Date)
		writeJSON(w, http.StatusServiceUnavailable, model.Rejected(reasonStoreUnavailable))
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, submitStatus(result), result)
}

func submitStatus(result *model.SubmitResult) int {
	if result.OK {
		return http.StatusOK
	}
	switch result.Reason {
	case model.RejectLocked:
		return http.StatusConflict
	case model.RejectReasonTooShort:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}
