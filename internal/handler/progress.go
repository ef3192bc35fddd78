package handler

import (
	"net/http"
	"time"

	"github.com/waktunyapuasa/puasa/internal/service"
)

type ProgressHandler struct {
	progressService *service.ProgressService
	now             func() time.Time
}

func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
		now:             time.Now,
	}
}

// Summary answers with ok=false for unsupported years rather than an error status.
func (h *ProgressHandler) Summary(w http.ResponseWriter, r *http.Request) {
	asOf, err := queryDate(r, "asOf", today(r, h.now))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	year, err := queryYear(r, asOf)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.progressService.Summary(r.Context(), year, asOf)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *ProgressHandler) Checkpoints(w http.ResponseWriter, r *http.Request) {
	day, err := queryDate(r, "today", today(r, h.now))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	year, err := queryYear(r, day)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	checkpoints, err := h.progressService.Checkpoints(r.Context(), year, day)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, checkpoints)
}
