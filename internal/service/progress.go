package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/waktunyapuasa/puasa/internal/calendar"
	"github.com/waktunyapuasa/puasa/internal/dateiso"
	"github.com/waktunyapuasa/puasa/internal/model"
	"github.com/waktunyapuasa/puasa/internal/repository"
)

type ProgressService struct {
	calendar *calendar.Calendar
	repo     repository.CheckinRepository
	timeout  time.Duration
}

func NewProgressService(cal *calendar.Calendar, repo repository.CheckinRepository, timeout time.Duration) *ProgressService {
	return &ProgressService{
		calendar: cal,
		repo:     repo,
		timeout:  timeout,
	}
}

// Summary reports progress through year's window as of asOf. Records dated
// after asOf never count, even when they fall inside the window.
func (s *ProgressService) Summary(ctx context.Context, year int, asOf string) (*model.ProgressSummary, error) {
	if !dateiso.Valid(asOf) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, asOf)
	}

	window, ok := s.calendar.Lookup(year)
	if !ok {
		return model.UnsupportedYearSummary(), nil
	}

	start := window.StartDate
	fastingCount := 0
	for _, c := range s.checkins(ctx, year) {
		if dateiso.Compare(c.DateISO, start) >= 0 && dateiso.Compare(c.DateISO, asOf) <= 0 && c.IsFasting() {
			fastingCount++
		}
	}

	return &model.ProgressSummary{
		OK:           true,
		TotalDays:    window.LengthDays,
		DaysSoFar:    daysSoFar(window, asOf),
		FastingCount: fastingCount,
		StartDate:    &start,
	}, nil
}

// daysSoFar is the 1-based day of the window asOf falls on, clamped to [0, length].
func daysSoFar(window model.RamadanWindow, asOf string) int {
	if dateiso.Compare(asOf, window.StartDate) < 0 {
		return 0
	}
	diff, err := dateiso.DaysBetween(window.StartDate, asOf)
	if err != nil {
		return 0
	}
	return min(max(diff+1, 0), window.LengthDays)
}

// Checkpoints lists every day of year's window relative to today, marking
// the days answered as fasting.
func (s *ProgressService) Checkpoints(ctx context.Context, year int, today string) ([]model.DayCheckpoint, error) {
	if !dateiso.Valid(today) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, today)
	}

	window, ok := s.calendar.Lookup(year)
	if !ok {
		return []model.DayCheckpoint{}, nil
	}

	fasting := make(map[string]bool)
	for _, c := range s.checkins(ctx, year) {
		if c.IsFasting() {
			fasting[c.DateISO] = true
		}
	}

	days := calendar.Days(window)
	checkpoints := make([]model.DayCheckpoint, 0, len(days))
	for _, day := range days {
		state := model.DayStateFuture
		switch cmp := dateiso.Compare(day.DateISO, today); {
		case cmp == 0:
			state = model.DayStateToday
		case cmp < 0:
			state = model.DayStatePast
		}
		checkpoints = append(checkpoints, model.DayCheckpoint{
			DayNumber: day.DayNumber,
			DateISO:   day.DateISO,
			State:     state,
			Checked:   fasting[day.DateISO],
		})
	}
	return checkpoints, nil
}

// checkins reads a year's records, treating an unavailable store as empty.
func (s *ProgressService) checkins(ctx context.Context, year int) []*model.Checkin {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	checkins, err := s.repo.Checkins(ctx, year)
	if err != nil {
		slog.Warn("failed to load checkins for progress, treating as empty", "error", err, "year", year)
		return nil
	}
	return checkins
}
