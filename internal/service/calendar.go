package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/waktunyapuasa/puasa/internal/calendar"
	"github.com/waktunyapuasa/puasa/internal/model"
	"github.com/waktunyapuasa/puasa/internal/repository"
)

type CalendarService struct {
	calendar *calendar.Calendar
	dayRepo  repository.RamadanDayRepository
}

// NewCalendarService wires the window table. dayRepo may be nil when the
// check-in store is not sql; SeedDays then reports ErrDaysStoreDisabled.
func NewCalendarService(cal *calendar.Calendar, dayRepo repository.RamadanDayRepository) *CalendarService {
	return &CalendarService{
		calendar: cal,
		dayRepo:  dayRepo,
	}
}

func (s *CalendarService) Window(year int) (model.RamadanWindow, bool) {
	return s.calendar.Lookup(year)
}

func (s *CalendarService) Windows() []model.RamadanWindow {
	return s.calendar.Windows()
}

// SeedDays materialises the numbered days of year's window once.
func (s *CalendarService) SeedDays(ctx context.Context, year int) (*model.SeedResult, error) {
	window, ok := s.calendar.Lookup(year)
	if !ok {
		return &model.SeedResult{OK: false, Reason: model.ReasonUnsupportedYear}, nil
	}
	if s.dayRepo == nil {
		return nil, ErrDaysStoreDisabled
	}

	result := &model.SeedResult{
		OK:         true,
		StartDate:  window.StartDate,
		LengthDays: window.LengthDays,
	}

	exists, err := s.dayRepo.HasYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to check ramadan days: %w", err)
	}
	if exists {
		return result, nil
	}

	err = s.dayRepo.CreateDays(ctx, calendar.Days(window))
	if err != nil {
		return nil, fmt.Errorf("failed to seed ramadan days: %w", err)
	}

	slog.Info("seeded ramadan days", "year", year, "days", window.LengthDays)
	result.Seeded = true
	return result, nil
}

// Days returns the seeded days of year, or nil if none are seeded.
func (s *CalendarService) Days(ctx context.Context, year int) ([]*model.RamadanDay, error) {
	if s.dayRepo == nil {
		return nil, ErrDaysStoreDisabled
	}
	return s.dayRepo.Days(ctx, year)
}
