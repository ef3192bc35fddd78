package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/waktunyapuasa/puasa/internal/dateiso"
	"github.com/waktunyapuasa/puasa/internal/model"
	"github.com/waktunyapuasa/puasa/internal/repository"
	"github.com/waktunyapuasa/puasa/internal/validation"
)

var (
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidStatus     = errors.New("invalid status: must be fasting or not_fasting")
	ErrStoreUnavailable  = errors.New("checkin store unavailable")
	ErrDaysStoreDisabled = errors.New("ramadan days require the sql store")
)

type SubmitCheckin struct {
	Year    int
	DateISO string
	Status  model.CheckinStatus
	Reason  *string
}

type CheckinService struct {
	repo    repository.CheckinRepository
	timeout time.Duration
	now     func() time.Time
}

func NewCheckinService(repo repository.CheckinRepository, timeout time.Duration) *CheckinService {
	return &CheckinService{
		repo:    repo,
		timeout: timeout,
		now:     time.Now,
	}
}

func (s *CheckinService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Submit records the answer for (year, date) unless one already exists.
// Refusals are returned as results; only store failures and malformed
// input are errors.
func (s *CheckinService) Submit(ctx context.Context, in SubmitCheckin) (*model.SubmitResult, error) {
	err := validateKey(in.Year, in.DateISO)
	if err != nil {
		return nil, err
	}
	if !in.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err = s.repo.Checkin(ctx, in.Year, in.DateISO)
	if err == nil {
		return model.Rejected(model.RejectLocked), nil
	}
	if !errors.Is(err, repository.ErrCheckinNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	// A reason is only kept for not fasting; anything sent with fasting is dropped.
	var reason *string
	if in.Status == model.CheckinStatusNotFasting {
		raw := ""
		if in.Reason != nil {
			raw = *in.Reason
		}
		trimmed, err := validation.ValidateReason(raw)
		if err != nil {
			return model.Rejected(model.RejectReasonTooShort), nil
		}
		reason = &trimmed
	}

	checkin := &model.Checkin{
		ID:        uuid.New().String(),
		Year:      in.Year,
		DateISO:   in.DateISO,
		Status:    in.Status,
		Reason:    reason,
		CreatedAt: s.now().UTC(),
	}

	err = s.repo.InsertIfAbsent(ctx, checkin)
	if errors.Is(err, repository.ErrCheckinExists) {
		slog.Info("checkin lost insert race", "year", in.Year, "date", in.DateISO)
		return model.Rejected(model.RejectLocked), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	slog.Info("checkin recorded", "year", in.Year, "date", in.DateISO, "status", in.Status)
	return model.Accepted(), nil
}

// Checkin returns the record for (year, date), or nil when there is none.
// Store failures are logged and reported as no record.
func (s *CheckinService) Checkin(ctx context.Context, year int, dateISO string) (*model.Checkin, error) {
	err := validateKey(year, dateISO)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	checkin, err := s.repo.Checkin(ctx, year, dateISO)
	if errors.Is(err, repository.ErrCheckinNotFound) {
		return nil, nil
	}
	if err != nil {
		slog.Warn("failed to read checkin, treating as absent", "error", err, "year", year, "date", dateISO)
		return nil, nil
	}
	return checkin, nil
}

// Checkins lists a year's records ordered by date. Store failures yield an empty list.
func (s *CheckinService) Checkins(ctx context.Context, year int) ([]*model.Checkin, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	checkins, err := s.repo.Checkins(ctx, year)
	if err != nil {
		slog.Warn("failed to list checkins, treating as empty", "error", err, "year", year)
		return []*model.Checkin{}, nil
	}
	if checkins == nil {
		checkins = []*model.Checkin{}
	}
	return checkins, nil
}

func validateKey(year int, dateISO string) error {
	if !dateiso.Valid(dateISO) {
		return fmt.Errorf("%w: %q", ErrInvalidDate, dateISO)
	}
	if year <= 0 {
		return fmt.Errorf("%w: year %d", ErrInvalidDate, year)
	}
	return nil
}
