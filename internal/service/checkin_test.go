package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waktunyapuasa/puasa/internal/model"
	"github.com/waktunyapuasa/puasa/internal/repository"
)

func strPtr(s string) *string { return &s }

func newTestCheckinService(repo repository.CheckinRepository) *CheckinService {
	s := NewCheckinService(repo, time.Second)
	s.now = func() time.Time { return time.Date(2026, 2, 19, 6, 30, 0, 0, time.UTC) }
	return s
}

func TestSubmitAcceptsFirstAnswer(t *testing.T) {
	ctx := context.Background()
	repo := newFakeCheckinRepository()
	s := newTestCheckinService(repo)

	result, err := s.Submit(ctx, SubmitCheckin{Year: 2026, DateISO: "2026-02-19", Status: model.CheckinStatusFasting})
	require.NoError(t, err)
	assert.Equal(t, model.Accepted(), result)

	got, err := s.Checkin(ctx, 2026, "2026-02-19")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.CheckinStatusFasting, got.Status)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, time.Date(2026, 2, 19, 6, 30, 0, 0, time.UTC), got.CreatedAt)
}

func TestSubmitIsWriteOnce(t *testing.T) {
	ctx := context.Background()
	repo := newFakeCheckinRepository()
	s := newTestCheckinService(repo)

	_, err := s.Submit(ctx, SubmitCheckin{Year: 2026, DateISO: "2026-02-19", Status: model.CheckinStatusFasting})
	require.NoError(t, err)

	attempts := []SubmitCheckin{
		{Year: 2026, DateISO: "2026-02-19", Status: model.CheckinStatusFasting},
		{Year: 2026, DateISO: "2026-02-19", Status: model.CheckinStatusNotFasting, Reason: strPtr("sick")},
		{Year: 2026, DateISO: "2026-02-19", Status: model.CheckinStatusNotFasting, Reason: strPtr("travelling far")},
	}
	for _, attempt := range attempts {
		result, err := s.Submit(ctx, attempt)
		require.NoError(t, err)
		assert.Equal(t, model.Rejected(model.RejectLocked), result)
	}

	got, err := s.Checkin(ctx, 2026, "2026-02-19")
	require.NoError(t, err)
	assert.Equal(t, model.CheckinStatusFasting, got.Status)
	assert.Equal(t, 1, repo.inserts)
}

func TestSubmitReasonLength(t *testing.T) {
	for n := 0; n <= 7; n++ {
		reason := "  " + strings.Repeat("x", n) + "  "
		t.Run(reason, func(t *testing.T) {
			ctx := context.Background()
			repo := newFakeCheckinRepository()
			s := newTestCheckinService(repo)

			result, err := s.Submit(ctx, SubmitCheckin{
				Year:    2026,
				DateISO: "2026-02-20",
				Status:  model.CheckinStatusNotFasting,
				Reason:  &reason,
			})
			require.NoError(t, err)

			if n < 5 {
				assert.Equal(t, model.Rejected(model.RejectReasonTooShort), result)
				assert.Zero(t, repo.inserts, "store must not be touched")
				return
			}

			assert.True(t, result.OK)
			got, err := s.Checkin(ctx, 2026, "2026-02-20")
			require.NoError(t, err)
			require.NotNil(t, got.Reason)
			assert.Equal(t, strings.Repeat("x", n), *got.Reason)
		})
	}
}

func TestSubmitMissingReason(t *testing.T) {
	s := newTestCheckinService(newFakeCheckinRepository())

	result, err := s.Submit(context.Background(), SubmitCheckin{Year: 2026, DateISO: "2026-02-20", Status: model.CheckinStatusNotFasting})
	require.NoError(t, err)
	assert.Equal(t, model.Rejected(model.RejectReasonTooShort), result)
}

func TestSubmitLockBeatsReasonValidation(t *testing.T) {
	ctx := context.Background()
	repo := newFakeCheckinRepository()
	s := newTestCheckinService(repo)

	_, err := s.Submit(ctx, SubmitCheckin{Year: 2026, DateISO: "2026-02-19", Status: model.CheckinStatusFasting})
	require.NoError(t, err)

	result, err := s.Submit(ctx, SubmitCheckin{Year: 2026, DateISO: "2026-02-19", Status: model.CheckinStatusNotFasting, Reason: strPtr("no")})
	require.NoError(t, err)
	assert.Equal(t, model.Rejected(model.RejectLocked), result)
}

func TestSubmitFastingDropsReason(t *testing.T) {
	ctx := context.Background()
	s := newTestCheckinService(newFakeCheckinRepository())

	result, err := s.Submit(ctx, SubmitCheckin{
		Year:    2026,
		DateISO: "2026-02-21",
		Status:  model.CheckinStatusFasting,
		Reason:  strPtr("this should be ignored"),
	})
	require.NoError(t, err)
	assert.True(t, result.OK)

	got, err := s.Checkin(ctx, 2026, "2026-02-21")
	require.NoError(t, err)
	assert.Nil(t, got.Reason)
}

func TestSubmitLostRaceIsLocked(t *testing.T) {
	ctx := context.Background()
	repo := newFakeCheckinRepository()
	// Another client answers between our read and our insert.
	repo.insertFn = func(c *model.Checkin) error {
		repo.insertFn = nil
		repo.put(&model.Checkin{ID: "other", Year: c.Year, DateISO: c.DateISO, Status: model.CheckinStatusNotFasting})
		return nil
	}
	s := newTestCheckinService(repo)

	result, err := s.Submit(ctx, SubmitCheckin{Year: 2026, DateISO: "2026-02-22", Status: model.CheckinStatusFasting})
	require.NoError(t, err)
	assert.Equal(t, model.Rejected(model.RejectLocked), result)

	got, err := s.Checkin(ctx, 2026, "2026-02-22")
	require.NoError(t, err)
	assert.Equal(t, "other", got.ID)
}

func TestSubmitStoreFailureIsError(t *testing.T) {
	ctx := context.Background()

	repo := newFakeCheckinRepository()
	repo.getErr = errStoreDown
	s := newTestCheckinService(repo)
	_, err := s.Submit(ctx, SubmitCheckin{Year: 2026, DateISO: "2026-02-19", Status: model.CheckinStatusFasting})
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	repo = newFakeCheckinRepository()
	repo.insertFn = func(*model.Checkin) error { return errStoreDown }
	s = newTestCheckinService(repo)
	_, err = s.Submit(ctx, SubmitCheckin{Year: 2026, DateISO: "2026-02-19", Status: model.CheckinStatusFasting})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestSubmitRejectsMalformedInput(t *testing.T) {
	s := newTestCheckinService(newFakeCheckinRepository())
	ctx := context.Background()

	_, err := s.Submit(ctx, SubmitCheckin{Year: 2026, DateISO: "19-02-2026", Status: model.CheckinStatusFasting})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = s.Submit(ctx, SubmitCheckin{Year: 2026, DateISO: "2026-02-19", Status: "maybe"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestCheckinReadDegradesToAbsent(t *testing.T) {
	repo := newFakeCheckinRepository()
	repo.getErr = errors.New("corrupt record")
	repo.listErr = errors.New("corrupt record")
	s := newTestCheckinService(repo)

	got, err := s.Checkin(context.Background(), 2026, "2026-02-19")
	require.NoError(t, err)
	assert.Nil(t, got)

	all, err := s.Checkins(context.Background(), 2026)
	require.NoError(t, err)
	assert.Empty(t, all)
}
