package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/waktunyapuasa/puasa/internal/model"
)

var (
	ErrCheckinNotFound = errors.New("checkin not found")
	ErrCheckinExists   = errors.New("checkin already exists")
)

// CheckinRepository stores write-once check-ins keyed by (year, date).
//
// There is deliberately no update or delete. InsertIfAbsent must be atomic:
// of any number of concurrent inserts for one key exactly one succeeds and
// the rest get ErrCheckinExists.
type CheckinRepository interface {
	Checkin(ctx context.Context, year int, dateISO string) (*model.Checkin, error)
	Checkins(ctx context.Context, year int) ([]*model.Checkin, error)
	InsertIfAbsent(ctx context.Context, checkin *model.Checkin) error
}

type checkinRepository struct {
	db *sqlx.DB
}

// NewCheckinRepository returns the SQL store. Uniqueness comes from the
// UNIQUE (year, date_iso) constraint on fast_checkins.
func NewCheckinRepository(db *sqlx.DB) CheckinRepository {
	return &checkinRepository{db: db}
}

func (r *checkinRepository) Checkin(ctx context.Context, year int, dateISO string) (*model.Checkin, error) {
	checkin := &model.Checkin{}
	query := `SELECT * FROM fast_checkins WHERE year = $1 AND date_iso = $2`

	err := r.db.GetContext(ctx, checkin, query, year, dateISO)
	if err == sql.ErrNoRows {
		return nil, ErrCheckinNotFound
	}
	if err != nil {
		return nil, err
	}

	return checkin, nil
}

func (r *checkinRepository) Checkins(ctx context.Context, year int) ([]*model.Checkin, error) {
	var checkins []*model.Checkin
	query := `SELECT * FROM fast_checkins WHERE year = $1 ORDER BY date_iso ASC`

	err := r.db.SelectContext(ctx, &checkins, query, year)
	if err != nil {
		return nil, err
	}

	return checkins, nil
}

func (r *checkinRepository) InsertIfAbsent(ctx context.Context, checkin *model.Checkin) error {
	query := `INSERT INTO fast_checkins (id, year, date_iso, status, reason, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (year, date_iso) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query,
		checkin.ID,
		checkin.Year,
		checkin.DateISO,
		checkin.Status,
		checkin.Reason,
		checkin.CreatedAt,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrCheckinExists
	}

	return nil
}
