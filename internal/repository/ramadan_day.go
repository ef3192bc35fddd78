package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/waktunyapuasa/puasa/internal/model"
)

type RamadanDayRepository interface {
	HasYear(ctx context.Context, year int) (bool, error)
	CreateDays(ctx context.Context, days []model.RamadanDay) error
	Days(ctx context.Context, year int) ([]*model.RamadanDay, error)
}

type ramadanDayRepository struct {
	db *sqlx.DB
}

func NewRamadanDayRepository(db *sqlx.DB) RamadanDayRepository {
	return &ramadanDayRepository{db: db}
}

func (r *ramadanDayRepository) HasYear(ctx context.Context, year int) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM ramadan_days WHERE year = $1`
	err := r.db.QueryRowContext(ctx, query, year).Scan(&count)
	return count > 0, err
}

// CreateDays inserts all days in one transaction.
func (r *ramadanDayRepository) CreateDays(ctx context.Context, days []model.RamadanDay) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO ramadan_days (id, year, date_iso, day_number)
	          VALUES ($1, $2, $3, $4)`

	for _, day := range days {
		id := day.ID
		if id == "" {
			id = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx, query, id, day.Year, day.DateISO, day.DayNumber)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *ramadanDayRepository) Days(ctx context.Context, year int) ([]*model.RamadanDay, error) {
	var days []*model.RamadanDay
	query := `SELECT * FROM ramadan_days WHERE year = $1 ORDER BY day_number ASC`

	err := r.db.SelectContext(ctx, &days, query, year)
	if err != nil {
		return nil, err
	}

	return days, nil
}
