package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"
	"github.com/waktunyapuasa/puasa/internal/calendar"
	"github.com/waktunyapuasa/puasa/internal/config"
	"github.com/waktunyapuasa/puasa/internal/db"
	"github.com/waktunyapuasa/puasa/internal/model"
	"github.com/waktunyapuasa/puasa/internal/repository"
	"github.com/waktunyapuasa/puasa/internal/service"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB // nil unless CHECKIN_STORE=sql
	Calendar        *calendar.Calendar
	CheckinRepo     repository.CheckinRepository
	CheckinService  *service.CheckinService
	ProgressService *service.ProgressService
	CalendarService *service.CalendarService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	cal, err := loadCalendar(cfg)
	if err != nil {
		return nil, err
	}

	var database *sqlx.DB
	var dayRepository repository.RamadanDayRepository
	if cfg.CheckinStore == model.StoreSQL {
		database, err = db.Init(cfg.DBDriver, cfg.DBConnection)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %v", err)
		}

		err = db.RunMigrations(database.DB, cfg.DBDriver)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %v", err)
		}
		dayRepository = repository.NewRamadanDayRepository(database)
	}

	checkinRepository, err := repository.NewCheckinStore(ctx, cfg, database)
	if err != nil {
		db.Close(database)
		return nil, fmt.Errorf("failed to initialize checkin store: %v", err)
	}

	return &App{
		Cfg:             cfg,
		DB:              database,
		Calendar:        cal,
		CheckinRepo:     checkinRepository,
		CheckinService:  service.NewCheckinService(checkinRepository, cfg.StoreTimeout),
		ProgressService: service.NewProgressService(cal, checkinRepository, cfg.StoreTimeout),
		CalendarService: service.NewCalendarService(cal, dayRepository),
	}, nil
}

func loadCalendar(cfg *config.Config) (*calendar.Calendar, error) {
	if cfg.CalendarFile == "" {
		return calendar.Default(), nil
	}
	cal, err := calendar.Load(cfg.CalendarFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar file: %v", err)
	}
	return cal, nil
}

func (a *App) Close() error {
	var errs []error
	if closer, ok := a.CheckinRepo.(io.Closer); ok {
		errs = append(errs, closer.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
