package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/waktunyapuasa/puasa/internal/config"
	"github.com/waktunyapuasa/puasa/internal/model"
)

// NewCheckinStore creates the check-in store selected by configuration.
// database is only used by the sql backend and may be nil otherwise.
func NewCheckinStore(ctx context.Context, cfg *config.Config, database *sqlx.DB) (CheckinRepository, error) {
	store := cfg.CheckinStore

	slog.Info("initializing checkin store", "store", store)

	switch store {
	case model.StoreSQL:
		if database == nil {
			return nil, fmt.Errorf("sql checkin store requires a database connection")
		}
		return NewCheckinRepository(database), nil

	case model.StoreMongo:
		repo, err := NewMongoCheckinRepository(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return repo, nil

	case model.StoreRedis:
		repo, err := NewRedisCheckinRepository(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
		if err != nil {
			return nil, err
		}
		return repo, nil

	case model.StoreS3:
		repo, err := NewS3CheckinRepository(ctx, S3Options{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
			Prefix:    cfg.S3Prefix,
		})
		if err != nil {
			return nil, err
		}
		return repo, nil

	default:
		return nil, fmt.Errorf("unknown checkin store: %s (supported: sql, mongo, redis, s3)", store)
	}
}
