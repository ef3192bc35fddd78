package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/waktunyapuasa/puasa/internal/model"
)

// RedisCheckinRepository keeps one hash per year, field = date, value = JSON
// record, the same layout the browser keeps under puasaTracker:<year>:checkins.
// HSETNX gives the atomic insert.
type RedisCheckinRepository struct {
	client *redis.Client
	prefix string
}

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

func NewRedisCheckinRepository(ctx context.Context, opts RedisOptions) (*RedisCheckinRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		MinIdleConns: 2,
		MaxRetries:   3,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := client.Ping(pingCtx).Err()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	slog.Info("redis checkin store connected", "addr", opts.Addr, "db", opts.DB)
	return newRedisCheckinRepository(client, opts.Prefix), nil
}

func newRedisCheckinRepository(client *redis.Client, prefix string) *RedisCheckinRepository {
	if prefix == "" {
		prefix = "puasaTracker"
	}
	return &RedisCheckinRepository{client: client, prefix: prefix}
}

func (r *RedisCheckinRepository) key(year int) string {
	return strings.Join([]string{r.prefix, strconv.Itoa(year), "checkins"}, ":")
}

func (r *RedisCheckinRepository) Checkin(ctx context.Context, year int, dateISO string) (*model.Checkin, error) {
	raw, err := r.client.HGet(ctx, r.key(year), dateISO).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCheckinNotFound
	}
	if err != nil {
		return nil, err
	}

	checkin, err := decodeCheckin([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("corrupt checkin %s/%s: %w", r.key(year), dateISO, err)
	}
	return checkin, nil
}

// Checkins skips fields that no longer decode rather than failing the whole year.
func (r *RedisCheckinRepository) Checkins(ctx context.Context, year int) ([]*model.Checkin, error) {
	all, err := r.client.HGetAll(ctx, r.key(year)).Result()
	if err != nil {
		return nil, err
	}

	checkins := make([]*model.Checkin, 0, len(all))
	for dateISO, raw := range all {
		checkin, err := decodeCheckin([]byte(raw))
		if err != nil {
			slog.Warn("skipping corrupt checkin", "key", r.key(year), "date", dateISO, "error", err)
			continue
		}
		checkins = append(checkins, checkin)
	}

	sort.Slice(checkins, func(i, j int) bool { return checkins[i].DateISO < checkins[j].DateISO })
	return checkins, nil
}

func (r *RedisCheckinRepository) InsertIfAbsent(ctx context.Context, checkin *model.Checkin) error {
	raw, err := encodeCheckin(checkin)
	if err != nil {
		return fmt.Errorf("failed to encode checkin: %w", err)
	}

	inserted, err := r.client.HSetNX(ctx, r.key(checkin.Year), checkin.DateISO, raw).Result()
	if err != nil {
		return err
	}
	if !inserted {
		return ErrCheckinExists
	}
	return nil
}

func (r *RedisCheckinRepository) Close() error {
	return r.client.Close()
}
