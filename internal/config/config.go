package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/waktunyapuasa/puasa/internal/dateiso"
	"github.com/waktunyapuasa/puasa/internal/model"
)

type Config struct {
	// Application
	AppName         string
	AppEnv          string
	Port            string
	DefaultTimeZone string
	CalendarFile    string // Optional YAML extending the built-in Ramadan table

	// Check-in store: "sql" (default), "mongo", "redis" or "s3"
	CheckinStore string
	StoreTimeout time.Duration

	// SQL store (driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Mongo store
	MongoURI      string
	MongoDatabase string

	// Redis store
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	// S3 store (S3-compatible: MinIO, AWS S3, Cloudflare R2, etc.)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string // Optional: for S3-compatible services
	S3Prefix    string

	// Rate limiting for check-in submissions, per client IP
	SubmitRateLimit  int
	SubmitRateWindow time.Duration

	// Observability (optional)
	SentryDSN string
	LogFile   string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:         envString("APP_NAME", "Waktunya Puasa"),
		AppEnv:          envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:            envString("PORT", "8090"),
		DefaultTimeZone: envString("DEFAULT_TIMEZONE", "Asia/Kuala_Lumpur"),
		CalendarFile:    envString("CALENDAR_FILE", ""),

		// Check-in store
		CheckinStore: envString("CHECKIN_STORE", model.StoreSQL),
		StoreTimeout: envDuration("STORE_TIMEOUT", 5*time.Second),

		// SQL
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/puasa.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"),

		// Mongo
		MongoURI:      envString("MONGO_URI", ""),
		MongoDatabase: envString("MONGO_DATABASE", "puasa"),

		// Redis
		RedisAddr:     envString("REDIS_ADDR", "localhost:6379"),
		RedisPassword: envString("REDIS_PASSWORD", ""),
		RedisDB:       envInt("REDIS_DB", 0),
		RedisPrefix:   envString("REDIS_PREFIX", "puasaTracker"),

		// S3
		S3Region:    envString("S3_REGION", "us-east-1"),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""), // Optional: for non-AWS providers
		S3Prefix:    envString("S3_PREFIX", "checkins"),

		// Rate limiting
		SubmitRateLimit:  envInt("SUBMIT_RATE_LIMIT", 30),
		SubmitRateWindow: envDuration("SUBMIT_RATE_WINDOW", time.Minute),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
		LogFile:   envString("LOG_FILE", ""),
	}

	err = cfg.Validate()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	return cfg
}

// Validate checks the default time zone and that the selected check-in
// store has what it needs.
func (c *Config) Validate() error {
	if c.DefaultTimeZone != "" && !dateiso.ValidTimeZone(c.DefaultTimeZone) {
		return fmt.Errorf("DEFAULT_TIMEZONE %q is not a known IANA zone", c.DefaultTimeZone)
	}

	switch c.CheckinStore {
	case model.StoreSQL:
		if c.DBConnection == "" {
			return fmt.Errorf("CHECKIN_STORE=sql requires DB_CONNECTION")
		}
	case model.StoreMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("CHECKIN_STORE=mongo requires MONGO_URI")
		}
	case model.StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("CHECKIN_STORE=redis requires REDIS_ADDR")
		}
	case model.StoreS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("CHECKIN_STORE=s3 requires S3_BUCKET")
		}
	default:
		return fmt.Errorf("unknown CHECKIN_STORE %q (supported: sql, mongo, redis, s3)", c.CheckinStore)
	}

	if c.IsProduction() && c.CheckinStore == model.StoreSQL && c.DBDriver == "sqlite" {
		slog.Warn("production is using a local sqlite store; check-ins are not shared across instances")
	}

	return nil
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Sanitized returns a copy of the config with only public/safe fields.
// Safe to expose in ctx and templates.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:         c.AppName,
		AppEnv:          c.AppEnv,
		Port:            c.Port,
		DefaultTimeZone: c.DefaultTimeZone,
		CheckinStore:    c.CheckinStore,
	}
}
