package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

var (
	ErrMissingJWTSecret  = errors.New("JWT_SECRET must be set")
	ErrMissingDBPassword = errors.New("DATABASE_URL or DB_PASSWORD must be set outside dev")
	ErrUnknownStorage    = errors.New("STORAGE must be postgres or memory")
)

type Config struct {
	Env     string
	Port    int
	Storage string

	DBURL        string
	DBMaxConns   int32
	DBAttempts   int
	AutoMigrate  bool
	dbPasswordOK bool

	JWTSecret    string
	JWTAccessTTL time.Duration
	BcryptCost   int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AuthRateLimit  int
	AuthRateWindow time.Duration
	MaxBodyBytes   int64

	OTelEnabled  bool
	OTelEndpoint string

	AdminEmail    string
	AdminPassword string
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	// a missing .env is the normal case outside local dev
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "dev")

	dbURL, passwordOK := buildDBURL(env)

	return Config{
		Env:          env,
		Port:         getEnvInt("PORT", 8080),
		Storage:      getEnv("STORAGE", StoragePostgres),
		DBURL:        dbURL,
		DBMaxConns:   int32(getEnvInt("DB_MAX_CONNS", 5)),
		DBAttempts:   getEnvInt("DB_CONNECT_ATTEMPTS", 5),
		AutoMigrate:  getEnvBool("DB_AUTO_MIGRATE", env == "dev"),
		dbPasswordOK: passwordOK,

		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTAccessTTL: getEnvDuration("JWT_ACCESS_TTL", 7*24*time.Hour),
		BcryptCost:   getEnvInt("BCRYPT_COST", 10),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		AuthRateLimit:  getEnvInt("AUTH_RATE_LIMIT", 10),
		AuthRateWindow: getEnvDuration("AUTH_RATE_WINDOW", time.Minute),
		MaxBodyBytes:   int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),

		OTelEnabled:  getEnvBool("OTEL_ENABLED", false),
		OTelEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
}

// Validate reports configuration that must not fall back to a baked-in default.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}

	switch c.Storage {
	case StoragePostgres:
		if !c.dbPasswordOK && c.Env != "dev" {
			return ErrMissingDBPassword
		}
	case StorageMemory:
	default:
		return fmt.Errorf("%w: got %q", ErrUnknownStorage, c.Storage)
	}

	return nil
}

func (c Config) UseRedis() bool {
	return c.RedisAddr != ""
}

func buildDBURL(env string) (string, bool) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v, true
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "fittrack")
	name := getEnv("DB_NAME", "fittrack")
	ssl := getEnv("DB_SSLMODE", "disable")

	pass, ok := os.LookupEnv("DB_PASSWORD")
	if !ok && env == "dev" {
		// local docker-compose credentials
		pass = "fittrack"
	}

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl, ok
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	num, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}

	return num
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid boolean in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}

	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}

	return d
}
