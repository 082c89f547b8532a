package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverR2       = "r2"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	ServerPort int    `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	StorageDriver  string        `env:"STORAGE_DRIVER" envDefault:"file"`
	StateFile      string        `env:"STATE_FILE" envDefault:"scoremaster.json"`
	PersistTimeout time.Duration `env:"PERSIST_TIMEOUT" envDefault:"5s"`

	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"scoremaster.db"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisKey      string `env:"REDIS_KEY" envDefault:"scoremaster:state"`

	R2AccountID       string `env:"R2_ACCOUNT_ID"`
	R2AccessKeyID     string `env:"R2_ACCESS_KEY_ID"`
	R2SecretAccessKey string `env:"R2_SECRET_ACCESS_KEY"`
	R2BucketName      string `env:"R2_BUCKET_NAME"`
	R2StateKey        string `env:"R2_STATE_KEY" envDefault:"state/scoremaster.json"`

	AccessPIN    string        `env:"ACCESS_PIN"`
	JWTSecretKey string        `env:"JWT_SECRET_KEY"`
	JWTTTL       time.Duration `env:"JWT_TTL" envDefault:"720h"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	// Ошибку не считаем фатальной: .env нужен только локально.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.PersistTimeout <= 0 {
		errs = append(errs, errors.New("PERSIST_TIMEOUT must be positive"))
	}

	switch c.StorageDriver {
	case DriverMemory:
	case DriverFile:
		if c.StateFile == "" {
			errs = append(errs, errors.New("STATE_FILE is required for the file driver"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL environment variable is not set"))
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite driver"))
		}
	case DriverRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for the redis driver"))
		}
	case DriverR2:
		if c.R2AccountID == "" || c.R2AccessKeyID == "" || c.R2SecretAccessKey == "" || c.R2BucketName == "" {
			errs = append(errs, errors.New("R2_ACCOUNT_ID, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY and R2_BUCKET_NAME are required for the r2 driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver))
	}

	if c.AccessPIN != "" {
		if c.JWTSecretKey == "" {
			errs = append(errs, errors.New("JWT_SECRET_KEY environment variable is not set"))
		}
		if c.JWTTTL <= 0 {
			errs = append(errs, errors.New("JWT_TTL must be positive"))
		}
	}
	return errors.Join(errs...)
}

// SlogLevel maps LOG_LEVEL to a slog level.
func (c Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown LOG_LEVEL %q", c.LogLevel)
	}
}
