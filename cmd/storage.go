package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/scoremaster/config"
	"github.com/Dosada05/scoremaster/db"
	"github.com/Dosada05/scoremaster/repositories"
	"github.com/Dosada05/scoremaster/storage"
	"github.com/redis/go-redis/v9"
)

const connectTimeout = 5 * time.Second

func noopClose() error { return nil }

// openStateRepository builds the backend named by STORAGE_DRIVER. The
// returned func releases its connections.
func openStateRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories.StateRepository, func() error, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		conn, err := db.Connect(cfg.DatabaseURL, connectTimeout)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		repo := repositories.NewPostgresStateRepository(conn)
		if err := ensureSchema(ctx, repo); err != nil {
			conn.Close()
			return nil, nil, err
		}
		logger.Info("database connection established")
		return repo, conn.Close, nil

	case config.DriverSQLite:
		conn, err := db.OpenSQLite(cfg.SQLitePath, connectTimeout)
		if err != nil {
			return nil, nil, err
		}
		repo := repositories.NewSQLiteStateRepository(conn)
		if err := ensureSchema(ctx, repo); err != nil {
			conn.Close()
			return nil, nil, err
		}
		logger.Info("sqlite database opened", slog.String("path", cfg.SQLitePath))
		return repo, conn.Close, nil

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Info("redis connection established", slog.String("addr", cfg.RedisAddr))
		return repositories.NewRedisStateRepository(client, cfg.RedisKey), client.Close, nil

	case config.DriverR2:
		objectStore, err := storage.NewCloudflareR2Store(ctx, storage.CloudflareR2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize Cloudflare R2 store: %w", err)
		}
		logger.Info("Cloudflare R2 store initialized", slog.String("bucket", cfg.R2BucketName))
		return repositories.NewObjectStateRepository(objectStore, cfg.R2StateKey), noopClose, nil

	case config.DriverMemory:
		logger.Warn("state is kept in memory only and is lost on restart")
		return repositories.NewMemoryStateRepository(nil), noopClose, nil

	default:
		logger.Info("state file", slog.String("path", cfg.StateFile))
		return repositories.NewFileStateRepository(cfg.StateFile), noopClose, nil
	}
}

func ensureSchema(ctx context.Context, repo *repositories.SQLStateRepository) error {
	schemaCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	return repo.EnsureSchema(schemaCtx)
}
