package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/scoremaster/config"
	"github.com/Dosada05/scoremaster/handlers"
	"github.com/Dosada05/scoremaster/live"
	"github.com/Dosada05/scoremaster/middleware"
	api "github.com/Dosada05/scoremaster/routes"
	"github.com/Dosada05/scoremaster/services"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

// @title ScoreMaster API
// @version 1.0
// @description Score tracking for tabletop game nights.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		slog.Error("application exited with error", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("application exited")
}

func run() error {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Настройка логгера
	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("storage_driver", cfg.StorageDriver),
		slog.Bool("auth_enabled", cfg.AccessPIN != ""))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Хранилище состояния
	repo, closeRepo, err := openStateRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeRepo(); err != nil {
			logger.Error("failed to close state storage", slog.Any("error", err))
		} else {
			logger.Info("state storage closed")
		}
	}()

	// Инициализация WebSocket Hub
	wsHub := live.NewHub(logger)

	store, err := services.NewStore(ctx, repo, logger,
		services.WithBroadcaster(wsHub),
		services.WithPersistTimeout(cfg.PersistTimeout),
	)
	if err != nil {
		return err
	}

	authService, err := services.NewAuthService(cfg.AccessPIN, cfg.JWTSecretKey, cfg.JWTTTL)
	if err != nil {
		return err
	}
	var requireAuth func(http.Handler) http.Handler
	if authService.Enabled() {
		requireAuth = middleware.Authenticate(authService)
	}
	logger.Info("services initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		State:      handlers.NewStateHandler(store),
		Game:       handlers.NewGameHandler(store),
		Player:     handlers.NewPlayerHandler(store),
		Session:    handlers.NewSessionHandler(store),
		History:    handlers.NewHistoryHandler(store),
		Tournament: handlers.NewTournamentHandler(store),
		Auth:       handlers.NewAuthHandler(authService),
		WebSocket:  handlers.NewWebSocketHandler(wsHub, store, cfg.CORSAllowedOrigins),
	}, requireAuth, cfg.CORSAllowedOrigins)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return wsHub.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return err
		}
		logger.Info("server shutdown complete")
		return nil
	})

	return g.Wait()
}
