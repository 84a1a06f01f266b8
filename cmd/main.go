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

	_ "github.com/lib/pq"

	"github.com/lamesa/poker-league/config"
	"github.com/lamesa/poker-league/db"
	"github.com/lamesa/poker-league/handlers"
	"github.com/lamesa/poker-league/live"
	"github.com/lamesa/poker-league/repositories"
	"github.com/lamesa/poker-league/routes"
	"github.com/lamesa/poker-league/services"
	"github.com/lamesa/poker-league/storage"
)

const schedulerInterval = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	var uploader storage.FileUploader
	if cfg.R2AccountID != "" {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 storage not configured, player photo uploads disabled")
	}

	wsHub := live.NewHub(logger)
	go wsHub.Run()
	logger.Info("live event hub started")

	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	gameDateRepo := repositories.NewPostgresGameDateRepository(dbConn)
	eliminationRepo := repositories.NewPostgresEliminationRepository(dbConn)
	statsRepo := repositories.NewPostgresStatsRepository(dbConn)

	notifier := services.NewHubNotificationService(wsHub)
	authService := services.NewAuthService(playerRepo, cfg.JWTSecretKey)
	playerService := services.NewPlayerService(playerRepo, uploader)
	statsService := services.NewStatsService(statsRepo, playerRepo)
	tournamentService := services.NewTournamentService(dbConn, tournamentRepo, gameDateRepo, playerRepo, notifier, logger)
	gameDateService := services.NewGameDateService(gameDateRepo, tournamentRepo, notifier, logger)
	eliminationService := services.NewEliminationService(dbConn, eliminationRepo, gameDateRepo, statsService, notifier, logger)
	rankingService := services.NewRankingService(tournamentRepo, gameDateRepo, eliminationRepo, playerRepo)
	logger.Info("services initialized")

	go func() {
		ticker := time.NewTicker(schedulerInterval)
		defer ticker.Stop()
		logger.Info("tournament auto-complete scheduler started", slog.Duration("interval", schedulerInterval))

		if err := tournamentService.AutoCompleteFinishedTournaments(context.Background()); err != nil {
			logger.Error("scheduler: initial run failed", slog.Any("error", err))
		}
		for range ticker.C {
			if err := tournamentService.AutoCompleteFinishedTournaments(context.Background()); err != nil {
				logger.Error("scheduler: periodic run failed", slog.Any("error", err))
			}
		}
	}()

	router := routes.InitRoutes(routes.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Player:      handlers.NewPlayerHandler(playerService),
		Tournament:  handlers.NewTournamentHandler(tournamentService),
		GameDate:    handlers.NewGameDateHandler(gameDateService),
		Elimination: handlers.NewEliminationHandler(eliminationService),
		Ranking:     handlers.NewRankingHandler(rankingService),
		Stats:       handlers.NewStatsHandler(statsService),
		WebSocket:   handlers.NewWebSocketHandler(wsHub),
	}, cfg.JWTSecretKey)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
}
