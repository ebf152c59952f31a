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

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/salillakra/e-summit26-sub001/chat"
	"github.com/salillakra/e-summit26-sub001/config"
	"github.com/salillakra/e-summit26-sub001/db"
	"github.com/salillakra/e-summit26-sub001/handlers"
	"github.com/salillakra/e-summit26-sub001/middleware"
	"github.com/salillakra/e-summit26-sub001/repositories"
	api "github.com/salillakra/e-summit26-sub001/routes"
	"github.com/salillakra/e-summit26-sub001/services"
	"github.com/salillakra/e-summit26-sub001/storage"
)

// How often event lifecycle statuses are reconciled against their dates.
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
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("R2 uploader initialized")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	memberRepo := repositories.NewPostgresMembershipRepository(dbConn)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	regRepo := repositories.NewPostgresRegistrationRepository(dbConn)
	resultRepo := repositories.NewPostgresResultRepository(dbConn)
	messageRepo := repositories.NewPostgresMessageRepository(dbConn)
	logger.Info("repositories initialized")

	authService := services.NewAuthService(userRepo)
	emailService := services.NewEmailService(cfg)
	teamService := services.NewTeamService(teamRepo, memberRepo, eventRepo)
	registrationService := services.NewRegistrationService(regRepo, teamRepo, memberRepo, eventRepo, uploader)
	eventService := services.NewEventService(eventRepo, logger)
	leaderboardService := services.NewLeaderboardService(resultRepo, eventRepo, teamRepo, memberRepo)
	chatService := services.NewChatService(messageRepo, userRepo)
	adminService := services.NewAdminService(userRepo, teamRepo, eventRepo, regRepo, resultRepo)
	logger.Info("services initialized")

	chatHub := chat.NewHub(chatService, logger)
	go chatHub.Run()
	logger.Info("chat hub started")

	// Reconcile event statuses on startup and then on a ticker.
	go func() {
		ticker := time.NewTicker(schedulerInterval)
		defer ticker.Stop()
		logger.Info("event status scheduler started", slog.Duration("interval", schedulerInterval))

		if err := eventService.AutoUpdateEventStatusesByDates(context.Background()); err != nil {
			logger.Error("scheduler: initial run failed", slog.Any("error", err))
		}
		for range ticker.C {
			if err := eventService.AutoUpdateEventStatusesByDates(context.Background()); err != nil {
				logger.Error("scheduler: periodic run failed", slog.Any("error", err))
			}
		}
	}()

	authMiddleware := middleware.NewAuth(cfg.JWTSecretKey)

	authHandler := handlers.NewAuthHandler(authService, emailService, cfg.JWTSecretKey)
	teamHandler := handlers.NewTeamHandler(teamService)
	registrationHandler := handlers.NewRegistrationHandler(registrationService)
	eventHandler := handlers.NewEventHandler(eventService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	chatHandler := handlers.NewChatHandler(chatHub, chatService, eventService)
	adminHandler := handlers.NewAdminHandler(adminService)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		authMiddleware,
		cfg.CORSAllowedOrigins,
		authHandler,
		teamHandler,
		registrationHandler,
		eventHandler,
		leaderboardHandler,
		chatHandler,
		adminHandler,
	)
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
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
