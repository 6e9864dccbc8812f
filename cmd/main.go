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
	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"

	"github.com/Dosada05/padel-club/config"
	"github.com/Dosada05/padel-club/db"
	"github.com/Dosada05/padel-club/handlers"
	"github.com/Dosada05/padel-club/middleware"
	"github.com/Dosada05/padel-club/realtime"
	"github.com/Dosada05/padel-club/repositories"
	api "github.com/Dosada05/padel-club/routes"
	"github.com/Dosada05/padel-club/services"
	"github.com/Dosada05/padel-club/storage"
	"github.com/Dosada05/padel-club/weather"
)

const schedulerInterval = 30 * time.Second // How often the scheduler runs

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("timezone", cfg.ClubTimezone),
	)

	// Подключение к базе данных
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

	// Redis-кэш для погодного виджета. Без него просто ходим в API каждый раз.
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis unavailable, weather cache disabled", slog.Any("error", err))
			redisClient = nil
		} else {
			logger.Info("redis connection established", slog.String("addr", cfg.RedisAddr))
		}
		cancelPing()
	}

	// Инициализация загрузчика файлов (Cloudflare R2)
	cloudflareUploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
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

	// Инициализация WebSocket Hub
	wsHub := realtime.NewHub()
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	courtRepo := repositories.NewPostgresCourtRepository(dbConn)
	bookingRepo := repositories.NewPostgresBookingRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	standingRepo := repositories.NewPostgresTournamentStandingRepository(dbConn)
	logger.Info("Repositories initialized")

	// Погодный клиент для главного экрана
	weatherClient := weather.NewClient(weather.Config{
		BaseURL:   cfg.WeatherBaseURL,
		Latitude:  cfg.WeatherLatitude,
		Longitude: cfg.WeatherLongitude,
		Cache:     redisClient,
		Logger:    logger,
	})

	// Инициализация сервисов
	emailService := services.NewEmailService(cfg)
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo, cloudflareUploader)
	courtService := services.NewCourtService(courtRepo, cloudflareUploader)
	availabilityService := services.NewAvailabilityService(courtRepo, bookingRepo, cfg.Location)
	bookingService := services.NewBookingService(
		bookingRepo,
		courtRepo,
		userRepo,
		availabilityService,
		wsHub,
		emailService,
		logger,
		cfg.Location,
	)
	tournamentService := services.NewTournamentService(
		dbConn, // Pass dbConn for transaction management
		tournamentRepo,
		participantRepo,
		matchRepo,
		standingRepo,
		wsHub,
		logger,
	)
	participantService := services.NewParticipantService(participantRepo, tournamentRepo, logger)
	dashboardService := services.NewDashboardService(
		userRepo,
		courtRepo,
		bookingRepo,
		tournamentRepo,
		standingRepo,
		availabilityService,
		weatherClient,
		logger,
		cfg.Location,
	)
	logger.Info("Services initialized")

	// Запуск планировщика автоматического обновления статусов турниров
	go func() {
		ticker := time.NewTicker(schedulerInterval)
		defer ticker.Stop()
		logger.Info("Tournament status update scheduler started", slog.Duration("interval", schedulerInterval))

		// Run once immediately at startup, then on ticker
		if err := tournamentService.AutoUpdateTournamentStatusesByDates(context.Background()); err != nil {
			logger.Error("Scheduler: initial run failed", slog.Any("error", err))
		}

		for range ticker.C {
			if err := tournamentService.AutoUpdateTournamentStatusesByDates(context.Background()); err != nil {
				logger.Error("Scheduler: periodic run failed", slog.Any("error", err))
			}
		}
	}()

	// Инициализация обработчиков HTTP
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecretKey)
	authHandler := handlers.NewAuthHandler(authService, emailService, cfg.JWTSecretKey)
	userHandler := handlers.NewUserHandler(userService)
	courtHandler := handlers.NewCourtHandler(courtService)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService, participantService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		authMiddleware,
		authHandler,
		userHandler,
		courtHandler,
		availabilityHandler,
		bookingHandler,
		tournamentHandler,
		dashboardHandler,
		webSocketHandler,
	)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
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

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		} else {
			logger.Info("server stopped gracefully")
		}
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
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}
