package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/shenikar/safewalk/internal/auth"
	"github.com/shenikar/safewalk/internal/config"
	"github.com/shenikar/safewalk/internal/feed"
	v1 "github.com/shenikar/safewalk/internal/handler/http/v1"
	"github.com/shenikar/safewalk/internal/places"
	"github.com/shenikar/safewalk/internal/repository"
	"github.com/shenikar/safewalk/internal/service"
	"github.com/shenikar/safewalk/internal/sms"
	"github.com/shenikar/safewalk/pkg/logger"
	"github.com/shenikar/safewalk/pkg/postgres"
	redisclient "github.com/shenikar/safewalk/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/safewalk/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title SafeWalk API
// @version 1.0
// @description Personal safety backend: emergency contacts, SOS by SMS, nearby safe places and a community incident log.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запуск миграций
	if err := runMigrations(cfg, log); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Подключение к PostgreSQL
	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbpool.Close()
	log.Info("Successfully connected to PostgreSQL")

	// Инициализация Redis клиента
	redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	// Очередь SMS и воркер, отправляющий сообщения в шлюз
	smsQueue := sms.NewRedisQueue(redisClient, cfg)
	if !smsQueue.Permitted() {
		log.Warn("SMS sending is disabled, alerts will be rejected")
	}
	smsWorker := sms.NewWorker(redisClient, log, cfg)
	smsWorker.Start(ctx)

	// Клиент Google Maps для поиска мест и геокодирования; без ключа поиск отключен
	var (
		placeSearcher service.PlaceSearcher
		geocoder      service.Geocoder
	)
	if cfg.PlacesEnabled() {
		googleClient, err := places.NewGoogleClient(cfg.GoogleMapsAPIKey)
		if err != nil {
			log.Fatalf("Failed to create Google Maps client: %v", err)
		}
		placeSearcher, geocoder = googleClient, googleClient
	} else {
		log.Warn("GOOGLE_MAPS_API_KEY is not set, place search and geocoding are disabled")
	}

	// Инициализация репозиториев
	userRepo := repository.NewUserRepository(dbpool)
	contactRepo := repository.NewContactRepository(dbpool)
	incidentRepo := repository.NewIncidentRepository(dbpool)
	alertRepo := repository.NewAlertRepository(dbpool)
	tokenRevoker := repository.NewTokenRevoker(redisClient)
	placeCache := repository.NewPlaceCache(redisClient)
	incidentFeed := feed.NewRedisFeed(redisClient, log)

	// Инициализация сервисов
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	services := v1.Services{
		Auth:      service.NewAuthService(userRepo, tokenRevoker, tokens, log),
		Contacts:  service.NewContactService(contactRepo, log),
		Places:    service.NewPlaceService(placeSearcher, geocoder, placeCache, log, cfg),
		Alerts:    service.NewAlertService(smsQueue, contactRepo, userRepo, alertRepo, log, cfg),
		Incidents: service.NewIncidentService(incidentRepo, userRepo, incidentFeed, log),
	}

	// Инициализация хэндлеров
	handler := v1.NewHandler(services, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(ctx, api)

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	// Останавливаем воркер и подписки живой ленты до остановки сервера
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}
