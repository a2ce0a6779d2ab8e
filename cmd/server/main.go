package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/shenikar/activity_tracker/internal/alert"
	"github.com/shenikar/activity_tracker/internal/config"
	v1 "github.com/shenikar/activity_tracker/internal/handler/http/v1"
	"github.com/shenikar/activity_tracker/internal/lookup"
	"github.com/shenikar/activity_tracker/internal/observability"
	"github.com/shenikar/activity_tracker/internal/query"
	"github.com/shenikar/activity_tracker/internal/repository"
	"github.com/shenikar/activity_tracker/internal/service"
	"github.com/shenikar/activity_tracker/pkg/logger"
	redisclient "github.com/shenikar/activity_tracker/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/activity_tracker/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title ICE Activity Tracker API
// @version 1.0
// @description Emergency activity tracker: report, triage, map and export activities.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()

	// Хранилище активностей
	store, seed := openStore(cfg, log)

	// Redis нужен для кэша геокодера и очереди уведомлений
	var redisClient *goredis.Client
	if cfg.RedisEnabled {
		redisClient, err = redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Info("Successfully connected to Redis")
	}

	geocoder := newGeocoder(cfg, redisClient, metrics, log)
	weather := lookup.NewMockWeather(nil)

	publisher, closer := newPublisher(cfg, redisClient, metrics, log)
	defer closer.Close()

	// Воркер доставки вебхуков читает ту же очередь Redis
	if cfg.AlertSink == config.AlertSinkRedis && cfg.WebhookURL != "" {
		worker := alert.NewWorker(redisClient, alert.WorkerConfig{
			URL:        cfg.WebhookURL,
			Secret:     cfg.WebhookSecret,
			Timeout:    cfg.WebhookTimeout,
			MaxRetries: cfg.WebhookMaxRetries,
			BaseDelay:  cfg.WebhookBaseDelay,
		}, nil, metrics, log)
		worker.Start(ctx)
	}

	// Инициализация сервисов
	activityService := service.NewActivityService(store, geocoder, weather, publisher, cfg, nil, metrics, log)

	if seed {
		if _, err := activityService.SeedSampleData(ctx); err != nil {
			log.WithError(err).Error("Failed to seed sample data, starting with an empty list")
		}
	}
	metrics.CriticalUnresolved.Set(float64(query.Summarize(store.List()).CriticalUnresolved))

	// Инициализация хэндлеров
	handler := v1.NewHandler(activityService, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	// Swagger UI и метрики
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on %s", cfg.Addr())

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}

// openStore загружает активности из файла данных. Ошибка загрузки не останавливает сервер:
// хранилище остаётся пустым, а файл будет перезаписан при следующем изменении.
// seed сообщает, нужно ли заполнить хранилище демонстрационными данными.
func openStore(cfg *config.Config, log *logrus.Logger) (store *repository.Store, seed bool) {
	store = repository.NewStore(repository.NewFileStorage(cfg.DataFile), nil)
	found, err := store.Load()
	if err != nil {
		log.WithError(err).WithField("path", cfg.DataFile).Error("Failed to load activities, starting with an empty list")
		return store, false
	}

	log.WithFields(logrus.Fields{
		"path":  cfg.DataFile,
		"found": found,
		"count": len(store.List()),
	}).Info("Activity store loaded")
	return store, !found && cfg.SeedSampleData
}

// newGeocoder выбирает Mapbox при наличии токена, иначе имитацию; при включённом Redis добавляет кэш
func newGeocoder(cfg *config.Config, client *goredis.Client, metrics *observability.Metrics, log *logrus.Logger) service.Geocoder {
	var geocoder lookup.Geocoder
	if cfg.MapboxToken != "" {
		geocoder = lookup.NewMapboxGeocoder(cfg.MapboxToken, cfg.MapboxTimeout, metrics, log)
		log.Info("Using Mapbox geocoder")
	} else {
		geocoder = lookup.NewMockGeocoder(nil)
		log.Info("Using mock geocoder")
	}

	if client != nil {
		geocoder = lookup.NewCachedGeocoder(geocoder, client, cfg.GeocodeCacheTTL, metrics, log)
	}
	return geocoder
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newPublisher создаёт издателя уведомлений для выбранного приёмника
func newPublisher(cfg *config.Config, client *goredis.Client, metrics *observability.Metrics, log *logrus.Logger) (service.AlertPublisher, io.Closer) {
	switch cfg.AlertSink {
	case config.AlertSinkRedis:
		log.Info("Publishing alerts to Redis queue")
		return alert.NewRedisPublisher(client, metrics), nopCloser{}
	case config.AlertSinkKafka:
		log.WithField("topic", cfg.KafkaAlertTopic).Info("Publishing alerts to Kafka")
		p := alert.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaAlertTopic, metrics)
		return p, p
	default:
		return alert.NopPublisher{}, nopCloser{}
	}
}
