package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/shenikar/animal_rescue_dispatch/internal/blobstore"
	"github.com/shenikar/animal_rescue_dispatch/internal/classifier"
	"github.com/shenikar/animal_rescue_dispatch/internal/config"
	"github.com/shenikar/animal_rescue_dispatch/internal/events"
	v1 "github.com/shenikar/animal_rescue_dispatch/internal/handler/http/v1"
	"github.com/shenikar/animal_rescue_dispatch/internal/metrics"
	"github.com/shenikar/animal_rescue_dispatch/internal/repository"
	"github.com/shenikar/animal_rescue_dispatch/internal/service"
	"github.com/shenikar/animal_rescue_dispatch/internal/workflow"
	"github.com/shenikar/animal_rescue_dispatch/pkg/logger"
	"github.com/shenikar/animal_rescue_dispatch/pkg/postgres"
	redisclient "github.com/shenikar/animal_rescue_dispatch/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/animal_rescue_dispatch/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Animal Rescue Dispatch API
// @version 1.0
// @description Intake of injured animal reports and dispatch to the nearest rescue organization.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(logger.Options{Level: cfg.LogLevel, Service: "rescue-api"})

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запуск миграций
	log.Info("Running database migrations...")
	if err := postgres.MigrateUp("file://migrations", cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}
	log.Info("Database migrations applied successfully")

	// Подключение к PostgreSQL
	dbpool, err := postgres.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbpool.Close()
	log.Info("Successfully connected to PostgreSQL")

	// Инициализация Redis клиента
	redisClient, err := redisclient.NewRedisClient(ctx, redisclient.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPass,
		DB:           cfg.RedisDB,
		PingAttempts: 5,
		PingInterval: time.Second,
	})
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	// Метрики
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(registry)

	// Хранилище изображений
	images, err := blobstore.NewMinIOStore(cfg.StorageEndpoint, cfg.StorageAccessKey, cfg.StorageSecretKey,
		cfg.StorageUseTLS, cfg.StorageBucket, cfg.StoragePublicURL)
	if err != nil {
		log.Fatalf("Failed to create object storage client: %v", err)
	}
	if err := images.EnsureBucket(ctx); err != nil {
		log.Fatalf("Failed to prepare bucket %s: %v", cfg.StorageBucket, err)
	}

	// Классификатор и оповещение
	imageClassifier := classifier.NewAdapter(newProvider(cfg, log), log, m, cfg.ClassifierTimeout, cfg.ClassifierMaxImageDim)

	var trigger service.NotificationTrigger
	if cfg.WorkflowURL != "" {
		t := workflow.NewTrigger(workflow.Config{
			BaseURL:   cfg.WorkflowURL,
			Tenant:    cfg.WorkflowTenant,
			Namespace: cfg.WorkflowNamespace,
			FlowID:    cfg.WorkflowID,
			Username:  cfg.WorkflowUsername,
			Password:  cfg.WorkflowPassword,
		}, &http.Client{Timeout: cfg.WorkflowTimeout})
		log.WithField("endpoint", t.Endpoint()).Info("Workflow trigger enabled")
		trigger = t
	} else {
		log.Warn("WORKFLOW_URL is not set, alerts will stay pending")
	}

	// События жизненного цикла алертов
	publisher, closer, err := newEventPublisher(ctx, cfg, redisClient, log, m)
	if err != nil {
		log.Fatalf("Failed to initialize events backend: %v", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	// Инициализация репозиториев
	alertRepo := repository.NewAlertRepository(dbpool, redisClient, cfg.CacheTTL)
	responderRepo := repository.NewResponderRepository(dbpool, redisClient, cfg.CacheTTL)

	// Инициализация сервисов
	alertService := service.NewAlertService(alertRepo, log)
	responderService := service.NewResponderService(responderRepo, log)
	dispatchService := service.NewDispatchService(service.DispatchDeps{
		Alerts:     alertRepo,
		Responders: responderRepo,
		Classifier: imageClassifier,
		Images:     images,
		Trigger:    trigger,
		Events:     publisher,
	}, log, m, cfg.WorkflowTimeout)

	// Инициализация хэндлеров
	handler := v1.NewHandler(dispatchService, alertService, responderService, log, cfg.MaxUploadBytes)

	// Настройка Gin роутера
	router := gin.New()
	router.Use(gin.Recovery(), logger.GinMiddleware(log))
	router.MaxMultipartMemory = cfg.MaxUploadBytes
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.WorkflowTimeout+10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}
	// События публикуются в фоне; брокер закрывается только после них
	if err := dispatchService.Drain(shutdownCtx); err != nil {
		log.Errorf("Pending alert events were not published: %v", err)
	}

	log.Info("Server gracefully stopped")
}

// newProvider выбирает провайдера классификатора. Без ключа возвращается nil,
// и каждый запрос получает оценку по умолчанию.
func newProvider(cfg *config.Config, log *logrus.Logger) classifier.Provider {
	if cfg.ClassifierAPIKey == "" {
		log.Warn("CLASSIFIER_API_KEY is not set, using fallback classification")
		return nil
	}

	switch cfg.ClassifierProvider {
	case "anthropic":
		model := cfg.ClassifierModel
		if model == "" {
			model = classifier.DefaultAnthropicModel
		}
		return classifier.NewAnthropicProvider(cfg.ClassifierAPIKey, model)
	default:
		baseURL := cfg.ClassifierBaseURL
		if baseURL == "" {
			baseURL = classifier.DefaultOpenAIBaseURL
		}
		model := cfg.ClassifierModel
		if model == "" {
			model = classifier.DefaultOpenAIModel
		}
		return classifier.NewOpenAIProvider(baseURL, cfg.ClassifierAPIKey, model, &http.Client{})
	}
}

// newEventPublisher поднимает выбранный транспорт событий. Для redis запускается
// воркер доставки вебхуков, если задан EVENTS_WEBHOOK_URL.
func newEventPublisher(
	ctx context.Context,
	cfg *config.Config,
	redisClient *redis.Client,
	log *logrus.Logger,
	m *metrics.Metrics,
) (service.EventPublisher, io.Closer, error) {
	switch cfg.EventsBackend {
	case "rabbitmq":
		pub, err := events.NewAMQPPublisher(cfg.EventsAMQPURL, cfg.EventsExchange)
		if err != nil {
			return nil, nil, err
		}
		log.WithField("exchange", cfg.EventsExchange).Info("Publishing alert events to RabbitMQ")
		return pub, pub, nil
	case "redis":
		if cfg.EventsWebhookURL != "" {
			worker := events.NewWorker(redisClient, log, m, events.WorkerConfig{
				URL:        cfg.EventsWebhookURL,
				Secret:     cfg.EventsWebhookSecret,
				Timeout:    cfg.EventsWebhookTimeout,
				MaxRetries: cfg.EventsWebhookMaxRetries,
				BaseDelay:  cfg.EventsWebhookBaseDelay,
			})
			worker.Start(ctx)
		}
		log.WithField("queue", events.QueueKey).Info("Publishing alert events to Redis")
		return events.NewRedisPublisher(redisClient), nil, nil
	default:
		return events.NopPublisher{}, nil, nil
	}
}
