package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	DatabaseURL    string `env:"DATABASE_URL"`
	HTTPPort       string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`

	// Redis Config
	RedisAddr string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string        `env:"REDIS_PASSWORD"`
	RedisDB   int           `env:"REDIS_DB" envDefault:"0"`
	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	// Classifier Config
	ClassifierProvider    string        `env:"CLASSIFIER_PROVIDER" envDefault:"openai"`
	ClassifierAPIKey      string        `env:"CLASSIFIER_API_KEY"`
	ClassifierModel       string        `env:"CLASSIFIER_MODEL"`
	ClassifierBaseURL     string        `env:"CLASSIFIER_BASE_URL"`
	ClassifierTimeout     time.Duration `env:"CLASSIFIER_TIMEOUT" envDefault:"15s"`
	ClassifierMaxImageDim int           `env:"CLASSIFIER_MAX_IMAGE_DIM" envDefault:"1024"`

	// Workflow Config
	WorkflowURL       string        `env:"WORKFLOW_URL"`
	WorkflowTenant    string        `env:"WORKFLOW_TENANT" envDefault:"main"`
	WorkflowNamespace string        `env:"WORKFLOW_NAMESPACE" envDefault:"aras.rescue"`
	WorkflowID        string        `env:"WORKFLOW_ID" envDefault:"rescue-workflow"`
	WorkflowUsername  string        `env:"WORKFLOW_USERNAME"`
	WorkflowPassword  string        `env:"WORKFLOW_PASSWORD"`
	WorkflowTimeout   time.Duration `env:"WORKFLOW_TIMEOUT" envDefault:"10s"`

	// Storage Config
	StorageEndpoint  string `env:"STORAGE_ENDPOINT"`
	StorageAccessKey string `env:"STORAGE_ACCESS_KEY"`
	StorageSecretKey string `env:"STORAGE_SECRET_KEY"`
	StorageBucket    string `env:"STORAGE_BUCKET" envDefault:"animal-images"`
	StorageUseTLS    bool   `env:"STORAGE_USE_TLS" envDefault:"false"`
	StoragePublicURL string `env:"STORAGE_PUBLIC_URL"`

	// Events Config
	EventsBackend           string        `env:"EVENTS_BACKEND" envDefault:"redis"`
	EventsAMQPURL           string        `env:"EVENTS_AMQP_URL"`
	EventsExchange          string        `env:"EVENTS_EXCHANGE" envDefault:"rescue.alerts"`
	EventsWebhookURL        string        `env:"EVENTS_WEBHOOK_URL"`
	EventsWebhookSecret     string        `env:"EVENTS_WEBHOOK_SECRET"`
	EventsWebhookTimeout    time.Duration `env:"EVENTS_WEBHOOK_TIMEOUT" envDefault:"5s"`
	EventsWebhookMaxRetries int           `env:"EVENTS_WEBHOOK_MAX_RETRIES" envDefault:"3"`
	EventsWebhookBaseDelay  time.Duration `env:"EVENTS_WEBHOOK_BASE_DELAY" envDefault:"1s"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDatabaseConfig загружает конфигурацию для административных команд: обязателен только DATABASE_URL
func LoadDatabaseConfig() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	return cfg, nil
}

func load() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	return &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		MaxUploadBytes: getEnvAsInt64("MAX_UPLOAD_BYTES", 10<<20),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass: os.Getenv("REDIS_PASSWORD"),
		RedisDB:   getEnvAsInt("REDIS_DB", 0),
		CacheTTL:  getEnvAsDuration("CACHE_TTL", 5*time.Minute),

		ClassifierProvider:    strings.ToLower(getEnv("CLASSIFIER_PROVIDER", "openai")),
		ClassifierAPIKey:      os.Getenv("CLASSIFIER_API_KEY"),
		ClassifierModel:       os.Getenv("CLASSIFIER_MODEL"),
		ClassifierBaseURL:     os.Getenv("CLASSIFIER_BASE_URL"),
		ClassifierTimeout:     getEnvAsDuration("CLASSIFIER_TIMEOUT", 15*time.Second),
		ClassifierMaxImageDim: getEnvAsInt("CLASSIFIER_MAX_IMAGE_DIM", 1024),

		WorkflowURL:       strings.TrimRight(os.Getenv("WORKFLOW_URL"), "/"),
		WorkflowTenant:    getEnv("WORKFLOW_TENANT", "main"),
		WorkflowNamespace: getEnv("WORKFLOW_NAMESPACE", "aras.rescue"),
		WorkflowID:        getEnv("WORKFLOW_ID", "rescue-workflow"),
		WorkflowUsername:  os.Getenv("WORKFLOW_USERNAME"),
		WorkflowPassword:  os.Getenv("WORKFLOW_PASSWORD"),
		WorkflowTimeout:   getEnvAsDuration("WORKFLOW_TIMEOUT", 10*time.Second),

		StorageEndpoint:  os.Getenv("STORAGE_ENDPOINT"),
		StorageAccessKey: os.Getenv("STORAGE_ACCESS_KEY"),
		StorageSecretKey: os.Getenv("STORAGE_SECRET_KEY"),
		StorageBucket:    getEnv("STORAGE_BUCKET", "animal-images"),
		StorageUseTLS:    getEnvAsBool("STORAGE_USE_TLS", false),
		StoragePublicURL: strings.TrimRight(os.Getenv("STORAGE_PUBLIC_URL"), "/"),

		EventsBackend:           strings.ToLower(getEnv("EVENTS_BACKEND", "redis")),
		EventsAMQPURL:           os.Getenv("EVENTS_AMQP_URL"),
		EventsExchange:          getEnv("EVENTS_EXCHANGE", "rescue.alerts"),
		EventsWebhookURL:        os.Getenv("EVENTS_WEBHOOK_URL"),
		EventsWebhookSecret:     os.Getenv("EVENTS_WEBHOOK_SECRET"),
		EventsWebhookTimeout:    getEnvAsDuration("EVENTS_WEBHOOK_TIMEOUT", 5*time.Second),
		EventsWebhookMaxRetries: getEnvAsInt("EVENTS_WEBHOOK_MAX_RETRIES", 3),
		EventsWebhookBaseDelay:  getEnvAsDuration("EVENTS_WEBHOOK_BASE_DELAY", time.Second),
	}, nil
}

// Validate проверяет обязательные параметры и допустимые значения
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	switch c.ClassifierProvider {
	case "anthropic", "openai":
	default:
		return fmt.Errorf("unsupported CLASSIFIER_PROVIDER %q", c.ClassifierProvider)
	}
	switch c.EventsBackend {
	case "redis", "none":
	case "rabbitmq":
		if c.EventsAMQPURL == "" {
			return fmt.Errorf("EVENTS_AMQP_URL is required for rabbitmq events backend")
		}
	default:
		return fmt.Errorf("unsupported EVENTS_BACKEND %q", c.EventsBackend)
	}
	if c.StorageEndpoint == "" {
		return fmt.Errorf("STORAGE_ENDPOINT environment variable is required")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if c.ClassifierTimeout <= 0 || c.WorkflowTimeout <= 0 {
		return fmt.Errorf("classifier and workflow timeouts must be positive")
	}
	return nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
