package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Приёмники уведомлений о критических активностях
const (
	AlertSinkNone  = "none"
	AlertSinkRedis = "redis"
	AlertSinkKafka = "kafka"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	HTTPHost  string `env:"HTTP_HOST" envDefault:"127.0.0.1"`
	HTTPPort  string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Storage Config
	DataFile       string `env:"ACTIVITY_DATA_FILE" envDefault:"ice_activities.json"`
	ReportDir      string `env:"REPORT_DIR" envDefault:"."`
	SeedSampleData bool   `env:"SEED_SAMPLE_DATA" envDefault:"true"`

	// Map Config
	MapRefreshInterval time.Duration `env:"MAP_REFRESH_INTERVAL" envDefault:"30s"`

	// Redis Config
	RedisEnabled    bool          `env:"REDIS_ENABLED" envDefault:"false"`
	RedisAddr       string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass       string        `env:"REDIS_PASSWORD"`
	RedisDB         int           `env:"REDIS_DB" envDefault:"0"`
	GeocodeCacheTTL time.Duration `env:"GEOCODE_CACHE_TTL" envDefault:"24h"`

	// Geocoding Config
	MapboxToken   string        `env:"MAPBOX_TOKEN"`
	MapboxTimeout time.Duration `env:"MAPBOX_TIMEOUT" envDefault:"5s"`

	// Alert Config
	AlertSink       string   `env:"ALERT_SINK" envDefault:"none"`
	KafkaBrokers    []string `env:"KAFKA_BROKERS"`
	KafkaAlertTopic string   `env:"KAFKA_ALERT_TOPIC" envDefault:"activity-alerts"`

	// Webhook Config
	WebhookURL        string        `env:"WEBHOOK_URL"`
	WebhookSecret     string        `env:"WEBHOOK_SECRET"`
	WebhookTimeout    time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"5s"`
	WebhookMaxRetries int           `env:"WEBHOOK_MAX_RETRIES" envDefault:"3"`
	WebhookBaseDelay  time.Duration `env:"WEBHOOK_BASE_DELAY" envDefault:"1s"`

	// API Keys for authentication
	APIKeys []string `env:"API_KEYS"`
}

// Addr - адрес HTTP-сервера
func (c *Config) Addr() string {
	return c.HTTPHost + ":" + c.HTTPPort
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		HTTPHost:           getEnv("HTTP_HOST", "127.0.0.1"),
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		DataFile:           getEnv("ACTIVITY_DATA_FILE", "ice_activities.json"),
		ReportDir:          getEnv("REPORT_DIR", "."),
		SeedSampleData:     getEnvAsBool("SEED_SAMPLE_DATA", true),
		MapRefreshInterval: getEnvAsDuration("MAP_REFRESH_INTERVAL", 30*time.Second),
		RedisEnabled:       getEnvAsBool("REDIS_ENABLED", false),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:          os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getEnvAsInt("REDIS_DB", 0),
		GeocodeCacheTTL:    getEnvAsDuration("GEOCODE_CACHE_TTL", 24*time.Hour),
		MapboxToken:        os.Getenv("MAPBOX_TOKEN"),
		MapboxTimeout:      getEnvAsDuration("MAPBOX_TIMEOUT", 5*time.Second),
		AlertSink:          strings.ToLower(getEnv("ALERT_SINK", AlertSinkNone)),
		KafkaBrokers:       getEnvAsList("KAFKA_BROKERS"),
		KafkaAlertTopic:    getEnv("KAFKA_ALERT_TOPIC", "activity-alerts"),
		WebhookURL:         os.Getenv("WEBHOOK_URL"),
		WebhookSecret:      os.Getenv("WEBHOOK_SECRET"),
		WebhookTimeout:     getEnvAsDuration("WEBHOOK_TIMEOUT", 5*time.Second),
		WebhookMaxRetries:  getEnvAsInt("WEBHOOK_MAX_RETRIES", 3),
		WebhookBaseDelay:   getEnvAsDuration("WEBHOOK_BASE_DELAY", time.Second),
		APIKeys:            getEnvAsList("API_KEYS"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	var errs []error

	if c.DataFile == "" {
		errs = append(errs, errors.New("ACTIVITY_DATA_FILE must not be empty"))
	}
	if c.MapRefreshInterval < 0 {
		errs = append(errs, errors.New("MAP_REFRESH_INTERVAL must not be negative"))
	}
	if c.WebhookMaxRetries < 1 {
		errs = append(errs, errors.New("WEBHOOK_MAX_RETRIES must be at least 1"))
	}

	switch c.AlertSink {
	case AlertSinkNone:
	case AlertSinkRedis:
		if !c.RedisEnabled {
			errs = append(errs, errors.New("ALERT_SINK=redis requires REDIS_ENABLED=true"))
		}
	case AlertSinkKafka:
		if len(c.KafkaBrokers) == 0 {
			errs = append(errs, errors.New("ALERT_SINK=kafka requires KAFKA_BROKERS"))
		}
		if c.KafkaAlertTopic == "" {
			errs = append(errs, errors.New("ALERT_SINK=kafka requires KAFKA_ALERT_TOPIC"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown ALERT_SINK %q (want none, redis or kafka)", c.AlertSink))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
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

// getEnvAsList разбирает список через запятую, пустые элементы отбрасываются
func getEnvAsList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
