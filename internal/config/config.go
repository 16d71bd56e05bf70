package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultEmergencyContacts - номера, на которые уходит SOS, если у пользователя нет своих контактов
var DefaultEmergencyContacts = []string{"+15555550100"}

// Config - структура для хранения конфигурации приложения
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Auth Config
	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"720h"`

	// Places Config
	GoogleMapsAPIKey        string        `env:"GOOGLE_MAPS_API_KEY"`
	PlacesDefaultRadius     float64       `env:"PLACES_DEFAULT_RADIUS_METERS" envDefault:"1500"`
	PlacesCacheTTL          time.Duration `env:"PLACES_CACHE_TTL" envDefault:"5m"`
	PlacesDetailConcurrency int           `env:"PLACES_DETAIL_CONCURRENCY" envDefault:"8"`

	// SMS Config
	SMSEnabled       bool          `env:"SMS_ENABLED" envDefault:"false"`
	SMSGatewayURL    string        `env:"SMS_GATEWAY_URL"`
	SMSGatewayToken  string        `env:"SMS_GATEWAY_TOKEN"`
	SMSGatewaySecret string        `env:"SMS_GATEWAY_SECRET"`
	SMSSenderID      string        `env:"SMS_SENDER_ID" envDefault:"SafeWalk"`
	SMSTimeout       time.Duration `env:"SMS_TIMEOUT" envDefault:"5s"`
	SMSMaxAttempts   int           `env:"SMS_MAX_ATTEMPTS" envDefault:"1"`
	SMSBaseDelay     time.Duration `env:"SMS_BASE_DELAY" envDefault:"1s"`

	// Alert Config
	DefaultEmergencyContacts []string `env:"DEFAULT_EMERGENCY_CONTACTS"`

	// Community feed Config: ограничение частоты публикации инцидентов и комментариев
	FeedRateLimitRPS   float64 `env:"FEED_RATE_LIMIT_RPS" envDefault:"1"`
	FeedRateLimitBurst int     `env:"FEED_RATE_LIMIT_BURST" envDefault:"10"`

	// Stats Config
	StatsTimeWindowMinutes int `env:"STATS_TIME_WINDOW_MINUTES" envDefault:"60"`

	// API Keys for authentication
	APIKeys []string `env:"API_KEYS"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:              os.Getenv("DATABASE_URL"),
		HTTPPort:                 getEnv("HTTP_PORT", "8080"),
		LogLevel:                 getEnv("LOG_LEVEL", "info"),
		RedisAddr:                getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:                os.Getenv("REDIS_PASSWORD"),
		RedisDB:                  getEnvAsInt("REDIS_DB", 0),
		JWTSecret:                os.Getenv("JWT_SECRET"),
		JWTTTL:                   getEnvAsDuration("JWT_TTL", 720*time.Hour),
		GoogleMapsAPIKey:         os.Getenv("GOOGLE_MAPS_API_KEY"),
		PlacesDefaultRadius:      getEnvAsFloat("PLACES_DEFAULT_RADIUS_METERS", 1500),
		PlacesCacheTTL:           getEnvAsDuration("PLACES_CACHE_TTL", 5*time.Minute),
		PlacesDetailConcurrency:  getEnvAsInt("PLACES_DETAIL_CONCURRENCY", 8),
		SMSEnabled:               getEnvAsBool("SMS_ENABLED", false),
		SMSGatewayURL:            os.Getenv("SMS_GATEWAY_URL"),
		SMSGatewayToken:          os.Getenv("SMS_GATEWAY_TOKEN"),
		SMSGatewaySecret:         os.Getenv("SMS_GATEWAY_SECRET"),
		SMSSenderID:              getEnv("SMS_SENDER_ID", "SafeWalk"),
		SMSTimeout:               getEnvAsDuration("SMS_TIMEOUT", 5*time.Second),
		SMSMaxAttempts:           getEnvAsInt("SMS_MAX_ATTEMPTS", 1),
		SMSBaseDelay:             getEnvAsDuration("SMS_BASE_DELAY", time.Second),
		DefaultEmergencyContacts: getEnvAsList("DEFAULT_EMERGENCY_CONTACTS", DefaultEmergencyContacts),
		FeedRateLimitRPS:         getEnvAsFloat("FEED_RATE_LIMIT_RPS", 1),
		FeedRateLimitBurst:       getEnvAsInt("FEED_RATE_LIMIT_BURST", 10),
		StatsTimeWindowMinutes:   getEnvAsInt("STATS_TIME_WINDOW_MINUTES", 60),
		APIKeys:                  getEnvAsList("API_KEYS", nil),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if cfg.SMSMaxAttempts < 1 {
		cfg.SMSMaxAttempts = 1
	}
	if cfg.PlacesDetailConcurrency < 1 {
		cfg.PlacesDetailConcurrency = 1
	}

	return cfg, nil
}

// PlacesEnabled сообщает, задан ли ключ Google Maps; без него сервер работает, но поиск мест отключен
func (c *Config) PlacesEnabled() bool {
	return c.GoogleMapsAPIKey != ""
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

// getEnvAsFloat возвращает значение переменной окружения как float64 или значение по умолчанию
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsBool возвращает значение переменной окружения как bool или значение по умолчанию
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
func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}

	items := make([]string, 0)
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
