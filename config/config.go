package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort int `validate:"min=1,max=65535"`
	Database   DatabaseConfig
	Session    SessionConfig
	Redis      RedisConfig
	Log        LogConfig
	RateLimit  RateLimitConfig
	MQ         MQConfig
	Pages      PagesConfig
}

type DatabaseConfig struct {
	Driver   string `validate:"oneof=sqlite postgres"`
	Path     string
	Host     string
	Port     int `validate:"min=0,max=65535"`
	User     string
	Password string
	DBName   string
	UseSSL   bool
}

type SessionConfig struct {
	Secret     string        `validate:"required"`
	TTL        time.Duration `validate:"gt=0"`
	CookieName string        `validate:"required"`
	Secure     bool
	Backend    string `validate:"oneof=memory redis"`
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int `validate:"min=0"`
}

type LogConfig struct {
	Level  string `validate:"oneof=debug info warn warning error"`
	Format string `validate:"oneof=json text"`
}

// RateLimitConfig configures the global request limiter. RPS of zero disables it.
type RateLimitConfig struct {
	RPS   float64 `validate:"min=0"`
	Burst int     `validate:"min=0"`
}

// MQConfig selects the broker lead events are published to.
type MQConfig struct {
	Backend  string `validate:"oneof=none rabbitmq pubsub"`
	Channel  string `validate:"required"`
	RabbitMQ RabbitMQConfig
	PubSub   PubSubConfig
}

type RabbitMQConfig struct {
	URL             string
	PrefetchCount   int `validate:"min=0"`
	QueueDurable    bool
	QueueAutoDelete bool
}

type PubSubConfig struct {
	ProjectID          string
	CredentialsFile    string
	SubscriptionSuffix string
}

// PagesConfig selects where the gated report pages are read from.
type PagesConfig struct {
	Backend string `validate:"oneof=embedded minio gcs"`
	Prefix  string
	Minio   MinioConfig
	GCS     GCSConfig
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type GCSConfig struct {
	Bucket          string
	ProjectID       string
	CredentialsFile string
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	dbConfig := DatabaseConfig{
		Driver:   strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		Path:     getEnv("DB_PATH", "./sampleDB.sqlite"),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "leadbase"),
		Password: getEnv("DB_PASSWORD", "password"),
		DBName:   getEnv("DB_NAME", "leadbase"),
		UseSSL:   getEnvBool("DB_SSL", false),
	}

	sessionConfig := SessionConfig{
		Secret:     getEnv("SESSION_SECRET", "secret-key"),
		TTL:        getEnvDuration("SESSION_TTL", 24*time.Hour),
		CookieName: getEnv("SESSION_COOKIE", "leadbase.sid"),
		Secure:     getEnvBool("SESSION_SECURE", false),
		Backend:    strings.ToLower(getEnv("SESSION_BACKEND", "memory")),
	}

	mqConfig := MQConfig{
		Backend: strings.ToLower(getEnv("MQ_BACKEND", "none")),
		Channel: getEnv("LEAD_EVENTS_CHANNEL", "leads.events"),
		RabbitMQ: RabbitMQConfig{
			URL:             getEnv("RABBITMQ_URL", ""),
			PrefetchCount:   getEnvInt("RABBITMQ_PREFETCH", 10),
			QueueDurable:    getEnvBool("RABBITMQ_QUEUE_DURABLE", true),
			QueueAutoDelete: getEnvBool("RABBITMQ_QUEUE_AUTO_DELETE", false),
		},
		PubSub: PubSubConfig{
			ProjectID:          getEnv("PUBSUB_PROJECT_ID", ""),
			CredentialsFile:    getEnv("PUBSUB_CREDENTIALS_FILE", ""),
			SubscriptionSuffix: getEnv("PUBSUB_SUBSCRIPTION_SUFFIX", "-sub"),
		},
	}

	pagesConfig := PagesConfig{
		Backend: strings.ToLower(getEnv("PAGES_BACKEND", "embedded")),
		Prefix:  getEnv("PAGES_PREFIX", "pages/"),
		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "leadbase"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		GCS: GCSConfig{
			Bucket:          getEnv("GCS_BUCKET", ""),
			ProjectID:       getEnv("GCS_PROJECT_ID", ""),
			CredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
		},
	}

	return Config{
		ServerPort: getEnvInt("SERVER_PORT", 3000),
		Database:   dbConfig,
		Session:    sessionConfig,
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
		},
		RateLimit: RateLimitConfig{
			RPS:   getEnvFloat("RATE_LIMIT_RPS", 0),
			Burst: getEnvInt("RATE_LIMIT_BURST", 20),
		},
		MQ:    mqConfig,
		Pages: pagesConfig,
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		fmt.Sscanf(valueStr, "%d", &value)
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value float64
		fmt.Sscanf(valueStr, "%g", &value)
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		switch strings.ToLower(strings.TrimSpace(valueStr)) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := time.ParseDuration(strings.TrimSpace(valueStr)); err == nil {
			return value
		}
	}
	return defaultValue
}
