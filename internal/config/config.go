package config

import (
	"os"
	"regexp"
	"strconv"
	"time"
)

type Config struct {
	DB      DBConfig
	MinIO   MinIOConfig
	JWT     JWTConfig
	Server  ServerConfig
	Notify  NotifyConfig
	Webhook WebhookConfig
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

type ServerConfig struct {
	Port    string
	BaseURL string
}

// NotifyConfig controls notification fan-out. BigEventsPattern is a
// regular expression matched against activity type names; matching
// activities are broadcast to every active board member. It is
// validated once at startup via CompileBigEventsPattern.
type NotifyConfig struct {
	BigEventsPattern string
}

type WebhookConfig struct {
	Timeout time.Duration
}

func Load() *Config {
	return &Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "boardstack"),
			Password: getEnv("DB_PASSWORD", "boardstack_secret"),
			Name:     getEnv("DB_NAME", "boardstack"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "boardstack"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "boardstack_secret"),
			Bucket:    getEnv("MINIO_BUCKET", "boardstack-attachments"),
			UseSSL:    getEnvAsBool("MINIO_USE_SSL", false),
		},
		JWT: JWTConfig{
			Secret:          getEnv("JWT_SECRET", "change-me-in-production"),
			ExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		},
		Server: ServerConfig{
			Port:    getEnv("SERVER_PORT", "8080"),
			BaseURL: getEnv("SERVER_BASE_URL", "http://localhost:8080"),
		},
		Notify: NotifyConfig{
			BigEventsPattern: getEnv("BIGEVENTS_PATTERN", "due"),
		},
		Webhook: WebhookConfig{
			Timeout: getEnvAsDuration("WEBHOOK_TIMEOUT", 10*time.Second),
		},
	}
}

// CompileBigEventsPattern validates the configured broadcast pattern.
// An invalid pattern is a startup error rather than something swallowed
// on every fan-out.
func (n NotifyConfig) CompileBigEventsPattern() (*regexp.Regexp, error) {
	return regexp.Compile(n.BigEventsPattern)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}
