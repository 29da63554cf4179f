package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config contains runtime configuration values.
type Config struct {
	Environment          string
	HTTPPort             string
	ServiceName          string
	SankhyaLoginURL      string
	SankhyaBaseURL       string
	SankhyaToken         string
	SankhyaAppKey        string
	SankhyaUsername      string
	SankhyaPassword      string
	HTTPTimeout          time.Duration
	TokenTTL             time.Duration
	LogService           string
	MaxAPILogs           int
	APILogRetention      time.Duration
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	RateLimitRPM         int
	TelemetryEndpoint    string
	TelemetryInsecure    bool
	CORSAllowedOrigins   []string
	CORSAllowedMethods   []string
	CORSAllowedHeaders   []string
	CORSAllowCredentials bool
}

// Load reads configuration from environment variables with sane defaults.
// The four Sankhya credential fields are required; everything else falls
// back to defaults matching the sandbox environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment:          getEnv("APP_ENV", "development"),
		HTTPPort:             getEnv("HTTP_PORT", "8080"),
		ServiceName:          getEnv("SERVICE_NAME", "sankhya-gateway"),
		SankhyaLoginURL:      getEnv("SANKHYA_LOGIN_URL", "https://api.sandbox.sankhya.com.br/login"),
		SankhyaBaseURL:       getEnv("SANKHYA_BASE_URL", "https://api.sandbox.sankhya.com.br"),
		SankhyaToken:         strings.TrimSpace(os.Getenv("SANKHYA_TOKEN")),
		SankhyaAppKey:        strings.TrimSpace(os.Getenv("SANKHYA_APPKEY")),
		SankhyaUsername:      strings.TrimSpace(os.Getenv("SANKHYA_USERNAME")),
		SankhyaPassword:      os.Getenv("SANKHYA_PASSWORD"),
		HTTPTimeout:          getDuration("SANKHYA_HTTP_TIMEOUT", 10*time.Second),
		TokenTTL:             getDuration("SANKHYA_TOKEN_TTL", 30*time.Minute),
		LogService:           getEnv("API_LOG_SERVICE", "sankhya"),
		MaxAPILogs:           getInt("MAX_API_LOGS", 500),
		APILogRetention:      getDuration("API_LOG_RETENTION", 7*24*time.Hour),
		RedisAddr:            getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		RedisDB:              getInt("REDIS_DB", 0),
		RateLimitRPM:         getInt("RATE_LIMIT_RPM", 600),
		TelemetryEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		TelemetryInsecure:    getBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		CORSAllowedOrigins:   getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		CORSAllowedMethods:   getList("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
		CORSAllowedHeaders:   getList("CORS_ALLOWED_HEADERS", []string{"Authorization", "Content-Type"}),
		CORSAllowCredentials: getBool("CORS_ALLOW_CREDENTIALS", false),
	}

	if cfg.SankhyaToken == "" {
		return Config{}, fmt.Errorf("SANKHYA_TOKEN is required")
	}
	if cfg.SankhyaAppKey == "" {
		return Config{}, fmt.Errorf("SANKHYA_APPKEY is required")
	}
	if cfg.SankhyaUsername == "" {
		return Config{}, fmt.Errorf("SANKHYA_USERNAME is required")
	}
	if cfg.SankhyaPassword == "" {
		return Config{}, fmt.Errorf("SANKHYA_PASSWORD is required")
	}

	if cfg.MaxAPILogs < 1 {
		cfg.MaxAPILogs = 500
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(v) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}

func getList(key string, def []string) []string {
	if v, ok := os.LookupEnv(key); ok {
		parts := strings.Split(v, ",")
		var cleaned []string
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				cleaned = append(cleaned, trimmed)
			}
		}
		if len(cleaned) > 0 {
			return cleaned
		}
	}
	return def
}
