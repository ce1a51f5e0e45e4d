package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	MaxUploadBytes  int64

	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresPoolSize int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parsePositiveDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	maxUploadBytes, err := parsePositiveInt64("MAX_UPLOAD_BYTES", 16<<20)
	if err != nil {
		return nil, err
	}

	postgresPort, err := parsePositiveInt("POSTGRES_PORT", 5432)
	if err != nil {
		return nil, err
	}

	poolSize, err := parsePositiveInt("POSTGRES_POOL_SIZE", 4)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		MaxUploadBytes:  maxUploadBytes,

		PostgresHost:     envOrDefault("POSTGRES_HOST", "postgres"),
		PostgresPort:     postgresPort,
		PostgresUser:     envOrDefault("POSTGRES_USER", "postgres"),
		PostgresPassword: envOrDefault("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       envOrDefault("POSTGRES_DB", "weather_db"),
		PostgresPoolSize: poolSize,

		MinioEndpoint:  envOrDefault("MINIO_ENDPOINT", "minio:9000"),
		MinioAccessKey: envOrDefault("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: envOrDefault("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:    envOrDefault("MINIO_BUCKET", "weather-data"),
		MinioUseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
	}

	if cfg.PostgresHost == "" {
		return nil, errors.New("POSTGRES_HOST is required")
	}
	if cfg.PostgresDB == "" {
		return nil, errors.New("POSTGRES_DB is required")
	}
	if cfg.MinioEndpoint == "" {
		return nil, errors.New("MINIO_ENDPOINT is required")
	}
	if cfg.MinioBucket == "" {
		return nil, errors.New("MINIO_BUCKET is required")
	}

	return cfg, nil
}

// PostgresDSN renders the pool connection string consumed by pgxpool.
func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:     fmt.Sprintf("%s:%d", c.PostgresHost, c.PostgresPort),
		Path:     c.PostgresDB,
		RawQuery: fmt.Sprintf("pool_max_conns=%d", c.PostgresPoolSize),
	}
	return u.String()
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parsePositiveInt64(key string, fallback int64) (int64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
