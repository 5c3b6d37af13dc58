package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort         = "8080"
	defaultJWTTTL       = "24h"
	defaultJWTSecret    = "change-me-jwt-secret"
	defaultMaxPhotoSize = 5 * 1024 * 1024
	defaultMaxDocSize   = 10 * 1024 * 1024
)

// Config holds everything the process reads from the environment.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	Storage StorageConfig

	MaxPhotoSize    int64
	MaxDocumentSize int64
}

// StorageConfig configures the S3-compatible object store holding
// work photos and delivery certificates.
type StorageConfig struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	// PublicURL overrides the base URL used to build public object links.
	// When empty it is derived from the endpoint and bucket.
	PublicURL string
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = getEnv("PORT", defaultPort)
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}

	cfg.Storage = StorageConfig{
		Endpoint:  getEnv("STORAGE_ENDPOINT", ""),
		Bucket:    getEnv("STORAGE_BUCKET", ""),
		AccessKey: getEnv("STORAGE_ACCESS_KEY", ""),
		SecretKey: getEnv("STORAGE_SECRET_KEY", ""),
		UseSSL:    parseBoolEnv("STORAGE_USE_SSL", "true"),
		PublicURL: strings.TrimRight(getEnv("STORAGE_PUBLIC_URL", ""), "/"),
	}

	cfg.MaxPhotoSize = parseSizeEnv("MAX_PHOTO_SIZE", defaultMaxPhotoSize)
	cfg.MaxDocumentSize = parseSizeEnv("MAX_DOCUMENT_SIZE", defaultMaxDocSize)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.MaxPhotoSize <= 0 || cfg.MaxDocumentSize <= 0 {
		return fmt.Errorf("upload size limits must be > 0")
	}
	if isProdLike(cfg.AppEnv) {
		if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("in prod JWT_SECRET must be set and not default")
		}
		if cfg.Storage.Endpoint == "" || cfg.Storage.Bucket == "" {
			return fmt.Errorf("in prod STORAGE_ENDPOINT and STORAGE_BUCKET must be set")
		}
	}
	return nil
}

func isProdLike(env string) bool {
	return env == "prod" || env == "production" || env == "release"
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, raw)
	}
	return d, nil
}

func parseBoolEnv(key, fallback string) bool {
	b, err := strconv.ParseBool(getEnv(key, fallback))
	if err != nil {
		return fallback == "true"
	}
	return b
}

func parseSizeEnv(key string, fallback int64) int64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
