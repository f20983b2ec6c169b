package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"geoimport/internal/pkg/validator"
)

const (
	defaultPort              = "8080"
	defaultDatabaseURL       = "geoimport.db"
	defaultJWTSecret         = "change-me-jwt-secret"
	defaultJWTTTL            = "24h"
	defaultUploadRoot        = "./uploads/zips"
	defaultMaxUploadBytes    = "10485760"  // 10 MiB
	defaultMaxExtractedBytes = "104857600" // 100 MiB
	defaultImportBatchSize   = "500"
	defaultBulkCopy          = "true"
	defaultStaleWorkspaceTTL = "1h"
)

type Config struct {
	AppEnv      string
	Port        string `validate:"required,numeric"`
	DatabaseURL string `validate:"required"`

	JWTSecret string        `validate:"required"`
	JWTTTL    time.Duration `validate:"gt=0"`

	UploadRoot        string        `validate:"required"`
	MaxUploadBytes    int64         `validate:"gt=0"`
	MaxExtractedBytes int64         `validate:"gt=0"`
	ImportBatchSize   int           `validate:"gt=0,lte=10000"`
	BulkCopy          bool          // COPY into locations when DATABASE_URL is postgres
	StaleWorkspaceTTL time.Duration `validate:"gt=0"`

	CORSAllowedOrigins []string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return fromEnv()
}

func fromEnv() (*Config, error) {
	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.UploadRoot = strings.TrimSpace(getEnv("UPLOAD_ROOT", defaultUploadRoot))
	cfg.BulkCopy = parseBoolEnv("IMPORT_BULK_COPY", defaultBulkCopy)
	cfg.CORSAllowedOrigins = parseListEnv("CORS_ALLOWED_ORIGINS")

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}
	cfg.StaleWorkspaceTTL, err = parseDurationEnv("STALE_WORKSPACE_TTL", defaultStaleWorkspaceTTL)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadBytes, err = parseInt64Env("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)
	if err != nil {
		return nil, err
	}
	cfg.MaxExtractedBytes, err = parseInt64Env("MAX_EXTRACTED_BYTES", defaultMaxExtractedBytes)
	if err != nil {
		return nil, err
	}
	batch, err := parseInt64Env("IMPORT_BATCH_SIZE", defaultImportBatchSize)
	if err != nil {
		return nil, err
	}
	cfg.ImportBatchSize = int(batch)

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Printf("config loaded: env=%s port=%s upload_root=%s max_upload_bytes=%d bulk_copy=%t",
		cfg.AppEnv, cfg.Port, cfg.UploadRoot, cfg.MaxUploadBytes, cfg.BulkCopy)

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if fields := validator.Validate(cfg); len(fields) > 0 {
		names := make([]string, 0, len(fields))
		for name, tag := range fields {
			names = append(names, fmt.Sprintf("%s(%s)", name, tag))
		}
		sort.Strings(names)
		return fmt.Errorf("invalid config: %s", strings.Join(names, ", "))
	}
	if cfg.MaxExtractedBytes < cfg.MaxUploadBytes {
		return fmt.Errorf("MAX_EXTRACTED_BYTES must be >= MAX_UPLOAD_BYTES")
	}
	if isProdLike(cfg.AppEnv) && isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseInt64Env(name, fallback string) (int64, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func parseListEnv(name string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(name), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
