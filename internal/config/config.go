package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
// An empty Host disables generation audit records.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// Enabled reports whether a database host was configured.
func (c DatabaseConfig) Enabled() bool { return c.Host != "" }

// MinIOConfig holds object storage settings for MinIO.
// An empty Endpoint disables archive publishing.
type MinIOConfig struct {
	Endpoint         string
	AccessKey        string
	SecretKey        string
	Bucket           string
	UseSSL           bool
	PresignExpirySec int
}

// Enabled reports whether an object storage endpoint was configured.
func (c MinIOConfig) Enabled() bool { return c.Endpoint != "" }

// LogConfig controls the structured logger.
type LogConfig struct {
	Level    string
	Timezone string
}

// Location resolves the configured timezone, falling back to UTC.
func (c LogConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// AnthropicConfig holds the Messages API settings.
// APIKey is intentionally allowed to be empty at startup; requests fail fast instead.
type AnthropicConfig struct {
	APIKey     string
	BaseURL    string
	APIVersion string
	Model      string
	MaxTokens  int
}

// GeminiConfig holds the Google GenAI settings used when ModelProvider is "gemini".
type GeminiConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

// ShopifyConfig holds the values interpolated into parameterized templates.
type ShopifyConfig struct {
	Domain string
	Token  string
}

// LimitsConfig bounds uploaded screenshots.
type LimitsConfig struct {
	MaxScreenshots int
	MaxFileBytes   int64
	MaxDimension   int
	MaxPixels      int64
	JPEGQuality    int
	BodyLimitBytes int
}

// GenerationConfig tunes the model call and the output contract.
type GenerationConfig struct {
	// TimeoutSec bounds the model call; 0 leaves it to the transport.
	TimeoutSec     int
	StrictContract bool
}

// Timeout returns the model call timeout, zero when unset.
func (c GenerationConfig) Timeout() time.Duration {
	if c.TimeoutSec <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSec) * time.Second
}

// SessionConfig controls the in-memory wizard working sets.
type SessionConfig struct {
	TTLSec           int
	SweepIntervalSec int
}

// TTL returns how long an untouched session survives.
func (c SessionConfig) TTL() time.Duration { return time.Duration(c.TTLSec) * time.Second }

// SweepInterval returns the idle session sweep period.
func (c SessionConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSec) * time.Second
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost       string
	Port          string
	TemplateDir   string
	ModelProvider string
	Log           LogConfig
	Anthropic     AnthropicConfig
	Gemini        GeminiConfig
	Shopify       ShopifyConfig
	Limits        LimitsConfig
	Generation    GenerationConfig
	Session       SessionConfig
	Database      DatabaseConfig
	MinIO         MinIOConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:       getEnv("APP_HOST", "localhost:8080"),
		Port:          getEnv("PORT", "8080"),
		TemplateDir:   getEnv("TEMPLATE_DIR", ""),
		ModelProvider: getEnv("MODEL_PROVIDER", "anthropic"),
		Log: LogConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Timezone: getEnv("LOG_TIMEZONE", "UTC"),
		},
		Anthropic: AnthropicConfig{
			APIKey:     getEnv("ANTHROPIC_API_KEY", ""),
			BaseURL:    getEnv("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
			APIVersion: getEnv("ANTHROPIC_VERSION", "2023-06-01"),
			Model:      getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-5"),
			MaxTokens:  getEnvInt("ANTHROPIC_MAX_TOKENS", 8192),
		},
		Gemini: GeminiConfig{
			APIKey:    getEnv("GEMINI_API_KEY", ""),
			BaseURL:   getEnv("GEMINI_BASE_URL", ""),
			Model:     getEnv("GEMINI_MODEL", "gemini-2.5-pro"),
			MaxTokens: getEnvInt("GEMINI_MAX_TOKENS", 8192),
		},
		Shopify: ShopifyConfig{
			Domain: getEnv("SHOPIFY_STORE_DOMAIN", ""),
			Token:  getEnv("SHOPIFY_STOREFRONT_ACCESS_TOKEN", ""),
		},
		Limits: LimitsConfig{
			MaxScreenshots: getEnvInt("MAX_SCREENSHOTS", 5),
			MaxFileBytes:   int64(getEnvInt("MAX_FILE_BYTES", 10*1024*1024)),
			MaxDimension:   getEnvInt("MAX_IMAGE_DIMENSION", 1568),
			MaxPixels:      int64(getEnvInt("MAX_IMAGE_PIXELS", 50_000_000)),
			JPEGQuality:    getEnvInt("JPEG_QUALITY", 85),
			BodyLimitBytes: getEnvInt("BODY_LIMIT_BYTES", 80*1024*1024),
		},
		Generation: GenerationConfig{
			TimeoutSec:     getEnvInt("GENERATION_TIMEOUT_SEC", 0),
			StrictContract: getEnvBool("GENERATION_STRICT_CONTRACT", true),
		},
		Session: SessionConfig{
			TTLSec:           getEnvInt("SESSION_TTL_SEC", 3600),
			SweepIntervalSec: getEnvInt("SESSION_SWEEP_INTERVAL_SEC", 60),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:         getEnv("MINIO_ENDPOINT", ""),
			AccessKey:        getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:        getEnv("MINIO_SECRET_KEY", ""),
			Bucket:           getEnv("MINIO_BUCKET", ""),
			UseSSL:           getEnvBool("MINIO_USE_SSL", false),
			PresignExpirySec: getEnvInt("MINIO_PRESIGN_EXPIRY_SEC", 900),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
