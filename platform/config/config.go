// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// AuthServiceConfig provides settings needed by the auth service.
type AuthServiceConfig interface {
	JWTConfig
	GetAccessTokenTTL() time.Duration
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// PointsConfig provides the loyalty policy.
type PointsConfig interface {
	GetPointsPerPickup() int
	GetMinRedemption() int
}

// ClassifierConfig provides settings for the photo classifier.
type ClassifierConfig interface {
	GetGeminiAPIKey() string
	GetGeminiModel() string
	GetClassifierMaxImageBytes() int64
	IsClassifierEnabled() bool
}

// PhoneConfig provides the default region for phone normalisation.
type PhoneConfig interface {
	GetPhoneDefaultRegion() string
}

// MinIOConfig provides settings for S3-compatible photo storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketClassificationPhotos() string
	IsMinIOEnabled() bool
}

// SchedulerConfig provides Redis and queue settings for background tasks.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	IsSchedulerEnabled() bool
}

// EmailConfig provides SMTP settings for notification e-mails.
type EmailConfig interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	IsEmailEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env             string
	HTTPAddr        string
	DatabaseURL     string
	JWTAccessSecret string
	AccessTokenTTL  time.Duration
	CORSAllowAll    bool
	CORSOrigins     []string
	CORSAllowCreds  bool

	PointsPerPickup int
	MinRedemption   int

	GeminiAPIKey            string
	GeminiModel             string
	ClassifierMaxImageBytes int64
	PhoneDefaultRegion      string

	MinIOEndpoint                   string
	MinIOAccessKey                  string
	MinIOSecretKey                  string
	MinIOUseSSL                     bool
	MinioBucketClassificationPhotos string

	RedisURL         string
	RedisTLSInsecure bool
	AsynqQueueName   string
	AsynqConcurrency int

	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	EmailFromName    string
	EmailFromAddress string
}

func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

func (c *Config) GetJWTAccessSecret() string       { return c.JWTAccessSecret }
func (c *Config) GetAccessTokenTTL() time.Duration { return c.AccessTokenTTL }

func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

func (c *Config) GetPointsPerPickup() int { return c.PointsPerPickup }
func (c *Config) GetMinRedemption() int   { return c.MinRedemption }

func (c *Config) GetGeminiAPIKey() string           { return c.GeminiAPIKey }
func (c *Config) GetGeminiModel() string            { return c.GeminiModel }
func (c *Config) GetClassifierMaxImageBytes() int64 { return c.ClassifierMaxImageBytes }
func (c *Config) IsClassifierEnabled() bool         { return c.GeminiAPIKey != "" }
func (c *Config) GetPhoneDefaultRegion() string     { return c.PhoneDefaultRegion }
func (c *Config) GetMinIOEndpoint() string          { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string         { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string         { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool              { return c.MinIOUseSSL }
func (c *Config) IsMinIOEnabled() bool              { return c.MinIOEndpoint != "" }
func (c *Config) GetMinioBucketClassificationPhotos() string {
	return c.MinioBucketClassificationPhotos
}

func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }
func (c *Config) IsSchedulerEnabled() bool  { return c.RedisURL != "" }

func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) IsEmailEnabled() bool        { return c.SMTPHost != "" }

// Load reads configuration from environment variables, after loading a .env file if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:             getEnv("APP_ENV", "development"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8000"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		JWTAccessSecret: getEnv("JWT_ACCESS_SECRET", ""),
		AccessTokenTTL:  mustDuration(getEnv("JWT_ACCESS_TTL", "24h")),
		CORSAllowAll:    corsAllowAll,
		CORSOrigins:     corsOrigins,
		CORSAllowCreds:  strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),

		PointsPerPickup: mustInt(getEnv("POINTS_PER_PICKUP", "20")),
		MinRedemption:   mustInt(getEnv("POINTS_MIN_REDEMPTION", "60")),

		GeminiAPIKey:            getEnv("GEMINI_API_KEY", ""),
		GeminiModel:             getEnv("GEMINI_MODEL", "gemini-2.5-flash-lite"),
		ClassifierMaxImageBytes: mustInt64(getEnv("CLASSIFIER_MAX_IMAGE_BYTES", "10485760")),
		PhoneDefaultRegion:      strings.ToUpper(getEnv("PHONE_DEFAULT_REGION", "IN")),

		MinIOEndpoint:                   getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:                  getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:                  getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:                     strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinioBucketClassificationPhotos: getEnv("MINIO_BUCKET_CLASSIFICATION_PHOTOS", "classification-photos"),

		RedisURL:         getEnv("REDIS_URL", ""),
		RedisTLSInsecure: strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:   getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency: mustInt(getEnv("ASYNQ_CONCURRENCY", "5")),

		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", "E-Waste Pickup"),
		EmailFromAddress: getEnv("EMAIL_FROM_ADDRESS", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTAccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be a positive duration")
	}
	if c.PointsPerPickup <= 0 {
		return fmt.Errorf("POINTS_PER_PICKUP must be positive")
	}
	if c.MinRedemption <= 0 {
		return fmt.Errorf("POINTS_MIN_REDEMPTION must be positive")
	}
	if c.ClassifierMaxImageBytes <= 0 {
		return fmt.Errorf("CLASSIFIER_MAX_IMAGE_BYTES must be positive")
	}
	if c.IsEmailEnabled() && c.EmailFromAddress == "" {
		return fmt.Errorf("EMAIL_FROM_ADDRESS is required when SMTP_HOST is set")
	}
	if c.CORSAllowAll && c.CORSAllowCreds {
		return fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func mustInt(value string) int {
	return int(mustInt64(value))
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
