package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env      string
	HTTPPort string
	LogLevel string

	DatabaseURL string

	JWTIssuer       string
	JWTAudience     string
	JWTSecret       string
	JWTAccessTTL    time.Duration
	VerificationTTL time.Duration
	VerifyEmailBase string

	AuthRateLimitRPM  int
	APIRateLimitRPM   int
	RedisURL          string
	RedisRateLimiting bool

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

// Load reads configuration from the environment. Defaults are development
// placeholders; Validate rejects the ones that must be overridden.
func Load() (*Config, error) {
	cfg := &Config{
		Env:               getEnv("APP_ENV", "development"),
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		JWTIssuer:         getEnv("JWT_ISSUER", "mailbox-backend"),
		JWTAudience:       getEnv("JWT_AUDIENCE", "mailbox-backend-api"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		VerifyEmailBase:   getEnv("VERIFY_EMAIL_BASE_URL", "http://localhost:8080/api/v1/auth/verify-email"),
		AuthRateLimitRPM:  getEnvInt("AUTH_RATE_LIMIT_PER_MIN", 30),
		APIRateLimitRPM:   getEnvInt("API_RATE_LIMIT_PER_MIN", 120),
		RedisURL:          os.Getenv("REDIS_URL"),
		RedisRateLimiting: getEnvBool("REDIS_RATE_LIMITING", false),
		SMTPHost:          os.Getenv("SMTP_HOST"),
		SMTPPort:          getEnv("SMTP_PORT", "587"),
		SMTPUsername:      os.Getenv("SMTP_USERNAME"),
		SMTPPassword:      os.Getenv("SMTP_PASSWORD"),
		MailFrom:          getEnv("MAIL_FROM", "no-reply@mailbox.local"),
		MinioEndpoint:     getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey:    getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey:    getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:       getEnv("MINIO_BUCKET", "uploads"),
		MinioUseSSL:       getEnvBool("MINIO_USE_SSL", false),
	}

	accessTTL, err := time.ParseDuration(getEnv("JWT_ACCESS_TTL", "60m"))
	if err != nil {
		return nil, fmt.Errorf("parse JWT_ACCESS_TTL: %w", err)
	}
	cfg.JWTAccessTTL = accessTTL

	verificationTTL, err := time.ParseDuration(getEnv("VERIFICATION_TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("parse VERIFICATION_TOKEN_TTL: %w", err)
	}
	cfg.VerificationTTL = verificationTTL

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string
	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}
	if len(c.JWTSecret) < 32 {
		errs = append(errs, "JWT_SECRET must be at least 32 chars")
	}
	if c.JWTAccessTTL <= 0 || c.JWTAccessTTL > 24*time.Hour {
		errs = append(errs, "JWT_ACCESS_TTL must be between 1s and 24h")
	}
	if c.VerificationTTL <= 0 || c.VerificationTTL > 7*24*time.Hour {
		errs = append(errs, "VERIFICATION_TOKEN_TTL must be between 1s and 7d")
	}
	if c.AuthRateLimitRPM <= 0 {
		errs = append(errs, "AUTH_RATE_LIMIT_PER_MIN must be > 0")
	}
	if c.APIRateLimitRPM <= 0 {
		errs = append(errs, "API_RATE_LIMIT_PER_MIN must be > 0")
	}
	if c.RedisRateLimiting && c.RedisURL == "" {
		errs = append(errs, "REDIS_URL is required when REDIS_RATE_LIMITING is enabled")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
