package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Upload   UploadConfig
	Email    EmailConfig
	Admin    AdminConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	Secure      bool   // Use HTTPS-only cookies
	Environment string // "development", "production", "test"
	Debug       bool
	BaseURL     string // Public base URL used in shareable links and QR codes
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type UploadConfig struct {
	// ImgBB is the hosting provider behind the relay; the relay keeps no
	// local copy of uploaded bytes.
	ImgBBAPIKey  string
	ImgBBBaseURL string
	MaxBytes     int64
}

type EmailConfig struct {
	Provider     string // "resend", "console"
	FromAddress  string
	FromName     string
	ResendAPIKey string
}

type AdminConfig struct {
	Password        string
	SessionTTLHours int
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Port:        getEnvInt("SERVER_PORT", 8080),
			Secure:      getEnvBool("SERVER_SECURE", false),
			Environment: getEnv("APP_ENV", "development"),
			Debug:       getEnvBool("DEBUG", false),
			BaseURL:     getEnvNonEmpty("APP_BASE_URL", "http://localhost:8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "cardbox"),
			Password: getEnv("DB_PASSWORD", "cardbox"),
			DBName:   getEnv("DB_NAME", "cardbox"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Upload: UploadConfig{
			ImgBBAPIKey:  getEnv("IMGBB_API_KEY", ""),
			ImgBBBaseURL: getEnvNonEmpty("IMGBB_BASE_URL", "https://api.imgbb.com"),
			MaxBytes:     int64(getEnvInt("UPLOAD_MAX_BYTES", 10<<20)),
		},
		Email: EmailConfig{
			Provider:     getEnv("EMAIL_PROVIDER", "console"),
			FromAddress:  getEnv("EMAIL_FROM_ADDRESS", "noreply@cardbox.local"),
			FromName:     getEnv("EMAIL_FROM_NAME", "Cardbox"),
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		},
		Admin: AdminConfig{
			Password:        getEnv("ADMIN_PASSWORD", ""),
			SessionTTLHours: getEnvInt("ADMIN_SESSION_TTL_HOURS", 24),
		},
	}

	if cfg.Admin.Password == "" && cfg.Server.Environment == "production" {
		return nil, fmt.Errorf("ADMIN_PASSWORD must be set in production")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvNonEmpty(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		if strings.TrimSpace(value) != "" {
			return value
		}
		return defaultValue
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
