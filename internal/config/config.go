package config

import (
	"os"
	"strconv"
	"time"
)

// Supported values for STORE_BACKEND.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMinIO    = "minio"
)

// DatabaseConfig holds PostgreSQL database connection settings.
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
	// AppName is reported to the server as application_name.
	AppName           string
	ConnectTimeoutSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	ObjectKey string
}

// StoreConfig selects where the site document is persisted.
type StoreConfig struct {
	Backend  string
	DataFile string
}

// AdminConfig controls the editor login. PasswordHash is a bcrypt hash, never a plain password.
type AdminConfig struct {
	PasswordHash   string
	SessionTTL     time.Duration
	RequireSession bool
}

// SyncConfig holds settings for the site-data synchronizer client.
type SyncConfig struct {
	Endpoint  string
	Timeout   time.Duration
	CachePath string
	CacheKey  string
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Format string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost   string
	Port      string
	Timezone  string
	BodyLimit int
	Log       LogConfig
	Store     StoreConfig
	Database  DatabaseConfig
	MinIO     MinIOConfig
	Admin     AdminConfig
	Sync      SyncConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:   getEnv("APP_HOST", "localhost:8080"),
		Port:      getEnv("PORT", "8080"),
		Timezone:  getEnv("APP_TIMEZONE", "UTC"),
		BodyLimit: getEnvInt("BODY_LIMIT_BYTES", 16*1024*1024),
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Store: StoreConfig{
			Backend:  getEnv("STORE_BACKEND", BackendFile),
			DataFile: getEnv("DATA_FILE", "data.json"),
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
			AppName:            getEnv("DB_APP_NAME", "sitecms"),
			ConnectTimeoutSec:  getEnvInt("DB_CONNECT_TIMEOUT_SEC", 5),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			ObjectKey: getEnv("MINIO_OBJECT_KEY", "site/data.json"),
		},
		Admin: AdminConfig{
			PasswordHash:   getEnv("ADMIN_PASSWORD_HASH", ""),
			SessionTTL:     getEnvDuration("ADMIN_SESSION_TTL", 2*time.Hour),
			RequireSession: getEnvBool("ADMIN_REQUIRE_SESSION", false),
		},
		Sync: SyncConfig{
			Endpoint:  getEnv("SITE_ENDPOINT", "http://localhost:8080/api/data"),
			Timeout:   getEnvDuration("SITE_TIMEOUT", 1500*time.Millisecond),
			CachePath: getEnv("SITE_CACHE_PATH", ""),
			CacheKey:  getEnv("SITE_CACHE_KEY", "site_content_cache"),
		},
	}
}

// Location resolves the configured timezone, falling back to UTC when it is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
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

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
