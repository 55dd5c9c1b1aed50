package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	AppName            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MongoConfig holds the document database connection settings.
type MongoConfig struct {
	URI      string
	Database string
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Configured reports whether uploads can be served.
func (c MinIOConfig) Configured() bool {
	return c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != "" && c.Bucket != ""
}

// RateLimitConfig configures the fixed-window limiter on /api.
type RateLimitConfig struct {
	RedisURL  string
	WindowSec int
	Max       int
}

// Window returns the window length.
func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSec) * time.Second
}

// AuthConfig holds the admin identity and session settings.
type AuthConfig struct {
	JWTSecret         string
	JWTTTLHours       int
	AdminEmail        string
	AdminPasswordHash string
	LoginRPM          int
	LoginBurst        int
}

// TTL returns the session lifetime.
func (c AuthConfig) TTL() time.Duration {
	return time.Duration(c.JWTTTLHours) * time.Hour
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Env         string
	Port        string
	FrontendURL string
	StaticDir   string
	StoreDriver string
	Database    DatabaseConfig
	Mongo       MongoConfig
	MinIO       MinIOConfig
	RateLimit   RateLimitConfig
	Auth        AuthConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Env:         getEnv("APP_ENV", getEnv("NODE_ENV", "development")),
		Port:        getEnv("PORT", "3001"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3001"),
		StaticDir:   getEnv("STATIC_DIR", "frontend/build"),
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", DriverMongo)),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			AppName:            getEnv("DB_APP_NAME", "portfolio"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGODB_URI", ""),
			Database: getEnv("MONGODB_DATABASE", "portfolio"),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		RateLimit: RateLimitConfig{
			RedisURL:  getEnv("REDIS_URL", ""),
			WindowSec: getEnvInt("RATE_LIMIT_WINDOW_SEC", 900),
			Max:       getEnvInt("RATE_LIMIT_MAX", 100),
		},
		Auth: AuthConfig{
			JWTSecret:         getEnv("JWT_SECRET", ""),
			JWTTTLHours:       getEnvInt("JWT_TTL_HOURS", 24),
			AdminEmail:        getEnv("ADMIN_EMAIL", ""),
			AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			LoginRPM:          getEnvInt("LOGIN_RATE_LIMIT_RPM", 10),
			LoginBurst:        getEnvInt("LOGIN_RATE_LIMIT_BURST", 3),
		},
	}
}

// Development reports whether detailed error messages may be returned to clients.
func (c *AppConfig) Development() bool {
	return c.Env == "development"
}

// Demo reports whether the selected store driver lacks credentials.
func (c *AppConfig) Demo() bool {
	switch c.StoreDriver {
	case DriverMemory:
		return false
	case DriverPostgres:
		return c.Database.Host == ""
	default:
		return c.Mongo.URI == ""
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
