package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds application configuration
type Config struct {
	DB           DBConfig
	Server       ServerConfig
	API          APIConfig
	Cache        CacheConfig
	Search       SearchConfig
	Connectivity ConnectivityConfig
	Log          LogConfig
}

// DBType represents database type
type DBType string

const (
	DBTypeSQLite     DBType = "sqlite"
	DBTypePostgreSQL DBType = "postgres"
	DBTypeMemory     DBType = "memory"
)

// DBConfig holds database configuration
type DBConfig struct {
	Type     DBType
	Path     string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns the database connection string
func (c DBConfig) DSN() string {
	switch c.Type {
	case DBTypeMemory:
		// SQLite in-memory database
		if c.Name != "" && c.Name != "geoweather" {
			return fmt.Sprintf("file:%s?mode=memory&cache=shared", c.Name)
		}
		return "file::memory:?cache=shared"
	case DBTypePostgreSQL:
		return fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=%s",
			c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
		)
	default:
		return fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=on", c.Path)
	}
}

// IsSQLite returns true for both file-backed and in-memory SQLite
func (c DBConfig) IsSQLite() bool {
	return c.Type != DBTypePostgreSQL
}

// ServerConfig holds local HTTP facade configuration
type ServerConfig struct {
	Port string
}

// APIConfig holds settings for the Open-Meteo geocoding and forecast APIs
type APIConfig struct {
	GeocodingURL string
	ForecastURL  string
	Language     string
	Model        string
	Timezone     string
	Timeout      time.Duration
	MaxRetries   int
}

// CacheConfig holds the weather cache policy
type CacheConfig struct {
	Freshness       time.Duration
	Retention       time.Duration
	SweepInterval   time.Duration
	RefreshInterval time.Duration
}

// SearchConfig holds search-as-you-type settings
type SearchConfig struct {
	MinLength int
	Debounce  time.Duration
}

// ConnectivityConfig holds the reachability probe settings
type ConnectivityConfig struct {
	Addr string
	TTL  time.Duration
}

// LogConfig holds logger settings
type LogConfig struct {
	Level       string
	Development bool
}

// NewLogger builds a zap logger for the configured level
func (c LogConfig) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zcfg := zap.NewProductionConfig()
	if c.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbType := DBType(getEnv("DB_TYPE", "sqlite"))
	if dbType != DBTypePostgreSQL && dbType != DBTypeMemory {
		dbType = DBTypeSQLite
	}

	config := &Config{
		DB: DBConfig{
			Type:     dbType,
			Path:     getEnv("DB_PATH", "geoweather.db"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "geoweather"),
			Password: getEnv("DB_PASSWORD", "geoweather_password"),
			Name:     getEnv("DB_NAME", "geoweather"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Server: ServerConfig{
			Port: getEnv("APP_PORT", "8080"),
		},
		API: APIConfig{
			GeocodingURL: getEnv("GEOCODING_URL", "https://geocoding-api.open-meteo.com/v1/search"),
			ForecastURL:  getEnv("FORECAST_URL", "https://api.open-meteo.com/v1/forecast"),
			Language:     getEnv("WEATHER_LANGUAGE", "fr"),
			Model:        getEnv("WEATHER_MODEL", "meteofrance_seamless"),
			Timezone:     getEnv("WEATHER_TIMEZONE", "Europe/Paris"),
			Timeout:      getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),
			MaxRetries:   getEnvAsInt("HTTP_MAX_RETRIES", 2),
		},
		Cache: CacheConfig{
			Freshness:       getEnvAsDuration("CACHE_FRESHNESS", 30*time.Minute),
			Retention:       getEnvAsDuration("CACHE_RETENTION", 7*24*time.Hour),
			SweepInterval:   getEnvAsDuration("SWEEP_INTERVAL", 24*time.Hour),
			RefreshInterval: getEnvAsDuration("REFRESH_INTERVAL", 30*time.Minute),
		},
		Search: SearchConfig{
			MinLength: getEnvAsInt("SEARCH_MIN_LENGTH", 3),
			Debounce:  getEnvAsDuration("SEARCH_DEBOUNCE", 300*time.Millisecond),
		},
		Connectivity: ConnectivityConfig{
			Addr: getEnv("CONNECTIVITY_ADDR", "api.open-meteo.com:443"),
			TTL:  getEnvAsDuration("CONNECTIVITY_TTL", 10*time.Second),
		},
		Log: LogConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go duration strings ("30m", "168h")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
