package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Typesense TypesenseConfig
	Places    PlacesConfig
	Budget    BudgetConfig
	Discovery DiscoveryConfig
	OTEL      OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// TypesenseConfig holds Typesense configuration
type TypesenseConfig struct {
	URL     string
	APIKey  string
	Enabled bool
}

// PlacesConfig holds places API configuration
type PlacesConfig struct {
	Provider string
	APIKey   string
	Timeout  time.Duration
}

// BudgetConfig holds spend limits and unit prices for paid request classes
type BudgetConfig struct {
	DailyLimitUSD    float64
	MonthlyLimitUSD  float64
	SearchPriceUSD   float64
	DetailsPriceUSD  float64
	PhotoPriceUSD    float64
	BillingAPIURL    string
	MonitoringAPIURL string
	SourceStaleAfter time.Duration
}

// DiscoveryConfig holds coverage planning and probing configuration
type DiscoveryConfig struct {
	GridSizeMeters    int
	WardCatchmentKm   float64
	FreshnessWindow   time.Duration
	ProbeDelay       time.Duration
	ProbeTimeout     time.Duration
	SearchCacheDays  float64
	DetailsCacheDays float64
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "provider_discovery"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Typesense: TypesenseConfig{
			URL:     getEnv("TYPESENSE_URL", "http://localhost:8108"),
			APIKey:  getEnv("TYPESENSE_API_KEY", "xyz"),
			Enabled: getEnvAsBool("TYPESENSE_ENABLED", false),
		},
		Places: PlacesConfig{
			Provider: getEnv("PLACES_PROVIDER", "mock"),
			APIKey:   getEnv("PLACES_API_KEY", ""),
			Timeout:  getEnvAsDuration("PLACES_TIMEOUT", 8*time.Second),
		},
		Budget: BudgetConfig{
			DailyLimitUSD:    getEnvAsFloat("BUDGET_DAILY_LIMIT_USD", 5.0),
			MonthlyLimitUSD:  getEnvAsFloat("BUDGET_MONTHLY_LIMIT_USD", 150.0),
			SearchPriceUSD:   getEnvAsFloat("PRICE_SEARCH_USD", 0.032),
			DetailsPriceUSD:  getEnvAsFloat("PRICE_DETAILS_USD", 0.017),
			PhotoPriceUSD:    getEnvAsFloat("PRICE_PHOTO_USD", 0.007),
			BillingAPIURL:    getEnv("BILLING_API_URL", ""),
			MonitoringAPIURL: getEnv("MONITORING_API_URL", ""),
			SourceStaleAfter: getEnvAsDuration("BILLING_STALE_AFTER", 6*time.Hour),
		},
		Discovery: DiscoveryConfig{
			GridSizeMeters:   getEnvAsInt("GRID_SIZE_METERS", 1000),
			WardCatchmentKm:  getEnvAsFloat("WARD_CATCHMENT_KM", 5.0),
			FreshnessWindow:  getEnvAsDuration("SEARCH_FRESHNESS_WINDOW", 7*24*time.Hour),
			ProbeDelay:       getEnvAsDuration("PROBE_DELAY", 2*time.Second),
			ProbeTimeout:     getEnvAsDuration("PROBE_TIMEOUT", 30*time.Second),
			SearchCacheDays:  getEnvAsFloat("CACHE_SEARCH_DAYS", 7),
			DetailsCacheDays: getEnvAsFloat("CACHE_DETAILS_DAYS", 30),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "provider-discovery"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
