package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	RockAuto RockAutoConfig
	Cache    CacheConfig
	Currency CurrencyConfig
	Database DatabaseConfig
	Events   EventsConfig
	Auth     AuthConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type RockAutoConfig struct {
	BaseURL       string
	Timeout       time.Duration
	MobileProfile bool
}

type CacheConfig struct {
	Enabled        bool
	ResultTTLHours int
	MaxResults     int
}

type CurrencyConfig struct {
	APIURL  string
	Target  string
	Timeout time.Duration
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type EventsConfig struct {
	Enabled   bool
	RedisAddr string
	Stream    string
}

type AuthConfig struct {
	APIKeys []string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", "8000"),
			Host:            getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		RockAuto: RockAutoConfig{
			BaseURL:       getEnvOrDefault("ROCKAUTO_BASE_URL", "https://www.rockauto.com"),
			Timeout:       getDurationOrDefault("ROCKAUTO_TIMEOUT", 30*time.Second),
			MobileProfile: getBoolOrDefault("ROCKAUTO_MOBILE_PROFILE", true),
		},
		Cache: CacheConfig{
			Enabled:        getBoolOrDefault("CACHE_ENABLED", true),
			ResultTTLHours: getIntOrDefault("CACHE_RESULT_TTL_HOURS", 12),
			MaxResults:     getIntOrDefault("CACHE_MAX_RESULTS", 100),
		},
		Currency: CurrencyConfig{
			APIURL:  getEnvOrDefault("CURRENCY_API_URL", "https://api.fxratesapi.com"),
			Target:  getEnvOrDefault("CURRENCY_TARGET", "GEL"),
			Timeout: getDurationOrDefault("CURRENCY_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Enabled:  getBoolOrDefault("DB_ENABLED", false),
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getIntOrDefault("DB_PORT", 5432),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", ""),
			DBName:   getEnvOrDefault("DB_NAME", "rockauto_api"),
			SSLMode:  getEnvOrDefault("DB_SSL_MODE", "disable"),
		},
		Events: EventsConfig{
			Enabled:   getBoolOrDefault("EVENTS_ENABLED", false),
			RedisAddr: getEnvOrDefault("EVENTS_REDIS_ADDR", "localhost:6379"),
			Stream:    getEnvOrDefault("EVENTS_STREAM", "stream:search_lifecycle"),
		},
		Auth: AuthConfig{
			APIKeys: getStringSliceOrDefault("API_KEYS", []string{"test_static_key_very_long_random"}),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Cache.ResultTTLHours < 1 {
		return fmt.Errorf("CACHE_RESULT_TTL_HOURS must be at least 1")
	}

	if c.Cache.MaxResults < 1 {
		return fmt.Errorf("CACHE_MAX_RESULTS must be at least 1")
	}

	if len(c.Auth.APIKeys) == 0 {
		return fmt.Errorf("API_KEYS must contain at least one key")
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getStringSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
