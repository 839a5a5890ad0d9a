package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: every environment variable is read here and nowhere else
type Config struct {
	// Server
	Port        string
	Env         string // development, staging, production
	CORSOrigins []string

	// Database
	Database DatabaseConfig

	// Redis (shared upstream rate limit)
	Redis RedisConfig

	// Upstream football-data.org API
	FootballData FootballDataConfig

	// Scheduler
	Scheduler SchedulerConfig

	// Analytics
	Analytics AnalyticsConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	URL      string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// FootballDataConfig holds football-data.org v4 API configuration
type FootballDataConfig struct {
	APIKey             string
	BaseURL            string
	RateLimitPerMinute int
	Timeout            time.Duration
}

// SchedulerConfig holds cron specs (with seconds) and retry policy for jobs
type SchedulerConfig struct {
	DailyFetchSpec   string
	WeeklyTeamsSpec  string
	HealthCheckSpec  string
	AnalyticsSpec    string
	MaxRetries       int
	RetryDelay       time.Duration
	AlertAfterFailed int
	// RecentDays is how far back the daily fetch looks for matches
	RecentDays int
}

// AnalyticsConfig holds analytics defaults
type AnalyticsConfig struct {
	// WeightsFile is an optional YAML file overriding power ranking weights
	WeightsFile      string
	DefaultLimit     int
	LeagueTableLimit int
	FormWindow       int
	MomentumWindow   int
}

// Load reads configuration from environment variables
// ⭐ SSOT: the only function that calls os.Getenv()
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"*"}),

		// Database
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			Name:            getEnv("DB_NAME", "soccer_analytics"),
			User:            getEnv("DB_USER", "soccer"),
			Password:        getEnv("DB_PASSWORD", ""),
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		FootballData: FootballDataConfig{
			APIKey:             getEnv("FOOTBALL_DATA_API_KEY", ""),
			BaseURL:            getEnv("FOOTBALL_DATA_BASE_URL", "https://api.football-data.org/v4"),
			RateLimitPerMinute: getEnvAsInt("FOOTBALL_DATA_RATE_LIMIT", 10),
			Timeout:            getEnvAsDuration("FOOTBALL_DATA_TIMEOUT", "30s"),
		},

		Scheduler: SchedulerConfig{
			DailyFetchSpec:   getEnv("SCHEDULER_DAILY_SPEC", "0 0 6 * * *"),
			WeeklyTeamsSpec:  getEnv("SCHEDULER_WEEKLY_SPEC", "0 0 3 * * 1"),
			HealthCheckSpec:  getEnv("SCHEDULER_HEALTH_SPEC", "0 0 * * * *"),
			AnalyticsSpec:    getEnv("SCHEDULER_ANALYTICS_SPEC", "0 30 7 * * *"),
			MaxRetries:       getEnvAsInt("SCHEDULER_MAX_RETRIES", 3),
			RetryDelay:       getEnvAsDuration("SCHEDULER_RETRY_DELAY", "1m"),
			AlertAfterFailed: getEnvAsInt("SCHEDULER_ALERT_AFTER", 3),
			RecentDays:       getEnvAsInt("SCHEDULER_RECENT_DAYS", 7),
		},

		Analytics: AnalyticsConfig{
			WeightsFile:      getEnv("ANALYTICS_WEIGHTS_FILE", ""),
			DefaultLimit:     getEnvAsInt("ANALYTICS_DEFAULT_LIMIT", 10),
			LeagueTableLimit: getEnvAsInt("ANALYTICS_TABLE_LIMIT", 20),
			FormWindow:       getEnvAsInt("ANALYTICS_FORM_WINDOW", 5),
			MomentumWindow:   getEnvAsInt("ANALYTICS_MOMENTUM_WINDOW", 5),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// Database URL is required
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.FootballData.RateLimitPerMinute <= 0 {
		return fmt.Errorf("FOOTBALL_DATA_RATE_LIMIT must be positive")
	}

	if c.Analytics.FormWindow <= 0 || c.Analytics.MomentumWindow <= 0 {
		return fmt.Errorf("analytics windows must be positive")
	}

	return nil
}

// HasAPIKey reports whether an upstream API key is configured
func (c *Config) HasAPIKey() bool {
	return c.FootballData.APIKey != ""
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

// getEnvAsList splits a comma separated value, dropping empty items
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
