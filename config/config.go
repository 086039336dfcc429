package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	GinMode   string
	LogLevel  string
	LogFormat string

	DB       DBConfig
	Planning PlanningConfig

	PollInterval   time.Duration
	DigestSchedule string

	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

type DBConfig struct {
	Driver   string // postgres, mysql or sqlite
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type PlanningConfig struct {
	HoursPerWeek        float64
	DefaultEfficiency   float64
	DeadlineWarningDays int
}

// Load reads .env (when present) and the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:      getEnvOrDefault("PORT", "8080"),
		GinMode:   getEnvOrDefault("GIN_MODE", "debug"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "text"),
		DB: DBConfig{
			Driver:   strings.ToLower(getEnvOrDefault("DB_DRIVER", "postgres")),
			URL:      firstNonEmpty(os.Getenv("DATABASE_URL"), os.Getenv("DB_URL")),
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnvOrDefault("DB_NAME", "factory"),
		},
		Planning: PlanningConfig{
			HoursPerWeek:        getEnvFloat("PLANNING_HOURS_PER_WEEK", 120),
			DefaultEfficiency:   getEnvFloat("PLANNING_DEFAULT_EFFICIENCY", 85),
			DeadlineWarningDays: getEnvInt("DEADLINE_WARNING_DAYS", 3),
		},
		PollInterval:   getEnvDuration("POLL_INTERVAL", 5*time.Second),
		DigestSchedule: getEnvOrDefault("DIGEST_SCHEDULE", "0 6 * * 1"),
		CORSOrigins:    splitList(getEnvOrDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 40),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
