// Package config parses command-line flags and environment variables for
// the blizzard binary. Flags take precedence over environment variables,
// which take precedence over defaults.
package config

import (
	"flag"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config holds the binary's runtime configuration.
type Config struct {
	Listen    string
	LogLevel  string
	LogFormat string

	Storage       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration

	BaselineURL     string
	SeriesPath      string
	StartYearPath   string
	StartMonthPath  string
	BaselineRefresh time.Duration

	// InputFile runs a single forecast from a JSON file and exits.
	InputFile string

	// EasterDates prints an Easter calibration table for a year range
	// ("2020:2030") and exits.
	EasterDates string
}

// ParseFlags parses command-line flags with environment variable
// fallbacks.
func ParseFlags() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.Listen, "listen", getEnv("LISTEN", ":8080"), "HTTP listen address")
	flag.StringVar(&cfg.LogLevel, "log-level", getEnv("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	flag.StringVar(&cfg.LogFormat, "log-format", getEnv("LOG_FORMAT", "text"), "Log format: text or json")

	flag.StringVar(&cfg.Storage, "storage", getEnv("STORAGE", "memory"), "Storage backend: memory or redis")
	flag.StringVar(&cfg.RedisAddr, "redis-addr", getEnv("REDIS_ADDR", "localhost:6379"), "Redis server address")
	flag.StringVar(&cfg.RedisPassword, "redis-password", getEnv("REDIS_PASSWORD", ""), "Redis password")
	flag.IntVar(&cfg.RedisDB, "redis-db", getEnvInt("REDIS_DB", 0), "Redis database number")
	flag.DurationVar(&cfg.RedisTTL, "redis-ttl", getEnvDuration("REDIS_TTL", 30*time.Minute), "Redis baseline TTL")

	flag.StringVar(&cfg.BaselineURL, "baseline-url", getEnv("BASELINE_URL", ""), "Baseline data endpoint (optional)")
	flag.StringVar(&cfg.SeriesPath, "series-path", getEnv("SERIES_PATH", "data.#.total"), "JSON path of the monthly values in the baseline response")
	flag.StringVar(&cfg.StartYearPath, "start-year-path", getEnv("START_YEAR_PATH", "start.year"), "JSON path of the anchor year")
	flag.StringVar(&cfg.StartMonthPath, "start-month-path", getEnv("START_MONTH_PATH", "start.month"), "JSON path of the anchor month")
	flag.DurationVar(&cfg.BaselineRefresh, "baseline-refresh", getEnvDuration("BASELINE_REFRESH", 15*time.Minute), "Baseline refetch interval")

	flag.StringVar(&cfg.InputFile, "input", "", "Forecast a JSON input file and print the result")
	flag.StringVar(&cfg.EasterDates, "easter-dates", "", "Print an Easter date table for a year range, e.g. 2020:2030")

	flag.Parse()
	return cfg
}

// Logger builds a slog.Logger from the configured level and format.
func (c *Config) Logger() *slog.Logger {
	var level slog.Level
	switch c.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
