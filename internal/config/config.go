package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration for the lifecycle engine.
type Config struct {
	HTTPPort       string
	LogLevel       string
	PostgresDSN    string
	RedisURL       string
	ATSBaseURL     string
	ATSTimeout     time.Duration
	ATSRetries     int
	RequestTimeout time.Duration

	DefaultRecruiterID       int64
	DefaultRecruiterUsername string

	IntakeRateLimitPerMin   int
	WorkflowRateLimitPerMin int

	DBMaxOpenConns int
	DBMaxIdleConns int
	DBConnMaxIdle  time.Duration
	DBConnMaxLife  time.Duration
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:                 envOr("HTTP_PORT", "8080"),
		LogLevel:                 envOr("LOG_LEVEL", "info"),
		RedisURL:                 envOr("REDIS_URL", ""),
		ATSTimeout:               durationOr("ATS_TIMEOUT", 5*time.Second),
		ATSRetries:               intOr("ATS_RETRIES", 1),
		RequestTimeout:           durationOr("REQUEST_TIMEOUT", 10*time.Second),
		DefaultRecruiterUsername: envOr("DEFAULT_RECRUITER_USERNAME", ""),
		IntakeRateLimitPerMin:    intOr("INTAKE_RATE_LIMIT_PER_MIN", 30),
		WorkflowRateLimitPerMin:  intOr("WORKFLOW_RATE_LIMIT_PER_MIN", 60),
		DBMaxOpenConns:           intOr("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:           intOr("DB_MAX_IDLE_CONNS", 10),
		DBConnMaxIdle:            durationOr("DB_CONN_MAX_IDLE", 5*time.Minute),
		DBConnMaxLife:            durationOr("DB_CONN_MAX_LIFE", 30*time.Minute),
	}

	cfg.PostgresDSN = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.ATSBaseURL = strings.TrimSpace(os.Getenv("ATS_BASE_URL"))

	if raw := strings.TrimSpace(os.Getenv("DEFAULT_RECRUITER_TG_ID")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("DEFAULT_RECRUITER_TG_ID must be an integer: %w", err)
		}
		cfg.DefaultRecruiterID = parsed
	}

	missing := make([]string, 0, 3)
	if cfg.PostgresDSN == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.ATSBaseURL == "" {
		missing = append(missing, "ATS_BASE_URL")
	}
	if cfg.DefaultRecruiterID == 0 {
		missing = append(missing, "DEFAULT_RECRUITER_TG_ID")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	if cfg.ATSRetries < 0 {
		return Config{}, fmt.Errorf("ATS_RETRIES must not be negative")
	}
	invalidLimits := make([]string, 0, 2)
	if cfg.IntakeRateLimitPerMin <= 0 {
		invalidLimits = append(invalidLimits, "INTAKE_RATE_LIMIT_PER_MIN")
	}
	if cfg.WorkflowRateLimitPerMin <= 0 {
		invalidLimits = append(invalidLimits, "WORKFLOW_RATE_LIMIT_PER_MIN")
	}
	if len(invalidLimits) > 0 {
		return Config{}, fmt.Errorf("rate limit values must be positive: %s", strings.Join(invalidLimits, ", "))
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func durationOr(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return duration
}

func intOr(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
