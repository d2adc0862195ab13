package config

import (
	"os"
	"strconv"
	"time"
)

// Config collects every runtime setting as explicit values passed to
// constructors; nothing in the planner reads the environment directly.
type Config struct {
	Port     string
	DBPath   string
	SeedPath string

	// DatabaseURL switches dbtool (and deployments) to Postgres.
	DatabaseURL string

	SolveTimeLimit time.Duration

	RedisEnabled  bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	PlanCacheTTL  time.Duration
}

func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		DBPath:   getEnv("DB_PATH", "data/app.db"),
		SeedPath: getEnv("SEED_PATH", "data/seeds/fleet.json"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		SolveTimeLimit: getDurationEnv("SOLVE_TIME_LIMIT", 30*time.Second),

		RedisEnabled:  getBoolEnv("REDIS_ENABLED", false),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getIntEnv("REDIS_DB", 0),
		PlanCacheTTL:  getDurationEnv("PLAN_CACHE_TTL", 15*time.Minute),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
