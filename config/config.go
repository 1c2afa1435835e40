package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config collects every environment-driven setting in one place so the
// backend URL, redis address, and cache TTL can be injected where needed
// instead of being read ad hoc.
type Config struct {
	Port           string
	BackendBaseURL string
	RedisAddr      string
	DashboardTTL   time.Duration
	RequestTimeout time.Duration
}

// Load reads .env if present, then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	cfg := Config{
		Port:           getenv("PORT", ":8080"),
		BackendBaseURL: getenv("BACKEND_API_URL", "http://localhost:3000/api"),
		RedisAddr:      getenv("REDIS_ADDR", "localhost:6379"),
		DashboardTTL:   getDuration("DASHBOARD_CACHE_TTL_SECONDS", 60*time.Second),
		RequestTimeout: getDuration("BACKEND_TIMEOUT_SECONDS", 10*time.Second),
	}
	if cfg.Port[0] != ':' {
		cfg.Port = ":" + cfg.Port
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
		log.Printf("Invalid %s value %q; using default", key, v)
	}
	return fallback
}
