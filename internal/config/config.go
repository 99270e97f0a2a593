package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	DatabaseURL string
	StoreDwell  time.Duration
	LogCapacity int
	// Layout names the zone set, "circles" or "aisles".
	Layout       string
	AudioEnabled bool
	SessionTTL   time.Duration
}

func Load() Config {
	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		StoreDwell:   time.Duration(getEnvInt("STORE_DWELL_MS", 10000)) * time.Millisecond,
		LogCapacity:  getEnvInt("EVENT_LOG_CAPACITY", 100),
		Layout:       getEnv("ZONE_LAYOUT", "circles"),
		AudioEnabled: getEnvBool("AUDIO_ENABLED", true),
		SessionTTL:   time.Duration(getEnvInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
