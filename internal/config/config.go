package config

import (
	"log"
	"os"
	"time"
)

// Config holds all process-wide settings, loaded once at startup.
type Config struct {
	Port        string
	DatabaseURL string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	AdminUsername string
	AdminPassword string
}

var cfg *Config

// Load reads configuration from the environment. Must be called once from main
// before Get.
func Load() *Config {
	cfg = &Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		AccessTokenTTL:  getDuration("ACCESS_TOKEN_TTL", time.Hour),
		RefreshTokenTTL: getDuration("REFRESH_TOKEN_TTL", 24*time.Hour),
		AdminUsername:   getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}
	return cfg
}

// Get returns the loaded configuration.
func Get() *Config {
	if cfg == nil {
		log.Fatal("config.Load must be called before config.Get")
	}
	return cfg
}

// SetForTesting replaces the loaded configuration. Test helper only.
func SetForTesting(c *Config) {
	cfg = c
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid duration for %s (%q), using default %s", key, v, fallback)
		return fallback
	}
	return d
}
