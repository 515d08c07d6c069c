package config

import (
	"log"
	"os"
	"time"
)

type Config struct {
	HTTPPort          string
	DatabaseDSN       string
	JWTSecret         string
	CORSOrigins       string
	ResendAPIKey      string
	EmailFrom         string
	FrontendURL       string
	DonationImagePath string        // folder where uploaded donation photos are stored
	ExpireInterval    time.Duration // expiration sweep cadence
	ReminderInterval  time.Duration // expiry-reminder sweep cadence
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:       getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=foodrescue port=5432 sslmode=disable"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		CORSOrigins:       getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		ResendAPIKey:      getEnv("RESEND_API_KEY", ""),
		EmailFrom:         getEnv("EMAIL_FROM", "Food Rescue Hub <no-reply@foodrescuehub.org>"),
		FrontendURL:       getEnv("FRONTEND_URL", "http://localhost:5173"),
		DonationImagePath: getEnv("DONATION_IMAGE_PATH", "./donation-images"),
		ExpireInterval:    getDuration("EXPIRE_SWEEP_INTERVAL", time.Hour),
		ReminderInterval:  getDuration("REMINDER_SWEEP_INTERVAL", 24*time.Hour),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET is not set, refusing to start")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters")
	}
	if cfg.ResendAPIKey == "" {
		log.Println("[WARN] RESEND_API_KEY is not set, outbound email is disabled")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("[WARN] %s is not a valid duration, using default %s", key, def)
	}
	return def
}
