package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret string
	JWTExpiry time.Duration

	// SMTP
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	// Manager account seeded at startup; also the recipient of
	// tutor-registration notices and session-completion reports.
	ManagerEmail    string
	ManagerPassword string

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	// Missing .env is fine; real env vars win either way.
	_ = godotenv.Load()

	smtpUser := envOr("SMTP_USER", "")

	return &Config{
		DBHost:     envOr("DB_HOST", "localhost"),
		DBPort:     envOr("DB_PORT", "5432"),
		DBUser:     envOr("DB_USER", "postgres"),
		DBPassword: envOr("DB_PASSWORD", ""),
		DBName:     envOr("DB_NAME", "tutor_system"),
		DBSSLMode:  envOr("DB_SSLMODE", "disable"),

		JWTSecret: envOr("JWT_SECRET", ""),
		JWTExpiry: durationOr("JWT_EXPIRY", 24*time.Hour),

		SMTPHost:     envOr("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     intOr("SMTP_PORT", 587),
		SMTPUser:     smtpUser,
		SMTPPassword: envOr("SMTP_PASS", ""),
		MailFrom:     envOr("MAIL_FROM", smtpUser),

		ManagerEmail:    envOr("MANAGER_EMAIL", ""),
		ManagerPassword: envOr("MANAGER_PASSWORD", ""),

		Port:        envOr("PORT", "8080"),
		CORSOrigins: envOr("CORS_ORIGINS", "*"),
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return d
}

func intOr(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}
