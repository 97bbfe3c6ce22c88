package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

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

	// External identity (Firebase)
	FirebaseProjectID string

	// Registration policy
	AllowedEmailDomains string
	AdminKeyHash        string

	// Uploads
	UploadDir      string
	MaxUploadBytes int64

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", ""),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		FirebaseProjectID: getEnv("FIREBASE_PROJECT_ID", ""),

		AllowedEmailDomains: getEnv("ALLOWED_EMAIL_DOMAINS", "iba.edu.pk,khi.iba.edu.pk"),
		AdminKeyHash:        getEnv("ADMIN_KEY_HASH", ""),

		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadBytes: parseInt64(getEnv("MAX_UPLOAD_BYTES", ""), 5*1024*1024),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// EmailDomains returns the configured institutional domain allow-list.
func (c *Config) EmailDomains() []string {
	parts := strings.Split(c.AllowedEmailDomains, ",")
	domains := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(strings.ToLower(p))
		if trimmed != "" {
			domains = append(domains, trimmed)
		}
	}
	return domains
}

// EmailAllowed reports whether the email's domain is one of the allowed
// institutional domains. An empty allow-list rejects everything.
func (c *Config) EmailAllowed(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := strings.ToLower(email[at+1:])
	for _, allowed := range c.EmailDomains() {
		if domain == allowed {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseInt64(s string, fallback int64) int64 {
	if s == "" {
		return fallback
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
