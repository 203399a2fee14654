package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store backends for scenario snapshots
const (
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config holds application configuration
type Config struct {
	Port       string
	DBConn     string
	LogLevel   string
	JWTSecret  string
	CBRURL     string
	HMACSecret string

	StoreBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SnapshotTTL   time.Duration

	FixturesPath   string
	DigestSchedule string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
}

// NewConfig loads configuration from environment variables. A .env file in
// the working directory is applied first when present.
func NewConfig() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("REDIS_DB must be an integer: %w", err)
	}
	ttl, err := time.ParseDuration(getEnv("SNAPSHOT_TTL", "720h"))
	if err != nil {
		return nil, fmt.Errorf("SNAPSHOT_TTL must be a duration: %w", err)
	}

	cfg := &Config{
		Port:       getEnv("PORT", "8080"),
		DBConn:     getEnv("DB_CONN", "host=localhost port=5436 user=test password=test dbname=wellness sslmode=disable"),
		LogLevel:   getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:  getEnv("JWT_SECRET", "secret"),
		CBRURL:     getEnv("CBR_URL", "https://www.cbr.ru/DailyInfoWebServ/DailyInfo.asmx"),
		HMACSecret: getEnv("HMAC_SECRET", "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6"),

		StoreBackend:  getEnv("STORE_BACKEND", StorePostgres),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,
		SnapshotTTL:   ttl,

		FixturesPath:   getEnv("FIXTURES_PATH", ""),
		DigestSchedule: getEnv("DIGEST_SCHEDULE", "0 8 * * MON"),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "25"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SenderEmail:  getEnv("SENDER_EMAIL", "wellness@example.com"),
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.HMACSecret == "" {
		return nil, fmt.Errorf("HMAC_SECRET is required")
	}
	if cfg.StoreBackend != StorePostgres && cfg.StoreBackend != StoreRedis {
		return nil, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", StorePostgres, StoreRedis, cfg.StoreBackend)
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
