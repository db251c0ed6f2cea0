package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string
	Port   string

	LedgerBaseURL     string
	LedgerCatalogMode string
	LedgerTimeout     time.Duration
	CashAccountID     string
	Currency          string
	CatalogTTL        time.Duration

	RedisURL      string
	RedisAddr     string
	RedisPassword string

	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	Migrations  string

	JWTSecret string
	JWTExpiry time.Duration
	OriginURL string
}

var AppConfig *Config

func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	AppConfig = &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("APP_PORT", getEnv("PORT", "8082")),

		LedgerBaseURL:     strings.TrimRight(getEnv("LEDGER_BASE_URL", "http://localhost:5000/api/CategoriesApi"), "/"),
		LedgerCatalogMode: getEnv("LEDGER_CATALOG_MODE", "combined"),
		LedgerTimeout:     getDuration("LEDGER_TIMEOUT", 15*time.Second),
		CashAccountID:     getEnv("CASH_ACCOUNT_ID", "cashcashcash"),
		Currency:          getEnv("CURRENCY", "QR "),
		CatalogTTL:        getDuration("CATALOG_TTL", 5*time.Minute),

		RedisURL:      os.Getenv("REDIS_URL"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      os.Getenv("DB_HOST"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "postgres"),
		DBName:      getEnv("DB_NAME", "canteen_pos"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),
		Migrations:  getEnv("MIGRATIONS_DIR", "database/migration"),

		JWTSecret: getEnv("JWT_SECRET", "secret"),
		JWTExpiry: getDuration("JWT_EXPIRY", 12*time.Hour),
		OriginURL: os.Getenv("ORIGIN_URL"),
	}

	log.Println("Configuration loaded successfully")
	log.Printf("Environment: %s", AppConfig.AppEnv)
	log.Printf("Ledger: %s (%s catalog)", AppConfig.LedgerBaseURL, AppConfig.LedgerCatalogMode)
}

// JournalEnabled reports whether a PostgreSQL sales journal was configured.
func (c *Config) JournalEnabled() bool {
	return c.DatabaseURL != "" || c.DBHost != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
