package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetBoolEnv returns a bool environment variable or a default value.
func GetBoolEnv(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

// GetDurationEnv accepts Go duration strings such as "5s" or "24h".
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

// IsProduction checks if the app runs in production mode.
func IsProduction() bool {
	return GetEnv("ENV", "development") == "production"
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DSN renders the connection string understood by the postgres driver.
func (c DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode
}

type RedisConfig struct {
	Enabled        bool
	Host           string
	Port           string
	Password       string
	DB             int
	TransactionTTL time.Duration
	EventsChannel  string
}

type LedgerConfig struct {
	// Store is either "postgres" or "memory".
	Store        string
	StoreTimeout time.Duration
}

type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
}

type AuthConfig struct {
	JWTSecret string
}

type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Ledger   LedgerConfig
}

// Load reads the configuration from the environment, falling back to
// defaults suitable for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            GetEnv("PORT", "3000"),
			ShutdownTimeout: GetDurationEnv("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret: GetEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Host:            GetEnv("DB_HOST", "localhost"),
			Port:            GetEnv("DB_PORT", "5432"),
			User:            GetEnv("DB_USER", "postgres"),
			Password:        GetEnv("DB_PASSWORD", "postgres"),
			Name:            GetEnv("DB_NAME", "wallets"),
			SSLMode:         GetEnv("DB_SSLMODE", "disable"),
			MaxIdleConns:    GetIntEnv("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    GetIntEnv("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Enabled:        GetBoolEnv("REDIS_ENABLED", true),
			Host:           GetEnv("REDIS_HOST", "localhost"),
			Port:           GetEnv("REDIS_PORT", "6379"),
			Password:       GetEnv("REDIS_PASSWORD", ""),
			DB:             GetIntEnv("REDIS_DB", 0),
			TransactionTTL: GetDurationEnv("REDIS_TX_TTL", 24*time.Hour),
			EventsChannel:  GetEnv("REDIS_EVENTS_CHANNEL", "ledger:transactions"),
		},
		Ledger: LedgerConfig{
			Store:        GetEnv("LEDGER_STORE", "postgres"),
			StoreTimeout: GetDurationEnv("LEDGER_STORE_TIMEOUT", 5*time.Second),
		},
	}
}
