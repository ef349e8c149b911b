package config

import (
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds all configuration values
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Admin    AdminConfig
	Wallet   WalletConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

// AdminConfig holds admin machine-credential configuration
type AdminConfig struct {
	// APIKeyHash is the bcrypt hash of the static admin API key accepted on
	// the X-API-Key header. Empty disables API key auth.
	APIKeyHash string
}

// WalletConfig holds the bootstrap defaults for the global settings row.
// These only seed the singleton on first start; after that, admins manage
// the settings through the API.
type WalletConfig struct {
	DefaultClearanceThreshold decimal.Decimal
	AllowNegativeBalance      bool
	AutoClearanceEnabled      bool
	NotificationEnabled       bool
	LowBalanceThreshold       decimal.Decimal
	SweepInterval             time.Duration
	SweepBatchSize            int
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "dairyledger"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "change-this-in-production"),
			Expiry: getEnvAsDuration("JWT_EXPIRY", 24*time.Hour),
		},
		Admin: AdminConfig{
			APIKeyHash: getEnv("ADMIN_API_KEY_HASH", ""),
		},
		Wallet: WalletConfig{
			DefaultClearanceThreshold: getEnvAsDecimal("WALLET_DEFAULT_CLEARANCE_THRESHOLD", "500"),
			AllowNegativeBalance:      getEnvAsBool("WALLET_ALLOW_NEGATIVE_BALANCE", true),
			AutoClearanceEnabled:      getEnvAsBool("WALLET_AUTO_CLEARANCE_ENABLED", true),
			NotificationEnabled:       getEnvAsBool("WALLET_NOTIFICATION_ENABLED", true),
			LowBalanceThreshold:       getEnvAsDecimal("WALLET_LOW_BALANCE_THRESHOLD", "0"),
			SweepInterval:             getEnvAsDuration("WALLET_SWEEP_INTERVAL", 5*time.Minute),
			SweepBatchSize:            getEnvAsInt("WALLET_SWEEP_BATCH_SIZE", 100),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsDecimal(key, defaultValue string) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	d, _ := decimal.NewFromString(defaultValue)
	return d
}
