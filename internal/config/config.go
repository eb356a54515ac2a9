package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	Database    DatabaseConfig
	Redis       RedisConfig
	AMQP        AMQPConfig
	Checkout    CheckoutConfig
	Payment     PaymentConfig
	Auth        AuthConfig
	LogLevel    string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig points at the checkout session store. An empty Addr keeps sessions in memory.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AMQPConfig points at the broker for order notifications. An empty URL disables publishing.
type AMQPConfig struct {
	URL   string
	Queue string
}

type CheckoutConfig struct {
	TaxRate    decimal.Decimal
	SessionTTL time.Duration
}

type PaymentConfig struct {
	SimulatedDelay time.Duration
	GatewayURL     string
	GatewayToken   string
	GatewayTimeout time.Duration
}

type AuthConfig struct {
	TokenCost int
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	taxRate, err := decimal.NewFromString(getEnvOrViper("CHECKOUT_TAX_RATE", "0.08"))
	if err != nil {
		return nil, fmt.Errorf("CHECKOUT_TAX_RATE: %w", err)
	}
	sessionTTL, err := time.ParseDuration(getEnvOrViper("CHECKOUT_SESSION_TTL", "30m"))
	if err != nil {
		return nil, fmt.Errorf("CHECKOUT_SESSION_TTL: %w", err)
	}
	paymentDelay, err := time.ParseDuration(getEnvOrViper("PAYMENT_SIMULATED_DELAY", "1500ms"))
	if err != nil {
		return nil, fmt.Errorf("PAYMENT_SIMULATED_DELAY: %w", err)
	}
	gatewayTimeout, err := time.ParseDuration(getEnvOrViper("PAYMENT_GATEWAY_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("PAYMENT_GATEWAY_TIMEOUT: %w", err)
	}
	redisDB, err := strconv.Atoi(getEnvOrViper("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("REDIS_DB: %w", err)
	}
	tokenCost, err := strconv.Atoi(getEnvOrViper("API_TOKEN_COST", "10"))
	if err != nil {
		return nil, fmt.Errorf("API_TOKEN_COST: %w", err)
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "storefront"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrViper("REDIS_ADDR", ""),
			Password: getEnvOrViper("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		AMQP: AMQPConfig{
			URL:   getEnvOrViper("AMQP_URL", ""),
			Queue: getEnvOrViper("AMQP_ORDER_QUEUE", "order.placed"),
		},
		Checkout: CheckoutConfig{
			TaxRate:    taxRate,
			SessionTTL: sessionTTL,
		},
		Payment: PaymentConfig{
			SimulatedDelay: paymentDelay,
			GatewayURL:     getEnvOrViper("PAYMENT_GATEWAY_URL", ""),
			GatewayToken:   getEnvOrViper("PAYMENT_GATEWAY_TOKEN", ""),
			GatewayTimeout: gatewayTimeout,
		},
		Auth: AuthConfig{
			TokenCost: tokenCost,
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate
	if cfg.Checkout.TaxRate.IsNegative() || cfg.Checkout.TaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("CHECKOUT_TAX_RATE must be in [0, 1), got %s", cfg.Checkout.TaxRate)
	}
	if cfg.Checkout.SessionTTL <= 0 {
		return nil, fmt.Errorf("CHECKOUT_SESSION_TTL must be positive")
	}
	if cfg.Payment.SimulatedDelay < 0 {
		return nil, fmt.Errorf("PAYMENT_SIMULATED_DELAY must not be negative")
	}

	return cfg, nil
}

// DSN builds the lib/pq connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
