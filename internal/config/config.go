package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/soletrack/soletrack-backend/internal/domain"
)

type Config struct {
	// API
	APIPort int
	APIKey  string

	// Database
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	// Valuation
	DisplayCurrency string
	TrendWindow     int

	// Providers
	StockXBaseURL string
	StockXAPIKey  string
	GoatBaseURL   string
	GoatAPIKey    string
	EbayBaseURL   string
	EbayAPIKey    string

	// Logging
	LogLevel string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		// API
		APIPort: envInt("API_PORT", 8080),
		APIKey:  envStr("API_KEY", ""),

		// Database
		DBHost:     envStr("DB_HOST", "localhost"),
		DBPort:     envInt("DB_PORT", 5432),
		DBName:     envStr("DB_NAME", "soletrack"),
		DBUser:     envStr("DB_USER", "postgres"),
		DBPassword: envStr("DB_PASSWORD", ""),
		DBSSLMode:  envStr("DB_SSLMODE", "disable"),

		// Valuation
		DisplayCurrency: envStr("DISPLAY_CURRENCY", "GBP"),
		TrendWindow:     envInt("TREND_WINDOW", 30),

		// Providers
		StockXBaseURL: envStr("STOCKX_BASE_URL", "https://api.stockx.com"),
		StockXAPIKey:  envStr("STOCKX_API_KEY", ""),
		GoatBaseURL:   envStr("GOAT_BASE_URL", "https://www.goat.com"),
		GoatAPIKey:    envStr("GOAT_API_KEY", ""),
		EbayBaseURL:   envStr("EBAY_BASE_URL", "https://api.ebay.com"),
		EbayAPIKey:    envStr("EBAY_API_KEY", ""),

		// Logging
		LogLevel: envStr("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string

	if !domain.ValidCurrencyCode(c.DisplayCurrency) {
		errs = append(errs, "DISPLAY_CURRENCY must be a 3-letter currency code")
	}
	if c.TrendWindow <= 0 {
		errs = append(errs, "TREND_WINDOW must be positive")
	}
	if c.DBUser == "" {
		errs = append(errs, "DB_USER is required")
	}
	if c.APIKey == "" {
		fmt.Println("[WARN] API_KEY not set — REST API has no authentication")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// ConnectionString builds the lib/pq keyword/value connection string
func (c *Config) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
