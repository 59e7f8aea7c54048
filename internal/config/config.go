package config

import (
	"os"
	"strconv"
	"time"

	"mooreweb/internal/checkout"
	"mooreweb/internal/confirmation"
	"mooreweb/internal/external"
	"mooreweb/internal/models"
	"mooreweb/internal/session"
)

// Config holds the portal configuration.
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	// AvailabilityDebounce is how long room/date input must stay stable
	// before an availability check hits the hotel API.
	AvailabilityDebounce time.Duration

	Hotel        external.HotelConfig
	Session      session.Config
	Checkout     checkout.Config
	Confirmation confirmation.Config
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		AvailabilityDebounce: time.Duration(getEnvInt("AVAILABILITY_DEBOUNCE_MS", 500)) * time.Millisecond,

		Hotel: external.HotelConfig{
			BaseURL: getEnv("HOTEL_API_URL", "https://api.moorehotelandsuites.com"),
			Timeout: time.Duration(getEnvInt("HOTEL_API_TIMEOUT_SEC", 30)) * time.Second,
		},

		Session: session.Config{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      time.Duration(getEnvInt("SESSION_TTL_HOURS", 720)) * time.Hour,
		},

		Checkout: checkout.Config{
			PublicBaseURL:    getEnv("PUBLIC_BASE_URL", "https://moorehotelandsuites.com"),
			AllowGatewayless: getEnv("CHECKOUT_ALLOW_GATEWAYLESS", "true") == "true",
			Bank: models.BankDetails{
				BankName:      getEnv("BANK_NAME", "Zenith Bank"),
				AccountName:   getEnv("BANK_ACCOUNT_NAME", "Moore Hotels Ltd"),
				AccountNumber: getEnv("BANK_ACCOUNT_NUMBER", "1234567890"),
				Note:          getEnv("BANK_TRANSFER_NOTE", "Booking will be confirmed immediately after payment is confirmed"),
			},
		},

		Confirmation: confirmation.Config{
			Interval: time.Duration(getEnvInt("CONFIRMATION_POLL_SEC", 6)) * time.Second,
			IdleTTL:  time.Duration(getEnvInt("CONFIRMATION_IDLE_TTL_SEC", 120)) * time.Second,
		},
	}
}

// getEnv returns the environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
