package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	API      APIConfig
	Redis    RedisConfig
	Database DatabaseConfig
	RabbitMQ RabbitMQConfig
	Session  SessionConfig
	Payment  PaymentConfig
	Places   PlacesConfig
	Booking  BookingConfig
	CORS     CORSConfig
	NewRelic NewRelicConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// APIConfig points at the remote booking backend.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// DatabaseConfig holds PostgreSQL configuration for the reconciliation ledger.
type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RabbitMQConfig holds the event publisher configuration.
// An empty URL disables publishing.
type RabbitMQConfig struct {
	URL      string
	Exchange string
}

// SessionConfig controls the browser session cookie and its server-side state.
type SessionConfig struct {
	CookieName       string
	CookieSecure     bool
	TokenTTL         time.Duration
	IdleTTL          time.Duration
	BootstrapTimeout time.Duration
}

// PaymentConfig holds the hosted payment widget settings.
type PaymentConfig struct {
	PublishableKey    string
	Currency          string
	CountryCode       string
	MerchantName      string
	WalletEnvironment string
	RedirectDelay     time.Duration
	ConfirmLockTTL    time.Duration
}

// PlacesConfig holds the place-autocomplete widget settings.
type PlacesConfig struct {
	APIKey  string
	Country string
}

// BookingConfig holds booking form settings.
type BookingConfig struct {
	TimeZone string
}

// CORSConfig lists the origins allowed to call the API with credentials.
type CORSConfig struct {
	AllowedOrigins []string
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first; variables already set take precedence.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: failed to read .env: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:3000"), "/"),
			Timeout: getDurationEnv("API_TIMEOUT", 15*time.Second),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Database: DatabaseConfig{
			Enabled:  getBoolEnv("DB_ENABLED", false),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "taxiweb"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      getEnv("RABBITMQ_URL", ""),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "taxiweb.events"),
		},
		Session: SessionConfig{
			CookieName:       getEnv("SESSION_COOKIE_NAME", "ar_session"),
			CookieSecure:     getBoolEnv("SESSION_COOKIE_SECURE", false),
			TokenTTL:         getDurationEnv("SESSION_TOKEN_TTL", 7*24*time.Hour),
			IdleTTL:          getDurationEnv("SESSION_IDLE_TTL", 12*time.Hour),
			BootstrapTimeout: getDurationEnv("SESSION_BOOTSTRAP_TIMEOUT", 5*time.Second),
		},
		Payment: PaymentConfig{
			PublishableKey:    getEnv("PAYMENT_PUBLISHABLE_KEY", ""),
			Currency:          getEnv("PAYMENT_CURRENCY", "GBP"),
			CountryCode:       getEnv("PAYMENT_COUNTRY_CODE", "GB"),
			MerchantName:      getEnv("PAYMENT_MERCHANT_NAME", "Ezza Taxi Service"),
			WalletEnvironment: getEnv("PAYMENT_WALLET_ENVIRONMENT", "TEST"),
			RedirectDelay:     getDurationEnv("PAYMENT_REDIRECT_DELAY", 2500*time.Millisecond),
			ConfirmLockTTL:    getDurationEnv("PAYMENT_CONFIRM_LOCK_TTL", 2*time.Minute),
		},
		Places: PlacesConfig{
			APIKey:  getEnv("PLACES_API_KEY", ""),
			Country: getEnv("PLACES_COUNTRY", "gb"),
		},
		Booking: BookingConfig{
			TimeZone: getEnv("BOOKING_TIMEZONE", "Europe/London"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "taxiweb"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
	}
}

// Location resolves the booking time zone, falling back to UTC.
func (c BookingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		log.Printf("config: unknown BOOKING_TIMEZONE %q, using UTC: %v", c.TimeZone, err)
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
