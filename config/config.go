package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Logging   LoggingConfig
	Gateway   GatewayConfig
	Booking   BookingConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Enabled         bool
	Address         string
	Password        string
	DB              int
	AvailabilityTTL time.Duration
}

type JWTConfig struct {
	AccessSecret string
	AccessExpiry time.Duration
	Issuer       string
}

type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// GatewayConfig holds the hosted-checkout payment gateway credentials.
// WebhookSecret is the pre-shared secret used to verify callback signatures.
type GatewayConfig struct {
	BaseURL          string
	KeyID            string
	KeySecret        string
	WebhookSecret    string
	ProcessingFeeBps int64 // basis points of the base amount
	GSTBps           int64 // basis points of (amount + processing fee)
}

type BookingConfig struct {
	SlotMinutes      int
	MaxDurationHours int
	PaymentExpiry    time.Duration
	SweepInterval    time.Duration
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DATABASE_DSN", "courtside:courtside@tcp(localhost:3306)/courtside?charset=utf8mb4&parseTime=True&loc=UTC"),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		Redis: RedisConfig{
			Enabled:         getBool("REDIS_ENABLED", false),
			Address:         getEnv("REDIS_ADDRESS", "localhost:6379"),
			Password:        getEnv("REDIS_PASSWORD", ""),
			DB:              getInt("REDIS_DB", 0),
			AvailabilityTTL: getDuration("REDIS_AVAILABILITY_TTL", 30*time.Second),
		},
		JWT: JWTConfig{
			AccessSecret: getEnv("JWT_ACCESS_SECRET", "change-me-in-production"),
			AccessExpiry: getDuration("JWT_ACCESS_EXPIRY", 24*time.Hour),
			Issuer:       getEnv("JWT_ISSUER", "courtside"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Gateway: GatewayConfig{
			BaseURL:          getEnv("GATEWAY_BASE_URL", "https://api.gateway.example.com"),
			KeyID:            getEnv("GATEWAY_KEY_ID", ""),
			KeySecret:        getEnv("GATEWAY_KEY_SECRET", ""),
			WebhookSecret:    getEnv("GATEWAY_WEBHOOK_SECRET", ""),
			ProcessingFeeBps: int64(getInt("GATEWAY_PROCESSING_FEE_BPS", 200)),
			GSTBps:           int64(getInt("GATEWAY_GST_BPS", 1800)),
		},
		Booking: BookingConfig{
			SlotMinutes:      getInt("BOOKING_SLOT_MINUTES", 60),
			MaxDurationHours: getInt("BOOKING_MAX_DURATION_HOURS", 8),
			PaymentExpiry:    getDuration("BOOKING_PAYMENT_EXPIRY", 15*time.Minute),
			SweepInterval:    getDuration("BOOKING_SWEEP_INTERVAL", time.Minute),
		},
		RateLimit: RateLimitConfig{
			Requests: getInt("RATE_LIMIT_REQUESTS", 100),
			Window:   getDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
