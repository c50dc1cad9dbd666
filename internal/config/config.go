package config

import (
	"fmt"
	"math"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DNSResolver    string
	DNSTimeout     time.Duration
	HTTPTimeout    time.Duration
	ConnectTimeout time.Duration
	CheckTimeout   time.Duration
	TTLNominal     int
	TTLTolerance   float64
	CertMinDays    int
	InventoryPath  string
	Port           string
	Schedule       string
	EnableSchedule bool
	LogLevel       string
	LogFormat      string
}

// LoadConfig reads the environment, after merging a .env file from the
// working directory if one exists.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DNSResolver:    getEnv("DNS_RESOLVER", "8.8.8.8:53"),
		DNSTimeout:     getEnvDuration("DNS_TIMEOUT", 5*time.Second),
		HTTPTimeout:    getEnvDuration("HTTP_TIMEOUT", 10*time.Second),
		ConnectTimeout: getEnvDuration("CONNECT_TIMEOUT", 2*time.Second),
		CheckTimeout:   getEnvDuration("CHECK_TIMEOUT", time.Minute),
		TTLNominal:     getEnvInt("TTL_NOMINAL", 3600),
		TTLTolerance:   getEnvFloat("TTL_TOLERANCE", 0.2),
		CertMinDays:    getEnvInt("CERT_MIN_DAYS", 14),
		InventoryPath:  os.Getenv("INVENTORY_PATH"),
		Port:           getEnv("PORT", "5000"),
		Schedule:       getEnv("SCHEDULE", "@every 1h"),
		EnableSchedule: getEnvBool("ENABLE_SCHEDULE", true),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.DNSResolver); err != nil {
		return fmt.Errorf("DNS_RESOLVER must be host:port: %w", err)
	}
	if c.CertMinDays < 0 {
		return fmt.Errorf("CERT_MIN_DAYS must not be negative, got %d", c.CertMinDays)
	}
	if c.TTLNominal <= 0 || int64(c.TTLNominal) > math.MaxUint32 {
		return fmt.Errorf("TTL_NOMINAL must be between 1 and %d seconds, got %d", uint32(math.MaxUint32), c.TTLNominal)
	}
	if c.TTLTolerance < 0 || c.TTLTolerance >= 1 {
		return fmt.Errorf("TTL_TOLERANCE must be in [0,1), got %v", c.TTLTolerance)
	}
	if c.DNSTimeout <= 0 || c.HTTPTimeout <= 0 || c.ConnectTimeout <= 0 || c.CheckTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return d
		}
	}
	return fallback
}
