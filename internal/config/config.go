package config

import (
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/simaogato/propfolio-backend/internal/domain"
)

const defaultAPIToken = "dev-token"

type Config struct {
	DBConnStr  string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	// AutoMigrate applies the schema on startup
	AutoMigrate bool

	GRPCPort string
	HTTPPort string
	APIToken string

	// RedisAddr empty disables the metrics cache
	RedisAddr       string
	RedisDB         int
	CacheTTLSeconds int

	RatioStorageLimit decimal.Decimal
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// LoadDotEnv loads variables from a .env file when one exists.
// Variables already set in the environment win.
func LoadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: could not load %s: %v", path, err)
	}
}

func Load() *Config {
	c := &Config{
		DBConnStr:   os.Getenv("DB_CONN_STR"),
		DBHost:      getenv("DB_HOST", "localhost"),
		DBPort:      getenv("DB_PORT", "5432"),
		DBUser:      getenv("DB_USER", "postgres"),
		DBPassword:  getenv("DB_PASSWORD", "postgres"),
		DBName:      getenv("DB_NAME", "propfolio"),
		AutoMigrate: true,

		GRPCPort: getenv("GRPC_PORT", ":8080"),
		HTTPPort: getenv("HTTP_PORT", "8081"),
		APIToken: getenv("API_TOKEN", defaultAPIToken),

		RedisAddr:       os.Getenv("REDIS_ADDR"),
		CacheTTLSeconds: 0,

		RatioStorageLimit: domain.DefaultRatioStorageLimit,
	}
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.AutoMigrate = b
		}
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	if v := os.Getenv("CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.CacheTTLSeconds = n
		}
	}
	if v := os.Getenv("RATIO_STORAGE_LIMIT"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			c.RatioStorageLimit = d
		}
	}
	return c
}

func (c *Config) Validate() error {
	if c.DBConnStr == "" {
		if c.DBHost == "" || c.DBPort == "" || c.DBUser == "" || c.DBName == "" {
			return errors.New("missing database config (DB_CONN_STR or DB_HOST/PORT/USER/NAME)")
		}
		if _, err := net.LookupPort("tcp", c.DBPort); err != nil {
			return fmt.Errorf("invalid DB_PORT %q: %w", c.DBPort, err)
		}
	}
	if _, err := net.LookupPort("tcp", strings.TrimPrefix(c.GRPCPort, ":")); err != nil {
		return fmt.Errorf("invalid GRPC_PORT %q: %w", c.GRPCPort, err)
	}
	if _, err := net.LookupPort("tcp", c.HTTPPort); err != nil {
		return fmt.Errorf("invalid HTTP_PORT %q: %w", c.HTTPPort, err)
	}
	if c.APIToken == "" {
		return errors.New("missing API_TOKEN")
	}
	if c.CacheTTLSeconds < 0 {
		return errors.New("CACHE_TTL_SECONDS must not be negative")
	}
	if !c.RatioStorageLimit.IsPositive() {
		return errors.New("RATIO_STORAGE_LIMIT must be positive")
	}
	if c.RatioStorageLimit.GreaterThan(domain.MaxRatioStorageLimit) {
		return fmt.Errorf("RATIO_STORAGE_LIMIT must not exceed %s", domain.MaxRatioStorageLimit)
	}
	return nil
}

// DatabaseURL returns DB_CONN_STR, or builds a lib/pq connection string from the individual variables
func (c *Config) DatabaseURL() string {
	if c.DBConnStr != "" {
		return c.DBConnStr
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// HTTPAddr is the listen address of the REST server
func (c *Config) HTTPAddr() string {
	return ":" + strings.TrimPrefix(c.HTTPPort, ":")
}
