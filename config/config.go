package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Port        string
	Environment string

	DBDriver       string
	DBDSN          string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBLogLevel     string
	DBMaxOpenConns int
	DBMaxIdleConns int

	JWTKey    string
	TokenTTL  time.Duration
	SaltRound int

	CORSOrigins string
}

const defaultJWTKey = "defaultSecret"

var defaults = map[string]any{
	"PORT":              "5000",
	"APP_ENV":           "development",
	"DB_DRIVER":         "sqlite",
	"DB_DSN":            "",
	"DB_HOST":           "localhost",
	"DB_PORT":           "",
	"DB_USER":           "",
	"DB_PASSWORD":       "",
	"DB_NAME":           "enrollments.db",
	"DB_LOG_LEVEL":      "warn",
	"DB_MAX_OPEN_CONNS": 10,
	"DB_MAX_IDLE_CONNS": 5,
	"JWT_SECRET_KEY":    defaultJWTKey,
	"TOKEN_TTL":         "168h",
	"SALT_ROUND":        10,
	"CORS_ORIGINS":      "*",
}

// LoadConfig reads configuration from the environment, a .env file in the
// working directory and, when CONFIG_FILE is set, a config file. Environment
// variables win over the file.
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	cfg := &Config{
		Port:        v.GetString("PORT"),
		Environment: strings.ToLower(v.GetString("APP_ENV")),

		DBDriver:       strings.ToLower(v.GetString("DB_DRIVER")),
		DBDSN:          v.GetString("DB_DSN"),
		DBHost:         v.GetString("DB_HOST"),
		DBPort:         v.GetString("DB_PORT"),
		DBUser:         v.GetString("DB_USER"),
		DBPassword:     v.GetString("DB_PASSWORD"),
		DBName:         v.GetString("DB_NAME"),
		DBLogLevel:     strings.ToLower(v.GetString("DB_LOG_LEVEL")),
		DBMaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),

		JWTKey:    v.GetString("JWT_SECRET_KEY"),
		TokenTTL:  v.GetDuration("TOKEN_TTL"),
		SaltRound: v.GetInt("SALT_ROUND"),

		CORSOrigins: v.GetString("CORS_ORIGINS"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Validate critical configuration
	if cfg.JWTKey == defaultJWTKey {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q: must be postgres, mysql or sqlite", c.DBDriver)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.SaltRound < 4 || c.SaltRound > 31 {
		return fmt.Errorf("SALT_ROUND must be between 4 and 31, got %d", c.SaltRound)
	}
	if c.Production() && c.JWTKey == defaultJWTKey {
		return fmt.Errorf("JWT_SECRET_KEY must be set in production")
	}
	return nil
}

// Production reports whether internal error details must be hidden.
func (c *Config) Production() bool {
	return c.Environment == "production"
}

// DSN builds the connection string for the configured driver. DB_DSN, when
// set, is used as-is.
func (c *Config) DSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	switch c.DBDriver {
	case "postgres":
		port := c.DBPort
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			c.DBHost, c.DBUser, c.DBPassword, c.DBName, port)
	case "mysql":
		port := c.DBPort
		if port == "" {
			port = "3306"
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.DBUser, c.DBPassword, c.DBHost, port, c.DBName)
	default:
		return c.DBName + "?_busy_timeout=5000"
	}
}
