package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/franciscosanchezn/pizza-tracker/internal/database"
	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(LevelFor(GetEnvWithDefault("APP_ENV", "development")))
}

const defaultJWTSecret = "secret"

// LevelFor maps APP_ENV to the log level used by every package
func LevelFor(environment string) logrus.Level {
	switch environment {
	case "development":
		return logrus.DebugLevel
	case "production":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Config used for the application configuration, loading the input from environment variables
type Config struct {
	// Server Configuration
	Env  string `json:"env"`
	Port int    `json:"port"`
	Host string `json:"host"`

	// Database configuration
	DBDriver   string `json:"db_driver"`
	DBHost     string `json:"db_host"`
	DBPort     string `json:"db_port"`
	DBName     string `json:"db_name"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`
	DBSSLMode  string `json:"db_sslmode"`
	DBPath     string `json:"db_path"`
	// SeedCatalog installs the default ingredients on an empty database
	SeedCatalog bool `json:"seed_catalog"`

	// Logging configuration
	LogLevel string `json:"log_level"`

	// Security Configuration
	JWTSecret string        `json:"jwt_secret"`
	TokenTTL  time.Duration `json:"token_ttl"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Env: %s, Port: %d, Host: %s, DBDriver: %s, DBHost: %s, DBName: %s, DBUser: %s, DBPassword: [REDACTED], DBPath: %s, LogLevel: %s, JWTSecret: [REDACTED], TokenTTL: %s}",
		c.Env, c.Port, c.Host, c.DBDriver, c.DBHost, c.DBName, c.DBUser, c.DBPath, c.LogLevel, c.TokenTTL)
}

// Database returns the connection settings for database.InitDatabase
func (c *Config) Database() database.DatabaseConfig {
	return database.DatabaseConfig{
		Driver:   c.DBDriver,
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		Name:     c.DBName,
		SSLMode:  c.DBSSLMode,
		Path:     c.DBPath,
	}
}

// LoadConfig reads the configuration from environment variables and returns a Config struct
// Returns an error if a variable is malformed or a required one is missing
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port, err := strconv.Atoi(GetEnvWithDefault("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config := &Config{
		Env:         GetEnvWithDefault("APP_ENV", "development"),
		Port:        port,
		Host:        GetEnvWithDefault("APP_HOST", "localhost"),
		DBDriver:    GetEnvWithDefault("DB_DRIVER", "sqlite"),
		DBHost:      GetEnvWithDefault("DB_HOST", ""),
		DBPort:      GetEnvWithDefault("DB_PORT", "5432"),
		DBName:      GetEnvWithDefault("DB_NAME", "pizza_tracker"),
		DBUser:      GetEnvWithDefault("DB_USER", "user"),
		DBPassword:  GetEnvWithDefault("DB_PASSWORD", "password"),
		DBSSLMode:   GetEnvWithDefault("DB_SSLMODE", "disable"),
		DBPath:      GetEnvWithDefault("DB_PATH", "pizza-tracker.sqlite"),
		SeedCatalog: GetEnvAsType("SEED_CATALOG", true),
		LogLevel:    GetEnvWithDefault("LOG_LEVEL", "info"),
		JWTSecret:   GetEnvWithDefault("JWT_SECRET", defaultJWTSecret),
		TokenTTL:    time.Duration(GetEnvAsType("TOKEN_TTL_HOURS", 24)) * time.Hour,
	}

	switch config.DBDriver {
	case "postgres", "postgresql":
		if config.DBHost == "" {
			return nil, errors.New("DB_HOST environment variable is required for postgres")
		}
	case "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", config.DBDriver)
	}

	if config.Env == "production" && config.JWTSecret == defaultJWTSecret {
		return nil, errors.New("JWT_SECRET must be set in production")
	}
	if config.TokenTTL <= 0 {
		return nil, errors.New("TOKEN_TTL_HOURS must be positive")
	}

	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Debugf("Environment variable %s not set, using default value", key)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return any(boolValue).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}
