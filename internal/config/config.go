package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const DefaultGreeting = "Welcome to Dalal 2.0! Fastest Dalal to assist you."

type Config struct {
	ServiceURL     string
	PollInterval   time.Duration
	RequestTimeout time.Duration
	Greeting       string
	LogLevel       string
	LogFile        string

	// Development backend
	HTTPPort      string
	DatabaseURL   string
	DevReadyDelay time.Duration
}

var AppConfig Config

// LoadConfig reads an optional .env file and the environment into AppConfig.
// It reports whether a .env file was found so callers can log it once their
// logger exists.
func LoadConfig() (bool, error) {
	envLoaded := godotenv.Load() == nil

	AppConfig = Config{
		ServiceURL:     getEnv("DALAL_SERVICE_URL", "http://localhost:8000"),
		PollInterval:   getEnvAsDuration("POLL_INTERVAL", 5*time.Second),
		RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 60*time.Second),
		Greeting:       getEnv("DALAL_GREETING", DefaultGreeting),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        getEnv("LOG_FILE", ""),
		HTTPPort:       getEnv("HTTP_PORT", "8000"),
		DatabaseURL:    getEnv("DATABASE_URL", "dalal_dev.db"),
		DevReadyDelay:  getEnvAsDuration("DEV_READY_DELAY", 2*time.Second),
	}

	return envLoaded, AppConfig.Validate()
}

func (c Config) Validate() error {
	if c.ServiceURL == "" {
		return fmt.Errorf("DALAL_SERVICE_URL must not be empty")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive, got %s", c.PollInterval)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must not be negative, got %s", c.RequestTimeout)
	}
	return nil
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("5s") or a bare number of seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
