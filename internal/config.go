package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"http_server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Security SecurityConfig `mapstructure:"security"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	BaseURL        string        `mapstructure:"base_url"`
	AllowedOrigins string        `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	LoginRateLimit string        `mapstructure:"login_rate_limit"`
}

type StorageConfig struct {
	DataDir     string        `mapstructure:"data_dir"`
	LockTimeout time.Duration `mapstructure:"lock_timeout"`
	LockRetries int           `mapstructure:"lock_retries"`
}

type SecurityConfig struct {
	AccessTokenSecret    string        `mapstructure:"access_token_secret"`
	RefreshTokenSecret   string        `mapstructure:"refresh_token_secret"`
	AccessTokenDuration  time.Duration `mapstructure:"access_token_duration"`
	RefreshTokenDuration time.Duration `mapstructure:"refresh_token_duration"`
	BCryptCost           int           `mapstructure:"bcrypt_cost"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ----------------- DEFAULTS -----------------

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: "*",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			IdleTimeout:    60 * time.Second,
			LoginRateLimit: "10-M",
		},
		Storage: StorageConfig{
			DataDir:     "data",
			LockTimeout: 5 * time.Second,
			LockRetries: 3,
		},
		Security: SecurityConfig{
			AccessTokenDuration:  30 * time.Minute,
			RefreshTokenDuration: 7 * 24 * time.Hour,
			BCryptCost:           12,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfigFromEnv builds a config entirely from environment variables,
// used for containerized deployments without a config file.
func LoadConfigFromEnv() *Config {
	cfg := DefaultConfig()

	cfg.Server.Port = getEnvAsInt("SERVER_PORT", cfg.Server.Port)
	cfg.Server.BaseURL = getEnv("SERVER_BASE_URL", cfg.Server.BaseURL)
	cfg.Server.AllowedOrigins = getEnv("SERVER_ALLOWED_ORIGINS", cfg.Server.AllowedOrigins)
	cfg.Server.LoginRateLimit = getEnv("SERVER_LOGIN_RATE_LIMIT", cfg.Server.LoginRateLimit)

	cfg.Storage.DataDir = getEnv("STORAGE_DATA_DIR", cfg.Storage.DataDir)
	cfg.Storage.LockTimeout = getEnvAsDuration("STORAGE_LOCK_TIMEOUT", cfg.Storage.LockTimeout)
	cfg.Storage.LockRetries = getEnvAsInt("STORAGE_LOCK_RETRIES", cfg.Storage.LockRetries)

	cfg.Security.AccessTokenSecret = getEnv("SECURITY_ACCESS_TOKEN_SECRET", cfg.Security.AccessTokenSecret)
	cfg.Security.RefreshTokenSecret = getEnv("SECURITY_REFRESH_TOKEN_SECRET", cfg.Security.RefreshTokenSecret)
	cfg.Security.AccessTokenDuration = getEnvAsDuration("SECURITY_ACCESS_TOKEN_DURATION", cfg.Security.AccessTokenDuration)
	cfg.Security.RefreshTokenDuration = getEnvAsDuration("SECURITY_REFRESH_TOKEN_DURATION", cfg.Security.RefreshTokenDuration)
	cfg.Security.BCryptCost = getEnvAsInt("SECURITY_BCRYPT_COST", cfg.Security.BCryptCost)

	cfg.Logging.Level = getEnv("LOGGING_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("LOGGING_FORMAT", cfg.Logging.Format)

	return cfg
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("storage config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	return nil
}

func (c *StorageConfig) Validate() error {
	if c.DataDir == "" {
		return errors.New("data_dir is required")
	}
	if c.LockTimeout <= 0 {
		return errors.New("lock_timeout must be positive")
	}
	if c.LockRetries < 0 {
		return errors.New("lock_retries cannot be negative")
	}
	return nil
}

func (c *SecurityConfig) Validate() error {
	if c.AccessTokenSecret == "" {
		return errors.New("access_token_secret is required")
	}
	if c.RefreshTokenSecret == "" {
		return errors.New("refresh_token_secret is required")
	}
	if c.AccessTokenDuration < time.Minute || c.AccessTokenDuration > time.Hour {
		return errors.New("access_token_duration must be between 1m and 1h")
	}
	if c.RefreshTokenDuration < time.Hour {
		return errors.New("refresh_token_duration must be at least 1h")
	}
	if c.BCryptCost < 10 || c.BCryptCost > 15 {
		return errors.New("bcrypt_cost must be between 10 and 15")
	}
	return nil
}
