package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Configuration constants
const (
	// Store Configuration
	DataDir = "DATA_DIR"

	// Logging Configuration
	LogLevel  = "LOG_LEVEL"
	LogFormat = "LOG_FORMAT"

	// Notifier Configuration
	NotifierKind       = "NOTIFIER"
	NotifyBuffer       = "NOTIFY_BUFFER"
	NotifyMaxWorkers   = "NOTIFY_MAX_WORKERS"
	NotifyMaxCapacity  = "NOTIFY_MAX_CAPACITY"
	NotifierKindMemory = "channel"
	NotifierKindRedis  = "redis"

	// Redis Configuration
	RedisAddr     = "REDIS_ADDR"
	RedisPassword = "REDIS_PASSWORD"
	RedisDB       = "REDIS_DB"
)

// Config holds all application configuration
type Config struct {
	Store    StoreConfig
	Redis    RedisConfig
	Logging  LoggingConfig
	Notifier NotifierConfig
}

// StoreConfig holds record store configuration
type StoreConfig struct {
	DataDir string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NotifierConfig holds notification fanout configuration
type NotifierConfig struct {
	Kind        string
	Buffer      int
	MaxWorkers  int
	MaxCapacity int
}

// LoadConfig loads configuration from environment variables and .envrc file
func LoadConfig() (*Config, error) {
	viper.SetConfigName(".envrc")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	// Config file is optional; environment variables are enough
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{
		Store: StoreConfig{
			DataDir: viper.GetString(DataDir),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString(RedisAddr),
			Password: viper.GetString(RedisPassword),
			DB:       viper.GetInt(RedisDB),
		},
		Logging: LoggingConfig{
			Level:  viper.GetString(LogLevel),
			Format: viper.GetString(LogFormat),
		},
		Notifier: NotifierConfig{
			Kind:        viper.GetString(NotifierKind),
			Buffer:      viper.GetInt(NotifyBuffer),
			MaxWorkers:  viper.GetInt(NotifyMaxWorkers),
			MaxCapacity: viper.GetInt(NotifyMaxCapacity),
		},
	}

	return config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	// Store defaults
	viper.SetDefault(DataDir, "./data")

	// Redis defaults
	viper.SetDefault(RedisAddr, "localhost:6379")
	viper.SetDefault(RedisPassword, "")
	viper.SetDefault(RedisDB, 0)

	// Logging defaults
	viper.SetDefault(LogLevel, "info")
	viper.SetDefault(LogFormat, "json")

	// Notifier defaults
	viper.SetDefault(NotifierKind, NotifierKindMemory)
	viper.SetDefault(NotifyBuffer, 100)
	viper.SetDefault(NotifyMaxWorkers, 10)
	viper.SetDefault(NotifyMaxCapacity, 100)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Store.DataDir == "" {
		return fmt.Errorf("data directory is required")
	}

	if c.Notifier.Kind != NotifierKindMemory && c.Notifier.Kind != NotifierKindRedis {
		return fmt.Errorf("unknown notifier kind: %s", c.Notifier.Kind)
	}

	if c.Notifier.Kind == NotifierKindRedis && c.Redis.Addr == "" {
		return fmt.Errorf("Redis address is required")
	}

	return nil
}
