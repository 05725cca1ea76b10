package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds all configuration for the relay service
type Config struct {
	Telegram TelegramConfig
	Database DatabaseConfig
	Relay    RelayConfig
	Sync     SyncConfig
	Kafka    KafkaConfig
	Logging  LoggingConfig
	Service  ServiceConfig
}

// TelegramConfig holds credentials for both Telegram connections
type TelegramConfig struct {
	APIID       int
	APIHash     string
	Phone       string
	BotToken    string
	AuthTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	DSN      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// GetDSN returns DSN override or builds it from the individual fields
func (c *DatabaseConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// RelayConfig holds sizes and timeouts of the in-process pipes
type RelayConfig struct {
	EventBuffer    int
	EnqueueTimeout time.Duration
	PipeCapacity   int
}

// SyncConfig holds settings of the periodic channel history sync
type SyncConfig struct {
	Enabled      bool
	Interval     time.Duration
	Timeout      time.Duration
	HistoryLimit int
}

// KafkaConfig holds Kafka producer settings. Empty Brokers disables publishing.
type KafkaConfig struct {
	Brokers    []string
	TopicPosts string
}

// Enabled reports whether any broker is configured
func (c *KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Name string
	Port string
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config   *Config
	Telegram *TelegramConfig
	Database *DatabaseConfig
	Relay    *RelayConfig
	Sync     *SyncConfig
	Kafka    *KafkaConfig
	Logging  *LoggingConfig
	Service  *ServiceConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:   cfg,
		Telegram: &cfg.Telegram,
		Database: &cfg.Database,
		Relay:    &cfg.Relay,
		Sync:     &cfg.Sync,
		Kafka:    &cfg.Kafka,
		Logging:  &cfg.Logging,
		Service:  &cfg.Service,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := &Config{
		Telegram: TelegramConfig{
			APIID:       getEnvInt("TELEGRAM_API_ID", 0),
			APIHash:     getEnv("TELEGRAM_API_HASH", ""),
			Phone:       getEnv("TELEGRAM_PHONE", ""),
			BotToken:    getEnv("TELEGRAM_BOT_TOKEN", ""),
			AuthTimeout: getEnvDuration("TELEGRAM_AUTH_TIMEOUT", 5*time.Minute),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DATABASE_DSN", ""),
			Host:     getEnv("DATABASE_HOST", "localhost"),
			Port:     getEnv("DATABASE_PORT", "5432"),
			User:     getEnv("DATABASE_USER", "postgres"),
			Password: getEnv("DATABASE_PASSWORD", "postgres"),
			Name:     getEnv("DATABASE_NAME", "relay"),
			SSLMode:  getEnv("DATABASE_SSLMODE", "disable"),
		},
		Relay: RelayConfig{
			EventBuffer:    getEnvInt("RELAY_EVENT_BUFFER", 2000),
			EnqueueTimeout: getEnvDuration("RELAY_ENQUEUE_TIMEOUT", 15*time.Second),
			PipeCapacity:   getEnvInt("RELAY_PIPE_CAPACITY", 10),
		},
		Sync: SyncConfig{
			Enabled:      getEnvBool("SYNC_ENABLED", true),
			Interval:     getEnvDuration("SYNC_INTERVAL", 5*time.Minute),
			Timeout:      getEnvDuration("SYNC_TIMEOUT", 2*time.Minute),
			HistoryLimit: getEnvInt("SYNC_HISTORY_LIMIT", 100),
		},
		Kafka: KafkaConfig{
			Brokers:    splitList(getEnv("KAFKA_BROKERS", "")),
			TopicPosts: getEnv("KAFKA_TOPIC_POSTS", "posts.received"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Service: ServiceConfig{
			Name: getEnv("SERVICE_NAME", "relay-service"),
			Port: getEnv("SERVICE_PORT", "8085"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.APIID == 0 {
		return fmt.Errorf("TELEGRAM_API_ID is required")
	}
	if c.Telegram.APIHash == "" {
		return fmt.Errorf("TELEGRAM_API_HASH is required")
	}
	if c.Telegram.Phone == "" {
		return fmt.Errorf("TELEGRAM_PHONE is required")
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	if c.Relay.EventBuffer <= 0 {
		return fmt.Errorf("RELAY_EVENT_BUFFER must be positive")
	}
	if c.Relay.PipeCapacity <= 0 {
		return fmt.Errorf("RELAY_PIPE_CAPACITY must be positive")
	}
	if c.Relay.EnqueueTimeout <= 0 {
		return fmt.Errorf("RELAY_ENQUEUE_TIMEOUT must be positive")
	}

	if c.Sync.Enabled {
		if c.Sync.Interval <= 0 {
			return fmt.Errorf("SYNC_INTERVAL must be positive")
		}
		if c.Sync.HistoryLimit <= 0 || c.Sync.HistoryLimit > 100 {
			return fmt.Errorf("SYNC_HISTORY_LIMIT must be between 1 and 100")
		}
	}

	if c.Kafka.Enabled() && c.Kafka.TopicPosts == "" {
		return fmt.Errorf("KAFKA_TOPIC_POSTS is required when KAFKA_BROKERS is set")
	}

	return nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

// splitList splits a comma separated list dropping empty items
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
