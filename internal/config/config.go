package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vladimiradmaev/diabetes-care/internal/errors"
	"github.com/vladimiradmaev/diabetes-care/internal/logger"
)

// Reminder store backends
const (
	BackendRedis  = "redis"
	BackendDisk   = "disk"
	BackendMemory = "memory"
)

type Config struct {
	TelegramToken string
	MetricsAddr   string
	DB            DBConfig
	Redis         RedisConfig
	Logger        LoggerConfig
	Reminders     RemindersConfig
	Notifications NotificationsConfig
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port for the redis client
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

type RemindersConfig struct {
	Timezone string
	Backend  string
	DiskPath string
}

// Location resolves Timezone, falling back to the host's local zone
func (c RemindersConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

type NotificationsConfig struct {
	Desktop  bool
	Telegram bool
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnvOrDefault(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return value
}

// Load reads configuration from the environment and validates it
func Load() (*Config, error) {
	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.NewConfigError("REDIS_DB must be an integer").WithContext("value", os.Getenv("REDIS_DB"))
	}

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		MetricsAddr:   getEnvOrDefault("METRICS_ADDR", ":9090"),
		DB: DBConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrDefault("DB_NAME", "diabetes_care"),
		},
		Redis: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:      logger.ParseLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "logs/app.log"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
		},
		Reminders: RemindersConfig{
			Timezone: getEnvOrDefault("REMINDER_TIMEZONE", "Local"),
			Backend:  strings.ToLower(getEnvOrDefault("REMINDER_BACKEND", BackendRedis)),
			DiskPath: getEnvOrDefault("REMINDER_DISK_PATH", "data/reminders"),
		},
		Notifications: NotificationsConfig{
			Desktop:  getEnvBool("NOTIFY_DESKTOP", false),
			Telegram: getEnvBool("NOTIFY_TELEGRAM", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every configuration problem at once
func (c *Config) Validate() error {
	var problems []string

	if c.TelegramToken == "" {
		problems = append(problems, "TELEGRAM_BOT_TOKEN is required")
	}

	switch c.Reminders.Backend {
	case BackendRedis, BackendMemory:
	case BackendDisk:
		if c.Reminders.DiskPath == "" {
			problems = append(problems, "REMINDER_DISK_PATH is required for the disk backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("REMINDER_BACKEND %q is not one of redis, disk, memory", c.Reminders.Backend))
	}

	if _, err := c.Reminders.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("REMINDER_TIMEZONE %q: %v", c.Reminders.Timezone, err))
	}

	if c.Logger.Format != "json" && c.Logger.Format != "text" {
		problems = append(problems, fmt.Sprintf("LOG_FORMAT %q is not json or text", c.Logger.Format))
	}

	if len(problems) > 0 {
		return errors.NewConfigError(strings.Join(problems, "; "))
	}
	return nil
}
