// Package config handles application configuration from environment variables
// and an optional YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when a value is set neither in the file nor in the environment.
const (
	DefaultDatabasePath      = "./data/qrscan.db"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
	DefaultMaxImageBytes     = 10 << 20
	DefaultDecodeWorkers     = 2
	DefaultResultGateTimeout = 2 * time.Minute
)

// Config holds the application configuration.
type Config struct {
	TelegramBotToken  string
	DatabasePath      string
	LogLevel          string
	LogFormat         string
	AllowedUsers      []int64
	MaxImageBytes     int64
	DecodeWorkers     int
	ResultGateTimeout time.Duration
}

type fileConfig struct {
	TelegramBotToken  string  `yaml:"telegram_bot_token"`
	DatabasePath      string  `yaml:"database_path"`
	LogLevel          string  `yaml:"log_level"`
	LogFormat         string  `yaml:"log_format"`
	AllowedUsers      []int64 `yaml:"allowed_users"`
	MaxImageBytes     int64   `yaml:"max_image_bytes"`
	DecodeWorkers     int     `yaml:"decode_workers"`
	ResultGateTimeout string  `yaml:"result_gate_timeout"`
}

// Load reads the bot configuration. TELEGRAM_BOT_TOKEN is required.
func Load() (*Config, error) {
	cfg, err := LoadLocal()
	if err != nil {
		return nil, err
	}
	if cfg.TelegramBotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	return cfg, nil
}

// LoadLocal reads the configuration without requiring a bot token, for
// commands that only touch the local database.
func LoadLocal() (*Config, error) {
	cfg := &Config{
		DatabasePath:      DefaultDatabasePath,
		LogLevel:          DefaultLogLevel,
		LogFormat:         DefaultLogFormat,
		MaxImageBytes:     DefaultMaxImageBytes,
		DecodeWorkers:     DefaultDecodeWorkers,
		ResultGateTimeout: DefaultResultGateTimeout,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&c.TelegramBotToken, fc.TelegramBotToken)
	setString(&c.DatabasePath, fc.DatabasePath)
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.LogFormat, fc.LogFormat)
	if len(fc.AllowedUsers) > 0 {
		c.AllowedUsers = fc.AllowedUsers
	}
	if fc.MaxImageBytes > 0 {
		c.MaxImageBytes = fc.MaxImageBytes
	}
	if fc.DecodeWorkers > 0 {
		c.DecodeWorkers = fc.DecodeWorkers
	}
	if fc.ResultGateTimeout != "" {
		d, err := time.ParseDuration(fc.ResultGateTimeout)
		if err != nil {
			return fmt.Errorf("invalid result_gate_timeout %q: %w", fc.ResultGateTimeout, err)
		}
		c.ResultGateTimeout = d
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.TelegramBotToken, os.Getenv("TELEGRAM_BOT_TOKEN"))
	setString(&c.DatabasePath, os.Getenv("DATABASE_PATH"))
	setString(&c.LogLevel, os.Getenv("LOG_LEVEL"))
	setString(&c.LogFormat, os.Getenv("LOG_FORMAT"))

	if raw := os.Getenv("ALLOWED_USERS"); raw != "" {
		var users []int64
		for _, s := range strings.Split(raw, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			uid, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user ID %q in ALLOWED_USERS: %w", s, err)
			}
			users = append(users, uid)
		}
		c.AllowedUsers = users
	}

	if raw := os.Getenv("MAX_IMAGE_BYTES"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid MAX_IMAGE_BYTES %q", raw)
		}
		c.MaxImageBytes = n
	}

	if raw := os.Getenv("DECODE_WORKERS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 64 {
			return fmt.Errorf("DECODE_WORKERS must be between 1 and 64, got %q", raw)
		}
		c.DecodeWorkers = n
	}

	if raw := os.Getenv("RESULT_GATE_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid RESULT_GATE_TIMEOUT %q: %w", raw, err)
		}
		c.ResultGateTimeout = d
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// IsUserAllowed checks whether a user ID is in the allow list.
// Returns true if the allow list is empty (all users permitted).
func (c *Config) IsUserAllowed(userID int64) bool {
	if len(c.AllowedUsers) == 0 {
		return true
	}
	for _, id := range c.AllowedUsers {
		if id == userID {
			return true
		}
	}
	return false
}
