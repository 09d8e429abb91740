package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/sangkips/records-service/internal/validation"
)

type Config struct {
	DBURL              string
	Port               string
	RabbitMQURL        string
	EventsQueue        string
	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration
	Log                LogConfig
	Policy             validation.Policy
}

type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// LoadConfig reads .env (if present), an optional config.yaml, then the environment. Environment
// variables win.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	earliest, err := time.Parse(validation.DateLayout, v.GetString("POLICY_EARLIEST_BIRTH_DATE"))
	if err != nil {
		return nil, fmt.Errorf("POLICY_EARLIEST_BIRTH_DATE must be YYYY-MM-DD: %w", err)
	}

	cfg := &Config{
		DBURL:              v.GetString("DB_URL"),
		Port:               v.GetString("PORT"),
		RabbitMQURL:        v.GetString("RABBITMQ_URL"),
		EventsQueue:        v.GetString("EVENTS_QUEUE"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		ShutdownTimeout:    v.GetDuration("SHUTDOWN_TIMEOUT"),
		Log: LogConfig{
			Level:      strings.ToLower(v.GetString("LOG_LEVEL")),
			Format:     strings.ToLower(v.GetString("LOG_FORMAT")),
			File:       v.GetString("LOG_FILE"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
		},
		Policy: validation.Policy{
			EarliestBirthDate:         earliest,
			AdultAge:                  v.GetInt("POLICY_ADULT_AGE"),
			EnforceAdultAge:           v.GetBool("POLICY_ENFORCE_ADULT_AGE"),
			RequireServiceDescription: v.GetBool("POLICY_REQUIRE_SERVICE_DESCRIPTION"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := validation.DefaultPolicy()

	v.SetDefault("DB_URL", "sqlite://records.db")
	v.SetDefault("PORT", "8080")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("EVENTS_QUEUE", "record_events")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_FILE", "logs/service.log")
	v.SetDefault("LOG_MAX_SIZE_MB", 1)
	v.SetDefault("LOG_MAX_BACKUPS", 10)
	v.SetDefault("POLICY_EARLIEST_BIRTH_DATE", defaults.EarliestBirthDate.Format(validation.DateLayout))
	v.SetDefault("POLICY_ADULT_AGE", defaults.AdultAge)
	v.SetDefault("POLICY_ENFORCE_ADULT_AGE", defaults.EnforceAdultAge)
	v.SetDefault("POLICY_REQUIRE_SERVICE_DESCRIPTION", defaults.RequireServiceDescription)
}

func (c *Config) validate() error {
	if c.DBURL == "" {
		return errors.New("DB_URL is required")
	}
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Log.Format)
	}
	if c.Policy.AdultAge < 0 {
		return fmt.Errorf("POLICY_ADULT_AGE must not be negative, got %d", c.Policy.AdultAge)
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// EventsEnabled reports whether record events should be published.
func (c *Config) EventsEnabled() bool {
	return c.RabbitMQURL != ""
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
