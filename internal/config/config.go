// Package config loads application configuration from config files and
// environment variables via Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/saspirant/notifier/internal/database"
	"github.com/saspirant/notifier/internal/email"
	"github.com/saspirant/notifier/internal/logger"
	"github.com/saspirant/notifier/internal/transport"
)

// Scheduler defaults.
const (
	defaultRetryDelay = time.Hour
)

// Config is the full application configuration.
type Config struct {
	App       AppConfig
	Logger    logger.Config
	Database  database.Config
	Redis     RedisConfig
	Scraper   ScraperConfig
	Email     EmailConfig
	Scheduler SchedulerConfig
	Server    ServerConfig
}

// AppConfig identifies the running instance.
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
}

// RedisConfig addresses the counter store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ScraperConfig tunes the fetch and render pipeline.
type ScraperConfig struct {
	MaxAttempts     int
	RetryDelay      time.Duration
	RequestTimeout  time.Duration
	RenderTimeout   time.Duration
	RendererEnabled bool
	InsecureTLS     bool
}

// EmailConfig holds delivery credentials and quota policy.
type EmailConfig struct {
	SendGridAPIKey  string
	FromEmail       string
	FromName        string
	DailyLimit      int
	DigestThreshold int
}

// SchedulerConfig tunes the orchestrator.
type SchedulerConfig struct {
	RetryDelay time.Duration
}

// ServerConfig holds the HTTP listen address.
type ServerConfig struct {
	Address string
}

// Load reads configuration from the given file (optional), the environment,
// and defaults, in increasing precedence of environment over file.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	// The config file is optional; environment variables and defaults carry
	// a containerized deployment.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		App: AppConfig{
			Name:        v.GetString("app.name"),
			Environment: v.GetString("app.environment"),
			Debug:       v.GetBool("app.debug"),
		},
		Logger: logger.Config{
			Level:       v.GetString("logger.level"),
			Development: v.GetString("app.environment") == "development",
			Encoding:    v.GetString("logger.encoding"),
		},
		Database: database.Config{
			Host:     v.GetString("database.host"),
			Port:     v.GetString("database.port"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			DBName:   v.GetString("database.name"),
			SSLMode:  v.GetString("database.sslmode"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Scraper: ScraperConfig{
			MaxAttempts:     v.GetInt("scraper.max_attempts"),
			RetryDelay:      v.GetDuration("scraper.retry_delay"),
			RequestTimeout:  v.GetDuration("scraper.request_timeout"),
			RenderTimeout:   v.GetDuration("scraper.render_timeout"),
			RendererEnabled: v.GetBool("scraper.renderer_enabled"),
			InsecureTLS:     v.GetBool("scraper.insecure_tls"),
		},
		Email: EmailConfig{
			SendGridAPIKey:  v.GetString("email.sendgrid_api_key"),
			FromEmail:       v.GetString("email.from_email"),
			FromName:        v.GetString("email.from_name"),
			DailyLimit:      v.GetInt("email.daily_limit"),
			DigestThreshold: v.GetInt("email.digest_threshold"),
		},
		Scheduler: SchedulerConfig{
			RetryDelay: v.GetDuration("scheduler.retry_delay"),
		},
		Server: ServerConfig{
			Address: v.GetString("server.address"),
		},
	}

	if cfg.App.Debug {
		cfg.Logger.Level = "debug"
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app", map[string]any{
		"name":        "notifier",
		"environment": "production",
		"debug":       false,
	})
	v.SetDefault("logger", map[string]any{
		"level":    "info",
		"encoding": "json",
	})
	v.SetDefault("database", map[string]any{
		"host":     "127.0.0.1",
		"port":     "5432",
		"user":     "notifier",
		"password": "",
		"name":     "notifier",
		"sslmode":  "disable",
	})
	v.SetDefault("redis", map[string]any{
		"addr":     "127.0.0.1:6379",
		"password": "",
		"db":       0,
	})
	v.SetDefault("scraper", map[string]any{
		"max_attempts":     transport.DefaultMaxAttempts,
		"retry_delay":      transport.DefaultRetryDelay.String(),
		"request_timeout":  transport.DefaultRequestTimeout.String(),
		"render_timeout":   transport.DefaultRenderTimeout.String(),
		"renderer_enabled": true,
		"insecure_tls":     false,
	})
	v.SetDefault("email", map[string]any{
		"sendgrid_api_key": "",
		"from_email":       "alerts@saspirant.example",
		"from_name":        "Saspirant Alerts",
		"daily_limit":      email.DefaultDailyLimit,
		"digest_threshold": email.DefaultDigestThreshold,
	})
	v.SetDefault("scheduler", map[string]any{
		"retry_delay": defaultRetryDelay.String(),
	})
	v.SetDefault("server", map[string]any{
		"address": ":8080",
	})
}
