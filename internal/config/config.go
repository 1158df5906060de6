package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Auth
		Metadata
		Tasks
		Refresh
	}

	HTTP struct {
		Port        int32
		Host        string
		CORSOrigin  string // Frontend origin allowed to send credentials
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Auth struct {
		BcryptCost      int
		SessionLifetime time.Duration
		SecureCookies   bool // Set to false for local dev without HTTPS
		CSRFSecret      string
	}
	Metadata struct {
		BaseURL string // Google Books API base URL, overridable for tests
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Refresh struct {
		Enabled  bool
		Schedule string // Cron format: "0 4 * * *" = daily at 04:00
	}
)

const DefaultDatabasePath = "./bookdeck.db"

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8080)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("cors_origin", "http://localhost:5173")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("bcrypt_cost", 12)
	v.SetDefault("session_lifetime", "24h")
	v.SetDefault("secure_cookies", false)
	v.SetDefault("csrf_secret", "")
	v.SetDefault("metadata_base_url", "https://www.googleapis.com/books/v1")
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("tasks_workers", 2)
	v.SetDefault("tasks_release_after", "10m")
	v.SetDefault("tasks_cleanup_interval", "1h")
	v.SetDefault("refresh_enabled", false)
	v.SetDefault("refresh_schedule", "0 4 * * *")

	return &Config{
		HTTP: HTTP{
			Port:       v.GetInt32("port"),
			Host:       v.GetString("host"),
			CORSOrigin: v.GetString("cors_origin"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("shutdown_timeout_in_seconds"),
		},
		Database: Database{
			Path: v.GetString("database_path"),
		},
		Auth: Auth{
			BcryptCost:      v.GetInt("bcrypt_cost"),
			SessionLifetime: v.GetDuration("session_lifetime"),
			SecureCookies:   v.GetBool("secure_cookies"),
			CSRFSecret:      v.GetString("csrf_secret"),
		},
		Metadata: Metadata{
			BaseURL: v.GetString("metadata_base_url"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("tasks_enabled"),
			Workers:         v.GetInt("tasks_workers"),
			ReleaseAfter:    v.GetDuration("tasks_release_after"),
			CleanupInterval: v.GetDuration("tasks_cleanup_interval"),
		},
		Refresh: Refresh{
			Enabled:  v.GetBool("refresh_enabled"),
			Schedule: v.GetString("refresh_schedule"),
		},
	}
}
