package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port            string `yaml:"port" env:"SERVER_PORT"`
		Mode            string `yaml:"mode" env:"SERVER_MODE"`
		ShutdownTimeout string `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	// SMTP is the mail relay used for new-event notifications. Notifications are
	// skipped when Username or Password is empty.
	SMTP struct {
		Host      string `yaml:"host" env:"SMTP_HOST"`
		Port      int    `yaml:"port" env:"SMTP_PORT"`
		Username  string `yaml:"username" env:"EMAIL_USER"`
		Password  string `yaml:"password" env:"EMAIL_PASSWORD"`
		FromName  string `yaml:"from_name" env:"SMTP_FROM_NAME"`
		FromEmail string `yaml:"from_email" env:"SMTP_FROM_EMAIL"`
		TLSPolicy string `yaml:"tls_policy" env:"SMTP_TLS_POLICY"`
	} `yaml:"smtp"`

	Notification struct {
		Workers             int    `yaml:"workers" env:"NOTIFY_WORKERS"`
		QueueSize           int    `yaml:"queue_size" env:"NOTIFY_QUEUE_SIZE"`
		Concurrency         int    `yaml:"concurrency" env:"NOTIFY_CONCURRENCY"`
		PerRecipientTimeout string `yaml:"per_recipient_timeout" env:"NOTIFY_PER_RECIPIENT_TIMEOUT"`
		JobTimeout          string `yaml:"job_timeout" env:"NOTIFY_JOB_TIMEOUT"`
	} `yaml:"notification"`

	App struct {
		FrontendURL string `yaml:"frontend_url" env:"FRONTEND_URL"`
	} `yaml:"app"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS"`
	} `yaml:"cors"`

	Reconcile struct {
		Enabled  bool   `yaml:"enabled" env:"RECONCILE_ENABLED"`
		Schedule string `yaml:"schedule" env:"RECONCILE_SCHEDULE"`
	} `yaml:"reconcile"`

	Seed struct {
		AdminEmail    string `yaml:"admin_email" env:"SEED_ADMIN_EMAIL"`
		AdminPassword string `yaml:"admin_password" env:"SEED_ADMIN_PASSWORD"`
		AdminName     string `yaml:"admin_name" env:"SEED_ADMIN_NAME"`
	} `yaml:"seed"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// The file is optional; defaults and env vars are enough to run.
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "5000"
	config.Server.Mode = "development"
	config.Server.ShutdownTimeout = "15s"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "campus_connect"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	config.JWT.AccessTokenExpiration = "24h"
	config.JWT.Issuer = "campus-connect"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.SMTP.Host = "smtp.gmail.com"
	config.SMTP.Port = 587
	config.SMTP.FromName = "Campus Connect"
	config.SMTP.TLSPolicy = "mandatory"

	config.Notification.Workers = 2
	config.Notification.QueueSize = 64
	config.Notification.Concurrency = 8
	config.Notification.PerRecipientTimeout = "15s"
	config.Notification.JobTimeout = "5m"

	config.App.FrontendURL = "http://localhost:5173"
	config.CORS.AllowedOrigins = []string{"*"}

	config.Reconcile.Enabled = true
	config.Reconcile.Schedule = "@every 10m"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	durations := map[string]string{
		"JWT access token expiration":         config.JWT.AccessTokenExpiration,
		"database connection max lifetime":    config.Database.ConnMaxLifetime,
		"server shutdown timeout":             config.Server.ShutdownTimeout,
		"notification per-recipient timeout": config.Notification.PerRecipientTimeout,
		"notification job timeout":            config.Notification.JobTimeout,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	if config.Notification.Workers < 1 {
		return fmt.Errorf("notification workers must be at least 1")
	}
	if config.Notification.QueueSize < 1 {
		return fmt.Errorf("notification queue size must be at least 1")
	}
	if config.Notification.Concurrency < 1 {
		return fmt.Errorf("notification concurrency must be at least 1")
	}

	if _, err := url.ParseRequestURI(config.App.FrontendURL); err != nil {
		return fmt.Errorf("invalid frontend url: %w", err)
	}

	switch strings.ToLower(config.SMTP.TLSPolicy) {
	case "mandatory", "opportunistic", "none":
	default:
		return fmt.Errorf("smtp tls_policy must be one of mandatory, opportunistic, none")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     c.Database.Host + ":" + c.Database.Port,
		Path:     "/" + c.Database.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(sslMode),
	}
	return u.String()
}

// EmailConfigured reports whether SMTP credentials are present.
func (c *Config) EmailConfigured() bool {
	return c.SMTP.Username != "" && c.SMTP.Password != ""
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvAsInt gets an environment variable as an integer or returns a default value
func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
