package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP     HTTPConfig
	Database DatabaseConfig
	Logging  LoggingConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Port            int
	RequestTimeout  time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig describes the Postgres pool.
type DatabaseConfig struct {
	URL                  string
	MaxConnections       int
	ConnMaxLifetime      time.Duration
	ConnectRetries       int
	ConnectRetryInterval time.Duration
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level  string
	Format string // text|json
}

// Environment keys.
const (
	KeyDatabaseURL          = "DATABASE_URL"
	KeyPort                 = "PROD_PORT"
	KeyConnections          = "CONNECTIONS"
	KeyRequestTimeout       = "REQUEST_TIMEOUT"
	KeyReadTimeout          = "SERVER_READ_TIMEOUT"
	KeyWriteTimeout         = "SERVER_WRITE_TIMEOUT"
	KeyIdleTimeout          = "SERVER_IDLE_TIMEOUT"
	KeyShutdownTimeout      = "SHUTDOWN_TIMEOUT"
	KeyConnMaxLifetime      = "DB_CONN_MAX_LIFETIME"
	KeyConnectRetries       = "DB_CONNECT_RETRIES"
	KeyConnectRetryInterval = "DB_CONNECT_RETRY_INTERVAL"
	KeyLogLevel             = "LOG_LEVEL"
	KeyLogFormat            = "LOG_FORMAT"
)

// New returns a viper instance with defaults applied and the environment bound.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return v
}

// Load reads configuration from environment variables, applying defaults.
func Load() (Config, error) {
	return FromViper(New())
}

// FromViper builds and validates a Config from v.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		HTTP: HTTPConfig{
			Port:            v.GetInt(KeyPort),
			RequestTimeout:  v.GetDuration(KeyRequestTimeout),
			ReadTimeout:     v.GetDuration(KeyReadTimeout),
			WriteTimeout:    v.GetDuration(KeyWriteTimeout),
			IdleTimeout:     v.GetDuration(KeyIdleTimeout),
			ShutdownTimeout: v.GetDuration(KeyShutdownTimeout),
		},
		Database: DatabaseConfig{
			URL:                  v.GetString(KeyDatabaseURL),
			MaxConnections:       v.GetInt(KeyConnections),
			ConnMaxLifetime:      v.GetDuration(KeyConnMaxLifetime),
			ConnectRetries:       v.GetInt(KeyConnectRetries),
			ConnectRetryInterval: v.GetDuration(KeyConnectRetryInterval),
		},
		Logging: LoggingConfig{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("%s is required", KeyDatabaseURL)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("%s %d is out of range", KeyPort, c.HTTP.Port)
	}
	if c.Database.MaxConnections <= 0 {
		return fmt.Errorf("%s must be positive, got %d", KeyConnections, c.Database.MaxConnections)
	}
	if c.HTTP.RequestTimeout <= 0 {
		return fmt.Errorf("%s must be positive", KeyRequestTimeout)
	}
	if c.Database.ConnectRetries <= 0 {
		return fmt.Errorf("%s must be positive", KeyConnectRetries)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyPort, 9999)
	v.SetDefault(KeyConnections, 50)
	v.SetDefault(KeyRequestTimeout, 5*time.Second)
	v.SetDefault(KeyReadTimeout, 15*time.Second)
	v.SetDefault(KeyWriteTimeout, 15*time.Second)
	v.SetDefault(KeyIdleTimeout, 60*time.Second)
	v.SetDefault(KeyShutdownTimeout, 30*time.Second)
	v.SetDefault(KeyConnMaxLifetime, 10*time.Minute)
	v.SetDefault(KeyConnectRetries, 10)
	v.SetDefault(KeyConnectRetryInterval, 2*time.Second)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "json")
}
