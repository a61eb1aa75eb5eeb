// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Economy  EconomyConfig  `mapstructure:"economy"`
	Draw     DrawConfig     `mapstructure:"draw"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// EconomyConfig holds token pricing curve parameters and the quote cache TTL.
type EconomyConfig struct {
	MaxTokenValue float64       `mapstructure:"max_token_value"`
	MinTokenValue float64       `mapstructure:"min_token_value"`
	DecayK        float64       `mapstructure:"decay_k"`
	MinInterest   float64       `mapstructure:"min_interest"`
	MaxInterest   float64       `mapstructure:"max_interest"`
	QuoteCacheTTL time.Duration `mapstructure:"quote_cache_ttl"`
}

// DrawConfig holds daily draw resolver configuration.
type DrawConfig struct {
	// ResolveDelay is how long after UTC midnight the resolver waits before
	// settling the previous day's pot.
	ResolveDelay time.Duration `mapstructure:"resolve_delay"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the config directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables use underscore separator and uppercase,
	// e.g. DATABASE_HOST, ECONOMY_DECAY_K
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - env vars can provide all config
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "arcade")
	v.SetDefault("database.name", "arcade")
	v.SetDefault("database.pool_size", 20)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	// Economy curve defaults
	v.SetDefault("economy.max_token_value", 500000.0)
	v.SetDefault("economy.min_token_value", 0.01)
	v.SetDefault("economy.decay_k", 0.0001)
	v.SetDefault("economy.min_interest", 0.01)
	v.SetDefault("economy.max_interest", 0.08)
	v.SetDefault("economy.quote_cache_ttl", "30s")

	// Draw resolver defaults
	v.SetDefault("draw.resolve_delay", "5m")
}
