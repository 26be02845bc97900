package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the configuration reads,
// e.g. SHELF_SERVER_PORT or SHELF_DATABASE_URL.
const EnvPrefix = "SHELF"

var defaults = map[string]any{
	"server.port":             8080,
	"server.log_level":        "info",
	"server.log_file":         "",
	"server.log_max_size_mb":  100,
	"server.log_max_backups":  3,
	"server.cors_origins":     []string{"http://localhost:3000"},
	"server.shutdown_timeout": "15s",

	"database.driver":            DriverPostgres,
	"database.url":               "",
	"database.max_open_conns":    25,
	"database.max_idle_conns":    25,
	"database.conn_max_lifetime": "5m",
	"database.auto_migrate":      false,

	"query.default_limit":           10,
	"query.max_limit":               100,
	"query.default_sort":            "-createdAt",
	"query.unknown_operator_policy": "ignore",
}

// Load configuration from environment variables and optionally a config file.
// Environment variables take precedence over values from the file. An empty
// path looks for config.yaml in the working directory and continues without
// it when absent. Returns a populated Config or an error if loading or
// validation fails.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cfg against its validation tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
