/*
Package configs is responsible for loading and parsing the application's configuration settings.

Configuration is read with viper: defaults first, then an optional config file, then
environment variable overrides. It covers the running environment, listen port, CORS
allowed origins, and websocket limits.
*/
package configs

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// AppConfig contains all configuration parameters required for the application to run.
type AppConfig struct {
	// General Server Settings
	Environment string `mapstructure:"environment"`
	Port        int    `mapstructure:"port"`

	// Security Settings
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// Websocket Settings
	MaxMessageBytes int64 `mapstructure:"max_message_bytes"`
	SendQueueSize   int   `mapstructure:"send_queue_size"`
}

// LoadConfig reads and parses the application configuration.
// Defaults are applied for every setting; a config.yaml in the working directory is
// optional, and environment variables (ENVIRONMENT, PORT, ALLOWED_ORIGINS, ...) take
// precedence over both. It returns the parsed AppConfig and any validation error.
func LoadConfig() (*AppConfig, error) {
	v := viper.New()

	v.SetDefault("environment", "development")
	v.SetDefault("port", 8080)
	v.SetDefault("allowed_origins", []string{})
	v.SetDefault("max_message_bytes", 8192)
	v.SetDefault("send_queue_size", 256)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	// ALLOWED_ORIGINS from the environment arrives as a comma-separated string;
	// normalize every entry regardless of source.
	origins := cfg.AllowedOrigins
	cfg.AllowedOrigins = make([]string, 0, len(origins))
	for _, origin := range origins {
		for _, part := range strings.Split(origin, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	}

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	if cfg.MaxMessageBytes <= 0 {
		return nil, fmt.Errorf("max_message_bytes must be positive, got %d", cfg.MaxMessageBytes)
	}

	if cfg.SendQueueSize <= 0 {
		return nil, fmt.Errorf("send_queue_size must be positive, got %d", cfg.SendQueueSize)
	}

	return cfg, nil
}
