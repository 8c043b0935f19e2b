package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Storage StorageConfig `mapstructure:"storage"`
	AI      AIConfig      `mapstructure:"ai"`
	Server  ServerConfig  `mapstructure:"server"`
}

type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	UserID  string `mapstructure:"user_id"`
}

type StorageConfig struct {
	// Path of the local SQLite snapshot database. Empty disables
	// persistence.
	Path string `mapstructure:"path"`
}

type AIConfig struct {
	Provider            string  `mapstructure:"provider"`
	APIKey              string  `mapstructure:"api_key"`
	BaseURL             string  `mapstructure:"base_url"`
	Model               string  `mapstructure:"model"`
	AutoProcess         bool    `mapstructure:"auto_process"`
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
}

type ServerConfig struct {
	// Listen address of the development mock backend.
	Port string `mapstructure:"port"`
}

// Load reads config.yaml from the working directory, applying MAYA_*
// environment overrides and defaults for every key. A missing file is fine;
// the defaults describe a local mock setup.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("MAYA")
	v.AutomaticEnv()

	v.SetDefault("api.base_url", "http://localhost:3000/api/v1")
	v.SetDefault("api.user_id", "user1")
	v.SetDefault("storage.path", "data/maya.db")
	v.SetDefault("ai.provider", "mock")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.auto_process", true)
	v.SetDefault("ai.confidence_threshold", 0.7)
	v.SetDefault("server.port", ":3000")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
