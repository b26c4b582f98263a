// Package config loads reader settings from an optional YAML file and
// EPUBREADER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration settings for the reader.
type Config struct {
	WordsPerPage int     `mapstructure:"words_per_page"`
	ReadingWPM   int     `mapstructure:"reading_wpm"`
	FontSize     float64 `mapstructure:"font_size"`
	LineHeight   float64 `mapstructure:"line_height"`
	LogLevel     string  `mapstructure:"log_level"`
	Database     struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
}

// Load reads configuration from path, or from ./epubreader.yml when path is
// empty. A missing default file is not an error; a missing explicit one is.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("epubreader")
		v.SetConfigType("yml")
		v.AddConfigPath(".")
	}

	// EPUBREADER_DATABASE_PATH overrides database.path, and so on.
	v.SetEnvPrefix("EPUBREADER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("words_per_page", 250)
	v.SetDefault("reading_wpm", 200)
	v.SetDefault("font_size", 16)
	v.SetDefault("line_height", 1.6)
	v.SetDefault("log_level", "info")
	v.SetDefault("database.path", "./epubreader.db")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.WordsPerPage < 1 {
		return fmt.Errorf("words_per_page must be >= 1, got %d", c.WordsPerPage)
	}
	if c.ReadingWPM < 1 {
		return fmt.Errorf("reading_wpm must be >= 1, got %d", c.ReadingWPM)
	}
	if c.FontSize <= 0 {
		return fmt.Errorf("font_size must be > 0, got %v", c.FontSize)
	}
	if c.LineHeight <= 0 {
		return fmt.Errorf("line_height must be > 0, got %v", c.LineHeight)
	}
	return nil
}
