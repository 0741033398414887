// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const appName = "spotlist"

// Config represents the application configuration.
type Config struct {
	Spotify  SpotifyConfig  `yaml:"spotify"`
	Playlist PlaylistConfig `yaml:"playlist"`
	Suggest  SuggestConfig  `yaml:"suggest"`
	Log      LogConfig      `yaml:"log"`
}

// SpotifyConfig represents Spotify API configuration.
type SpotifyConfig struct {
	ClientID     string `yaml:"client_id" validate:"required"`
	ClientSecret string `yaml:"client_secret" validate:"required"`
	RefreshToken string `yaml:"refresh_token" validate:"required"`
	Market       string `yaml:"market" validate:"omitempty,len=2" default:"US"`
}

// PlaylistConfig represents how new playlists are created.
type PlaylistConfig struct {
	Visibility        string `yaml:"visibility" default:"public" validate:"oneof=public private"`
	Description       string `yaml:"description" default:"Created with spotlist"`
	DefaultTrackCount int    `yaml:"default_track_count" default:"5" validate:"gte=1,lte=10"`
}

// SuggestConfig represents similar-artist suggestion configuration.
type SuggestConfig struct {
	Limit     int              `yaml:"limit" default:"5" validate:"gte=1,lte=50"`
	Providers []ProviderConfig `yaml:"providers" validate:"dive"`
}

// ProviderConfig represents a single suggestion provider configuration.
type ProviderConfig struct {
	Type        string         `yaml:"type" validate:"required"`
	DisplayName string         `yaml:"display_name" validate:"required"`
	Settings    map[string]any `yaml:"settings"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	Level string `yaml:"level" default:"info" validate:"oneof=debug info warn warning error"`
	File  string `yaml:"file"`
}

// DefaultPath returns the default config file location under the XDG config directory.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// DefaultLogFile returns the default log file used by the interactive UI.
func DefaultLogFile() (string, error) {
	path, err := xdg.StateFile(filepath.Join(appName, appName+".log"))
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve log file path")
	}
	return path, nil
}

// Load loads configuration from a YAML file.
// A missing file is not an error: credentials may come from the environment alone.
// Environment variables take precedence over file values for sensitive fields.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse config file")
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, errors.Wrap(err, "failed to read config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Spotify.ClientSecret = v
	}
	if v := os.Getenv("SPOTIFY_REFRESH_TOKEN"); v != "" {
		c.Spotify.RefreshToken = v
	}
	if v := os.Getenv("SPOTIFY_MARKET"); v != "" {
		c.Spotify.Market = v
	}
	if v := os.Getenv("LASTFM_API_KEY"); v != "" {
		// No providers configured: Last.fm first, then Spotify.
		if len(c.Suggest.Providers) == 0 {
			c.Suggest.Providers = []ProviderConfig{
				{Type: "lastfm", DisplayName: "Last.fm", Settings: map[string]any{}},
				{Type: "spotify", DisplayName: "Spotify"},
			}
		}
		for i := range c.Suggest.Providers {
			if c.Suggest.Providers[i].Type == "lastfm" {
				if c.Suggest.Providers[i].Settings == nil {
					c.Suggest.Providers[i].Settings = make(map[string]any)
				}
				c.Suggest.Providers[i].Settings["api_key"] = v
				break
			}
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}
