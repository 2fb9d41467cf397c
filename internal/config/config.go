// Package config provides Viper-based configuration management for mcctl
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Auth modes understood by the API client
const (
	AuthBearer = "bearer"
	AuthNone   = "none"
)

// DefaultBaseURL is the address of a locally running API
const DefaultBaseURL = "http://localhost:8000"

// Config represents the complete mcctl configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Targets TargetsConfig `mapstructure:"targets"`
	Logging LoggingConfig `mapstructure:"logging"`
	Output  OutputConfig  `mapstructure:"output"`
}

// APIConfig contains settings for reaching the MacrosCoach API
type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Auth      string        `mapstructure:"auth"`
	Token     string        `mapstructure:"token" json:"-"`
	TokenFile string        `mapstructure:"token_file"`
	RateLimit float64       `mapstructure:"rate_limit"`
	UserAgent string        `mapstructure:"user_agent"`
}

// TargetsConfig contains the default goals used by the weekly check
type TargetsConfig struct {
	ProteinG    float64 `mapstructure:"protein_g"`
	Kcal        float64 `mapstructure:"kcal"`
	MinWorkouts int     `mapstructure:"min_workouts"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	Colors bool `mapstructure:"colors"`
}

// Overrides carries flag values that take precedence over file and environment
type Overrides struct {
	BaseURL string
	Token   string
	Auth    string
}

// Load reads configuration from .env, the config file and environment variables
func Load(cfgFile string, overrides Overrides) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".mcctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/mcctl")
	}

	// MCCTL_API_BASE_URL -> api.base_url
	v.SetEnvPrefix("MCCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if overrides.BaseURL != "" {
		v.Set("api.base_url", overrides.BaseURL)
	}
	if overrides.Token != "" {
		v.Set("api.token", overrides.Token)
	}
	if overrides.Auth != "" {
		v.Set("api.auth", overrides.Auth)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	if cfg.API.Token == "" && cfg.API.TokenFile != "" {
		token, err := ReadToken(cfg.API.TokenFile)
		if err != nil {
			return nil, err
		}
		cfg.API.Token = token
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// ConfigFileUsed returns the config file Load would read, or "" when none exists
func ConfigFileUsed(cfgFile string) string {
	if cfgFile != "" {
		return cfgFile
	}
	v := viper.New()
	v.SetConfigName(".mcctl")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/mcctl")
	if err := v.ReadInConfig(); err != nil {
		return ""
	}
	return v.ConfigFileUsed()
}

// setDefaults configures default values
func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("api.auth", AuthBearer)
	v.SetDefault("api.token", "")
	v.SetDefault("api.token_file", defaultTokenFile())
	v.SetDefault("api.rate_limit", 0.0)
	v.SetDefault("api.user_agent", "mcctl")

	// Same defaults as the server's /check/weekly
	v.SetDefault("targets.protein_g", 120.0)
	v.SetDefault("targets.kcal", 0.0)
	v.SetDefault("targets.min_workouts", 3)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("output.colors", true)
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "mcctl", "token")
}

// validate checks the configuration for errors
func validate(cfg *Config) error {
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid api.base_url: %q (must be an absolute http or https URL)", cfg.API.BaseURL)
	}

	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("invalid api.timeout: %s (must be positive)", cfg.API.Timeout)
	}

	if cfg.API.Auth != AuthBearer && cfg.API.Auth != AuthNone {
		return fmt.Errorf("invalid api.auth: %s (must be bearer or none)", cfg.API.Auth)
	}

	if cfg.API.RateLimit < 0 {
		return fmt.Errorf("invalid api.rate_limit: %v (must not be negative)", cfg.API.RateLimit)
	}

	if cfg.Targets.ProteinG < 0 || cfg.Targets.Kcal < 0 || cfg.Targets.MinWorkouts < 0 {
		return fmt.Errorf("invalid targets: values must not be negative")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", cfg.Logging.Level)
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s (must be text or json)", cfg.Logging.Format)
	}

	return nil
}
