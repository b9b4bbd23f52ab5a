// Package config loads runtime settings for mergedcal from an optional YAML
// file and MERGEDCAL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ssk090/git-contri-merged/internal/app"
)

// Sentinel validation errors.
var (
	ErrInvalidAPIURL      = errors.New("invalid github api url")
	ErrInvalidTimeout     = errors.New("http timeout must be positive")
	ErrInvalidConcurrency = errors.New("fetch concurrency must be positive")
	ErrInvalidLogLevel    = errors.New("invalid log level")
)

// Default configuration values.
const (
	DefaultAPIURL      = "https://api.github.com"
	DefaultTimeout     = 30 * time.Second
	DefaultConcurrency = 4
	DefaultLogLevel    = "warn"

	envPrefix = "MERGEDCAL"
)

type Config struct {
	GitHub GitHubConfig `mapstructure:"github"`
	HTTP   HTTPConfig   `mapstructure:"http"`
	Fetch  FetchConfig  `mapstructure:"fetch"`
	Log    LogConfig    `mapstructure:"log"`
}

type GitHubConfig struct {
	APIURL string `mapstructure:"api_url"`
	Token  string `mapstructure:"token"`
}

type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type FetchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
	PageSize    int `mapstructure:"page_size"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Load reads configPath when given, otherwise looks for mergedcal.yaml in the
// working directory and the user config directory. A missing file is not an
// error unless it was named explicitly.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(app.ConfigFileName())
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := app.ConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.BindEnv("github.token", envPrefix+"_GITHUB_TOKEN", envPrefix+"_TOKEN", "GITHUB_TOKEN"); err != nil {
		return nil, fmt.Errorf("bind token env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.GitHub.Token = strings.TrimSpace(cfg.GitHub.Token)
	cfg.GitHub.APIURL = strings.TrimRight(strings.TrimSpace(cfg.GitHub.APIURL), "/")
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("github.api_url", DefaultAPIURL)
	v.SetDefault("github.token", "")
	v.SetDefault("http.timeout", DefaultTimeout.String())
	v.SetDefault("fetch.concurrency", DefaultConcurrency)
	v.SetDefault("fetch.page_size", 100)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.development", false)
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.GitHub.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidAPIURL, cfg.GitHub.APIURL)
	}
	if cfg.HTTP.Timeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, cfg.HTTP.Timeout)
	}
	if cfg.Fetch.Concurrency <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidConcurrency, cfg.Fetch.Concurrency)
	}
	if cfg.Fetch.PageSize <= 0 || cfg.Fetch.PageSize > 100 {
		cfg.Fetch.PageSize = 100
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.Log.Level)
	}
	return nil
}
