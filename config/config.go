package config

import (
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultWebAppURL is the deployed Apps Script endpoint backing the URC JKN forms.
const DefaultWebAppURL = "https://script.google.com/macros/s/AKfycbxPTZY4qDtAQANSBVRFQfaf3NakkY00wDOtQXic8I1PvLPu9TffgEn9An1Uny1L3xK6WA/exec"

// Config defines runtime settings for the gateway, CLI and local API.
type Config struct {
	WebAppURL string        `yaml:"webAppURL"`
	Timeout   time.Duration `yaml:"timeout"`
	LogLevel  string        `yaml:"logLevel"`
	LogFormat string        `yaml:"logFormat"`
	Port      string        `yaml:"port"`
	Discord   DiscordConfig `yaml:"discord"`
}

// DiscordConfig configures the optional Discord notification sink
type DiscordConfig struct {
	Token     string `yaml:"token"`
	ChannelID string `yaml:"channelID"`
}

// Enabled reports whether both a token and a channel are configured
func (d DiscordConfig) Enabled() bool {
	return d.Token != "" && d.ChannelID != ""
}

// Default returns the configuration used when nothing else is provided
func Default() *Config {
	return &Config{
		WebAppURL: DefaultWebAppURL,
		Timeout:   30 * time.Second,
		LogLevel:  "info",
		LogFormat: "text",
		Port:      ":8080",
	}
}

// Load reads configuration from an optional YAML file, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read config file")
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "parse config")
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("URC_WEB_APP_URL"); v != "" {
		c.WebAppURL = v
	}
	if v := os.Getenv("URC_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(err, "invalid URC_TIMEOUT %q", v)
		}
		c.Timeout = d
	}
	if v := os.Getenv("URC_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("URC_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("DISCORD_BOT_TOKEN"); v != "" {
		c.Discord.Token = v
	}
	if v := os.Getenv("URC_DISCORD_CHANNEL_ID"); v != "" {
		c.Discord.ChannelID = v
	}
	return nil
}

// Validate checks that the endpoint URL and timeout are usable
func (c *Config) Validate() error {
	u, err := url.Parse(c.WebAppURL)
	if err != nil {
		return errors.Wrapf(err, "invalid web app url %q", c.WebAppURL)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Errorf("web app url must be an absolute http(s) url, got %q", c.WebAppURL)
	}
	if c.Timeout <= 0 {
		return errors.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

// DefaultConfigPath returns the config file location, or "" when none exists.
func DefaultConfigPath() string {
	if path := os.Getenv("URC_CONFIG"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, ".urc", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
