package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds runtime settings for the filesctl CLI.
type Config struct {
	ServerURL string
	Timeout   time.Duration
	StateFile string
}

// LoadDefaults populates c with settings for a server on localhost.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:5000"
	c.Timeout = 10 * time.Second
	c.StateFile = "filesctl.db"
}

// Validate rejects settings the HTTP client cannot work with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid server url %q", c.ServerURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.StateFile == "" {
		return fmt.Errorf("state file must not be empty")
	}
	return nil
}

// LoadConfig builds a Config from defaults, an optional config file and the
// global flags at the head of args. It returns the arguments left after the
// global flags, starting with the subcommand name.
func LoadConfig(args []string) (*Config, []string, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	fs, path := newFlagSet(cfg)
	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("parse flags: %w", err)
	}

	if *path != "" {
		fileCfg := &Config{}
		*fileCfg = *cfg
		cfg.LoadDefaults()
		if err := parseFile(cfg, *path); err != nil {
			return nil, nil, err
		}
		overlayChanged(fs, cfg, fileCfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	return cfg, fs.Args(), nil
}
