// Package config loads client settings from defaults, a .env file, the
// environment, and an optional YAML file, in that order.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL  = "http://localhost:5000"
	DefaultTimeout = 30 * time.Second
)

type Config struct {
	APIURL    string        `yaml:"api_url"`
	WebURL    string        `yaml:"web_url"`
	Timeout   time.Duration `yaml:"timeout"`
	Env       string        `yaml:"env"`
	LogFile   string        `yaml:"log_file"`
	TokenPath string        `yaml:"token_path"`
}

// Production reports whether logs should be machine-readable.
func (c *Config) Production() bool { return c.Env == "production" }

// Dir returns ~/.roster.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".roster"), nil
}

// Load reads configuration. An empty path means ~/.roster/config.yaml,
// which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	return load(".env", path)
}

func load(dotEnvPath, path string) (*Config, error) {
	// load .env if it exists (ignore if it does not)
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, fmt.Errorf("config.godotenv(%s): %w", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("config.stat(%s): %w", dotEnvPath, err)
	}

	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIURL:    getEnv("ROSTER_API_URL", DefaultAPIURL),
		WebURL:    getEnv("ROSTER_WEB_URL", ""),
		Timeout:   DefaultTimeout,
		Env:       getEnv("ROSTER_ENV", "development"),
		LogFile:   getEnv("ROSTER_LOG_FILE", filepath.Join(dir, "roster.log")),
		TokenPath: filepath.Join(dir, "token"),
	}
	if v := os.Getenv("ROSTER_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("config: ROSTER_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}

	optional := path == ""
	if optional {
		path = filepath.Join(dir, "config.yaml")
	}
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close() //nolint:errcheck
		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config.decode(%s): %w", path, err)
		}
	case optional && errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("config.open: %w", err)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
