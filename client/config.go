package client

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the YAML-file form of engine configuration. Zero values
// are skipped, so a partial file only overrides what it names.
type Config struct {
	TimeoutSeconds int               `yaml:"timeout_seconds"`
	UserAgent      string            `yaml:"user_agent"`
	Headers        map[string]string `yaml:"headers"`
	Throttle       ThrottleConfig    `yaml:"throttle"`
	NoRedirects    bool              `yaml:"no_follow_redirects"`
	ProgressPollMS int               `yaml:"progress_poll_ms"`
}

// ThrottleConfig holds token-bucket limits; both must be set to
// enable throttling.
type ThrottleConfig struct {
	RPS   int `yaml:"rps"`
	Burst int `yaml:"burst"`
}

// LoadConfig reads and decodes an engine config file.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	return &cfg, nil
}

// Options converts the config into the equivalent functional options.
func (c *Config) Options() []Option {
	var opts []Option

	if c.TimeoutSeconds > 0 {
		opts = append(opts, WithTimeout(time.Duration(c.TimeoutSeconds)*time.Second))
	}
	if c.UserAgent != "" {
		opts = append(opts, WithUserAgent(c.UserAgent))
	}
	if len(c.Headers) > 0 {
		opts = append(opts, WithDefaultHeaders(c.Headers))
	}
	if c.Throttle.RPS > 0 && c.Throttle.Burst > 0 {
		opts = append(opts, WithThrottle(c.Throttle.RPS, c.Throttle.Burst))
	}
	if c.NoRedirects {
		opts = append(opts, WithNoFollowRedirects())
	}
	if c.ProgressPollMS > 0 {
		opts = append(opts, WithProgressInterval(time.Duration(c.ProgressPollMS)*time.Millisecond))
	}

	return opts
}

// BuildFromFile builds an [Engine] from a YAML config file. Options
// passed here are applied after the file's, so they win on conflict.
func BuildFromFile(path string, extra ...Option) (*Engine, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	return Build(append(cfg.Options(), extra...)...)
}
