package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Backend struct {
		BaseURL          string `yaml:"base_url"`
		ChannelURL       string `yaml:"channel_url"`
		TimeoutSeconds   int    `yaml:"timeout_seconds"`
		ReconnectSeconds int    `yaml:"reconnect_seconds"`
	} `yaml:"backend"`

	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`

	JWT struct {
		Secret     string `yaml:"secret"`
		TTLMinutes int    `yaml:"ttl_minutes"`
	} `yaml:"jwt"`

	Operator struct {
		Username     string `yaml:"username"`
		PasswordHash string `yaml:"password_hash"`
	} `yaml:"operator"`

	// Journal is optional: an empty DSN disables the call journal.
	Journal struct {
		DSN string `yaml:"dsn"`
	} `yaml:"journal"`
}

func Load(path string) *Config {
	if path == "" {
		path = "config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		panic(err)
	}

	if c.Backend.TimeoutSeconds <= 0 {
		c.Backend.TimeoutSeconds = 10
	}
	if c.Backend.ReconnectSeconds <= 0 {
		c.Backend.ReconnectSeconds = 5
	}

	return &c
}

func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

func (c *Config) ReconnectBackoff() time.Duration {
	return time.Duration(c.Backend.ReconnectSeconds) * time.Second
}
