package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"

	"scdaid/predictor"
)

type Config struct {
	Http struct {
		Port            int           `yaml:"port"`
		MaxBodyBytes    int64         `yaml:"max_body_bytes"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"http"`
	Log        LogConfig            `yaml:"log"`
	Confidence predictor.Thresholds `yaml:"confidence"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

func Default() *Config {
	cfg := &Config{}
	cfg.Http.Port = 8000
	cfg.Http.MaxBodyBytes = 1 << 20
	cfg.Http.ShutdownTimeout = 5 * time.Second
	cfg.Log = LogConfig{
		Level:      "info",
		Format:     "console",
		MaxSizeMB:  100,
		MaxBackups: 3,
		MaxAgeDays: 28,
	}
	cfg.Confidence = predictor.DefaultThresholds
	return cfg
}

// Load reads path over the defaults. A missing file is not an error; the
// defaults apply. PORT and LOG_LEVEL override the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	file, err := os.Open(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		cfg.Http.Port = p
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Http.Port <= 0 || c.Http.Port > 65535 {
		return fmt.Errorf("invalid http port %d", c.Http.Port)
	}
	if c.Http.MaxBodyBytes <= 0 {
		return fmt.Errorf("invalid max_body_bytes %d", c.Http.MaxBodyBytes)
	}
	return c.Confidence.Validate()
}
