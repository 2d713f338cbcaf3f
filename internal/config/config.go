// Package config loads the HTTP server configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/baditaflorin/go_allele_names/internal/adapters/normalizer"
)

// Default configuration
const (
	DefaultPort           = 8080
	DefaultReadTimeout    = 30 * time.Second
	DefaultWriteTimeout   = 30 * time.Second
	DefaultMaxRequestSize = 10 * 1024 * 1024 // 10MB
	DefaultConcurrency    = 0                // 0 means fasthttp's default
)

// ServerConfig holds server settings loaded from YAML and flags.
type ServerConfig struct {
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	MaxRequestSize int           `yaml:"max_request_size"`
	Concurrency    int           `yaml:"concurrency"`
	Normalizer     string        `yaml:"normalizer"`
	LogFile        string        `yaml:"log_file"`
	JSONLogs       bool          `yaml:"json_logs"`
}

// Default returns the built-in server configuration.
func Default() ServerConfig {
	return ServerConfig{
		Port:           DefaultPort,
		ReadTimeout:    DefaultReadTimeout,
		WriteTimeout:   DefaultWriteTimeout,
		MaxRequestSize: DefaultMaxRequestSize,
		Concurrency:    DefaultConcurrency,
		Normalizer:     normalizer.DefaultNormalizerType.String(),
		JSONLogs:       true,
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (ServerConfig, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	cfg.Normalizer = strings.TrimSpace(cfg.Normalizer)
	cfg.LogFile = strings.TrimSpace(cfg.LogFile)
	return cfg, cfg.Validate()
}

func decode(data []byte, cfg *ServerConfig) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return err
	}
	var extra any
	if err := dec.Decode(&extra); err == nil {
		return errors.New("multiple YAML documents are not supported")
	} else if !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return errors.New("timeouts must not be negative")
	}
	if c.MaxRequestSize <= 0 {
		return errors.New("max_request_size must be greater than 0")
	}
	if c.Concurrency < 0 {
		return errors.New("concurrency must not be negative")
	}
	if _, err := normalizer.ParseNormalizerType(c.Normalizer); err != nil {
		return err
	}
	return nil
}

// NormalizerType returns the configured normalizer type.
func (c ServerConfig) NormalizerType() normalizer.NormalizerType {
	t, _ := normalizer.ParseNormalizerType(c.Normalizer)
	return t
}
