// Package config loads service settings from an optional YAML file layered
// over defaults, then applies environment overrides and validates the
// result.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Graph    GraphConfig    `yaml:"graph"`
}

type ServerConfig struct {
	Addr              string        `yaml:"addr" validate:"required"`
	CorsAllowedOrigin string        `yaml:"cors_allowed_origin" validate:"required"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" validate:"gt=0"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
}

type UpstreamConfig struct {
	AllocatorsURL     string        `yaml:"allocators_url" validate:"required,url"`
	AuditsURL         string        `yaml:"audits_url" validate:"required,url"`
	Timeout           time.Duration `yaml:"timeout" validate:"gt=0"`
	RequestsPerSecond float64       `yaml:"requests_per_second" validate:"gt=0"`
	Burst             int           `yaml:"burst" validate:"gte=1"`
}

type GraphConfig struct {
	FaucetName        string  `yaml:"faucet_name"`
	PlaceholderWeight float64 `yaml:"placeholder_weight" validate:"gt=0"`
	MaxAuditRounds    int     `yaml:"max_audit_rounds" validate:"gte=1,lte=50"`
}

var validate = validator.New()

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:              ":8080",
			CorsAllowedOrigin: "*",
			ReadHeaderTimeout: 10 * time.Second,
			ShutdownTimeout:   15 * time.Second,
		},
		Upstream: UpstreamConfig{
			AllocatorsURL:     "http://localhost:8081/allocators",
			AuditsURL:         "http://localhost:8081/audits",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 5,
			Burst:             2,
		},
		Graph: GraphConfig{
			FaucetName:        "Faucet",
			PlaceholderWeight: 0.1,
			MaxAuditRounds:    10,
		},
	}
}

// Load reads path (when non-empty) over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read the config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse the config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func applyEnv(cfg *Config) error {
	cfg.Server.Addr = getEnv("DATACAPFLOW_ADDR", cfg.Server.Addr)
	cfg.Server.CorsAllowedOrigin = getEnv("CORS_ALLOWED_ORIGIN", cfg.Server.CorsAllowedOrigin)
	cfg.Upstream.AllocatorsURL = getEnv("DATACAPFLOW_ALLOCATORS_URL", cfg.Upstream.AllocatorsURL)
	cfg.Upstream.AuditsURL = getEnv("DATACAPFLOW_AUDITS_URL", cfg.Upstream.AuditsURL)
	cfg.Graph.FaucetName = getEnv("DATACAPFLOW_FAUCET_NAME", cfg.Graph.FaucetName)

	if raw := os.Getenv("DATACAPFLOW_UPSTREAM_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid DATACAPFLOW_UPSTREAM_TIMEOUT: %w", err)
		}
		cfg.Upstream.Timeout = d
	}

	if raw := os.Getenv("DATACAPFLOW_PLACEHOLDER_WEIGHT"); raw != "" {
		w, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid DATACAPFLOW_PLACEHOLDER_WEIGHT: %w", err)
		}
		cfg.Graph.PlaceholderWeight = w
	}

	return nil
}
