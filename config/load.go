package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
)

// envPrefix is the prefix for environment variables, e.g. HALCYON_EVM_RPC_URL.
const envPrefix = "halcyon"

// Load reads configuration from a JSON file.
// File values are layered over the defaults for the network named in the
// file (mainnet when the file does not set one).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Probe the network first so file values land on the right defaults.
	var probe struct {
		Network NetworkType `json:"network"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default(probe.Network)
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// FromEnv builds configuration from HALCYON_* environment variables,
// layered over the defaults for HALCYON_NETWORK (mainnet when unset).
func FromEnv() (*Config, error) {
	cfg := Default(NetworkType(os.Getenv("HALCYON_NETWORK")))
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to a JSON file.
// Config files carry the backend API key, so they are written 0600.
func Save(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0600)
}
