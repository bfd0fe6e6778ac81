// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

type Config struct {
	// HTTPAddress serves the JSON-RPC endpoint and /metrics.
	HTTPAddress string `yaml:"httpAddress"`

	// GenesisPath points at the JSON deployment description.
	GenesisPath string `yaml:"genesisPath"`

	LogLevel string `yaml:"logLevel"`
}

func Default() *Config {
	return &Config{
		HTTPAddress: ":9650",
		GenesisPath: "genesis.json",
		LogLevel:    "info",
	}
}

// Load reads a YAML config, filling unset fields with defaults.
func Load(path string) (*Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}
	return c, nil
}
