// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads and validates settings for the spedntx tool.
//
// Values come from three layers, later ones winning: DefaultConfig, an
// optional YAML or JSON file, and SPEDN_* environment variables
// (SPEDN_POLICY_FEE_RATE overrides policy.fee_rate).
package config

import (
	"os"
	"path/filepath"

	"github.com/bitfsorg/libspedn-go/builder"
)

const (
	// ConfigFileName is the file name used inside a data directory.
	ConfigFileName = "config.yaml"

	// CoinStoreFileName is the default coin database file name.
	CoinStoreFileName = "coins.db"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "SPEDN"
)

// PolicyConfig mirrors builder.Policy.
type PolicyConfig struct {
	FeeRate     uint64 `mapstructure:"fee_rate" yaml:"fee_rate"`
	MaxFeeRatio uint64 `mapstructure:"max_fee_ratio" yaml:"max_fee_ratio"`
	DustLimit   uint64 `mapstructure:"dust_limit" yaml:"dust_limit"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Config holds the tool configuration.
type Config struct {
	Network   string       `mapstructure:"network" yaml:"network"`
	DataDir   string       `mapstructure:"data_dir" yaml:"data_dir"`
	CoinStore string       `mapstructure:"coin_store" yaml:"coin_store"`
	Policy    PolicyConfig `mapstructure:"policy" yaml:"policy"`
	Log       LogConfig    `mapstructure:"log" yaml:"log"`
}

// DefaultDataDir returns ~/.spedn, or .spedn in the working directory when
// the home directory cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".spedn"
	}
	return filepath.Join(home, ".spedn")
}

// DefaultConfig returns mainnet settings with the default relay policy.
func DefaultConfig() Config {
	p := builder.DefaultPolicy()
	return Config{
		Network: "mainnet",
		DataDir: DefaultDataDir(),
		Policy: PolicyConfig{
			FeeRate:     p.FeeRate,
			MaxFeeRatio: p.MaxFeeRatio,
			DustLimit:   p.DustLimit,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// ConfigPath returns the config file path inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, ConfigFileName)
}

// CoinStorePath returns the coin database path. An explicit coin_store wins
// over the data directory default.
func (c Config) CoinStorePath() string {
	if c.CoinStore != "" {
		return c.CoinStore
	}
	return filepath.Join(c.DataDir, CoinStoreFileName)
}

// BuilderPolicy converts the policy section for use with builder.WithPolicy.
func (c Config) BuilderPolicy() builder.Policy {
	return builder.Policy{
		FeeRate:     c.Policy.FeeRate,
		MaxFeeRatio: c.Policy.MaxFeeRatio,
		DustLimit:   c.Policy.DustLimit,
	}
}
