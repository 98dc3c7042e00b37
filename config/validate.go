// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"strings"

	"github.com/bitfsorg/libspedn-go/keys"
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"text": true,
	"json": true,
}

// ValidateConfig checks that all configuration values are valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if _, err := keys.GetNetwork(cfg.Network); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidNetwork, cfg.Network)
	}

	if cfg.Policy.FeeRate == 0 || cfg.Policy.MaxFeeRatio == 0 {
		return ErrInvalidPolicy
	}

	if !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.Log.Level)
	}

	if !validLogFormats[strings.ToLower(cfg.Log.Format)] {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, cfg.Log.Format)
	}

	return nil
}
