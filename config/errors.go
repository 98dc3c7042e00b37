// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrInvalidNetwork indicates the network name is not recognized.
	ErrInvalidNetwork = errors.New("config: invalid network (must be \"mainnet\", \"testnet\", or \"regtest\")")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrInvalidLogFormat indicates the log format is neither text nor json.
	ErrInvalidLogFormat = errors.New("config: invalid log format (must be \"text\" or \"json\")")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrInvalidPolicy indicates a zero fee rate or fee ratio.
	ErrInvalidPolicy = errors.New("config: fee rate and max fee ratio must be positive")

	// ErrConfigNotFound indicates the config file does not exist.
	ErrConfigNotFound = errors.New("config: config file not found")

	// ErrUnsupportedFormat indicates a config file extension other than yaml, yml or json.
	ErrUnsupportedFormat = errors.New("config: unsupported config file extension")
)
