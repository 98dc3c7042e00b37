// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/gookit/slog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Loader layers defaults, an optional file and environment variables.
type Loader struct {
	cfg            Config
	envPrefix      string
	configFilePath string
	viper          *viper.Viper
}

// NewLoader returns a loader reading <envPrefix>_* variables and, by
// default, the config file inside DefaultDataDir.
func NewLoader(envPrefix string) *Loader {
	return &Loader{
		cfg:            DefaultConfig(),
		envPrefix:      envPrefix,
		configFilePath: ConfigPath(DefaultDataDir()),
		viper:          viper.New(),
	}
}

// SetConfigFilePath selects the config file. Only yaml, yml and json are
// accepted.
func (l *Loader) SetConfigFilePath(path string) error {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext != "yaml" && ext != "yml" && ext != "json" {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	l.configFilePath = path
	return nil
}

// Load resolves the configuration. A missing file is not an error; the
// defaults and environment still apply.
func (l *Loader) Load() (Config, error) {
	if err := l.setViperDefaults(); err != nil {
		return l.cfg, err
	}
	l.prepareViper()

	if err := l.loadFromFile(); err != nil {
		return l.cfg, err
	}
	if err := l.viper.Unmarshal(&l.cfg); err != nil {
		return l.cfg, fmt.Errorf("config: unmarshal: %w", err)
	}
	return l.cfg, nil
}

// setViperDefaults registers every leaf key of DefaultConfig so that
// environment overrides reach nested fields.
func (l *Loader) setViperDefaults() error {
	defaults := map[string]any{}
	if err := mapstructure.Decode(DefaultConfig(), &defaults); err != nil {
		return fmt.Errorf("config: encode defaults: %w", err)
	}
	for k, v := range flatten("", defaults) {
		l.viper.SetDefault(k, v)
	}
	return nil
}

func (l *Loader) prepareViper() {
	l.viper.SetEnvPrefix(l.envPrefix)
	l.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.viper.AutomaticEnv()
}

func (l *Loader) loadFromFile() error {
	if _, err := os.Stat(l.configFilePath); errors.Is(err, os.ErrNotExist) {
		slog.Debugf("config file not found at %s, using defaults", l.configFilePath)
		return nil
	}

	l.viper.SetConfigFile(l.configFilePath)
	if err := l.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("config: read %s: %w", l.configFilePath, err)
	}
	slog.Debugf("loaded config from file: %s", l.configFilePath)
	return nil
}

// flatten turns nested structs and maps into dotted viper keys.
func flatten(prefix string, in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		var nested map[string]any
		switch val := v.(type) {
		case map[string]any:
			nested = val
		case PolicyConfig, LogConfig:
			nested = map[string]any{}
			if err := mapstructure.Decode(val, &nested); err != nil {
				out[key] = v
				continue
			}
		default:
			out[key] = v
			continue
		}
		for nk, nv := range flatten(key, nested) {
			out[nk] = nv
		}
	}
	return out
}

// LoadConfig reads the file at path on top of the defaults and environment.
// Unlike Loader.Load, a missing file is reported as ErrConfigNotFound.
func LoadConfig(path string) (Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}
	l := NewLoader(EnvPrefix)
	if err := l.SetConfigFilePath(path); err != nil {
		return Config{}, err
	}
	return l.Load()
}

// SaveConfig writes cfg as YAML, creating parent directories as needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
