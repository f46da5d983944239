// Package config holds the tunables of the dispatch runtime and loads them
// from TOML or YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalid           = errors.New("invalid configuration")
	ErrUnsupportedFormat = errors.New("unsupported configuration format")
)

// Ranges shared with the selection cache.
const (
	MinNumSlots   = 1
	MaxNumSlots   = 128
	MaxHashNSlots = 4096

	DefaultNumSlots = 100
)

type Config struct {
	Selector Selector `toml:"selector" yaml:"selector"`
	Log      Log      `toml:"log" yaml:"log"`
}

// Selector sizes every selection cache a dispatcher creates.
type Selector struct {
	NumSlots   int `toml:"num_slots" yaml:"num_slots"`
	HashNSlots int `toml:"hash_n_slots" yaml:"hash_n_slots"`
}

type Log struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" yaml:"level"`
	// Encoding is console, json, or auto (console on a terminal).
	Encoding string `toml:"encoding" yaml:"encoding"`
}

func Default() Config {
	return Config{
		Selector: Selector{NumSlots: DefaultNumSlots},
		Log:      Log{Level: "info", Encoding: "auto"},
	}
}

// Load reads path, picking the decoder by extension. Fields missing from
// the file keep their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read %s: %w", path, err)
	}
	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse error in %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse error in %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := c.Selector.Validate(); err != nil {
		return err
	}
	return c.Log.Validate()
}

func (s Selector) Validate() error {
	if err := within(KeySelectorNumSlots, s.NumSlots, MinNumSlots, MaxNumSlots); err != nil {
		return err
	}
	return within(KeySelectorHashNSlots, s.HashNSlots, 0, MaxHashNSlots)
}

func (l Log) Validate() error {
	switch l.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %s %q is not one of debug, info, warn, error", ErrInvalid, KeyLogLevel, l.Level)
	}
	switch l.Encoding {
	case "console", "json", "auto":
	default:
		return fmt.Errorf("%w: %s %q is not one of console, json, auto", ErrInvalid, KeyLogEncoding, l.Encoding)
	}
	return nil
}

func within(key string, v, lo, hi int) error {
	if v < lo || v > hi {
		return fmt.Errorf("%w: %s %d is not within {%d, %d}", ErrInvalid, key, v, lo, hi)
	}
	return nil
}
