// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config provides the configuration of the scenedoc tool,
// read from a TOML or YAML file and overlaid with command line flags.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cogentcore.org/core/base/errors"
	"github.com/jinzhu/copier"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrFormat is returned by [Load] for a file extension
// with no known format.
var ErrFormat = errors.New("config: unknown file format")

// Duration is a [time.Duration] that is written as a string
// such as "250ms" in configuration files.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Config is the configuration of the scenedoc tool.
type Config struct {

	// Scene is the index of the scene that new root nodes go to
	// when a document has no default scene.
	Scene int `toml:"scene" yaml:"scene"`

	// Journal is the path of the SQLite journal of all edits.
	// It may start with ~ for the home directory.
	// An empty path turns the journal off.
	Journal string `toml:"journal" yaml:"journal"`

	// Indent is the indentation of saved documents; documents
	// are saved compactly if it is empty.
	Indent string `toml:"indent" yaml:"indent"`

	// LogLevel is the minimum level of log messages:
	// debug, info, warn or error.
	LogLevel string `toml:"log_level" yaml:"log_level"`

	// Watch is the configuration of the file watcher.
	Watch Watch `toml:"watch" yaml:"watch"`

	// Metrics is whether to print the metrics on exit.
	Metrics bool `toml:"metrics" yaml:"metrics"`
}

// Watch is the configuration of the file watcher.
type Watch struct {

	// Debounce is the quiet time after the last change of a watched
	// file before it is reloaded.
	Debounce Duration `toml:"debounce" yaml:"debounce"`
}

// Defaults sets the default values of the config.
func (c *Config) Defaults() {
	c.Scene = 0
	c.Journal = "~/.scenedoc/journal.db"
	c.Indent = "  "
	c.LogLevel = "info"
	c.Watch.Debounce = Duration(100 * time.Millisecond)
}

// Default returns a new config with default values.
func Default() *Config {
	c := &Config{}
	c.Defaults()
	return c
}

// Load returns the defaults overlaid with the config file at the given
// path, whose format is determined by its extension (.toml, .yaml or
// .yml). An empty path returns the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(b, c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, c)
	default:
		return nil, fmt.Errorf("%w: %s", ErrFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// Expand expands a leading ~ in the paths of the config.
func (c *Config) Expand() error {
	j, err := homedir.Expand(c.Journal)
	if err != nil {
		return err
	}
	c.Journal = j
	return nil
}

// Overlay sets every field of dst for which src has a non-zero value,
// typically to apply command line flags over a loaded config.
func Overlay(dst, src *Config) error {
	return copier.CopyWithOption(dst, src, copier.Option{IgnoreEmpty: true})
}

// Level returns the [slog.Level] of [Config.LogLevel],
// or info if it is not valid.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}
