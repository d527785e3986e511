package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type demoConfig struct {
	Title          string
	Theme          string
	Tasks          []string
	TickRate       time.Duration
	Ticks          int
	SnapshotDir    string
	SnapshotFormat string
	LogLevel       string
}

type fileConfig struct {
	Title          string   `toml:"title"`
	Theme          string   `toml:"theme"`
	Tasks          []string `toml:"tasks"`
	TickRate       string   `toml:"tick_rate"`
	Ticks          int      `toml:"ticks"`
	SnapshotDir    string   `toml:"snapshot_dir"`
	SnapshotFormat string   `toml:"snapshot_format"`
	LogLevel       string   `toml:"log_level"`
}

func defaultConfig() demoConfig {
	return demoConfig{
		Title:          "todo",
		Theme:          "light",
		Tasks:          []string{"write hooks", "test hooks", "ship hooks"},
		TickRate:       100 * time.Millisecond,
		Ticks:          10,
		SnapshotDir:    "",
		SnapshotFormat: "json",
	}
}

// loadConfig reads path over the defaults. An empty path yields the
// defaults.
func loadConfig(path string) (demoConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return demoConfig{}, fmt.Errorf("load demo config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return demoConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}

	if meta.IsDefined("title") {
		cfg.Title = strings.TrimSpace(raw.Title)
	}
	if meta.IsDefined("theme") {
		cfg.Theme = strings.TrimSpace(raw.Theme)
	}
	if meta.IsDefined("tasks") {
		cfg.Tasks = raw.Tasks
	}
	if meta.IsDefined("tick_rate") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.TickRate))
		if err != nil {
			return demoConfig{}, fmt.Errorf("parse tick_rate: %w", err)
		}
		cfg.TickRate = d
	}
	if meta.IsDefined("ticks") {
		cfg.Ticks = raw.Ticks
	}
	if meta.IsDefined("snapshot_dir") {
		cfg.SnapshotDir = strings.TrimSpace(raw.SnapshotDir)
	}
	if meta.IsDefined("snapshot_format") {
		cfg.SnapshotFormat = strings.ToLower(strings.TrimSpace(raw.SnapshotFormat))
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	if err := cfg.validate(); err != nil {
		return demoConfig{}, err
	}
	return cfg, nil
}

func (c demoConfig) validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("tick_rate must be positive, got %s", c.TickRate)
	}
	if c.Ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", c.Ticks)
	}
	switch c.SnapshotFormat {
	case "json", "yaml", "bolt":
	default:
		return fmt.Errorf("snapshot_format must be json, yaml or bolt, got %q", c.SnapshotFormat)
	}
	return nil
}
