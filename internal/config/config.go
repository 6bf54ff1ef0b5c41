// Package config implements flag-plus-YAML-file server configuration,
// following the teacher's CLI-flag-precedence pattern: defaults are
// overlaid by the config file, which is overlaid by explicitly-set CLI
// flags (spec §6 "CLI").
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every server-tunable value.
type Config struct {
	World          string `yaml:"world"`
	Port           int    `yaml:"port"`
	RenderDistance int    `yaml:"render_distance"`
	TickMillis     int    `yaml:"tick_millis"`
	SecondMillis   int    `yaml:"second_millis"`
	MOTD           string `yaml:"motd"`
	MaxPlayers     int    `yaml:"max_players"`
}

// TickInterval returns TickMillis as a time.Duration.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickMillis) * time.Millisecond
}

// SecondInterval returns SecondMillis as a time.Duration.
func (c *Config) SecondInterval() time.Duration {
	return time.Duration(c.SecondMillis) * time.Millisecond
}

// Default returns the spec's documented defaults: port 25565, a render
// distance radius of 4 (spec scenario S2), a 50ms tick and 1000ms second
// gate (spec §4.4).
func Default() *Config {
	return &Config{
		World:          "./ExampleWorld",
		Port:           25565,
		RenderDistance: 4,
		TickMillis:     50,
		SecondMillis:   1000,
		MOTD:           "A Minecraft Server",
		MaxPlayers:     20,
	}
}

// Load reads a YAML config file. A missing file is not an error; the
// caller's defaults are left untouched.
func Load(path string, into *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, into); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Save writes cfg to path, creating or truncating it.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Merge overlays fileCfg's values onto cfg for every field NOT explicitly
// set on the CLI (explicitFlags), giving CLI flags precedence over the
// file, and the file precedence over the compiled-in default.
func Merge(cfg, fileCfg *Config, explicitFlags map[string]bool) {
	if !explicitFlags["world"] {
		cfg.World = fileCfg.World
	}
	if !explicitFlags["port"] {
		cfg.Port = fileCfg.Port
	}
	if !explicitFlags["render-distance"] {
		cfg.RenderDistance = fileCfg.RenderDistance
	}
	if !explicitFlags["tick-ms"] {
		cfg.TickMillis = fileCfg.TickMillis
	}
	if !explicitFlags["second-ms"] {
		cfg.SecondMillis = fileCfg.SecondMillis
	}
	if !explicitFlags["motd"] {
		cfg.MOTD = fileCfg.MOTD
	}
	if !explicitFlags["max-players"] {
		cfg.MaxPlayers = fileCfg.MaxPlayers
	}
}
