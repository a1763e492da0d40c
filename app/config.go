//go:build !tinygo

package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"oledui/hal"
)

// HostConfig is the simulated device's configuration file.
type HostConfig struct {
	Display struct {
		Height uint8 `yaml:"height"`
	} `yaml:"display"`
	Link struct {
		Listen string `yaml:"listen"`
	} `yaml:"link"`
	Window struct {
		Scale    int  `yaml:"scale"`
		Headless bool `yaml:"headless"`
	} `yaml:"window"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// DefaultHostConfig returns the built-in settings.
func DefaultHostConfig() HostConfig {
	var c HostConfig
	c.Display.Height = 64
	c.Link.Listen = hal.DefaultListen
	c.Window.Scale = 4
	c.Log.Level = "info"
	return c
}

// LoadHostConfig reads path over the defaults. A missing file leaves the
// defaults in place.
func LoadHostConfig(path string) (HostConfig, error) {
	cfg := DefaultHostConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks values the device cannot run with.
func (c HostConfig) Validate() error {
	if c.Display.Height != 32 && c.Display.Height != 64 {
		return fmt.Errorf("display.height %d: must be 32 or 64", c.Display.Height)
	}
	if c.Window.Scale < 1 || c.Window.Scale > 16 {
		return fmt.Errorf("window.scale %d: must be 1..16", c.Window.Scale)
	}
	return nil
}

// Device returns the firmware settings.
func (c HostConfig) Device() Config { return Config{Height: c.Display.Height} }

// HAL returns the host HAL settings.
func (c HostConfig) HAL() hal.HostConfig {
	return hal.HostConfig{Listen: c.Link.Listen, LogLevel: c.Log.Level}
}

// Run returns the host runner settings.
func (c HostConfig) Run() hal.RunConfig {
	return hal.RunConfig{
		Headless: c.Window.Headless,
		Window:   hal.WindowConfig{Scale: c.Window.Scale},
	}
}
