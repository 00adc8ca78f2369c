// Package config loads viewer settings from an optional JSON config file,
// falling back to defaults for anything unset.
package config

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "stlview.cfg.json"

// Load sets defaults and reads the config file from configDir. A missing
// file is not an error; a malformed one is.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")

	viper.SetDefault("camera.fovDegrees", 36.0)

	viper.SetDefault("window.width", 1400)
	viper.SetDefault("window.height", 900)

	viper.SetDefault("viewer.backgroundColor", "#0f1219")
	viper.SetDefault("viewer.floorColor", "#1a2030")
	viper.SetDefault("viewer.modelColor", "#7a96c8")
	viper.SetDefault("viewer.fullscreenLabel", "Fullscreen")

	viper.SetDefault("watch.enabled", true)
	viper.SetDefault("watch.debounceMs", 500)

	viper.SetConfigName(FileName)
	viper.SetConfigType("json")
	viper.AddConfigPath(configDir)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetFloat returns a float64 config value.
func GetFloat(key string) float64 {
	return viper.GetFloat64(key)
}

// GetColor parses a config value of the form "#rrggbb" or "#rrggbbaa".
// Unparseable values fall back to opaque black.
func GetColor(key string) color.RGBA {
	value := viper.GetString(key)

	c := color.RGBA{A: 0xff}
	switch len(value) {
	case 7:
		if _, err := fmt.Sscanf(value, "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
			return color.RGBA{A: 0xff}
		}
	case 9:
		if _, err := fmt.Sscanf(value, "#%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A); err != nil {
			return color.RGBA{A: 0xff}
		}
	default:
		return color.RGBA{A: 0xff}
	}
	return c
}
