package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", GetString("logLevel"))
	assert.Equal(t, 36.0, GetFloat("camera.fovDegrees"))
	assert.Equal(t, 1400, GetInt("window.width"))
	assert.Equal(t, 900, GetInt("window.height"))
	assert.Equal(t, "Fullscreen", GetString("viewer.fullscreenLabel"))
	assert.Equal(t, true, GetBool("watch.enabled"))
	assert.Equal(t, 500, GetInt("watch.debounceMs"))
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"camera": { "fovDegrees": 45 },
		"viewer": { "fullscreenLabel": "Go big", "modelColor": "#ff8000" }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(cfg), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", GetString("logLevel"))
	assert.Equal(t, 45.0, GetFloat("camera.fovDegrees"))
	assert.Equal(t, "Go big", GetString("viewer.fullscreenLabel"))
	assert.Equal(t, color.RGBA{R: 0xff, G: 0x80, B: 0x00, A: 0xff}, GetColor("viewer.modelColor"))

	// Untouched keys keep their defaults.
	assert.Equal(t, 1400, GetInt("window.width"))
}

func TestGetColor(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Set("c.rgb", "#0f1219")
	viper.Set("c.rgba", "#0f121980")
	viper.Set("c.bad", "rebeccapurple")

	assert.Equal(t, color.RGBA{R: 0x0f, G: 0x12, B: 0x19, A: 0xff}, GetColor("c.rgb"))
	assert.Equal(t, color.RGBA{R: 0x0f, G: 0x12, B: 0x19, A: 0x80}, GetColor("c.rgba"))
	assert.Equal(t, color.RGBA{A: 0xff}, GetColor("c.bad"))
}
