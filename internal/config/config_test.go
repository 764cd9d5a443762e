package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lab.yaml")
	data := []byte(`
window:
  width: 1280
  height: 720
camera:
  fov: 60
  pitch_limit_deg: 80
  position: [1, 2, 3]
uniforms:
  warn_missing: true
scene: square
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.Equal(t, "opengl-lab", cfg.Window.Title, "unset keys keep their default")
	assert.Equal(t, float32(60), cfg.Camera.FOV)
	assert.Equal(t, float32(80), cfg.Camera.PitchLimitDeg)
	assert.Equal(t, [3]float32{1, 2, 3}, cfg.Camera.Position)
	assert.Equal(t, float32(0.1), cfg.Camera.Near)
	assert.True(t, cfg.Uniforms.WarnMissing)
	assert.Equal(t, "square", cfg.Scene)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "window: [1, 2"},
		{"zero width", "window: {width: 0}"},
		{"far before near", "camera: {near: 10, far: 1}"},
		{"pitch limit at the pole", "camera: {pitch_limit_deg: 90}"},
		{"zero overlay scale", "overlay: {enabled: true, scale: 0}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "lab.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSettingsClamp(t *testing.T) {
	defer Apply(Default())

	SetFOV(500)
	assert.Equal(t, float32(120), GetFOV())
	SetFOV(1)
	assert.Equal(t, float32(10), GetFOV())

	SetFPSLimit(-3)
	assert.Equal(t, 0, GetFPSLimit())

	cfg := Default()
	cfg.Camera.FOV = 70
	cfg.Render.FPSLimit = 144
	Apply(cfg)
	assert.Equal(t, float32(70), GetFOV())
	assert.Equal(t, 144, GetFPSLimit())
}
