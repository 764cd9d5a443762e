package config

import (
	"os"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration. Every field has a default, so a file
// only needs the keys it changes.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Camera   CameraConfig   `yaml:"camera"`
	Render   RenderConfig   `yaml:"render"`
	LogLevel string         `yaml:"log_level"`
	Scene    string         `yaml:"scene"`
	Uniforms UniformsConfig `yaml:"uniforms"`
	Overlay  OverlayConfig  `yaml:"overlay"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
}

type CameraConfig struct {
	FOV           float32    `yaml:"fov"`
	Near          float32    `yaml:"near"`
	Far           float32    `yaml:"far"`
	Speed         float32    `yaml:"speed"`
	SlowSpeed     float32    `yaml:"slow_speed"`
	FastSpeed     float32    `yaml:"fast_speed"`
	Sensitivity   float32    `yaml:"sensitivity"`
	PitchLimitDeg float32    `yaml:"pitch_limit_deg"`
	Position      [3]float32 `yaml:"position"`
}

type RenderConfig struct {
	ClearColor [4]float32 `yaml:"clear_color"`
	FPSLimit   int        `yaml:"fps_limit"` // only used without vsync, 0 = unlimited
}

type UniformsConfig struct {
	// WarnMissing logs uploads to uniforms a program does not have.
	WarnMissing bool `yaml:"warn_missing"`
}

// OverlayConfig controls the text overlay with frame rate and camera state.
type OverlayConfig struct {
	Enabled bool    `yaml:"enabled"`
	Font    string  `yaml:"font"` // OpenType/TrueType file, empty for the built-in face
	Size    float64 `yaml:"size"`
	Scale   float32 `yaml:"scale"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Width:  800,
			Height: 800,
			Title:  "opengl-lab",
			VSync:  true,
		},
		Camera: CameraConfig{
			FOV:           45,
			Near:          0.1,
			Far:           100,
			Speed:         0.1,
			SlowSpeed:     0.05,
			FastSpeed:     0.2,
			Sensitivity:   100,
			PitchLimitDeg: 85,
			Position:      [3]float32{0, 0.5, 2},
		},
		Render: RenderConfig{
			ClearColor: [4]float32{0.07, 0.13, 0.17, 1},
			FPSLimit:   0,
		},
		LogLevel: "info",
		Scene:    "lit",
		Overlay: OverlayConfig{
			Enabled: true,
			Size:    16,
			Scale:   1,
		},
	}
}

// Load reads a YAML file over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, cfg.Validate()
}

// Validate rejects values the renderer cannot work with.
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return errors.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return errors.Errorf("camera clip planes near=%g far=%g are invalid", c.Camera.Near, c.Camera.Far)
	case c.Camera.PitchLimitDeg <= 0 || c.Camera.PitchLimitDeg >= 90:
		return errors.Errorf("camera pitch limit %g must be inside (0, 90)", c.Camera.PitchLimitDeg)
	case c.Overlay.Enabled && (c.Overlay.Size <= 0 || c.Overlay.Scale <= 0):
		return errors.Errorf("overlay size %g and scale %g must be positive", c.Overlay.Size, c.Overlay.Scale)
	}
	return nil
}

// Settings holds the live, adjustable part of the configuration
type Settings struct {
	mu       sync.RWMutex
	fov      float32
	fpsLimit int
}

var globalSettings = &Settings{
	fov:      45, // default value
	fpsLimit: 0,
}

// Apply installs the adjustable values of cfg as the current settings
func Apply(cfg Config) {
	SetFOV(cfg.Camera.FOV)
	SetFPSLimit(cfg.Render.FPSLimit)
}

// GetFOV returns the current vertical field of view in degrees
func GetFOV() float32 {
	globalSettings.mu.RLock()
	defer globalSettings.mu.RUnlock()
	return globalSettings.fov
}

// SetFOV sets the vertical field of view in degrees
func SetFOV(fov float32) {
	globalSettings.mu.Lock()
	defer globalSettings.mu.Unlock()

	// Clamp to reasonable values
	if fov < 10 {
		fov = 10
	}
	if fov > 120 {
		fov = 120
	}

	globalSettings.fov = fov
}

// GetFPSLimit returns the frame cap; 0 means unlimited
func GetFPSLimit() int {
	globalSettings.mu.RLock()
	defer globalSettings.mu.RUnlock()
	return globalSettings.fpsLimit
}

// SetFPSLimit sets the frame cap; negative values mean unlimited
func SetFPSLimit(limit int) {
	globalSettings.mu.Lock()
	defer globalSettings.mu.Unlock()
	if limit < 0 {
		limit = 0
	}
	globalSettings.fpsLimit = limit
}
