package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"opengl-lab/internal/camera"
	"opengl-lab/internal/config"
	"opengl-lab/internal/gpu"
	"opengl-lab/internal/gpu/glbackend"
	"opengl-lab/internal/graphics"
)

func setupLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, errors.Wrapf(err, "log level %q", level)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	gpu.SetLogger(logger.With("pkg", "gpu"))
	graphics.SetLogger(logger.With("pkg", "graphics"))
	return logger, nil
}

func setupWindow(cfg config.WindowConfig) (*glfw.Window, glbackend.Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, glbackend.Context{}, errors.Wrap(err, "create window")
	}
	window.MakeContextCurrent()

	// Initialize OpenGL bindings
	ctx, err := glbackend.Init()
	if err != nil {
		window.Destroy()
		return nil, glbackend.Context{}, err
	}

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		// frame pacing is left to the FPS limiter
		glfw.SwapInterval(0)
	}
	return window, ctx, nil
}

func setupCamera(cfg config.Config, width, height int) *camera.Camera {
	c := cfg.Camera
	return camera.New(width, height, mgl32.Vec3(c.Position),
		camera.WithSpeeds(c.Speed, c.SlowSpeed, c.FastSpeed),
		camera.WithSensitivity(c.Sensitivity),
		camera.WithPitchLimit(c.PitchLimitDeg),
	)
}

// setupOverlay builds the stats overlay on a texture unit the scenes leave
// free.
func setupOverlay(ctx gpu.Context, cfg config.OverlayConfig, width, height int) (*graphics.TextRenderer, error) {
	face, err := graphics.LoadFace(cfg.Font, cfg.Size)
	if err != nil {
		return nil, err
	}
	return graphics.NewTextRenderer(ctx, graphics.BuildFontAtlas(face), overlayUnit, width, height)
}

const overlayUnit = 15
