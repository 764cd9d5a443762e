// Command sandbox opens a window and renders one of the lab scenes with a
// free-flying camera.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/go-gl/glfw/v3.3/glfw"

	"opengl-lab/internal/app"
	"opengl-lab/internal/config"
	"opengl-lab/internal/gpu"
	"opengl-lab/internal/graphics"
	"opengl-lab/internal/input"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "sandbox.yaml", "YAML configuration file, optional")
	sceneName := flag.String("scene", "", "scene to render, overrides the config ("+strings.Join(graphics.SceneNames(), ", ")+")")
	textureDir := flag.String("textures", "", "directory with texture images; generated textures are used otherwise")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *sceneName != "" {
		cfg.Scene = *sceneName
	}
	config.Apply(cfg)

	if _, err := setupLogger(cfg.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	window, ctx, err := setupWindow(cfg.Window)
	if err != nil {
		panic(err)
	}
	defer window.Destroy()
	slog.Info("context ready", "gl", ctx.Version())

	width, height := window.GetFramebufferSize()
	ctx.Viewport(0, 0, int32(width), int32(height))
	ctx.Enable(gpu.DepthTest)

	policy := gpu.IgnoreMissing
	if cfg.Uniforms.WarnMissing {
		policy = gpu.WarnMissing
	}
	scene, err := graphics.NewScene(ctx, cfg.Scene, graphics.Options{
		MissingPolicy: policy,
		TextureDir:    *textureDir,
	})
	if err != nil {
		panic(err)
	}
	defer scene.Release()

	im := input.NewInputManager()
	im.SetCallbacks(window)

	cam := setupCamera(cfg, width, height)
	a := app.NewApp(cfg, ctx, window, input.WindowPointer{Window: window}, im, cam, scene)

	if cfg.Overlay.Enabled {
		overlay, err := setupOverlay(ctx, cfg.Overlay, width, height)
		if err != nil {
			slog.Error("overlay disabled", "err", err.Error())
		} else {
			defer overlay.Release()
			a.SetOverlay(overlay)
		}
	}

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		a.Resize(width, height)
		a.RefreshRender()
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		a.Zoom(float32(yoff))
	})

	a.Run()
}
