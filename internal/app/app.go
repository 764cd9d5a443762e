package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"opengl-lab/internal/camera"
	"opengl-lab/internal/config"
	"opengl-lab/internal/gpu"
	"opengl-lab/internal/graphics"
	"opengl-lab/internal/input"
	"opengl-lab/internal/profiling"
)

// slowFrame is the processing time above which a frame is reported.
const slowFrame = 16 * time.Millisecond

// Window is the part of *glfw.Window the frame loop drives.
type Window interface {
	ShouldClose() bool
	SetShouldClose(bool)
	SwapBuffers()
}

// App owns one scene and drives it frame by frame.
type App struct {
	cfg     config.Config
	ctx     gpu.Context
	window  Window
	pointer camera.Pointer
	input   *input.InputManager
	camera  *camera.Camera
	scene   graphics.Scene

	// PollEvents processes pending window events. Defaults to glfw.PollEvents.
	PollEvents func()

	fpsLimiter *FPSLimiter

	overlay     *graphics.TextRenderer
	showOverlay bool
	frames      int
	fps         int
	lastCount   time.Time
}

func NewApp(cfg config.Config, ctx gpu.Context, window Window, pointer camera.Pointer,
	im *input.InputManager, cam *camera.Camera, scene graphics.Scene) *App {
	return &App{
		cfg:         cfg,
		ctx:         ctx,
		window:      window,
		pointer:     pointer,
		input:       im,
		camera:      cam,
		scene:       scene,
		PollEvents:  glfw.PollEvents,
		fpsLimiter:  NewFPSLimiter(),
		lastCount:   time.Now(),
		showOverlay: true,
	}
}

// SetOverlay installs a text renderer for the frame stats overlay. The App
// does not take ownership. F3 toggles it.
func (a *App) SetOverlay(tr *graphics.TextRenderer) {
	a.overlay = tr
}

// FPS returns the frame rate measured over the last full second.
func (a *App) FPS() int { return a.fps }

func (a *App) Run() {
	for !a.window.ShouldClose() {
		a.Tick()
	}
}

// Tick runs one frame: events, camera, draw, present, pacing.
func (a *App) Tick() {
	profiling.ResetFrame()
	startTick := time.Now() // Measure pure processing time

	a.PollEvents()
	if a.input.JustPressed(input.ActionQuit) {
		a.window.SetShouldClose(true)
	}
	if a.input.JustPressed(input.ActionToggleOverlay) {
		a.showOverlay = !a.showOverlay
	}

	a.updateCamera()
	a.render()

	a.window.SwapBuffers()
	a.countFrame()

	// Check if frame took too long
	if d := time.Since(startTick); d > slowFrame {
		slog.Warn("slow frame", "duration", d, "top", profiling.TopN(5))
	}

	a.input.PostUpdate() // Clear "JustPressed" flags

	if !a.cfg.Window.VSync {
		a.fpsLimiter.Wait(config.GetFPSLimit())
	}
}

func (a *App) updateCamera() {
	defer profiling.Track("camera")()

	res := a.camera.ApplyInput(a.input.Sample(), a.pointer)
	if res.PitchClamped {
		slog.Debug("pitch rejected", "orientation", a.camera.Orientation)
	}
	a.camera.UpdateProjection(config.GetFOV(), a.cfg.Camera.Near, a.cfg.Camera.Far)
}

func (a *App) render() {
	defer profiling.Track("render")()

	c := a.cfg.Render.ClearColor
	a.ctx.ClearColor(c[0], c[1], c[2], c[3])
	a.ctx.Clear(gpu.ColorBufferBit | gpu.DepthBufferBit)
	a.scene.Draw(a.camera)
	if a.overlay != nil && a.showOverlay {
		a.drawOverlay()
	}
	gpu.CheckError(a.ctx, "frame")
}

func (a *App) countFrame() {
	a.frames++
	if elapsed := time.Since(a.lastCount); elapsed >= time.Second {
		a.fps = int(float64(a.frames)/elapsed.Seconds() + 0.5)
		a.frames = 0
		a.lastCount = time.Now()
	}
}

func (a *App) drawOverlay() {
	scale := a.cfg.Overlay.Scale
	step := a.overlay.LineHeight(scale)
	p := a.camera.Position
	lines := []string{
		fmt.Sprintf("FPS %d", a.fps),
		fmt.Sprintf("pos %.2f %.2f %.2f", p.X(), p.Y(), p.Z()),
		fmt.Sprintf("fov %.0f", config.GetFOV()),
	}
	white := mgl32.Vec3{1, 1, 1}
	a.overlay.RenderLines(lines, 8, 8+step, step, scale, white)

	w, _ := a.overlay.Measure(a.cfg.Scene, scale)
	a.overlay.Render(a.cfg.Scene, float32(a.camera.Width)-w-8, 8+step, scale, white)
}

// Resize follows a framebuffer size change. The projection catches up on
// the next tick.
func (a *App) Resize(width, height int) {
	a.ctx.Viewport(0, 0, int32(width), int32(height))
	a.camera.SetViewport(width, height)
	if a.overlay != nil {
		a.overlay.SetViewport(width, height)
	}
}

// Zoom narrows the field of view by delta degrees; negative widens it.
func (a *App) Zoom(delta float32) {
	config.SetFOV(config.GetFOV() - delta)
}

// RefreshRender repaints without touching input, for window damage while
// the loop is blocked in a resize.
func (a *App) RefreshRender() {
	a.camera.UpdateProjection(config.GetFOV(), a.cfg.Camera.Near, a.cfg.Camera.Far)
	a.render()
	a.window.SwapBuffers()
}
