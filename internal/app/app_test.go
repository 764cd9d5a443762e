package app

import (
	"testing"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opengl-lab/internal/camera"
	"opengl-lab/internal/config"
	"opengl-lab/internal/gpu"
	"opengl-lab/internal/gpu/gputest"
	"opengl-lab/internal/graphics"
	"opengl-lab/internal/input"
)

type fakeWindow struct {
	close     bool
	swaps     int
	closeAt   int
	shouldSet bool
}

func (w *fakeWindow) ShouldClose() bool { return w.close }
func (w *fakeWindow) SetShouldClose(v bool) {
	w.close = v
	w.shouldSet = true
}
func (w *fakeWindow) SwapBuffers() {
	w.swaps++
	if w.closeAt > 0 && w.swaps >= w.closeAt {
		w.close = true
	}
}

type fakePointer struct {
	x, y   float64
	hidden bool
}

func (p *fakePointer) CursorPos() (float64, float64) { return p.x, p.y }
func (p *fakePointer) SetCursorPos(x, y float64)     { p.x, p.y = x, y }
func (p *fakePointer) SetCursorHidden(h bool)        { p.hidden = h }

type countingScene struct {
	draws int
	last  *camera.Camera
}

func (s *countingScene) Draw(cam *camera.Camera) {
	s.draws++
	s.last = cam
}
func (s *countingScene) Release() {}

func newTestApp(t *testing.T, scene graphics.Scene) (*App, *gputest.Recorder, *fakeWindow, *input.InputManager) {
	t.Helper()
	cfg := config.Default()
	config.Apply(cfg)
	t.Cleanup(func() { config.Apply(config.Default()) })

	rec := gputest.NewRecorder()
	win := &fakeWindow{}
	im := input.NewInputManager()
	cam := camera.New(cfg.Window.Width, cfg.Window.Height, mgl32.Vec3(cfg.Camera.Position))
	a := NewApp(cfg, rec, win, &fakePointer{}, im, cam, scene)
	a.PollEvents = func() {}
	return a, rec, win, im
}

func TestTickClearsDrawsAndSwaps(t *testing.T) {
	scene := &countingScene{}
	a, rec, win, _ := newTestApp(t, scene)

	a.Tick()

	assert.Equal(t, 1, scene.draws)
	assert.Same(t, a.camera, scene.last)
	assert.Equal(t, 1, win.swaps)
	assert.Equal(t, 1, rec.Count("Clear"))
	assert.False(t, win.close)

	want := mgl32.Perspective(mgl32.DegToRad(45), 1, 0.1, 100)
	assert.True(t, want.ApproxEqualThreshold(a.camera.Projection(), 1e-5))
}

func TestTickMovesCamera(t *testing.T) {
	a, _, _, im := newTestApp(t, &countingScene{})
	start := a.camera.Position

	im.HandleKeyEvent(glfw.KeyW, glfw.Press)
	a.Tick()

	assert.InDelta(t, start.Z()-camera.DefaultSpeed, a.camera.Position.Z(), 1e-6)
	assert.InDelta(t, start.X(), a.camera.Position.X(), 1e-6)
}

func TestQuitClosesWindow(t *testing.T) {
	a, _, win, im := newTestApp(t, &countingScene{})
	im.HandleKeyEvent(glfw.KeyEscape, glfw.Press)
	a.Tick()
	assert.True(t, win.shouldSet)
	assert.True(t, win.close)
}

func TestQuitIsEdgeTriggered(t *testing.T) {
	a, _, win, im := newTestApp(t, &countingScene{})
	im.HandleKeyEvent(glfw.KeyEscape, glfw.Press)
	a.Tick()
	require.True(t, win.close)

	// A window that refuses to close is not forced shut every frame the
	// key stays held.
	win.close, win.shouldSet = false, false
	im.HandleKeyEvent(glfw.KeyEscape, glfw.Repeat)
	a.Tick()
	assert.False(t, win.shouldSet)
}

func TestRunStopsWhenWindowCloses(t *testing.T) {
	scene := &countingScene{}
	a, _, win, _ := newTestApp(t, scene)
	win.closeAt = 3

	a.Run()
	assert.Equal(t, 3, scene.draws)
}

func TestResizeUpdatesViewportAndAspect(t *testing.T) {
	a, rec, _, _ := newTestApp(t, &countingScene{})

	a.Resize(1600, 800)
	require.Equal(t, 1, rec.Count("Viewport"))
	assert.Equal(t, 1600, a.camera.Width)
	assert.Equal(t, 800, a.camera.Height)

	a.Tick()
	want := mgl32.Perspective(mgl32.DegToRad(45), 2, 0.1, 100)
	assert.True(t, want.ApproxEqualThreshold(a.camera.Projection(), 1e-5))
}

func TestZoomIsClamped(t *testing.T) {
	a, _, _, _ := newTestApp(t, &countingScene{})
	a.Zoom(5)
	assert.Equal(t, float32(40), config.GetFOV())
	a.Zoom(100)
	assert.Equal(t, float32(10), config.GetFOV())
}

func TestTickWithRealScene(t *testing.T) {
	rec := gputest.NewRecorder()
	scene, err := graphics.NewScene(rec, "lit", graphics.Options{MissingPolicy: gpu.WarnMissing})
	require.NoError(t, err)
	defer scene.Release()

	cfg := config.Default()
	config.Apply(cfg)
	win := &fakeWindow{closeAt: 2}
	cam := camera.New(cfg.Window.Width, cfg.Window.Height, mgl32.Vec3(cfg.Camera.Position))
	a := NewApp(cfg, rec, win, &fakePointer{}, input.NewInputManager(), cam, scene)
	a.PollEvents = func() {}

	a.Run()
	assert.Equal(t, 2, win.swaps)
	assert.Equal(t, 4, rec.Count("DrawElements"), "mesh and light cube per frame")
}

func TestFPSLimiter(t *testing.T) {
	f := NewFPSLimiter()

	start := time.Now()
	f.Wait(0)
	assert.Less(t, time.Since(start), 5*time.Millisecond)

	start = time.Now()
	for range 3 {
		f.Wait(200)
	}
	assert.GreaterOrEqual(t, time.Since(start), 14*time.Millisecond)
}

func TestOverlayDrawsAfterScene(t *testing.T) {
	scene := &countingScene{}
	a, rec, _, im := newTestApp(t, scene)

	face, err := graphics.LoadFace("", 0)
	require.NoError(t, err)
	tr, err := graphics.NewTextRenderer(rec, graphics.BuildFontAtlas(face), 0, 800, 800)
	require.NoError(t, err)
	defer tr.Release()
	a.SetOverlay(tr)

	a.Tick()
	assert.Equal(t, 2, rec.Count("DrawArrays"), "stats block and scene label")
	assert.Equal(t, 1, scene.draws)
	assert.Empty(t, rec.Errors())

	im.HandleKeyEvent(glfw.KeyF3, glfw.Press)
	a.Tick()
	assert.Equal(t, 2, rec.Count("DrawArrays"), "F3 hides the overlay")
	assert.Equal(t, 2, scene.draws)

	im.HandleKeyEvent(glfw.KeyF3, glfw.Release)
	a.Tick()
	assert.Equal(t, 2, rec.Count("DrawArrays"), "still hidden until the next press")

	im.HandleKeyEvent(glfw.KeyF3, glfw.Press)
	a.Tick()
	assert.Equal(t, 4, rec.Count("DrawArrays"))

	a.Resize(400, 300)
	assert.Equal(t, 400, a.camera.Width)
}
