package input

import "github.com/go-gl/glfw/v3.3/glfw"

// CursorWindow is the part of *glfw.Window that WindowPointer uses.
type CursorWindow interface {
	GetCursorPos() (x, y float64)
	SetCursorPos(x, y float64)
	GetSize() (width, height int)
	GetFramebufferSize() (width, height int)
	GetInputMode(mode glfw.InputMode) int
	SetInputMode(mode glfw.InputMode, value int)
}

// WindowPointer adapts a GLFW window cursor to camera.Pointer. Positions are
// in framebuffer pixels, the unit the viewport and camera use. GLFW reports
// the cursor in screen coordinates, which differ on HiDPI displays.
type WindowPointer struct {
	Window CursorWindow
}

func (p WindowPointer) CursorPos() (float64, float64) {
	x, y := p.Window.GetCursorPos()
	sx, sy := p.scale()
	return x * sx, y * sy
}

func (p WindowPointer) SetCursorPos(x, y float64) {
	sx, sy := p.scale()
	p.Window.SetCursorPos(x/sx, y/sy)
}

func (p WindowPointer) SetCursorHidden(hidden bool) {
	mode := glfw.CursorNormal
	if hidden {
		mode = glfw.CursorHidden
	}
	if p.Window.GetInputMode(glfw.CursorMode) != mode {
		p.Window.SetInputMode(glfw.CursorMode, mode)
	}
}

func (p WindowPointer) scale() (float64, float64) {
	w, h := p.Window.GetSize()
	fw, fh := p.Window.GetFramebufferSize()
	return cursorScale(w, h, fw, fh)
}

// cursorScale returns framebuffer pixels per screen coordinate. A minimized
// window reports zero sizes and gets 1.
func cursorScale(w, h, fw, fh int) (float64, float64) {
	if w <= 0 || h <= 0 || fw <= 0 || fh <= 0 {
		return 1, 1
	}
	return float64(fw) / float64(w), float64(fh) / float64(h)
}
