// Package camera implements a free-fly perspective camera driven by
// keyboard movement and click-and-drag mouse look.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultSpeed       = 0.1
	DefaultSlowSpeed   = 0.05
	DefaultFastSpeed   = 0.2
	DefaultSensitivity = 100.0
	// DefaultPitchLimit keeps the angle to world up within [5, 175] degrees.
	DefaultPitchLimit = 85.0
)

// Camera holds the viewer position and orientation and derives the view and
// projection matrices from them.
type Camera struct {
	Position    mgl32.Vec3
	Orientation mgl32.Vec3 // unit forward vector
	Up          mgl32.Vec3 // world up, fixed

	Width, Height int

	Speed       float32 // units per tick
	SlowSpeed   float32 // speed while the modifier is released
	FastSpeed   float32 // speed while the modifier is held
	Sensitivity float32 // degrees per viewport height of pointer travel
	PitchLimit  float32 // max degrees between forward and the horizon

	firstClick bool

	view           mgl32.Mat4
	projection     mgl32.Mat4
	viewProjection mgl32.Mat4
}

// Option configures a Camera.
type Option func(*Camera)

// WithSpeeds sets the initial, slow and fast movement speeds.
func WithSpeeds(initial, slow, fast float32) Option {
	return func(c *Camera) { c.Speed, c.SlowSpeed, c.FastSpeed = initial, slow, fast }
}

// WithSensitivity sets the mouse-look sensitivity.
func WithSensitivity(s float32) Option {
	return func(c *Camera) { c.Sensitivity = s }
}

// WithPitchLimit sets how far, in degrees, forward may tilt from the horizon.
func WithPitchLimit(deg float32) Option {
	return func(c *Camera) { c.PitchLimit = deg }
}

// WithOrientation sets the initial forward vector. It is normalized.
func WithOrientation(forward mgl32.Vec3) Option {
	return func(c *Camera) { c.Orientation = forward.Normalize() }
}

// New creates a camera for a width x height viewport at position, looking
// down -Z. Call UpdateProjection before the first export.
func New(width, height int, position mgl32.Vec3, opts ...Option) *Camera {
	c := &Camera{
		Position:       position,
		Orientation:    mgl32.Vec3{0, 0, -1},
		Up:             mgl32.Vec3{0, 1, 0},
		Width:          width,
		Height:         height,
		Speed:          DefaultSpeed,
		SlowSpeed:      DefaultSlowSpeed,
		FastSpeed:      DefaultFastSpeed,
		Sensitivity:    DefaultSensitivity,
		PitchLimit:     DefaultPitchLimit,
		firstClick:     true,
		view:           mgl32.Ident4(),
		projection:     mgl32.Ident4(),
		viewProjection: mgl32.Ident4(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetViewport records a new viewport size. UpdateProjection must be called
// afterwards for the matrices to follow.
func (c *Camera) SetViewport(width, height int) {
	c.Width, c.Height = width, height
}

// Right returns the horizontal unit vector to the right of forward.
func (c *Camera) Right() mgl32.Vec3 {
	return c.Orientation.Cross(c.Up).Normalize()
}

// UpdateProjection recomputes the view, projection and combined matrices
// from the current state. A zero-height viewport (minimized window) keeps
// the previous projection.
func (c *Camera) UpdateProjection(fovDeg, near, far float32) {
	c.view = mgl32.LookAtV(c.Position, c.Position.Add(c.Orientation), c.Up)
	if c.Height > 0 {
		aspect := float32(c.Width) / float32(c.Height)
		c.projection = mgl32.Perspective(mgl32.DegToRad(fovDeg), aspect, near, far)
	}
	c.viewProjection = c.projection.Mul4(c.view)
}

func (c *Camera) View() mgl32.Mat4           { return c.view }
func (c *Camera) Projection() mgl32.Mat4     { return c.projection }
func (c *Camera) ViewProjection() mgl32.Mat4 { return c.viewProjection }

// angleToUp returns the angle in radians between v and the up vector.
func (c *Camera) angleToUp(v mgl32.Vec3) float32 {
	d := v.Normalize().Dot(c.Up.Normalize())
	return math32.Acos(mgl32.Clamp(d, -1, 1))
}

// withinPitchLimit reports whether forward keeps the configured distance
// from both poles.
func (c *Camera) withinPitchLimit(forward mgl32.Vec3) bool {
	return math32.Abs(c.angleToUp(forward)-mgl32.DegToRad(90)) <= mgl32.DegToRad(c.PitchLimit)
}

func rotate(v mgl32.Vec3, deg float32, axis mgl32.Vec3) mgl32.Vec3 {
	return mgl32.QuatRotate(mgl32.DegToRad(deg), axis.Normalize()).Rotate(v)
}
