package camera

import "github.com/go-gl/mathgl/mgl32"

// InputSample is one tick of logical input state.
type InputSample struct {
	Forward, Backward bool
	Left, Right       bool
	Up, Down          bool
	Fast              bool // speed modifier
	Look              bool // mouse look enabled
}

// Pointer is the cursor the camera reads and re-centers while looking.
type Pointer interface {
	CursorPos() (x, y float64)
	SetCursorPos(x, y float64)
	SetCursorHidden(hidden bool)
}

// InputResult reports what ApplyInput did.
type InputResult struct {
	Moved        bool
	Rotated      bool
	PitchClamped bool // pitch rejected to keep forward off the poles
	Recentered   bool // first look sample: pointer re-centered, no rotation
}

// ApplyInput moves and rotates the camera for one tick.
//
// Every held movement key adds Speed times its direction to Position; the
// sum is not normalized, so diagonal movement is faster. The speed modifier
// takes effect from the next tick. While Look is held the pointer offset
// from the viewport center turns the camera and the pointer is put back in
// the center. The first look sample only re-centers.
func (c *Camera) ApplyInput(in InputSample, ptr Pointer) InputResult {
	var res InputResult

	right := c.Right()
	move := func(held bool, dir mgl32.Vec3) {
		if held {
			c.Position = c.Position.Add(dir.Mul(c.Speed))
			res.Moved = true
		}
	}
	move(in.Forward, c.Orientation)
	move(in.Backward, c.Orientation.Mul(-1))
	move(in.Left, right.Mul(-1))
	move(in.Right, right)
	move(in.Up, c.Up)
	move(in.Down, c.Up.Mul(-1))

	if in.Fast {
		c.Speed = c.FastSpeed
	} else {
		c.Speed = c.SlowSpeed
	}

	if ptr == nil {
		return res
	}
	if !in.Look {
		ptr.SetCursorHidden(false)
		c.firstClick = true
		return res
	}

	ptr.SetCursorHidden(true)
	// Integer centre: platforms store the cursor in whole pixels, so a
	// half-pixel centre would read back as a constant offset.
	cx, cy := float64(c.Width/2), float64(c.Height/2)
	if c.firstClick {
		ptr.SetCursorPos(cx, cy)
		c.firstClick = false
		res.Recentered = true
		return res
	}

	x, y := ptr.CursorPos()
	res.Rotated, res.PitchClamped = c.Look(float32(x-cx), float32(y-cy))
	ptr.SetCursorPos(cx, cy)
	return res
}

// Look turns the camera by a pointer offset in pixels from the viewport
// center. Pitch comes from dy and is dropped when it would bring forward
// closer than PitchLimit allows to either pole; yaw comes from dx and is
// always applied. Both are scaled by Sensitivity / Height degrees.
func (c *Camera) Look(dx, dy float32) (rotated, clamped bool) {
	if c.Height <= 0 {
		return false, false
	}
	h := float32(c.Height)
	rotX := c.Sensitivity * dy / h
	rotY := c.Sensitivity * dx / h

	if rotX != 0 {
		candidate := rotate(c.Orientation, -rotX, c.Right())
		if c.withinPitchLimit(candidate) {
			c.Orientation = candidate.Normalize()
			rotated = true
		} else {
			clamped = true
		}
	}
	if rotY != 0 {
		c.Orientation = rotate(c.Orientation, -rotY, c.Up).Normalize()
		rotated = true
	}
	return rotated, clamped
}
