package tinsel

import "math"

const (
	// pivotFrac is the fraction of the screen height the pitch rotation
	// pivots around.
	pivotFrac = 0.15

	// pointerLerp is the per-tick smoothing factor applied to the pointer.
	pointerLerp = 0.08

	minDPR = 1.0
	maxDPR = 2.5
)

// Projection is a point projected onto the screen.
type Projection struct {
	// X and Y are the screen position in logical pixels.
	X, Y float64
	// S is the depth scale fov/(fov+z). Sizes are multiplied by it at draw time.
	S float64
	// Depth is the rotated z used for back-to-front sorting.
	Depth float64
}

// Camera holds the view state of a Scene: surface size, field of view,
// yaw/pitch, and the smoothed pointer that drives them.
type Camera struct {
	// Width and Height are the logical surface size in pixels.
	Width, Height float64
	// DPR is the device pixel ratio, clamped to [1, 2.5].
	DPR float64

	// Yaw rotates around the vertical axis, Pitch around the horizontal one.
	Yaw, Pitch float64

	// BaseFOV is derived from the surface size; FOV adds the zoom setting.
	BaseFOV, FOV float64

	// MouseX and MouseY are the smoothed pointer in [-1, 1].
	MouseX, MouseY float64
	// TargetX and TargetY are the raw pointer target in [-1, 1].
	TargetX, TargetY float64
}

// resize updates the surface size and recomputes the base field of view.
func (c *Camera) resize(w, h, dpr float64) {
	c.Width = w
	c.Height = h
	c.DPR = clamp(finiteOr(dpr, 1), minDPR, maxDPR)
	c.BaseFOV = clamp(math.Min(w, h)*1.25, 520, 1000)
}

// applyZoom derives FOV from BaseFOV and a zoom multiplier.
func (c *Camera) applyZoom(zoom float64) {
	z := clamp(finiteOr(zoom, 1), 0.7, 1.6)
	c.FOV = clamp(c.BaseFOV*z, 360, 1600)
}

// setTarget converts a pointer position in pixels to the normalized target.
func (c *Camera) setTarget(px, py float64) {
	w := math.Max(1, c.Width)
	h := math.Max(1, c.Height)
	c.TargetX = px/w*2 - 1
	c.TargetY = py/h*2 - 1
}

// smooth moves the live pointer a fixed fraction toward its target.
func (c *Camera) smooth() {
	c.MouseX += (c.TargetX - c.MouseX) * pointerLerp
	c.MouseY += (c.TargetY - c.MouseY) * pointerLerp
}

// pivot returns the y coordinate pitch rotates around.
func (c *Camera) pivot() float64 {
	return c.Height * pivotFrac
}

// Project rotates (x, y, z) by the camera yaw plus yawOffset, then by pitch
// around the pivot, and projects it onto the screen. Only x is depth-scaled
// here; y keeps its rotated value and radii are scaled by S at draw time.
func (c *Camera) Project(x, y, z, yawOffset float64) Projection {
	rx, rz := rotateY(x, z, c.Yaw+yawOffset)
	py := c.pivot()
	ry, rz := rotateX(y-py, rz, c.Pitch)
	den := c.FOV + rz
	if den < 1 {
		den = 1
	}
	s := c.FOV / den
	return Projection{
		X:     c.Width*0.5 + rx*s,
		Y:     ry + py,
		S:     s,
		Depth: rz,
	}
}
