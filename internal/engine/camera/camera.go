// Package camera provides camera implementations for 3D rendering.
package camera

import (
	gomath "math"

	"github.com/chewxy/math32"

	"github.com/Faultbox/hexfractal/pkg/math"
)

// maxPitch keeps the orbit camera off the poles where LookAt degenerates.
const maxPitch = gomath.Pi/2 - 0.001

// Projection holds the perspective lens shared by all cameras.
type Projection struct {
	FOV    float32 // vertical, degrees
	Near   float32
	Far    float32
	Aspect float32
}

// SetViewport updates the aspect ratio for a framebuffer size.
func (p *Projection) SetViewport(width, height int) {
	if width > 0 && height > 0 {
		p.Aspect = float32(width) / float32(height)
	}
}

// Matrix returns the projection matrix.
func (p *Projection) Matrix() math.Mat4 {
	return math.Perspective(p.FOV*gomath.Pi/180, p.Aspect, p.Near, p.Far)
}

// OrbitCamera orbits around a target point with damped rotation.
type OrbitCamera struct {
	Target math.Vec3

	// Spherical coordinates around Target
	Distance float32
	Yaw      float32 // around +Y, radians
	Pitch    float32 // above the XZ plane, radians

	// Constraints
	MinDistance float32
	MaxDistance float32

	// Damping is the fraction of pending rotation applied per Update.
	// Zero applies drags immediately.
	Damping float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	// Enabled gates input and Update; free-look disables it.
	Enabled bool

	yawDelta   float32
	pitchDelta float32
}

// NewOrbitCamera creates an orbit camera looking at the origin from
// distance along +Z.
func NewOrbitCamera(distance, damping float32) *OrbitCamera {
	return &OrbitCamera{
		Distance:        distance,
		MinDistance:     1,
		MaxDistance:     1000,
		Damping:         damping,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		Enabled:         true,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	sp, cp := math32.Sincos(c.Pitch)
	sy, cy := math32.Sincos(c.Yaw)
	offset := math.Vec3{X: cp * sy, Y: sp, Z: cp * cy}.Scale(c.Distance)
	return c.Target.Add(offset)
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Target, math.UnitY)
}

// HandleDrag queues rotation from a mouse drag delta in pixels.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	if !c.Enabled {
		return
	}
	c.yawDelta -= deltaX * c.DragSensitivity
	c.pitchDelta += deltaY * c.DragSensitivity
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	if !c.Enabled {
		return
	}
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = math32.Max(c.MinDistance, math32.Min(c.MaxDistance, c.Distance))
}

// Update applies the damped share of pending rotation. It reports whether
// the camera is still moving.
func (c *OrbitCamera) Update() bool {
	if !c.Enabled {
		return false
	}

	f := c.Damping
	if f <= 0 || f > 1 {
		f = 1
	}
	c.Yaw += c.yawDelta * f
	c.Pitch += c.pitchDelta * f
	c.Pitch = math32.Max(-maxPitch, math32.Min(maxPitch, c.Pitch))
	c.yawDelta *= 1 - f
	c.pitchDelta *= 1 - f

	const rest = 1e-5
	if math32.Abs(c.yawDelta) < rest && math32.Abs(c.pitchDelta) < rest {
		c.yawDelta, c.pitchDelta = 0, 0
		return false
	}
	return true
}

// SetFromPosition re-derives distance and angles so that the camera sits
// at pos while still looking at Target. Pending rotation is dropped.
func (c *OrbitCamera) SetFromPosition(pos math.Vec3) {
	offset := pos.Sub(c.Target)
	d := offset.Length()
	if d == 0 {
		return
	}
	c.Distance = math32.Max(c.MinDistance, math32.Min(c.MaxDistance, d))
	c.Pitch = math32.Max(-maxPitch, math32.Min(maxPitch, math32.Asin(offset.Y/d)))
	c.Yaw = math32.Atan2(offset.X, offset.Z)
	c.yawDelta, c.pitchDelta = 0, 0
}

// Forward returns the unit view direction.
func (c *OrbitCamera) Forward() math.Vec3 {
	return c.Target.Sub(c.Position()).Normalize()
}
