package camera

import (
	gomath "math"
	"time"

	"github.com/chewxy/math32"

	"github.com/Faultbox/hexfractal/pkg/math"
)

// Pointer capture thresholds: a click shorter than ClickMaxDuration that
// moved less than ClickMaxTravel pixels captures the pointer.
const (
	ClickMaxDuration = 200 * time.Millisecond
	ClickMaxTravel   = 5
)

// MoveKey is a free-look movement key.
type MoveKey int

const (
	MoveForward MoveKey = iota
	MoveBackward
	MoveLeft
	MoveRight
)

// FreeLookCamera flies through the scene while the pointer is captured.
// Orientation is yaw then pitch (YXZ) with the view along -Z.
type FreeLookCamera struct {
	Position math.Vec3
	Yaw      float32
	Pitch    float32

	MoveSpeed float32 // units per Update
	LookSpeed float32 // radians per pixel

	locked bool
	keys   [4]bool
}

// NewFreeLookCamera creates an unlocked free-look camera.
func NewFreeLookCamera(moveSpeed, lookSpeed float32) *FreeLookCamera {
	return &FreeLookCamera{MoveSpeed: moveSpeed, LookSpeed: lookSpeed}
}

// Locked reports whether the camera owns the pointer.
func (c *FreeLookCamera) Locked() bool {
	return c.locked
}

// Lock captures the pointer, starting at pos and looking along forward.
func (c *FreeLookCamera) Lock(pos, forward math.Vec3) {
	c.Position = pos
	c.LookAlong(forward)
	c.keys = [4]bool{}
	c.locked = true
}

// Unlock releases the pointer.
func (c *FreeLookCamera) Unlock() {
	c.locked = false
	c.keys = [4]bool{}
}

// LookAlong sets yaw and pitch from a view direction.
func (c *FreeLookCamera) LookAlong(forward math.Vec3) {
	f := forward.Normalize()
	if f == (math.Vec3{}) {
		return
	}
	c.Pitch = math32.Asin(math32.Max(-1, math32.Min(1, f.Y)))
	c.Yaw = math32.Atan2(-f.X, -f.Z)
}

// HandleMouseMove turns the camera by a relative mouse motion.
func (c *FreeLookCamera) HandleMouseMove(deltaX, deltaY float32) {
	if !c.locked {
		return
	}
	c.Yaw -= deltaX * c.LookSpeed
	c.Pitch -= deltaY * c.LookSpeed
	c.Pitch = math32.Max(-gomath.Pi/2, math32.Min(gomath.Pi/2, c.Pitch))
}

// SetKey records a movement key state.
func (c *FreeLookCamera) SetKey(k MoveKey, down bool) {
	if k >= MoveForward && k <= MoveRight {
		c.keys[k] = down
	}
}

// Update moves the camera by the held keys.
func (c *FreeLookCamera) Update() {
	if !c.locked {
		return
	}

	var dir math.Vec3
	if c.keys[MoveForward] {
		dir.Z--
	}
	if c.keys[MoveBackward] {
		dir.Z++
	}
	if c.keys[MoveLeft] {
		dir.X--
	}
	if c.keys[MoveRight] {
		dir.X++
	}
	if dir == (math.Vec3{}) {
		return
	}

	// Diagonals move at the same speed as straight lines.
	dir = c.Rotation().Rotate(dir.Normalize())
	c.Position = c.Position.Add(dir.Scale(c.MoveSpeed))
}

// Rotation returns the camera orientation.
func (c *FreeLookCamera) Rotation() math.Quat {
	return math.QuatFromEuler(c.Pitch, c.Yaw, 0)
}

// Forward returns the unit view direction.
func (c *FreeLookCamera) Forward() math.Vec3 {
	return c.Rotation().Rotate(math.Vec3{Z: -1})
}

// ViewMatrix returns the view matrix for this camera.
func (c *FreeLookCamera) ViewMatrix() math.Mat4 {
	inv := math.Compose(math.Vec3{}, c.Rotation().Conjugate(), math.One3)
	p := c.Position
	return inv.Mul(math.Translate(-p.X, -p.Y, -p.Z))
}

// ClickDetector recognizes the short left click that captures the pointer.
type ClickDetector struct {
	pressed bool
	at      time.Time
	x, y    int
}

// Press records a button press.
func (d *ClickDetector) Press(x, y int, at time.Time) {
	d.pressed = true
	d.at = at
	d.x, d.y = x, y
}

// Release reports whether the press/release pair was a capture click.
func (d *ClickDetector) Release(x, y int, at time.Time) bool {
	if !d.pressed {
		return false
	}
	d.pressed = false

	travel := math.Vec2{X: float32(x), Y: float32(y)}.Distance(math.Vec2{X: float32(d.x), Y: float32(d.y)})
	return at.Sub(d.at) < ClickMaxDuration && travel < ClickMaxTravel
}
