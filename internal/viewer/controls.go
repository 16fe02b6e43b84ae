package viewer

import (
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/hexfractal/internal/engine/camera"
	"github.com/Faultbox/hexfractal/internal/engine/input"
	"github.com/Faultbox/hexfractal/internal/panel"
	"github.com/Faultbox/hexfractal/pkg/math"
)

// Action is a request the controls hand back to the viewer loop.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionSnapshot
	ActionGrabFrame
	ActionParamsChanged
)

// Steps moved by a Shift+arrow nudge.
const coarseNudge = 10

var moveKeys = map[sdl.Scancode]camera.MoveKey{
	sdl.SCANCODE_W: camera.MoveForward,
	sdl.SCANCODE_S: camera.MoveBackward,
	sdl.SCANCODE_A: camera.MoveLeft,
	sdl.SCANCODE_D: camera.MoveRight,
}

// Controls routes input events to the cameras and the parameter panel.
// The orbit camera is active until a short left click captures the
// pointer for free-look; Escape hands control back to the orbit.
type Controls struct {
	Orbit *camera.OrbitCamera
	Free  *camera.FreeLookCamera
	Panel *panel.Panel

	// OnCapture is called when the pointer is captured or released.
	OnCapture func(captured bool)

	click    camera.ClickDetector
	dragging bool
	now      func() time.Time
}

// NewControls creates controls over the given cameras and panel.
func NewControls(orbit *camera.OrbitCamera, free *camera.FreeLookCamera, p *panel.Panel) *Controls {
	return &Controls{
		Orbit: orbit,
		Free:  free,
		Panel: p,
		now:   time.Now,
	}
}

// Handle applies one event. Panel handler errors are returned with the
// action so that the caller can report them; the panel itself keeps the
// new values.
func (c *Controls) Handle(e input.Event) (Action, error) {
	switch e.Type {
	case input.EventKeyDown:
		return c.keyDown(e)
	case input.EventKeyUp:
		if k, ok := moveKeys[e.Key]; ok {
			c.Free.SetKey(k, false)
		}
	case input.EventMouseDown:
		if e.Button == sdl.BUTTON_LEFT && !c.Free.Locked() {
			c.click.Press(e.MouseX, e.MouseY, c.now())
			c.dragging = true
		}
	case input.EventMouseUp:
		if e.Button == sdl.BUTTON_LEFT && !c.Free.Locked() {
			c.dragging = false
			if c.click.Release(e.MouseX, e.MouseY, c.now()) {
				c.capture()
			}
		}
	case input.EventMouseMove:
		if c.Free.Locked() {
			c.Free.HandleMouseMove(float32(e.DeltaX), float32(e.DeltaY))
		} else if c.dragging {
			c.Orbit.HandleDrag(float32(e.DeltaX), float32(e.DeltaY))
		}
	case input.EventMouseWheel:
		c.Orbit.HandleZoom(float32(e.DeltaY))
	}
	return ActionNone, nil
}

func (c *Controls) keyDown(e input.Event) (Action, error) {
	if k, ok := moveKeys[e.Key]; ok {
		c.Free.SetKey(k, true)
		return ActionNone, nil
	}

	switch e.Key {
	case sdl.SCANCODE_ESCAPE:
		if c.Free.Locked() {
			c.release()
			return ActionNone, nil
		}
		return ActionQuit, nil

	case sdl.SCANCODE_TAB:
		if e.Shift {
			c.Panel.Select(-1)
		} else {
			c.Panel.Select(1)
		}
		return ActionParamsChanged, nil

	case sdl.SCANCODE_LEFT, sdl.SCANCODE_RIGHT:
		steps := 1
		if e.Shift {
			steps = coarseNudge
		}
		if e.Key == sdl.SCANCODE_LEFT {
			steps = -steps
		}
		changed, err := c.Panel.Nudge(steps)
		if !changed {
			return ActionNone, err
		}
		return ActionParamsChanged, err

	case sdl.SCANCODE_R:
		if e.Repeat {
			return ActionNone, nil
		}
		return ActionParamsChanged, c.Panel.Regenerate()

	case sdl.SCANCODE_F12:
		if e.Repeat {
			return ActionNone, nil
		}
		return ActionSnapshot, nil

	case sdl.SCANCODE_F11:
		if e.Repeat {
			return ActionNone, nil
		}
		return ActionGrabFrame, nil
	}
	return ActionNone, nil
}

func (c *Controls) capture() {
	c.Free.Lock(c.Orbit.Position(), c.Orbit.Forward())
	c.Orbit.Enabled = false
	if c.OnCapture != nil {
		c.OnCapture(true)
	}
}

func (c *Controls) release() {
	c.Free.Unlock()
	c.Orbit.Enabled = true
	c.Orbit.SetFromPosition(c.Free.Position)
	if c.OnCapture != nil {
		c.OnCapture(false)
	}
}

// Update advances the active camera by one frame.
func (c *Controls) Update() {
	if c.Free.Locked() {
		c.Free.Update()
		return
	}
	c.Orbit.Update()
}

// View returns the view matrix and eye position of the active camera.
func (c *Controls) View() (view math.Mat4, eye math.Vec3) {
	if c.Free.Locked() {
		return c.Free.ViewMatrix(), c.Free.Position
	}
	return c.Orbit.ViewMatrix(), c.Orbit.Position()
}

// LookAt returns the eye and target of the active camera.
func (c *Controls) LookAt() (eye, target math.Vec3) {
	if c.Free.Locked() {
		return c.Free.Position, c.Free.Position.Add(c.Free.Forward())
	}
	return c.Orbit.Position(), c.Orbit.Target
}
