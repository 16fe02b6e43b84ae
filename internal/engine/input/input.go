// Package input drains the SDL event queue into a flat per-frame event list.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies a processed event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Event is the subset of an SDL event the viewer reacts to.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Shift  bool
	Repeat bool
	Width  int
	Height int
	MouseX int
	MouseY int
	// Relative motion for mouse moves, wheel steps for wheel events.
	DeltaX int
	DeltaY int
	Button uint8
}

// Input collects the events of one frame.
type Input struct {
	events []Event
}

// New creates an input handler.
func New() *Input {
	return &Input{events: make([]Event, 0, 16)}
}

// Update drains pending SDL events. It reports true once a quit request
// arrives; events queued behind it are left for SDL to discard.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for raw := sdl.PollEvent(); raw != nil; raw = sdl.PollEvent() {
		ev, ok := Translate(raw)
		if !ok {
			continue
		}
		i.events = append(i.events, ev)
		if ev.Type == EventQuit {
			return true
		}
	}
	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Translate converts one SDL event. ok is false for events the viewer
// ignores.
func Translate(raw sdl.Event) (ev Event, ok bool) {
	switch e := raw.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event != sdl.WINDOWEVENT_RESIZED && e.Event != sdl.WINDOWEVENT_SIZE_CHANGED {
			return Event{}, false
		}
		return Event{Type: EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)}, true

	case *sdl.KeyboardEvent:
		ev = Event{
			Type:   EventKeyUp,
			Key:    e.Keysym.Scancode,
			Shift:  uint16(e.Keysym.Mod)&uint16(sdl.KMOD_SHIFT) != 0,
			Repeat: e.Repeat != 0,
		}
		if e.Type == sdl.KEYDOWN {
			ev.Type = EventKeyDown
		}
		return ev, true

	case *sdl.MouseMotionEvent:
		return Event{
			Type:   EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			DeltaX: int(e.XRel),
			DeltaY: int(e.YRel),
		}, true

	case *sdl.MouseButtonEvent:
		ev = Event{Type: EventMouseUp, MouseX: int(e.X), MouseY: int(e.Y), Button: e.Button}
		if e.Type == sdl.MOUSEBUTTONDOWN {
			ev.Type = EventMouseDown
		}
		return ev, true

	case *sdl.MouseWheelEvent:
		return Event{Type: EventMouseWheel, DeltaX: int(e.X), DeltaY: int(e.Y)}, true
	}
	return Event{}, false
}
