package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veandco/go-sdl2/sdl"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		raw  sdl.Event
		want Event
		ok   bool
	}{
		{
			name: "quit",
			raw:  &sdl.QuitEvent{Type: sdl.QUIT},
			want: Event{Type: EventQuit},
			ok:   true,
		},
		{
			name: "resize",
			raw:  &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_SIZE_CHANGED, Data1: 800, Data2: 600},
			want: Event{Type: EventWindowResize, Width: 800, Height: 600},
			ok:   true,
		},
		{
			name: "window focus ignored",
			raw:  &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_FOCUS_GAINED},
			ok:   false,
		},
		{
			name: "shifted key down",
			raw: &sdl.KeyboardEvent{
				Type:   sdl.KEYDOWN,
				Repeat: 1,
				Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_RIGHT, Mod: uint16(sdl.KMOD_LSHIFT)},
			},
			want: Event{Type: EventKeyDown, Key: sdl.SCANCODE_RIGHT, Shift: true, Repeat: true},
			ok:   true,
		},
		{
			name: "key up",
			raw:  &sdl.KeyboardEvent{Type: sdl.KEYUP, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_W}},
			want: Event{Type: EventKeyUp, Key: sdl.SCANCODE_W},
			ok:   true,
		},
		{
			name: "mouse motion",
			raw:  &sdl.MouseMotionEvent{Type: sdl.MOUSEMOTION, X: 10, Y: 20, XRel: -3, YRel: 4},
			want: Event{Type: EventMouseMove, MouseX: 10, MouseY: 20, DeltaX: -3, DeltaY: 4},
			ok:   true,
		},
		{
			name: "button down",
			raw:  &sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_LEFT, X: 5, Y: 6},
			want: Event{Type: EventMouseDown, Button: sdl.BUTTON_LEFT, MouseX: 5, MouseY: 6},
			ok:   true,
		},
		{
			name: "button up",
			raw:  &sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONUP, Button: sdl.BUTTON_LEFT},
			want: Event{Type: EventMouseUp, Button: sdl.BUTTON_LEFT},
			ok:   true,
		},
		{
			name: "wheel",
			raw:  &sdl.MouseWheelEvent{Type: sdl.MOUSEWHEEL, Y: -2},
			want: Event{Type: EventMouseWheel, DeltaY: -2},
			ok:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Translate(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
