// Package renderer owns global OpenGL state: loading function pointers,
// depth and multisample setup, the viewport and per-frame clearing.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/hexfractal/internal/logger"
	"github.com/Faultbox/hexfractal/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor math.Vec3
	MSAA       bool
}

// Renderer tracks the viewport and clear color of the current context.
type Renderer struct {
	log           *zap.Logger
	width, height int
	clear         math.Vec3
}

// New loads GL entry points and configures fixed state. The window's
// context must already be current.
func New(cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("loading OpenGL functions: %w", err)
	}

	r := &Renderer{log: logger.Named("renderer")}
	r.log.Info("OpenGL ready",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("vendor", gl.GoStr(gl.GetString(gl.VENDOR))),
		zap.String("device", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	// Negative or zero instance scales flip winding, so both faces are drawn.
	gl.Disable(gl.CULL_FACE)
	if cfg.MSAA {
		gl.Enable(gl.MULTISAMPLE)
	}

	r.SetClearColor(cfg.ClearColor)
	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close is a no-op; the renderer owns no GL objects.
func (r *Renderer) Close() {
	r.log.Debug("renderer closed")
}

// SetClearColor sets the background color.
func (r *Renderer) SetClearColor(c math.Vec3) {
	r.clear = c
	gl.ClearColor(c.X, c.Y, c.Z, 1)
}

// Resize sets the viewport to the drawable size in pixels.
func (r *Renderer) Resize(width, height int) {
	if width == r.width && height == r.height {
		return
	}
	r.width, r.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("viewport", zap.Int("width", width), zap.Int("height", height))
}

// Size returns the current viewport size.
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// Begin clears color and depth for a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End flushes queued commands.
func (r *Renderer) End() {
	gl.Flush()
}

// ReadPixels returns the back buffer as bottom-up RGBA rows. Call it after
// drawing and before swapping.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	width, height = r.width, r.height
	pixels = make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, width, height
}
