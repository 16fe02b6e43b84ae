// Package viewer runs the interactive fractal viewer: window, cameras,
// parameter panel and instanced drawing.
package viewer

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/hexfractal/internal/batch"
	"github.com/Faultbox/hexfractal/internal/config"
	"github.com/Faultbox/hexfractal/internal/engine/camera"
	"github.com/Faultbox/hexfractal/internal/engine/input"
	"github.com/Faultbox/hexfractal/internal/engine/instancing"
	"github.com/Faultbox/hexfractal/internal/engine/lighting"
	"github.com/Faultbox/hexfractal/internal/engine/renderer"
	"github.com/Faultbox/hexfractal/internal/engine/scene"
	"github.com/Faultbox/hexfractal/internal/engine/window"
	"github.com/Faultbox/hexfractal/internal/logger"
	"github.com/Faultbox/hexfractal/internal/panel"
	"github.com/Faultbox/hexfractal/internal/publish"
	"github.com/Faultbox/hexfractal/internal/snapshot"
)

// Title is the window title prefix.
const Title = "Hex Fractal"

// Viewer is the interactive viewer instance.
type Viewer struct {
	cfg     *config.Config
	log     *zap.Logger
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	scene    *scene.Scene
	input    *input.Input

	set      *batch.Set[*instancing.Buffer]
	regen    *panel.Regenerator[*instancing.Buffer]
	panel    *panel.Panel
	controls *Controls

	projection camera.Projection

	capture      *snapshot.Capture
	publisher    *publish.Publisher
	grabPending  bool
	snapshotting atomic.Bool
	snapshots    sync.WaitGroup
}

// New creates the window and GL resources and generates the initial
// fractal from cfg.Fractal.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg: cfg,
		log: logger.Named("viewer"),
	}
	v.log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Int("depth", cfg.Fractal.Depth),
	)

	var err error
	v.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		MSAA:       cfg.Graphics.MSAA,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer must come after the window, which owns the GL context.
	dw, dh := v.window.DrawableSize()
	rig := lighting.DefaultRig()
	v.renderer, err = renderer.New(renderer.Config{
		Width:      dw,
		Height:     dh,
		ClearColor: rig.Background,
		MSAA:       cfg.Graphics.MSAA > 0,
	})
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.scene, err = scene.New(rig)
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}

	v.input = input.New()
	v.projection = camera.Projection{
		FOV:  cfg.Camera.FOV,
		Near: cfg.Camera.Near,
		Far:  cfg.Camera.Far,
	}
	v.projection.SetViewport(dw, dh)

	v.set = batch.NewSet[*instancing.Buffer](instancing.Allocator{})
	v.regen = panel.NewRegenerator(v.set, logger.Named("regenerate"))
	v.panel = panel.New(cfg.Fractal, v.regen.Regenerate)

	orbit := camera.NewOrbitCamera(cfg.Camera.Distance, cfg.Camera.Damping)
	free := camera.NewFreeLookCamera(cfg.Camera.MoveSpeed, cfg.Camera.LookSpeed)
	v.controls = NewControls(orbit, free, v.panel)
	v.controls.OnCapture = v.window.SetPointerCaptured

	v.capture = snapshot.NewCapture(cfg.Snapshot.OutputDir, "hexfractal")
	if cfg.Publish.Enabled {
		v.publisher, err = publish.New(cfg.Publish, logger.Named("publish"))
		if err != nil {
			// Snapshots still land on disk.
			v.log.Warn("publishing disabled", zap.Error(err))
		}
	}

	if err := v.panel.Regenerate(); err != nil {
		v.Close()
		return nil, fmt.Errorf("initial generation: %w", err)
	}
	v.updateTitle()

	v.log.Info("viewer initialized successfully")
	return v, nil
}

// Run starts the main loop and returns when the window is closed or
// Escape is pressed outside free-look.
func (v *Viewer) Run() error {
	v.running = true

	var frameBudget time.Duration
	if v.cfg.Graphics.FPSLimit > 0 && !v.cfg.Graphics.VSync {
		frameBudget = time.Second / time.Duration(v.cfg.Graphics.FPSLimit)
	}

	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting viewer loop")

	for v.running {
		frameStart := time.Now()

		// 1. Process input
		if v.input.Update() {
			v.running = false
			break
		}
		for _, event := range v.input.Events() {
			v.handleEvent(event)
		}

		// 2. Update cameras
		v.controls.Update()

		// 3. Render
		v.render()
		if v.grabPending {
			v.grabFrame()
		}

		// 4. Present
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}

		if frameBudget > 0 {
			if rest := frameBudget - time.Since(frameStart); rest > 0 {
				time.Sleep(rest)
			}
		}
	}

	return nil
}

func (v *Viewer) handleEvent(event input.Event) {
	if event.Type == input.EventWindowResize {
		v.resize()
		return
	}

	action, err := v.controls.Handle(event)
	if err != nil {
		// The regenerator already logged it and kept the last fractal.
		v.log.Debug("parameter change not applied", zap.Error(err))
	}

	switch action {
	case ActionQuit:
		v.running = false
	case ActionParamsChanged:
		v.updateTitle()
	case ActionSnapshot:
		v.takeSnapshot()
	case ActionGrabFrame:
		v.grabPending = true
	}
}

func (v *Viewer) resize() {
	w, h := v.window.DrawableSize()
	v.renderer.Resize(w, h)
	v.projection.SetViewport(w, h)
}

func (v *Viewer) render() {
	v.renderer.Begin()

	if joints, struts, ok := v.set.Current(); ok {
		view, eye := v.controls.View()
		v.scene.Draw(view, v.projection.Matrix(), eye, joints, struts)
	}

	v.renderer.End()
}

func (v *Viewer) updateTitle() {
	v.window.SetTitle(Title + "  |  " + v.panel.Status())
}

// grabFrame saves the frame just drawn, as shown on screen.
func (v *Viewer) grabFrame() {
	v.grabPending = false

	pixels, w, h := v.renderer.ReadPixels()
	img, err := snapshot.FromGLPixels(pixels, w, h)
	if err != nil {
		v.log.Error("frame grab failed", zap.Error(err))
		return
	}
	path, err := v.capture.Save(img, v.cfg.Snapshot.Format)
	if err != nil {
		v.log.Error("frame grab failed", zap.Error(err))
		return
	}
	v.log.Info("frame saved", zap.String("path", path))
}

// takeSnapshot renders the current fractal in software from the active
// camera in the background. Only one snapshot runs at a time.
func (v *Viewer) takeSnapshot() {
	if !v.snapshotting.CompareAndSwap(false, true) {
		v.log.Info("snapshot already in progress")
		return
	}

	opt := snapshot.FromConfig(v.cfg.Snapshot, v.cfg.Camera)
	opt.Eye, opt.Target = v.controls.LookAt()
	inst := v.regen.Last()
	format := v.cfg.Snapshot.Format

	v.snapshots.Add(1)
	go func() {
		defer v.snapshots.Done()
		defer v.snapshotting.Store(false)

		var up snapshot.Uploader
		if v.publisher != nil {
			up = v.publisher
		}
		path, err := snapshot.Save(context.Background(), inst, opt, format, v.capture, up, v.log)
		if err != nil {
			v.log.Error("snapshot failed", zap.Error(err))
			return
		}
		v.log.Info("snapshot saved", zap.String("path", path))
	}()
}

// Close releases GL resources and the window.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")
	v.snapshots.Wait()

	if v.set != nil {
		if err := v.set.Close(); err != nil {
			v.log.Warn("releasing instance buffers", zap.Error(err))
		}
	}
	if v.scene != nil {
		v.scene.Close()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
