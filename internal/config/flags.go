package config

import "flag"

// unset marks a numeric override that was not given on the command line.
const unset = -1

// Overrides holds command-line settings. They take priority over the
// config file.
type Overrides struct {
	ConfigPath string
	Debug      bool

	Windowed   bool
	Fullscreen bool
	Width      int
	Height     int

	Depth          int
	BaseScale      float64
	ScaleReduction float64
	JointRadius    float64
	StrutRadius    float64
}

// NewOverrides returns overrides that change nothing.
func NewOverrides() *Overrides {
	return &Overrides{
		Depth:          unset,
		BaseScale:      unset,
		ScaleReduction: unset,
		JointRadius:    unset,
		StrutRadius:    unset,
	}
}

// RegisterFlags adds the config, logging and fractal flags to fs.
func (o *Overrides) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&o.ConfigPath, "config", o.ConfigPath, "Path to config file")
	fs.BoolVar(&o.Debug, "debug", o.Debug, "Enable debug logging")
	fs.IntVar(&o.Depth, "depth", o.Depth, "Fractal recursion depth")
	fs.Float64Var(&o.BaseScale, "base-scale", o.BaseScale, "Fractal base size")
	fs.Float64Var(&o.ScaleReduction, "scale-reduction", o.ScaleReduction, "Per-level scale factor")
	fs.Float64Var(&o.JointRadius, "joint-radius", o.JointRadius, "Joint sphere radius")
	fs.Float64Var(&o.StrutRadius, "strut-radius", o.StrutRadius, "Strut cylinder radius")
}

// RegisterWindowFlags adds the display flags to fs.
func (o *Overrides) RegisterWindowFlags(fs *flag.FlagSet) {
	fs.BoolVar(&o.Windowed, "windowed", o.Windowed, "Run in windowed mode")
	fs.BoolVar(&o.Fullscreen, "fullscreen", o.Fullscreen, "Run in fullscreen mode")
	fs.IntVar(&o.Width, "width", o.Width, "Window width")
	fs.IntVar(&o.Height, "height", o.Height, "Window height")
}

// Apply writes the given overrides into cfg.
func (o *Overrides) Apply(cfg *Config) {
	if o.Debug {
		cfg.Logging.Level = "debug"
	}
	if o.Windowed {
		cfg.Graphics.Fullscreen = false
	}
	if o.Fullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if o.Width > 0 {
		cfg.Graphics.Width = o.Width
	}
	if o.Height > 0 {
		cfg.Graphics.Height = o.Height
	}

	p := &cfg.Fractal
	if o.Depth > unset {
		p.Depth = o.Depth
	}
	if o.BaseScale > unset {
		p.BaseScale = float32(o.BaseScale)
	}
	if o.ScaleReduction > unset {
		p.ScaleReduction = float32(o.ScaleReduction)
	}
	if o.JointRadius > unset {
		p.JointRadius = float32(o.JointRadius)
	}
	if o.StrutRadius > unset {
		p.StrutRadius = float32(o.StrutRadius)
	}
}

// cli is bound to the process command line.
var cli = func() *Overrides {
	o := NewOverrides()
	o.RegisterFlags(flag.CommandLine)
	o.RegisterWindowFlags(flag.CommandLine)
	return o
}()

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return cli.ConfigPath
}
