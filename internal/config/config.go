// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"
	"time"

	"github.com/Faultbox/hexfractal/internal/logger"
	"github.com/Faultbox/hexfractal/pkg/fractal"
)

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Fractal  fractal.Params `yaml:"fractal"`
	Camera   CameraConfig   `yaml:"camera"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Publish  PublishConfig  `yaml:"publish"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
	MSAA       int  `yaml:"msaa"` // samples, 0 disables
}

// CameraConfig holds the projection and control settings of the viewer
// cameras.
type CameraConfig struct {
	FOV       float32 `yaml:"fov"` // degrees
	Near      float32 `yaml:"near"`
	Far       float32 `yaml:"far"`
	Distance  float32 `yaml:"distance"`
	Damping   float32 `yaml:"damping"`
	MoveSpeed float32 `yaml:"move_speed"`
	LookSpeed float32 `yaml:"look_speed"`
}

// SnapshotConfig holds software render settings.
type SnapshotConfig struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Supersample int    `yaml:"supersample"`
	Format      string `yaml:"format"` // png or bmp
	OutputDir   string `yaml:"output_dir"`
}

// PublishConfig holds S3-compatible upload settings for snapshots.
type PublishConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Bucket    string        `yaml:"bucket"`
	Prefix    string        `yaml:"prefix"`
	Region    string        `yaml:"region"`
	Endpoint  string        `yaml:"endpoint"`
	AccessKey string        `yaml:"access_key"`
	SecretKey string        `yaml:"secret_key"`
	PathStyle bool          `yaml:"path_style"`
	Timeout   time.Duration `yaml:"timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Options converts the settings for logger.Init, with console output.
func (l LoggingConfig) Options() logger.Options {
	return logger.Options{
		Level:      l.Level,
		Console:    true,
		File:       l.LogFile,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAgeDays: l.MaxAgeDays,
		Compress:   l.Compress,
	}
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
			MSAA:       4,
		},
		Fractal: fractal.DefaultParams(),
		Camera: CameraConfig{
			FOV:       45,
			Near:      0.1,
			Far:       2000,
			Distance:  40,
			Damping:   0.05,
			MoveSpeed: 0.1,
			LookSpeed: 0.002,
		},
		Snapshot: SnapshotConfig{
			Width:       1024,
			Height:      768,
			Supersample: 2,
			Format:      "png",
			OutputDir:   ".",
		},
		Publish: PublishConfig{
			Enabled:   false,
			Region:    "us-east-1",
			Prefix:    "snapshots/",
			PathStyle: true,
			Timeout:   30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}

// Validate reports settings the viewer cannot run with.
func (c *Config) Validate() error {
	if err := c.Fractal.Validate(); err != nil {
		return fmt.Errorf("fractal: %w", err)
	}
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("graphics: invalid size %dx%d", c.Graphics.Width, c.Graphics.Height)
	}
	switch c.Snapshot.Format {
	case "png", "bmp":
	default:
		return fmt.Errorf("snapshot: unknown format %q", c.Snapshot.Format)
	}
	if c.Snapshot.Width <= 0 || c.Snapshot.Height <= 0 || c.Snapshot.Supersample < 1 {
		return fmt.Errorf("snapshot: invalid size %dx%d x%d",
			c.Snapshot.Width, c.Snapshot.Height, c.Snapshot.Supersample)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging: unknown level %q", c.Logging.Level)
	}
	if c.Publish.Enabled && c.Publish.Bucket == "" {
		return fmt.Errorf("publish: bucket is required")
	}
	return nil
}
