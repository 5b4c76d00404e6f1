// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/Faultbox/plyview/internal/logger"
)

// ErrInvalid is wrapped by every error returned from Validate.
var ErrInvalid = errors.New("invalid config")

// Config holds all viewer settings.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Camera    CameraConfig    `yaml:"camera"`
	Trackball TrackballConfig `yaml:"trackball"`
	Render    RenderConfig    `yaml:"render"`
	Assets    AssetsConfig    `yaml:"assets"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	Title      string `yaml:"title"`
}

// CameraConfig holds the initial camera placement and lens.
type CameraConfig struct {
	Distance   float32 `yaml:"distance"`
	FOVDegrees float32 `yaml:"fov_degrees"`
	Near       float32 `yaml:"near"`
	Far        float32 `yaml:"far"`
}

// TrackballConfig holds gesture tuning.
type TrackballConfig struct {
	Radius           float32 `yaml:"radius"`
	RotationSpeed    float32 `yaml:"rotation_speed"`
	TranslationSpeed float32 `yaml:"translation_speed"`
	MinTouches       uint32  `yaml:"min_touches"`    // pan and zoom need at least this many
	ZoomFrequency    float64 `yaml:"zoom_frequency"` // wheel zoom spring, rad/s
	ZoomDamping      float64 `yaml:"zoom_damping"`
	WheelStep        float32 `yaml:"wheel_step"` // scale change per wheel notch
}

// RenderConfig holds renderer settings.
type RenderConfig struct {
	FramesInFlight int        `yaml:"frames_in_flight"`
	Background     [4]float32 `yaml:"background"`
}

// AssetsConfig holds model paths. The first entry is opened at startup.
type AssetsConfig struct {
	Models []string `yaml:"models"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			VSync:  true,
			Title:  "plyview",
		},
		Camera: CameraConfig{
			Distance:   8,
			FOVDegrees: 65,
			Near:       0.001,
			Far:        1000,
		},
		Trackball: TrackballConfig{
			Radius:           1,
			RotationSpeed:    3,
			TranslationSpeed: 0.1,
			MinTouches:       2,
			ZoomFrequency:    6,
			ZoomDamping:      1,
			WheelStep:        0.1,
		},
		Render: RenderConfig{
			FramesInFlight: 3,
			Background:     [4]float32{0.1, 0.1, 0.12, 1},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Model returns the model to open at startup, or "" if none is configured.
func (c *Config) Model() string {
	if len(c.Assets.Models) == 0 {
		return ""
	}
	return c.Assets.Models[0]
}

// Validate reports the first setting the viewer cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case !positive(c.Camera.Distance):
		return fmt.Errorf("%w: camera distance %v", ErrInvalid, c.Camera.Distance)
	case !positive(c.Camera.FOVDegrees) || c.Camera.FOVDegrees >= 180:
		return fmt.Errorf("%w: camera fov %v", ErrInvalid, c.Camera.FOVDegrees)
	case !positive(c.Camera.Near) || c.Camera.Near >= c.Camera.Far:
		return fmt.Errorf("%w: camera clip planes near=%v far=%v", ErrInvalid, c.Camera.Near, c.Camera.Far)
	case !positive(c.Trackball.Radius):
		return fmt.Errorf("%w: trackball radius %v", ErrInvalid, c.Trackball.Radius)
	case c.Trackball.ZoomFrequency <= 0 || c.Trackball.ZoomDamping < 0:
		return fmt.Errorf("%w: zoom spring frequency=%v damping=%v", ErrInvalid,
			c.Trackball.ZoomFrequency, c.Trackball.ZoomDamping)
	case c.Render.FramesInFlight < 1:
		return fmt.Errorf("%w: frames_in_flight %d", ErrInvalid, c.Render.FramesInFlight)
	case !logger.ValidLevel(c.Logging.Level):
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.Logging.Level)
	}
	return nil
}

func positive(v float32) bool {
	return v > 0 && !math.IsInf(float64(v), 0)
}
