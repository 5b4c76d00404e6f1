package trackball

import (
	gomath "math"

	"github.com/charmbracelet/harmonica"
)

// WheelZoom eases the camera distance toward a target set by scroll-wheel notches.
// Each notch divides (or multiplies) the target by 1+Step.
type WheelZoom struct {
	Step        float32
	MinDistance float32
	MaxDistance float32

	spring   harmonica.Spring
	pos, vel float64
	target   float64
	moving   bool
}

// NewWheelZoom creates a wheel zoom stepped at fps frames per second.
// frequency and damping configure the spring; damping 1 is critically damped.
func NewWheelZoom(fps int, frequency, damping float64, step float32) *WheelZoom {
	return &WheelZoom{
		Step:        step,
		MinDistance: 0.01,
		MaxDistance: 500,
		spring:      harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
	}
}

// Scroll moves the target by notches, positive toward the model.
// current is the camera distance when no zoom is already running.
func (z *WheelZoom) Scroll(current, notches float32) {
	if !z.moving {
		z.pos = float64(current)
		z.vel = 0
		z.target = z.pos
	}

	factor := gomath.Pow(1+float64(z.Step), float64(notches))
	z.target = clamp(z.target/factor, float64(z.MinDistance), float64(z.MaxDistance))
	z.moving = z.target != z.pos
}

// Stop abandons the current zoom, for example when a pinch takes over.
func (z *WheelZoom) Stop() {
	z.moving = false
	z.vel = 0
}

// Moving reports whether Update still has work to do.
func (z *WheelZoom) Moving() bool { return z.moving }

// Target returns the distance the zoom is heading toward.
func (z *WheelZoom) Target() float32 { return float32(z.target) }

// Update advances the spring by one frame and returns the new distance.
// The second result is false once the zoom has settled.
func (z *WheelZoom) Update() (float32, bool) {
	if !z.moving {
		return float32(z.pos), false
	}

	z.pos, z.vel = z.spring.Update(z.pos, z.vel, z.target)

	if gomath.Abs(z.pos-z.target) < 1e-4 && gomath.Abs(z.vel) < 1e-3 {
		z.pos, z.vel = z.target, 0
		z.moving = false
	}
	// An underdamped spring may overshoot toward zero.
	if z.pos < float64(z.MinDistance) {
		z.pos = float64(z.MinDistance)
	}
	return float32(z.pos), true
}

func clamp(v, lo, hi float64) float64 {
	return gomath.Min(gomath.Max(v, lo), hi)
}
