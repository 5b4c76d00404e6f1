// Package camera provides the viewer's orbiting perspective camera.
//
// The camera sits on the +Z axis at Distance from the origin and looks toward -Z.
// Its view matrix is always translation(0, 0, -Distance) * Rotation, rebuilt
// from those two parts whenever either changes.
package camera

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/plyview/pkg/math"
)

// Defaults used when an Options field is zero.
const (
	DefaultDistance   = 8
	DefaultFOVDegrees = 65
	DefaultNear       = 0.001
	DefaultFar        = 1000
	DefaultAspect     = 1
)

// Options configures a new Camera. Zero fields take the defaults above.
type Options struct {
	Distance   float32
	FOVDegrees float32
	Near       float32
	Far        float32
	Aspect     float32
}

func (o Options) withDefaults() Options {
	if o.Distance == 0 {
		o.Distance = DefaultDistance
	}
	if o.FOVDegrees == 0 {
		o.FOVDegrees = DefaultFOVDegrees
	}
	if o.Near == 0 {
		o.Near = DefaultNear
	}
	if o.Far == 0 {
		o.Far = DefaultFar
	}
	if o.Aspect == 0 {
		o.Aspect = DefaultAspect
	}
	return o
}

// Camera holds the view and projection state.
type Camera struct {
	opts Options

	distance    float32
	rotation    math.Mat4
	translation math.Mat4
	view        math.Mat4

	fov        float32 // radians
	near, far  float32
	aspect     float32
	projection math.Mat4
}

// New creates a camera with every matrix already computed.
func New(opts Options) *Camera {
	opts = opts.withDefaults()
	c := &Camera{opts: opts}
	c.Reset()
	return c
}

// Reset restores the options the camera was created with.
func (c *Camera) Reset() {
	c.fov = float32(float64(c.opts.FOVDegrees) * gomath.Pi / 180)
	c.near = c.opts.Near
	c.far = c.opts.Far
	c.rotation = math.Identity()
	c.SetDistance(c.opts.Distance)
	c.SetAspectRatio(c.opts.Aspect)
}

// SetDistance moves the camera to d units from the origin.
// d must be finite and positive.
func (c *Camera) SetDistance(d float32) {
	if !(d > 0) || gomath.IsInf(float64(d), 0) {
		panic(fmt.Sprintf("camera: invalid distance %v", d))
	}
	c.distance = d
	c.translation = math.Translate(0, 0, -d)
	c.updateView()
}

// SetRotation replaces the camera's orientation.
func (c *Camera) SetRotation(r math.Mat4) {
	c.rotation = r
	c.updateView()
}

// SetAspectRatio rebuilds the projection for a viewport with the given width/height.
func (c *Camera) SetAspectRatio(a float32) {
	if !(a > 0) || gomath.IsInf(float64(a), 0) {
		panic(fmt.Sprintf("camera: invalid aspect ratio %v", a))
	}
	c.aspect = a
	c.projection = math.PerspectiveRH(c.fov, a, c.near, c.far)
}

func (c *Camera) updateView() {
	c.view = c.translation.Mul(c.rotation)
}

func (c *Camera) Distance() float32               { return c.distance }
func (c *Camera) Rotation() math.Mat4             { return c.rotation }
func (c *Camera) Translation() math.Mat4          { return c.translation }
func (c *Camera) View() math.Mat4                 { return c.view }
func (c *Camera) Projection() math.Mat4           { return c.projection }
func (c *Camera) FOV() float32                    { return c.fov }
func (c *Camera) AspectRatio() float32            { return c.aspect }
func (c *Camera) ClipPlanes() (near, far float32) { return c.near, c.far }

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection() math.Mat4 {
	return c.projection.Mul(c.view)
}

// InverseViewProjection maps clip space back to world space.
func (c *Camera) InverseViewProjection() math.Mat4 {
	return c.ViewProjection().Inverse()
}

// Eye returns the camera position in world space.
func (c *Camera) Eye() math.Vec3 {
	return c.view.Inverse().TransformPoint(math.Vec3{})
}
