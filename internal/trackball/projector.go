// Package trackball turns 2D pointer gestures into model and camera transforms.
package trackball

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/plyview/pkg/math"
)

// Defaults for a Projector.
const (
	DefaultRadius           = 1.0
	DefaultRotationSpeed    = 3.0
	DefaultTranslationSpeed = 0.1
)

// Projector maps window coordinates onto a virtual trackball.
// Points are in pixels with the origin at the top-left corner.
type Projector struct {
	Viewport         math.Vec2 // window size in pixels
	Radius           float32
	RotationSpeed    float32
	TranslationSpeed float32
}

// NewProjector returns a projector for a viewport of the given size with default tuning.
func NewProjector(width, height float32) *Projector {
	return &Projector{
		Viewport:         math.Vec2{X: width, Y: height},
		Radius:           DefaultRadius,
		RotationSpeed:    DefaultRotationSpeed,
		TranslationSpeed: DefaultTranslationSpeed,
	}
}

// ProjectToSphere lifts p onto the trackball surface.
// Inside the cap (|p|^2 <= r^2/2) it lands on the sphere; outside, on the
// hyperbolic sheet z = (r^2/2)/|p|. The result is not normalized.
// The viewport must be non-empty.
func (t *Projector) ProjectToSphere(p math.Vec2) math.Vec3 {
	q := math.Vec2{
		X: p.X/t.Viewport.X - 0.5,
		Y: (t.Viewport.Y-p.Y)/t.Viewport.Y - 0.5,
	}

	r2 := t.Radius * t.Radius
	d2 := q.LengthSquared()

	var z float32
	if d2 <= r2*0.5 {
		z = float32(gomath.Sqrt(float64(r2 - d2)))
	} else {
		z = r2 * 0.5 / q.Length()
	}
	return q.Extend(z)
}

// RotationBetween returns the axis and angle that carry a onto b on the trackball.
// When the two points coincide, or the viewport is empty, the axis is zero
// and the angle is 0.
func (t *Projector) RotationBetween(a, b math.Vec2) (math.Vec3, float32) {
	if !(t.Viewport.X > 0) || !(t.Viewport.Y > 0) {
		return math.Vec3{}, 0
	}
	pa := t.ProjectToSphere(a).Normalize()
	pb := t.ProjectToSphere(b).Normalize()

	axis := pa.Cross(pb).Normalize()
	if axis == (math.Vec3{}) {
		return math.Vec3{}, 0
	}

	dot := min(max(pa.Dot(pb), -1), 1)
	angle := float32(gomath.Acos(float64(dot))) * t.RotationSpeed
	return axis, angle
}

// RotationMatrix returns the rotation from a to b as a matrix.
func (t *Projector) RotationMatrix(a, b math.Vec2) math.Mat4 {
	axis, angle := t.RotationBetween(a, b)
	if angle == 0 {
		return math.Identity()
	}
	return math.RotateAxis(axis, angle)
}

// PanDelta returns the world-space translation for a drag from a to b.
// Both points are unprojected at depth 0 through invViewProj.
// distanceRatio scales the result so the pan speed follows the zoom level.
func (t *Projector) PanDelta(a, b math.Vec2, invViewProj math.Mat4, distanceRatio float32) math.Vec3 {
	wa := invViewProj.MulVec4(math.Vec4{a.X, -a.Y, 0, 1})
	wb := invViewProj.MulVec4(math.Vec4{b.X, -b.Y, 0, 1})

	delta := math.Vec3{X: wb[0] - wa[0], Y: wb[1] - wa[1], Z: wb[2] - wa[2]}
	return delta.Scale(t.TranslationSpeed * distanceRatio)
}

// ZoomDistance returns the camera distance after a pinch of the given scale,
// starting from start. scale must be positive.
func ZoomDistance(start, scale float32) float32 {
	if !(scale > 0) {
		panic(fmt.Sprintf("trackball: invalid pinch scale %v", scale))
	}
	return start / scale
}
