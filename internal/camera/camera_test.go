package camera

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/plyview/pkg/math"
)

const eps = 1e-5

func TestNew_Defaults(t *testing.T) {
	c := New(Options{})

	if c.Distance() != 8 {
		t.Errorf("Distance() = %v, want 8", c.Distance())
	}
	if c.Rotation() != math.Identity() {
		t.Error("initial rotation is not identity")
	}
	if c.AspectRatio() != 1 {
		t.Errorf("AspectRatio() = %v, want 1", c.AspectRatio())
	}
	wantFOV := float32(65 * gomath.Pi / 180)
	if diff := c.FOV() - wantFOV; diff > eps || diff < -eps {
		t.Errorf("FOV() = %v, want %v", c.FOV(), wantFOV)
	}
	if near, far := c.ClipPlanes(); near != 0.001 || far != 1000 {
		t.Errorf("ClipPlanes() = %v, %v", near, far)
	}

	if c.Translation() != math.Translate(0, 0, -8) {
		t.Errorf("Translation() = %v", c.Translation())
	}
	if c.View() != math.Translate(0, 0, -8) {
		t.Errorf("View() = %v", c.View())
	}
	if !c.Eye().ApproxEqual(math.Vec3{Z: 8}, eps) {
		t.Errorf("Eye() = %v, want (0,0,8)", c.Eye())
	}
}

func TestEyeFollowsRotation(t *testing.T) {
	c := New(Options{})
	c.SetRotation(math.RotateAxis(math.Vec3{Y: 1}, gomath.Pi/2))
	c.SetDistance(4)

	// Turning the model +90 degrees about Y puts the eye on -X in model space.
	if !c.Eye().ApproxEqual(math.Vec3{X: -4}, 1e-4) {
		t.Errorf("Eye() = %v, want (-4,0,0)", c.Eye())
	}
}

func TestViewIsTranslationTimesRotation(t *testing.T) {
	c := New(Options{})

	steps := []func(){
		func() { c.SetDistance(4) },
		func() { c.SetRotation(math.RotateAxis(math.Vec3{Y: 1}, 0.7)) },
		func() { c.SetDistance(12.5) },
		func() { c.SetRotation(math.RotateAxis(math.Vec3{X: 1, Y: 1}, -1.3)) },
		func() { c.SetAspectRatio(16.0 / 9.0) },
		func() { c.SetDistance(0.25) },
	}

	for i, step := range steps {
		step()
		want := math.Translate(0, 0, -c.Distance()).Mul(c.Rotation())
		if !c.View().ApproxEqual(want, eps) {
			t.Fatalf("step %d: View() = %v, want %v", i, c.View(), want)
		}
	}
}

func TestSetDistanceDoesNotAccumulate(t *testing.T) {
	c := New(Options{})
	c.SetRotation(math.RotateAxis(math.Vec3{X: 1}, 0.4))
	want := c.View()

	for _, d := range []float32{3, 100, 0.5, 8} {
		c.SetDistance(d)
	}
	if !c.View().ApproxEqual(want, eps) {
		t.Errorf("View() drifted after returning to distance 8: %v vs %v", c.View(), want)
	}
}

func TestSetAspectRatio(t *testing.T) {
	c := New(Options{})
	c.SetAspectRatio(2)

	p := c.Projection()
	ys := float32(1 / gomath.Tan(float64(c.FOV())/2))
	if diff := p[5] - ys; diff > eps || diff < -eps {
		t.Errorf("y scale = %v, want %v", p[5], ys)
	}
	if diff := p[0] - ys/2; diff > eps || diff < -eps {
		t.Errorf("x scale = %v, want %v", p[0], ys/2)
	}
	if p[11] != -1 {
		t.Errorf("w row = %v, want -1", p[11])
	}
	if c.AspectRatio() != 2 {
		t.Errorf("AspectRatio() = %v", c.AspectRatio())
	}
}

func TestInverseViewProjection(t *testing.T) {
	c := New(Options{Aspect: 1.5, Near: 0.1, Far: 100})
	c.SetRotation(math.RotateAxis(math.Vec3{Y: 1}, 0.3))

	got := c.ViewProjection().Mul(c.InverseViewProjection())
	if !got.ApproxEqual(math.Identity(), 1e-3) {
		t.Errorf("VP * VP^-1 = %v", got)
	}
}

func TestReset(t *testing.T) {
	c := New(Options{Distance: 5})
	c.SetDistance(20)
	c.SetRotation(math.RotateAxis(math.Vec3{X: 1}, 1))
	c.SetAspectRatio(3)

	c.Reset()

	if c.Distance() != 5 || c.Rotation() != math.Identity() || c.AspectRatio() != 1 {
		t.Errorf("Reset left distance=%v aspect=%v", c.Distance(), c.AspectRatio())
	}
}

func TestPreconditionsPanic(t *testing.T) {
	inf := float32(gomath.Inf(1))
	nan := float32(gomath.NaN())

	tests := []struct {
		name string
		fn   func(*Camera)
	}{
		{"zero distance", func(c *Camera) { c.SetDistance(0) }},
		{"negative distance", func(c *Camera) { c.SetDistance(-1) }},
		{"infinite distance", func(c *Camera) { c.SetDistance(inf) }},
		{"nan distance", func(c *Camera) { c.SetDistance(nan) }},
		{"zero aspect", func(c *Camera) { c.SetAspectRatio(0) }},
		{"negative aspect", func(c *Camera) { c.SetAspectRatio(-2) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(Options{})
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn(c)
		})
	}
}
