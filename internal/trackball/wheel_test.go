package trackball

import "testing"

func TestWheelZoom_SettlesOnTarget(t *testing.T) {
	z := NewWheelZoom(60, 6, 1, 0.25)

	z.Scroll(8, 1)
	if got := z.Target(); !near(got, 6.4, eps) {
		t.Fatalf("Target() = %v, want 6.4", got)
	}

	var d float32
	prev := float32(8)
	for i := 0; i < 600 && z.Moving(); i++ {
		var ok bool
		d, ok = z.Update()
		if !ok {
			t.Fatal("Update reported idle while Moving")
		}
		// Critically damped: distance never moves away from the target.
		if d > prev+eps {
			t.Fatalf("frame %d: distance rose from %v to %v", i, prev, d)
		}
		prev = d
	}

	if z.Moving() {
		t.Fatal("zoom did not settle within 10 seconds")
	}
	if !near(d, 6.4, 1e-3) {
		t.Errorf("settled at %v, want 6.4", d)
	}
}

func TestWheelZoom_NotchesAccumulateWhileMoving(t *testing.T) {
	z := NewWheelZoom(60, 6, 1, 0.25)

	z.Scroll(8, 1)
	z.Update()
	// The current distance is ignored mid-zoom; the target keeps stepping.
	z.Scroll(100, 1)
	if got := z.Target(); !near(got, 5.12, eps) {
		t.Errorf("Target() = %v, want 5.12", got)
	}

	z.Scroll(0, -2)
	if got := z.Target(); !near(got, 8, eps) {
		t.Errorf("Target() = %v, want 8", got)
	}
}

func TestWheelZoom_Clamps(t *testing.T) {
	z := NewWheelZoom(60, 6, 1, 1)
	z.MinDistance = 1
	z.MaxDistance = 20

	z.Scroll(8, 10)
	if z.Target() != 1 {
		t.Errorf("Target() = %v, want MinDistance", z.Target())
	}

	z.Stop()
	z.Scroll(8, -10)
	if z.Target() != 20 {
		t.Errorf("Target() = %v, want MaxDistance", z.Target())
	}
}

func TestWheelZoom_Stop(t *testing.T) {
	z := NewWheelZoom(60, 6, 1, 0.1)
	z.Scroll(8, 3)
	z.Stop()

	if z.Moving() {
		t.Error("Moving() after Stop")
	}
	if _, ok := z.Update(); ok {
		t.Error("Update after Stop reported movement")
	}
}
