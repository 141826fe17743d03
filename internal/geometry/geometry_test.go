package geometry

import "testing"

func TestPlanReferenceScreen(t *testing.T) {
	screen := Screen{X: 0, Y: 0, Width: 1920, Height: 1200}
	limits := Limits{MaxWidth: 2800, MaxHeight: 1750}

	frame := Plan(screen, 0.8, limits)

	// 1920*0.8 = 1536, 1536*0.625 = 960, centered.
	if frame.Width != 1536 {
		t.Fatalf("expected width 1536, got %d", frame.Width)
	}
	if frame.Height != 960 {
		t.Fatalf("expected height 960, got %d", frame.Height)
	}
	if frame.X != 192 || frame.Y != 120 {
		t.Fatalf("expected position (192,120), got (%d,%d)", frame.X, frame.Y)
	}
}

func TestPlanClampsWidthRatio(t *testing.T) {
	screen := Screen{Width: 1000, Height: 1000}

	low := Plan(screen, 0, Limits{})
	if low.Width != 100 {
		t.Fatalf("ratio 0 should clamp to 0.1: expected width 100, got %d", low.Width)
	}

	high := Plan(screen, 5, Limits{})
	// Ratio clamps to 1.0, then the 90% screen bound applies.
	if high.Width != 900 {
		t.Fatalf("ratio 5 should clamp to 1.0 then 90%% bound: expected width 900, got %d", high.Width)
	}
}

func TestPlanRespectsLimits(t *testing.T) {
	screen := Screen{Width: 5120, Height: 2880}
	limits := Limits{MaxWidth: 2800, MaxHeight: 1750}

	frame := Plan(screen, 1.0, limits)
	if frame.Width != 2800 {
		t.Fatalf("expected width capped at 2800, got %d", frame.Width)
	}
	if frame.Height != 1750 {
		t.Fatalf("expected height capped at 1750, got %d", frame.Height)
	}
}

func TestPlanBounds(t *testing.T) {
	screens := []Screen{
		{Width: 800, Height: 600},
		{X: 1920, Y: 0, Width: 2560, Height: 1440},
		{Width: 1366, Height: 768},
		{Width: 3840, Height: 2160},
	}
	ratios := []float64{0.1, 0.3, 0.5, 0.8, 1.0}
	limits := Limits{MaxWidth: 2800, MaxHeight: 1750}

	for _, screen := range screens {
		maxW := round(float64(screen.Width) * 0.9)
		maxH := round(float64(screen.Height) * 0.9)
		for _, ratio := range ratios {
			frame := Plan(screen, ratio, limits)
			if frame.Width > maxW || frame.Width > limits.MaxWidth {
				t.Errorf("screen %+v ratio %v: width %d exceeds bounds", screen, ratio, frame.Width)
			}
			if frame.Height > maxH || frame.Height > limits.MaxHeight {
				t.Errorf("screen %+v ratio %v: height %d exceeds bounds", screen, ratio, frame.Height)
			}
			if frame.X < screen.X || frame.Y < screen.Y {
				t.Errorf("screen %+v ratio %v: position (%d,%d) outside screen origin", screen, ratio, frame.X, frame.Y)
			}
		}
	}
}

func TestPlanIsDeterministic(t *testing.T) {
	screen := Screen{X: 100, Y: 50, Width: 1920, Height: 1080}
	a := Plan(screen, 0.6, Limits{MaxWidth: 2800})
	b := Plan(screen, 0.6, Limits{MaxWidth: 2800})
	if a != b {
		t.Fatalf("expected identical frames, got %+v and %+v", a, b)
	}
}

func TestPlanOversizedWindowSaturates(t *testing.T) {
	// Height cap above what the aspect ratio yields for a tiny screen: the
	// centering math must not go negative.
	screen := Screen{X: 10, Y: 10, Width: 100, Height: 40}
	frame := Plan(screen, 1.0, Limits{})
	if frame.X < screen.X || frame.Y < screen.Y {
		t.Fatalf("expected saturating centering, got (%d,%d)", frame.X, frame.Y)
	}
}
