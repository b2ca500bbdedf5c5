package gravity

import (
	"math"
	"testing"
)

func TestComputeRadius(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name string
		w    float64
		want float64
	}{
		{"heaviest at rMin", 1, 40},
		{"lightest at rMax", 0, 360},
		{"half way", 0.5, 200},
		{"above 1 clamped", 1.5, 40},
		{"below 0 clamped", -1, 360},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeRadius(tt.w, cfg); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ComputeRadius(%v) = %v, want %v", tt.w, got, tt.want)
			}
		})
	}
}

func TestComputeRadiusInverted(t *testing.T) {
	cfg := DefaultConfig()
	if !(ComputeRadius(0.9, cfg) < ComputeRadius(0.1, cfg)) {
		t.Error("heavier tasks should sit closer to the centre")
	}
}

func TestComputeBoxScale(t *testing.T) {
	cfg := DefaultConfig()

	if got := ComputeBoxScale(0, cfg); math.Abs(got-cfg.SMin) > 1e-12 {
		t.Errorf("ComputeBoxScale(0) = %v, want %v", got, cfg.SMin)
	}
	if got := ComputeBoxScale(1, cfg); math.Abs(got-cfg.SMax) > 1e-12 {
		t.Errorf("ComputeBoxScale(1) = %v, want %v", got, cfg.SMax)
	}

	// gamma < 1: the lower half of the weight range covers more than half
	// of the scale range.
	mid := ComputeBoxScale(0.5, cfg)
	if mid <= (cfg.SMin+cfg.SMax)/2 {
		t.Errorf("ComputeBoxScale(0.5) = %v, want above linear midpoint %v", mid, (cfg.SMin+cfg.SMax)/2)
	}

	prev := ComputeBoxScale(0, cfg)
	for w := 0.1; w <= 1.0; w += 0.1 {
		s := ComputeBoxScale(w, cfg)
		if s < prev {
			t.Errorf("scale not monotonic at w=%v: %v < %v", w, s, prev)
		}
		prev = s
	}
}
