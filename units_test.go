package pptxjson

import (
	"math"
	"testing"
)

func TestEMUToPoints(t *testing.T) {
	if got := EMUToPoints(12700, 2); got != 1.00 {
		t.Errorf("EMUToPoints(12700) = %v, want 1.00", got)
	}
	if got := EMUToPoints(0, 2); got != 0 {
		t.Errorf("EMUToPoints(0) = %v, want 0", got)
	}
	if got := EMUToPoints(914400, 2); got != 72 {
		t.Errorf("EMUToPoints(914400) = %v, want 72", got)
	}
}

func TestPointsEMURoundTrip(t *testing.T) {
	for _, pt := range []float64{1, 10, 100, 1000} {
		emu := PointsToEMU(pt)
		back := EMUToPoints(emu, 2)
		if math.Abs(back-pt) > 1 {
			t.Errorf("round trip %v pt -> %d emu -> %v pt", pt, emu, back)
		}
	}
}

func TestAngleUnitsToDegrees(t *testing.T) {
	if got := AngleUnitsToDegrees(5400000); got != 90 {
		t.Errorf("AngleUnitsToDegrees(5400000) = %v, want 90", got)
	}
	// No wraparound: full-circle and negative values pass through.
	if got := AngleUnitsToDegrees(21600000); got != 360 {
		t.Errorf("AngleUnitsToDegrees(21600000) = %v, want 360", got)
	}
	if got := AngleUnitsToDegrees(-5400000); got != -90 {
		t.Errorf("AngleUnitsToDegrees(-5400000) = %v, want -90", got)
	}
}

func TestPercentAttr(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"50000", 0.5},
		{"100000", 1},
		{"50%", 0.5},
		{"", 0},
		{"bogus", 0},
	}
	for _, c := range cases {
		if got := percentAttr(c.in); got != c.want {
			t.Errorf("percentAttr(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestEMUAttrInvalidInput(t *testing.T) {
	if got := emuAttr("not-a-number"); got != 0 {
		t.Errorf("emuAttr on invalid input = %d, want 0", got)
	}
	if got := emuAttr(""); got != 0 {
		t.Errorf("emuAttr on empty input = %d, want 0", got)
	}
}
