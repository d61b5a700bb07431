package pptxjson

import (
	"math"
	"strconv"
	"strings"
)

// EMU (English Metric Units) conversion helpers.
// 1 inch = 914400 EMU, 1 point = 12700 EMU, 1 degree = 60000 angle units.

const (
	emuPerInch  = 914400
	emuPerPoint = 12700

	angleUnitsPerDegree = 60000

	// DefaultPrecision is the number of decimals kept on emitted lengths.
	DefaultPrecision = 2
)

// EMUToPoints converts EMU to points and rounds to precision decimals.
// Use EMUToPointsRaw when composing further arithmetic so rounding error
// does not compound.
func EMUToPoints(emu int64, precision int) float64 {
	return roundTo(EMUToPointsRaw(emu), precision)
}

// EMUToPointsRaw converts EMU to points without rounding.
func EMUToPointsRaw(emu int64) float64 {
	return float64(emu) / emuPerPoint
}

// PointsToEMU converts points to EMU.
func PointsToEMU(pt float64) int64 {
	return int64(math.Round(pt * emuPerPoint))
}

// AngleUnitsToDegrees converts OOXML angle units (1/60000 degree) to degrees.
// Values are passed through without wraparound: negative and >360 degree
// inputs stay as-is, matching the source format's observed behavior.
func AngleUnitsToDegrees(units int64) float64 {
	return float64(units) / angleUnitsPerDegree
}

// emuAttr parses an EMU attribute value. Absent or invalid input yields 0.
func emuAttr(s string) int64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// intAttr parses an integer attribute value, 0 on failure.
func intAttr(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

// percentAttr parses a percentage attribute into a 0..n factor.
// OOXML writes percentages as thousandths of a percent ("50000" = 50%),
// some producers write "50%" or "50.0%". Invalid input yields 0.
func percentAttr(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if strings.HasSuffix(s, "%") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0
		}
		return v / 100
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v / 100000
}

// roundTo rounds v to the given number of decimals. Negative precision is
// treated as no rounding.
func roundTo(v float64, precision int) float64 {
	if precision < 0 {
		return v
	}
	scale := math.Pow10(precision)
	return math.Round(v*scale) / scale
}
