package pptxjson

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ShapeGeometry describes a shape outline before path synthesis: a preset
// name with its adjustment guides, or a literal custom path.
type ShapeGeometry struct {
	Preset      string
	Adjustments map[string]float64
	CustomPath  string
	CustomW     float64
	CustomH     float64
}

// PathResult is the synthesized SVG-like path plus its viewBox.
type PathResult struct {
	Path string
	W, H float64
}

// defaultGeometrySize replaces degenerate (0x0) bounds so relative formulas
// stay well-defined.
const defaultGeometrySize = 200.0

// parseGeometry reads prstGeom/custGeom from a shape's spPr.
func parseGeometry(spPr *XmlNode) ShapeGeometry {
	if prst := spPr.Child("prstGeom"); prst != nil {
		return ShapeGeometry{
			Preset:      prst.Attr("prst"),
			Adjustments: parseAdjustments(prst.Child("avLst")),
		}
	}
	if cust := spPr.Child("custGeom"); cust != nil {
		return parseCustomGeometry(cust)
	}
	return ShapeGeometry{Preset: "rect"}
}

// parseAdjustments reads avLst guides. Formula values are proportional
// fractions of 100000 ("val 25000" -> 0.25).
func parseAdjustments(avLst *XmlNode) map[string]float64 {
	if avLst == nil {
		return nil
	}
	var adj map[string]float64
	for _, gd := range avLst.All("gd") {
		fmla := gd.Attr("fmla")
		if !strings.HasPrefix(fmla, "val ") {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimPrefix(fmla, "val "), 64)
		if err != nil {
			continue
		}
		if adj == nil {
			adj = make(map[string]float64)
		}
		adj[gd.Attr("name")] = v / 100000
	}
	return adj
}

// parseCustomGeometry converts a custGeom path list to one SVG path string
// in the path's own coordinate space.
func parseCustomGeometry(cust *XmlNode) ShapeGeometry {
	geom := ShapeGeometry{Preset: "custom"}
	pathList := cust.Child("pathLst")
	if pathList == nil {
		return geom
	}
	var sb strings.Builder
	for _, p := range pathList.All("path") {
		if geom.CustomW == 0 {
			geom.CustomW = float64(emuAttr(p.Attr("w")))
			geom.CustomH = float64(emuAttr(p.Attr("h")))
		}
		for _, cmd := range p.Children {
			switch cmd.Name {
			case "moveTo":
				writePathPoints(&sb, "M", cmd.All("pt"))
			case "lnTo":
				writePathPoints(&sb, "L", cmd.All("pt"))
			case "cubicBezTo":
				writePathPoints(&sb, "C", cmd.All("pt"))
			case "quadBezTo":
				writePathPoints(&sb, "Q", cmd.All("pt"))
			case "arcTo":
				// Approximated as a line to keep the path well-formed;
				// PowerPoint arcs on custom geometry are rare.
				writePathPoints(&sb, "L", cmd.All("pt"))
			case "close":
				sb.WriteString("Z ")
			}
		}
	}
	geom.CustomPath = strings.TrimSpace(sb.String())
	return geom
}

func writePathPoints(sb *strings.Builder, op string, pts []*XmlNode) {
	if len(pts) == 0 {
		return
	}
	sb.WriteString(op)
	for _, pt := range pts {
		fmt.Fprintf(sb, " %s %s", fmtNum(float64(emuAttr(pt.Attr("x")))), fmtNum(float64(emuAttr(pt.Attr("y")))))
	}
	sb.WriteString(" ")
}

// BuildPath maps a geometry descriptor to a path for the given bounds.
// Unknown presets fall back to the axis-aligned rectangle, a defined
// fallback rather than an error. Custom geometries bypass the formula table.
func BuildPath(geom ShapeGeometry, width, height float64) PathResult {
	if width <= 0 || height <= 0 {
		width, height = defaultGeometrySize, defaultGeometrySize
	}
	if geom.Preset == "custom" {
		w, h := geom.CustomW, geom.CustomH
		if w <= 0 || h <= 0 {
			w, h = width, height
		}
		return PathResult{Path: geom.CustomPath, W: w, H: h}
	}

	w, h := width, height
	adj := func(name string, def float64) float64 {
		if v, ok := geom.Adjustments[name]; ok {
			return v
		}
		return def
	}

	switch geom.Preset {
	case "roundRect", "round1Rect", "round2SameRect", "snip1Rect":
		r := math.Min(w, h) * adj("adj", 0.1)
		return PathResult{Path: roundRectPath(w, h, r), W: w, H: h}

	case "ellipse", "pie", "chord":
		rx, ry := w/2, h/2
		path := fmt.Sprintf("M %s %s A %s %s 0 1 1 %s %s A %s %s 0 1 1 %s %s Z",
			fmtNum(0), fmtNum(ry),
			fmtNum(rx), fmtNum(ry), fmtNum(w), fmtNum(ry),
			fmtNum(rx), fmtNum(ry), fmtNum(0), fmtNum(ry))
		return PathResult{Path: path, W: w, H: h}

	case "triangle":
		return polygon(w, h, [][2]float64{{0.5, 0}, {1, 1}, {0, 1}})
	case "rtTriangle":
		return polygon(w, h, [][2]float64{{0, 0}, {0, 1}, {1, 1}})
	case "diamond":
		return polygon(w, h, [][2]float64{{0.5, 0}, {1, 0.5}, {0.5, 1}, {0, 0.5}})
	case "parallelogram":
		a := adj("adj", 0.25)
		return polygon(w, h, [][2]float64{{a, 0}, {1, 0}, {1 - a, 1}, {0, 1}})
	case "trapezoid":
		a := adj("adj", 0.25)
		return polygon(w, h, [][2]float64{{a, 0}, {1 - a, 0}, {1, 1}, {0, 1}})
	case "pentagon":
		return polygon(w, h, [][2]float64{{0.5, 0}, {1, 0.38}, {0.81, 1}, {0.19, 1}, {0, 0.38}})
	case "hexagon":
		a := adj("adj", 0.25)
		return polygon(w, h, [][2]float64{{a, 0}, {1 - a, 0}, {1, 0.5}, {1 - a, 1}, {a, 1}, {0, 0.5}})
	case "octagon":
		a := adj("adj", 0.29)
		return polygon(w, h, [][2]float64{
			{a, 0}, {1 - a, 0}, {1, a}, {1, 1 - a}, {1 - a, 1}, {a, 1}, {0, 1 - a}, {0, a},
		})
	case "rightArrow":
		a1 := adj("adj1", 0.5) // shaft thickness fraction
		a2 := adj("adj2", 0.5) // head length fraction
		return polygon(w, h, [][2]float64{
			{0, 0.5 - a1/2}, {1 - a2, 0.5 - a1/2}, {1 - a2, 0}, {1, 0.5},
			{1 - a2, 1}, {1 - a2, 0.5 + a1/2}, {0, 0.5 + a1/2},
		})
	case "leftArrow":
		a1 := adj("adj1", 0.5)
		a2 := adj("adj2", 0.5)
		return polygon(w, h, [][2]float64{
			{1, 0.5 - a1/2}, {a2, 0.5 - a1/2}, {a2, 0}, {0, 0.5},
			{a2, 1}, {a2, 0.5 + a1/2}, {1, 0.5 + a1/2},
		})
	case "upArrow":
		a1 := adj("adj1", 0.5)
		a2 := adj("adj2", 0.5)
		return polygon(w, h, [][2]float64{
			{0.5 - a1/2, 1}, {0.5 - a1/2, a2}, {0, a2}, {0.5, 0},
			{1, a2}, {0.5 + a1/2, a2}, {0.5 + a1/2, 1},
		})
	case "downArrow":
		a1 := adj("adj1", 0.5)
		a2 := adj("adj2", 0.5)
		return polygon(w, h, [][2]float64{
			{0.5 - a1/2, 0}, {0.5 - a1/2, 1 - a2}, {0, 1 - a2}, {0.5, 1},
			{1, 1 - a2}, {0.5 + a1/2, 1 - a2}, {0.5 + a1/2, 0},
		})
	case "chevron", "homePlate":
		a := adj("adj", 0.5)
		inset := a * math.Min(w, h) / w
		return polygon(w, h, [][2]float64{
			{0, 0}, {1 - inset, 0}, {1, 0.5}, {1 - inset, 1}, {0, 1}, {inset, 0.5},
		})
	case "plus", "mathPlus":
		a := adj("adj", 0.25)
		return polygon(w, h, [][2]float64{
			{a, 0}, {1 - a, 0}, {1 - a, a}, {1, a}, {1, 1 - a}, {1 - a, 1 - a},
			{1 - a, 1}, {a, 1}, {a, 1 - a}, {0, 1 - a}, {0, a}, {a, a},
		})
	case "star5":
		return starPath(w, h, 5, adj("adj", 0.19))
	case "star4":
		return starPath(w, h, 4, adj("adj", 0.12))
	case "star6":
		return starPath(w, h, 6, adj("adj", 0.29))
	case "star8":
		return starPath(w, h, 8, adj("adj", 0.37))

	case "line", "straightConnector1", "bentConnector2", "bentConnector3":
		return PathResult{Path: fmt.Sprintf("M 0 0 L %s %s", fmtNum(w), fmtNum(h)), W: w, H: h}

	default:
		// rect, flowChartProcess and every unsupported preset.
		return rectPath(w, h)
	}
}

func rectPath(w, h float64) PathResult {
	path := fmt.Sprintf("M 0 0 L %s 0 L %s %s L 0 %s Z", fmtNum(w), fmtNum(w), fmtNum(h), fmtNum(h))
	return PathResult{Path: path, W: w, H: h}
}

// roundRectPath builds the rounded rectangle with corner radius r. The
// radius is proportional (min(w,h)*adj) so it tracks any later resize of
// the bounds; keep it relative, do not bake in absolute radii.
func roundRectPath(w, h, r float64) string {
	r = clampFloat(r, 0, math.Min(w, h)/2)
	n := fmtNum
	return fmt.Sprintf(
		"M %s 0 L %s 0 A %s %s 0 0 1 %s %s L %s %s A %s %s 0 0 1 %s %s L %s %s A %s %s 0 0 1 0 %s L 0 %s A %s %s 0 0 1 %s 0 Z",
		n(r), n(w-r),
		n(r), n(r), n(w), n(r),
		n(w), n(h-r),
		n(r), n(r), n(w-r), n(h),
		n(r), n(h),
		n(r), n(r), n(h-r),
		n(r),
		n(r), n(r), n(r),
	)
}

func polygon(w, h float64, pts [][2]float64) PathResult {
	var sb strings.Builder
	for i, pt := range pts {
		if i == 0 {
			sb.WriteString("M ")
		} else {
			sb.WriteString(" L ")
		}
		sb.WriteString(fmtNum(pt[0] * w))
		sb.WriteString(" ")
		sb.WriteString(fmtNum(pt[1] * h))
	}
	sb.WriteString(" Z")
	return PathResult{Path: sb.String(), W: w, H: h}
}

// starPath synthesizes an n-pointed star; inner is the inner-radius
// fraction of the outer radius.
func starPath(w, h float64, points int, inner float64) PathResult {
	cx, cy := w/2, h/2
	var sb strings.Builder
	for i := 0; i < points*2; i++ {
		angle := -math.Pi/2 + float64(i)*math.Pi/float64(points)
		rx, ry := cx, cy
		if i%2 == 1 {
			rx *= inner * 2
			ry *= inner * 2
		}
		x := cx + rx*math.Cos(angle)
		y := cy + ry*math.Sin(angle)
		if i == 0 {
			sb.WriteString("M ")
		} else {
			sb.WriteString(" L ")
		}
		sb.WriteString(fmtNum(x))
		sb.WriteString(" ")
		sb.WriteString(fmtNum(y))
	}
	sb.WriteString(" Z")
	return PathResult{Path: sb.String(), W: w, H: h}
}

// fmtNum formats a coordinate with up to two decimals, trimming trailing
// zeros so paths stay compact.
func fmtNum(v float64) string {
	s := strconv.FormatFloat(roundTo(v, 2), 'f', -1, 64)
	if s == "-0" {
		return "0"
	}
	return s
}
