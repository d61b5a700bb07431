package pptxjson

import (
	"fmt"
	"strconv"
)

// Chart is the extracted numeric summary of one chart part: its family,
// category labels, and one value series matrix with a resolved color per
// series.
type Chart struct {
	Kind       string        `json:"kind"`
	Categories []string      `json:"categories,omitempty"`
	Series     []ChartSeries `json:"series"`
	HoleSize   float64       `json:"holeSize,omitempty"` // doughnut only, percent
}

// ChartSeries is one series: its name, values and resolved color.
type ChartSeries struct {
	Name   string       `json:"name,omitempty"`
	Values []float64    `json:"values"`
	XY     [][2]float64 `json:"xy,omitempty"` // scatter only
	Color  string       `json:"color,omitempty"`
}

// chartContainers is the closed set of family container tags, checked in
// this order. Anything else is reported as unsupported.
var chartContainers = []struct{ tag, kind string }{
	{"barChart", "bar"},
	{"bar3DChart", "bar"},
	{"lineChart", "line"},
	{"line3DChart", "line"},
	{"pieChart", "pie"},
	{"pie3DChart", "pie"},
	{"doughnutChart", "doughnut"},
	{"areaChart", "area"},
	{"area3DChart", "area"},
	{"scatterChart", "scatter"},
}

// loadChart reads the chart part referenced from the slide and extracts
// its series.
func loadChart(relID string, sc *slideContext) (*Chart, error) {
	target, ok := relTarget(sc.rels, sc.slidePath, relID)
	if !ok {
		return nil, fmt.Errorf("%w: chart relationship %q", ErrMissingPart, relID)
	}
	root, err := sc.run.arch.tree(target)
	if err != nil {
		return nil, err
	}
	plotArea := root.Path("chart", "plotArea")
	if plotArea == nil {
		return nil, fmt.Errorf("%w: chart part %s has no plot area", ErrMalformedXML, target)
	}

	for _, c := range chartContainers {
		container := plotArea.Child(c.tag)
		if container == nil {
			continue
		}
		chart := &Chart{Kind: c.kind}
		if c.kind == "bar" && container.Child("barDir").Attr("val") == "col" {
			chart.Kind = "column"
		}
		if c.kind == "doughnut" {
			chart.HoleSize = float64(intAttr(container.Child("holeSize").Attr("val")))
		}
		for _, ser := range container.All("ser") {
			chart.Series = append(chart.Series, convertSeries(ser, c.kind, sc))
		}
		if len(chart.Series) > 0 {
			chart.Categories = seriesCategories(container.Child("ser"))
		}
		return chart, nil
	}
	return nil, fmt.Errorf("unsupported chart family in %s", target)
}

func convertSeries(ser *XmlNode, kind string, sc *slideContext) ChartSeries {
	out := ChartSeries{
		Name: cacheStrings(ser.Path("tx", "strRef", "strCache")).first(),
	}
	if kind == "scatter" {
		xs := cacheNumbers(ser.Path("xVal", "numRef", "numCache"))
		ys := cacheNumbers(ser.Path("yVal", "numRef", "numCache"))
		for i := 0; i < len(xs) && i < len(ys); i++ {
			out.XY = append(out.XY, [2]float64{xs[i], ys[i]})
		}
		out.Values = ys
	} else {
		out.Values = cacheNumbers(ser.Path("val", "numRef", "numCache"))
	}
	if tok := ResolveColor(ser.Path("spPr", "solidFill"), sc.colorEnv()); tok.Valid {
		out.Color = tok.Hex()
	}
	return out
}

func seriesCategories(ser *XmlNode) []string {
	if ser == nil {
		return nil
	}
	if labels := cacheStrings(ser.Path("cat", "strRef", "strCache")); len(labels) > 0 {
		return labels
	}
	return cacheStrings(ser.Path("cat", "numRef", "numCache"))
}

type stringList []string

func (s stringList) first() string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

// cacheStrings reads the pt/v values of a strCache or numCache in index
// order.
func cacheStrings(cache *XmlNode) stringList {
	if cache == nil {
		return nil
	}
	var out stringList
	for _, pt := range cache.All("pt") {
		out = append(out, pt.ChildText("v"))
	}
	return out
}

func cacheNumbers(cache *XmlNode) []float64 {
	var out []float64
	for _, s := range cacheStrings(cache) {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			v = 0
		}
		out = append(out, v)
	}
	return out
}
