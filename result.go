package pptxjson

import (
	json "github.com/goccy/go-json"
)

// Size is the presentation canvas in points.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Slide is one converted slide. Elements are in z-order.
type Slide struct {
	Number      int       `json:"number"`
	Elements    []Element `json:"elements"`
	Background  Fill      `json:"background"`
	Note        string    `json:"note,omitempty"`
	ThemeColors []string  `json:"themeColors,omitempty"`
}

// Result is the JSON-serializable output of one conversion run.
type Result struct {
	Slides      []Slide  `json:"slides"`
	ThemeColors []string `json:"themeColors"`
	Size        Size     `json:"size"`
	Title       string   `json:"title,omitempty"`
	MajorFont   string   `json:"majorFont,omitempty"`
	MinorFont   string   `json:"minorFont,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
}

// JSON serializes the result.
func (r *Result) JSON() ([]byte, error) {
	return json.Marshal(r)
}

// JSONIndent serializes the result with indentation, for CLI output.
func (r *Result) JSONIndent() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
