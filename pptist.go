package pptxjson

import (
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// PPTist transform: a pure post-transform mapping the intermediate model to
// the downstream editor's richer schema. No part of it re-reads the
// archive.

// PPTistPresentation is the downstream-schema variant of the output.
type PPTistPresentation struct {
	Title  string        `json:"title"`
	Width  float64       `json:"width"`
	Height float64       `json:"height"`
	Slides []PPTistSlide `json:"slides"`
	Theme  PPTistTheme   `json:"theme"`
}

// PPTistTheme summarizes the presentation-wide styling defaults.
type PPTistTheme struct {
	ThemeColors     []string `json:"themeColors"`
	FontColor       string   `json:"fontColor"`
	FontName        string   `json:"fontName"`
	BackgroundColor string   `json:"backgroundColor"`
}

// PPTistSlide is one slide with editor-stable element IDs.
type PPTistSlide struct {
	ID         string           `json:"id"`
	Elements   []PPTistElement  `json:"elements"`
	Background PPTistBackground `json:"background"`
	Remark     string           `json:"remark,omitempty"`
}

// PPTistBackground flattens the fill union into the editor's background
// shape.
type PPTistBackground struct {
	Type     string    `json:"type"` // solid, image or gradient
	Color    string    `json:"color,omitempty"`
	Image    string    `json:"image,omitempty"`
	Gradient *Gradient `json:"gradient,omitempty"`
}

// PPTistElement is one editor element.
type PPTistElement struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Left     float64         `json:"left"`
	Top      float64         `json:"top"`
	Width    float64         `json:"width"`
	Height   float64         `json:"height"`
	Rotate   float64         `json:"rotate,omitempty"`
	FlipH    bool            `json:"flipH,omitempty"`
	FlipV    bool            `json:"flipV,omitempty"`
	Path     string          `json:"path,omitempty"`
	ViewBox  [2]float64      `json:"viewBox,omitempty"`
	Fill     string          `json:"fill,omitempty"`
	Gradient *Gradient       `json:"gradient,omitempty"`
	Outline  *Stroke         `json:"outline,omitempty"`
	Text     *RichText       `json:"text,omitempty"`
	Src      string          `json:"src,omitempty"`
	Table    *Table          `json:"table,omitempty"`
	Chart    *Chart          `json:"chart,omitempty"`
	Latex    string          `json:"latex,omitempty"`
	Children []PPTistElement `json:"children,omitempty"`
}

// PPTistJSON serializes a PPTist presentation with indentation.
func PPTistJSON(pres *PPTistPresentation) ([]byte, error) {
	return json.MarshalIndent(pres, "", "  ")
}

// ToPPTist converts a conversion result to the editor schema.
func ToPPTist(res *Result) *PPTistPresentation {
	pres := &PPTistPresentation{
		Title:  res.Title,
		Width:  res.Size.Width,
		Height: res.Size.Height,
		Theme: PPTistTheme{
			ThemeColors:     res.ThemeColors,
			FontColor:       themeSlotOr(res, 0, "#000000"), // dk1
			FontName:        res.MinorFont,
			BackgroundColor: themeSlotOr(res, 1, "#FFFFFF"), // lt1
		},
		Slides: lo.Map(res.Slides, func(slide Slide, _ int) PPTistSlide {
			return PPTistSlide{
				ID:         uuid.NewString(),
				Elements:   lo.Map(slide.Elements, pptistElement),
				Background: pptistBackground(slide.Background),
				Remark:     slide.Note,
			}
		}),
	}
	return pres
}

// themeSlotOr indexes the canonical color list, falling back when the
// theme did not define the slot.
func themeSlotOr(res *Result, idx int, fallback string) string {
	if idx < len(res.ThemeColors) {
		return res.ThemeColors[idx]
	}
	return fallback
}

func pptistBackground(fill Fill) PPTistBackground {
	switch fill.Type {
	case FillPicture:
		bg := PPTistBackground{Type: "image"}
		if fill.Picture != nil {
			bg.Image = fill.Picture.Src
		}
		return bg
	case FillGradient:
		return PPTistBackground{Type: "gradient", Gradient: fill.Gradient}
	case FillSolid:
		return PPTistBackground{Type: "solid", Color: fill.Value}
	default:
		return PPTistBackground{Type: "solid", Color: "#FFFFFF"}
	}
}

func pptistElement(el Element, _ int) PPTistElement {
	out := PPTistElement{
		ID:      uuid.NewString(),
		Type:    pptistType(el.Type),
		Left:    el.Left,
		Top:     el.Top,
		Width:   el.Width,
		Height:  el.Height,
		Rotate:  el.Rotation,
		FlipH:   el.FlipH,
		FlipV:   el.FlipV,
		Path:    el.Path,
		ViewBox: el.ViewBox,
		Outline: el.Stroke,
		Text:    el.Text,
		Table:   el.Table,
		Chart:   el.Chart,
		Latex:   el.Latex,
	}
	if el.Fill != nil {
		switch el.Fill.Type {
		case FillSolid:
			out.Fill = el.Fill.Value
		case FillGradient:
			out.Gradient = el.Fill.Gradient
		case FillPicture:
			if el.Fill.Picture != nil {
				out.Src = el.Fill.Picture.Src
			}
		}
	}
	if el.Image != nil {
		out.Src = el.Image.Src
	}
	if len(el.Children) > 0 {
		out.Children = lo.Map(el.Children, pptistElement)
	}
	return out
}

// pptistType maps engine element kinds to editor kinds. A shape whose only
// payload is text still maps to "shape"; the editor treats text as a shape
// property.
func pptistType(kind string) string {
	switch kind {
	case "math":
		return "latex"
	default:
		return kind
	}
}
