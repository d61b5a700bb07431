package pptxjson

import (
	"fmt"
	"sort"
	"strconv"
)

// RichText is the structural rich-text output for one text body: resolved,
// non-cascading styles on every run. A paragraph with zero runs is a valid
// empty line and is still emitted.
type RichText struct {
	Paragraphs []Paragraph `json:"paragraphs"`
}

// Paragraph groups runs with paragraph-level concerns resolved through
// their own cascade, independent of run-level font properties.
type Paragraph struct {
	Align     string `json:"align,omitempty"`
	Direction string `json:"direction,omitempty"`
	Level     int    `json:"level,omitempty"`
	Runs      []Run  `json:"runs"`
}

// Run is one contiguous span of identically-styled text.
type Run struct {
	Text  string   `json:"text"`
	Style RunStyle `json:"style"`
}

// RunStyle is the fully resolved style of a run.
type RunStyle struct {
	FontFamily  string  `json:"fontFamily,omitempty"`
	SizePt      float64 `json:"sizePt,omitempty"`
	Color       string  `json:"color,omitempty"`
	Bold        bool    `json:"bold,omitempty"`
	Italic      bool    `json:"italic,omitempty"`
	Decoration  string  `json:"decoration,omitempty"`
	SpacingPt   float64 `json:"spacing,omitempty"`
	Subscript   bool    `json:"subscript,omitempty"`
	Superscript bool    `json:"superscript,omitempty"`
}

// defaultFontSizePt is the engine default when no cascade level defines a
// size.
const defaultFontSizePt = 18.0

// textCascade carries the inheritance chain for one text body: the shape's
// own list style, the matching placeholder in the slide layout and master,
// and the master's named text-style block.
type textCascade struct {
	env          ColorEnv
	theme        *Theme
	shapeStyle   *XmlNode // txBody lstStyle of the shape itself
	layoutStyle  *XmlNode // matched layout placeholder lstStyle
	masterStyle  *XmlNode // matched master placeholder lstStyle
	masterBlock  *XmlNode // master txStyles block for the placeholder type
	fontRefColor *ColorToken
}

// newTextCascade assembles the chain for a shape with the given placeholder
// type/index inside a slide context.
func newTextCascade(sc *slideContext, txBody *XmlNode, phType, phIdx string, fontRefColor *ColorToken) textCascade {
	tc := textCascade{
		env:          sc.colorEnv(),
		theme:        sc.run.theme,
		shapeStyle:   txBody.Child("lstStyle"),
		fontRefColor: fontRefColor,
	}
	if phType != "" || phIdx != "" {
		if ph := findPlaceholder(sc.layout, phType, phIdx); ph != nil {
			tc.layoutStyle = ph.Path("txBody", "lstStyle")
		}
		if ph := findPlaceholder(sc.master, phType, phIdx); ph != nil {
			tc.masterStyle = ph.Path("txBody", "lstStyle")
		}
	}
	tc.masterBlock = sc.master.Path("txStyles").Child(textStyleBlock(phType))
	return tc
}

// textStyleBlock maps a placeholder type to the master's named text-style
// block.
func textStyleBlock(phType string) string {
	switch phType {
	case "title", "ctrTitle":
		return "titleStyle"
	case "body", "subTitle", "obj", "": // text boxes fall back to body semantics
		return "bodyStyle"
	default:
		return "otherStyle"
	}
}

// findPlaceholder locates the shape in a layout/master spTree whose
// placeholder index (preferred) or type matches.
func findPlaceholder(root *XmlNode, phType, phIdx string) *XmlNode {
	spTree := root.Path("cSld", "spTree")
	if spTree == nil {
		return nil
	}
	var typeMatch *XmlNode
	for _, sp := range spTree.All("sp") {
		ph := sp.Path("nvSpPr", "nvPr", "ph")
		if ph == nil {
			continue
		}
		if phIdx != "" && ph.Attr("idx") == phIdx {
			return sp
		}
		if typeMatch == nil && phType != "" && placeholderTypesMatch(ph.Attr("type"), phType) {
			typeMatch = sp
		}
	}
	return typeMatch
}

// placeholderTypesMatch treats title/ctrTitle and body/subTitle as
// interchangeable when matching slide placeholders against layout ones.
func placeholderTypesMatch(a, b string) bool {
	norm := func(t string) string {
		switch t {
		case "ctrTitle":
			return "title"
		case "subTitle":
			return "body"
		}
		return t
	}
	return norm(a) == norm(b)
}

// runPropSources returns the rPr-like nodes consulted for one run, highest
// priority first: run rPr, paragraph default rPr, shape list style, layout
// placeholder, master placeholder, master text-style block.
func (tc textCascade) runPropSources(runRPr, paraPPr *XmlNode, level int) []*XmlNode {
	lvlTag := fmt.Sprintf("lvl%dpPr", level+1)
	sources := make([]*XmlNode, 0, 6)
	add := func(n *XmlNode) {
		if n != nil {
			sources = append(sources, n)
		}
	}
	add(runRPr)
	add(paraPPr.Child("defRPr"))
	add(tc.shapeStyle.Child(lvlTag).Child("defRPr"))
	add(tc.layoutStyle.Child(lvlTag).Child("defRPr"))
	add(tc.masterStyle.Child(lvlTag).Child("defRPr"))
	add(tc.masterBlock.Child(lvlTag).Child("defRPr"))
	return sources
}

// paraPropSources is the same chain for paragraph-level properties.
func (tc textCascade) paraPropSources(paraPPr *XmlNode, level int) []*XmlNode {
	lvlTag := fmt.Sprintf("lvl%dpPr", level+1)
	sources := make([]*XmlNode, 0, 5)
	add := func(n *XmlNode) {
		if n != nil {
			sources = append(sources, n)
		}
	}
	add(paraPPr)
	add(tc.shapeStyle.Child(lvlTag))
	add(tc.layoutStyle.Child(lvlTag))
	add(tc.masterStyle.Child(lvlTag))
	add(tc.masterBlock.Child(lvlTag))
	return sources
}

// firstSome folds an ordered resolver list, returning the first definitive
// value. The cascade is exactly this fold: no inheritance hierarchy, just
// an ordered list of lookups.
func firstSome[T any](sources []*XmlNode, get func(*XmlNode) (T, bool)) (T, bool) {
	for _, src := range sources {
		if v, ok := get(src); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// convertTextBody maps a txBody to resolved rich text.
func convertTextBody(txBody *XmlNode, tc textCascade) *RichText {
	if txBody == nil {
		return nil
	}
	rt := &RichText{}
	for _, p := range txBody.All("p") {
		rt.Paragraphs = append(rt.Paragraphs, convertParagraph(p, tc))
	}
	if len(rt.Paragraphs) == 0 {
		return nil
	}
	return rt
}

func convertParagraph(p *XmlNode, tc textCascade) Paragraph {
	pPr := p.Child("pPr")
	level := intAttr(pPr.Attr("lvl"))

	para := Paragraph{Level: level, Runs: []Run{}}

	paraSources := tc.paraPropSources(pPr, level)
	if algn, ok := firstSome(paraSources, attrGetter("algn")); ok {
		para.Align = alignName(algn)
	}
	if rtl, ok := firstSome(paraSources, attrGetter("rtl")); ok && (rtl == "1" || rtl == "true") {
		para.Direction = "rtl"
	}

	// Text runs, line breaks and fields interleave as siblings; collect all
	// kinds tagged with their document position, then stable-sort them back
	// into document order.
	type orderedRun struct {
		order int
		run   Run
	}
	var runs []orderedRun
	for _, child := range p.Children {
		switch child.Name {
		case "r":
			runs = append(runs, orderedRun{child.Order, Run{
				Text:  child.ChildText("t"),
				Style: tc.resolveRunStyle(child.Child("rPr"), pPr, level),
			}})
		case "br":
			runs = append(runs, orderedRun{child.Order, Run{
				Text:  "\n",
				Style: tc.resolveRunStyle(child.Child("rPr"), pPr, level),
			}})
		case "fld":
			runs = append(runs, orderedRun{child.Order, Run{
				Text:  child.ChildText("t"),
				Style: tc.resolveRunStyle(child.Child("rPr"), pPr, level),
			}})
		}
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].order < runs[j].order })
	for _, r := range runs {
		para.Runs = append(para.Runs, r.run)
	}
	return para
}

// resolveRunStyle walks the cascade once per property, stopping at the
// first level that defines it.
func (tc textCascade) resolveRunStyle(runRPr, paraPPr *XmlNode, level int) RunStyle {
	sources := tc.runPropSources(runRPr, paraPPr, level)
	style := RunStyle{}

	if sz, ok := firstSome(sources, attrGetter("sz")); ok {
		if v, err := strconv.ParseFloat(sz, 64); err == nil && v > 0 {
			style.SizePt = roundTo(v/100, 2)
		}
	}
	if style.SizePt == 0 {
		style.SizePt = defaultFontSizePt
	}

	if b, ok := firstSome(sources, attrGetter("b")); ok {
		style.Bold = b == "1" || b == "true"
	}
	if i, ok := firstSome(sources, attrGetter("i")); ok {
		style.Italic = i == "1" || i == "true"
	}
	if u, ok := firstSome(sources, attrGetter("u")); ok && u != "none" {
		style.Decoration = "underline"
	} else if strike, ok := firstSome(sources, attrGetter("strike")); ok && strike != "noStrike" {
		style.Decoration = "line-through"
	}
	if spc, ok := firstSome(sources, attrGetter("spc")); ok {
		if v, err := strconv.ParseFloat(spc, 64); err == nil {
			style.SpacingPt = roundTo(v/100, 2)
		}
	}
	if baseline, ok := firstSome(sources, attrGetter("baseline")); ok {
		switch {
		case percentAttr(baseline) > 0:
			style.Superscript = true
		case percentAttr(baseline) < 0:
			style.Subscript = true
		}
	}

	if face, ok := firstSome(sources, func(n *XmlNode) (string, bool) {
		tf := n.Child("latin").Attr("typeface")
		return tf, tf != ""
	}); ok {
		style.FontFamily = tc.theme.resolveFont(face)
	}

	if tok, ok := firstSome(sources, func(n *XmlNode) (ColorToken, bool) {
		fill := n.Child("solidFill")
		if fill == nil {
			return ColorToken{}, false
		}
		c := ResolveColor(fill, tc.env)
		return c, c.Valid
	}); ok {
		style.Color = tok.Hex()
	} else if tc.fontRefColor != nil && tc.fontRefColor.Valid {
		style.Color = tc.fontRefColor.Hex()
	} else {
		style.Color = tc.defaultTextColor()
	}

	return style
}

// defaultTextColor is the engine default: theme dk1 (through the map) or
// black.
func (tc textCascade) defaultTextColor() string {
	if tc.theme != nil {
		if hex, ok := tc.theme.Colors["dk1"]; ok {
			return hex
		}
	}
	return "#000000"
}

func attrGetter(name string) func(*XmlNode) (string, bool) {
	return func(n *XmlNode) (string, bool) {
		v := n.Attr(name)
		return v, v != ""
	}
}

// alignName maps OOXML algn codes to output names.
func alignName(algn string) string {
	switch algn {
	case "l":
		return "left"
	case "ctr":
		return "center"
	case "r":
		return "right"
	case "just":
		return "justify"
	case "dist":
		return "justify"
	default:
		return algn
	}
}
