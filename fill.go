package pptxjson

import (
	"sort"
)

// FillType tags the fill union. The set is closed; anything unrecognized
// resolves to no fill rather than an error.
type FillType string

const (
	FillNone     FillType = "none"
	FillSolid    FillType = "solid"
	FillGradient FillType = "gradient"
	FillPattern  FillType = "pattern"
	FillPicture  FillType = "picture"
	FillGroup    FillType = "group" // inherited from the enclosing group shape
)

// Fill is the resolved fill union.
type Fill struct {
	Type     FillType  `json:"type"`
	Value    string    `json:"value,omitempty"` // solid color hex
	Gradient *Gradient `json:"gradient,omitempty"`
	Pattern  *Pattern  `json:"pattern,omitempty"`
	Picture  *Picture  `json:"picture,omitempty"`
}

// Gradient is a multi-stop gradient with stops sorted ascending by
// position.
type Gradient struct {
	AngleDeg float64        `json:"angle"`
	Path     string         `json:"path"` // line, circle, rect or shape
	Stops    []GradientStop `json:"stops"`
}

// GradientStop is one stop; Pos is a percentage 0..100.
type GradientStop struct {
	Pos   float64 `json:"pos"`
	Color string  `json:"color"`
}

// Pattern is a preset two-color pattern fill.
type Pattern struct {
	Preset     string `json:"preset"`
	Foreground string `json:"foreground,omitempty"`
	Background string `json:"background,omitempty"`
}

// Picture is an image fill. Src is a data URL or a URL depending on the
// run's image mode; Opacity is 0..1.
type Picture struct {
	Src     string  `json:"src"`
	Mime    string  `json:"mime,omitempty"`
	Width   int     `json:"width,omitempty"`
	Height  int     `json:"height,omitempty"`
	Opacity float64 `json:"opacity,omitempty"`
}

// partRef ties a fill node back to the part it came from, so relationship
// IDs (image embeds) resolve against the right rels part.
type partRef struct {
	part string
	rels []Relationship
}

// resolveFill inspects the fill child of parent (spPr, bgPr, tcPr, ...) and
// resolves it. The bool result reports whether any fill element was
// present, so cascades can distinguish "unspecified" from an explicit
// noFill.
func resolveFill(parent *XmlNode, sc *slideContext, ref partRef) (Fill, bool) {
	if parent == nil {
		return Fill{}, false
	}
	node := parent.ChildAny("noFill", "solidFill", "gradFill", "pattFill", "blipFill", "grpFill")
	if node == nil {
		return Fill{}, false
	}
	env := sc.colorEnv()

	switch node.Name {
	case "noFill":
		return Fill{Type: FillNone}, true

	case "solidFill":
		tok := ResolveColor(node, env)
		if !tok.Valid {
			return Fill{Type: FillNone}, true
		}
		return Fill{Type: FillSolid, Value: tok.Hex()}, true

	case "gradFill":
		return resolveGradient(node, env), true

	case "pattFill":
		patt := &Pattern{Preset: node.Attr("prst")}
		if fg := ResolveColor(node.Child("fgClr"), env); fg.Valid {
			patt.Foreground = fg.Hex()
		}
		if bg := ResolveColor(node.Child("bgClr"), env); bg.Valid {
			patt.Background = bg.Hex()
		}
		return Fill{Type: FillPattern, Pattern: patt}, true

	case "blipFill":
		return resolvePictureFill(node, sc, ref), true

	case "grpFill":
		return Fill{Type: FillGroup}, true
	}
	return Fill{}, false
}

func resolveGradient(node *XmlNode, env ColorEnv) Fill {
	grad := &Gradient{Path: "line"}
	if lin := node.Child("lin"); lin != nil {
		grad.AngleDeg = AngleUnitsToDegrees(emuAttr(lin.Attr("ang")))
	}
	if path := node.Child("path"); path != nil {
		switch path.Attr("path") {
		case "circle", "rect", "shape":
			grad.Path = path.Attr("path")
		}
	}
	if gsLst := node.Child("gsLst"); gsLst != nil {
		for _, gs := range gsLst.All("gs") {
			tok := ResolveColor(gs, env)
			if !tok.Valid {
				continue
			}
			grad.Stops = append(grad.Stops, GradientStop{
				Pos:   roundTo(percentAttr(gs.Attr("pos"))*100, 2),
				Color: tok.Hex(),
			})
		}
	}
	sort.SliceStable(grad.Stops, func(i, j int) bool { return grad.Stops[i].Pos < grad.Stops[j].Pos })
	return Fill{Type: FillGradient, Gradient: grad}
}

// resolvePictureFill resolves the embed relationship through the run's
// image cache. An unreadable image degrades to no fill plus a warning; it
// never aborts the slide.
func resolvePictureFill(node *XmlNode, sc *slideContext, ref partRef) Fill {
	blip := node.Child("blip")
	if blip == nil {
		return Fill{Type: FillNone}
	}
	embedID := blip.Attr("embed")
	if embedID == "" {
		embedID = blip.Attr("link")
	}
	target, ok := relTarget(ref.rels, ref.part, embedID)
	if !ok {
		sc.run.warnf("picture fill in %s references unknown relationship %q", ref.part, embedID)
		return Fill{Type: FillNone}
	}
	asset, err := sc.run.media.resolve(sc.run.ctx, target)
	if err != nil {
		sc.run.warnf("picture fill %s: %v", target, err)
		return Fill{Type: FillNone}
	}
	pic := &Picture{Src: asset.src, Mime: asset.mime, Width: asset.width, Height: asset.height}
	if alpha := blip.Child("alphaModFix"); alpha != nil {
		pic.Opacity = percentAttr(alpha.Attr("amt"))
	}
	return Fill{Type: FillPicture, Picture: pic}
}

// resolveBackground walks the slide → layout → master → theme default
// override chain. The terminal default is solid white.
func resolveBackground(sc *slideContext) Fill {
	chain := []struct {
		root *XmlNode
		ref  partRef
	}{
		{sc.slide, partRef{sc.slidePath, sc.rels}},
		{sc.layout, partRef{sc.layoutPath, sc.layoutRels}},
		{sc.master, partRef{sc.masterPath, sc.masterRels}},
	}
	for _, level := range chain {
		bg := level.root.Path("cSld", "bg")
		if bg == nil {
			continue
		}
		if bgPr := bg.Child("bgPr"); bgPr != nil {
			if fill, ok := resolveFill(bgPr, sc, level.ref); ok {
				return fill
			}
		}
		if bgRef := bg.Child("bgRef"); bgRef != nil {
			// Style references reduce to their color when one is present.
			if tok := ResolveColor(bgRef, sc.colorEnv()); tok.Valid {
				return Fill{Type: FillSolid, Value: tok.Hex()}
			}
		}
	}
	return Fill{Type: FillSolid, Value: "#FFFFFF"}
}
