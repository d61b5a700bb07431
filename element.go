package pptxjson

// Element is one slide element in z-order (document order in the shape
// tree). Exactly one of the payload pointers is set for table/chart/group;
// shapes carry path+fill+text, images carry Image.
type Element struct {
	Type        string  `json:"type"`
	Name        string  `json:"name,omitempty"`
	Placeholder string  `json:"placeholder,omitempty"`
	Left        float64 `json:"left"`
	Top         float64 `json:"top"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Rotation    float64 `json:"rotation,omitempty"`
	FlipH       bool    `json:"flipH,omitempty"`
	FlipV       bool    `json:"flipV,omitempty"`

	Path     string     `json:"path,omitempty"`
	ViewBox  [2]float64 `json:"viewBox,omitempty"`
	Fill     *Fill      `json:"fill,omitempty"`
	Stroke   *Stroke    `json:"stroke,omitempty"`
	Text     *RichText  `json:"text,omitempty"`
	Image    *Picture   `json:"image,omitempty"`
	Table    *Table     `json:"table,omitempty"`
	Chart    *Chart     `json:"chart,omitempty"`
	Latex    string     `json:"latex,omitempty"`
	Children []Element  `json:"children,omitempty"`
}

// Stroke is a resolved outline.
type Stroke struct {
	Color   string  `json:"color,omitempty"`
	WidthPt float64 `json:"width,omitempty"`
	Dash    string  `json:"dash,omitempty"`
}

// groupTransform maps child EMU coordinates of a group's child space into
// absolute slide EMU: abs = d + scale*child.
type groupTransform struct {
	scaleX, scaleY float64
	dx, dy         float64
}

var identityTransform = groupTransform{scaleX: 1, scaleY: 1}

func (t groupTransform) point(x, y int64) (float64, float64) {
	return t.dx + t.scaleX*float64(x), t.dy + t.scaleY*float64(y)
}

func (t groupTransform) size(w, h int64) (float64, float64) {
	return t.scaleX * float64(w), t.scaleY * float64(h)
}

// xfrmBox is one a:xfrm, kept in EMU until the final point conversion.
type xfrmBox struct {
	offX, offY   int64
	extCX, extCY int64
	rotation     float64
	flipH, flipV bool
	present      bool
}

func parseXfrm(xfrm *XmlNode) xfrmBox {
	if xfrm == nil {
		return xfrmBox{}
	}
	box := xfrmBox{present: true}
	if off := xfrm.Child("off"); off != nil {
		box.offX = emuAttr(off.Attr("x"))
		box.offY = emuAttr(off.Attr("y"))
	}
	if ext := xfrm.Child("ext"); ext != nil {
		box.extCX = emuAttr(ext.Attr("cx"))
		box.extCY = emuAttr(ext.Attr("cy"))
	}
	box.rotation = AngleUnitsToDegrees(emuAttr(xfrm.Attr("rot")))
	box.flipH = xfrm.Attr("flipH") == "1"
	box.flipV = xfrm.Attr("flipV") == "1"
	return box
}

// applyBounds converts an EMU box through the group transform into point
// coordinates on the element.
func (sc *slideContext) applyBounds(el *Element, box xfrmBox, xf groupTransform) {
	p := sc.run.opts.Precision
	x, y := xf.point(box.offX, box.offY)
	w, h := xf.size(box.extCX, box.extCY)
	el.Left = roundTo(EMUToPointsRaw(int64(x)), p)
	el.Top = roundTo(EMUToPointsRaw(int64(y)), p)
	el.Width = roundTo(EMUToPointsRaw(int64(w)), p)
	el.Height = roundTo(EMUToPointsRaw(int64(h)), p)
	el.Rotation = box.rotation
	el.FlipH = box.flipH
	el.FlipV = box.flipV
}

// convertShapeTree walks one spTree (or nested group) in document order.
// groupFill is the fill children with <a:grpFill/> inherit.
func convertShapeTree(spTree *XmlNode, sc *slideContext, groupFill *Fill, xf groupTransform) []Element {
	if spTree == nil {
		return nil
	}
	var elements []Element
	for _, child := range spTree.Children {
		var el *Element
		switch child.Name {
		case "sp":
			el = convertShape(child, sc, groupFill, xf)
		case "pic":
			el = convertPicture(child, sc, xf)
		case "cxnSp":
			el = convertConnector(child, sc, xf)
		case "graphicFrame":
			el = convertGraphicFrame(child, sc, xf)
		case "grpSp":
			el = convertGroup(child, sc, xf)
		}
		if el != nil {
			elements = append(elements, *el)
		}
	}
	return elements
}

// convertShape maps one p:sp to a shape element: geometry path, resolved
// fill (explicit, group-inherited or style reference), outline and text.
func convertShape(sp *XmlNode, sc *slideContext, groupFill *Fill, xf groupTransform) *Element {
	spPr := sp.Child("spPr")
	nv := sp.ChildAny("nvSpPr")
	ph := nv.Path("nvPr", "ph")
	phType, phIdx := ph.Attr("type"), ph.Attr("idx")

	box := parseXfrm(spPr.Child("xfrm"))
	if !box.present && ph != nil {
		// Placeholders without their own transform inherit position and
		// size from the layout or master placeholder.
		box = inheritedPlaceholderBox(sc, phType, phIdx)
	}

	el := &Element{Type: "shape", Name: nv.Path("cNvPr").Attr("name"), Placeholder: phType}
	sc.applyBounds(el, box, xf)

	geom := parseGeometry(spPr)
	pr := BuildPath(geom, EMUToPointsRaw(int64(xf.scaleX*float64(box.extCX))), EMUToPointsRaw(int64(xf.scaleY*float64(box.extCY))))
	el.Path = pr.Path
	el.ViewBox = [2]float64{pr.W, pr.H}

	style := sp.Child("style")
	var fontRefColor *ColorToken
	if fontRef := style.Child("fontRef"); fontRef != nil {
		if tok := ResolveColor(fontRef, sc.colorEnv()); tok.Valid {
			fontRefColor = &tok
		}
	}

	ref := partRef{sc.slidePath, sc.rels}
	if fill, ok := resolveFill(spPr, sc, ref); ok {
		if fill.Type == FillGroup && groupFill != nil {
			fill = *groupFill
		}
		el.Fill = &fill
	} else if fillRef := style.Child("fillRef"); fillRef != nil {
		if tok := ResolveColor(fillRef, sc.colorEnv()); tok.Valid {
			el.Fill = &Fill{Type: FillSolid, Value: tok.Hex()}
		}
	}

	el.Stroke = resolveStroke(spPr.Child("ln"), sc)

	if txBody := sp.Child("txBody"); txBody != nil {
		tc := newTextCascade(sc, txBody, phType, phIdx, fontRefColor)
		el.Text = convertTextBody(txBody, tc)
		if om := findDescendant(txBody, "oMath"); om != nil {
			el.Latex = convertMath(om)
		}
	}
	return el
}

// inheritedPlaceholderBox reads the layout's (then the master's) matching
// placeholder transform.
func inheritedPlaceholderBox(sc *slideContext, phType, phIdx string) xfrmBox {
	for _, root := range []*XmlNode{sc.layout, sc.master} {
		if sp := findPlaceholder(root, phType, phIdx); sp != nil {
			if box := parseXfrm(sp.Path("spPr", "xfrm")); box.present {
				return box
			}
		}
	}
	return xfrmBox{}
}

func convertPicture(pic *XmlNode, sc *slideContext, xf groupTransform) *Element {
	spPr := pic.Child("spPr")
	el := &Element{Type: "image", Name: pic.Path("nvPicPr", "cNvPr").Attr("name")}
	sc.applyBounds(el, parseXfrm(spPr.Child("xfrm")), xf)

	ref := partRef{sc.slidePath, sc.rels}
	if fill, ok := resolveFill(pic, sc, ref); ok && fill.Type == FillPicture {
		el.Image = fill.Picture
	}
	// Cropped or shaped pictures keep their geometry path.
	if spPr.Child("prstGeom") != nil || spPr.Child("custGeom") != nil {
		pr := BuildPath(parseGeometry(spPr), el.Width, el.Height)
		el.Path = pr.Path
		el.ViewBox = [2]float64{pr.W, pr.H}
	}
	el.Stroke = resolveStroke(spPr.Child("ln"), sc)
	return el
}

func convertConnector(cxn *XmlNode, sc *slideContext, xf groupTransform) *Element {
	spPr := cxn.Child("spPr")
	el := &Element{Type: "line", Name: cxn.Path("nvCxnSpPr", "cNvPr").Attr("name")}
	sc.applyBounds(el, parseXfrm(spPr.Child("xfrm")), xf)
	el.Stroke = resolveStroke(spPr.Child("ln"), sc)
	if el.Stroke == nil {
		el.Stroke = &Stroke{Color: "#000000", WidthPt: 1}
	}
	return el
}

func convertGraphicFrame(frame *XmlNode, sc *slideContext, xf groupTransform) *Element {
	el := &Element{Name: frame.Path("nvGraphicFramePr", "cNvPr").Attr("name")}
	sc.applyBounds(el, parseXfrm(frame.Child("xfrm")), xf)

	data := frame.Path("graphic", "graphicData")
	if data == nil {
		return nil
	}
	switch {
	case data.Child("tbl") != nil:
		el.Type = "table"
		el.Table = convertTable(data.Child("tbl"), sc)
	case data.Child("chart") != nil:
		el.Type = "chart"
		chart, err := loadChart(data.Child("chart").Attr("id"), sc)
		if err != nil {
			sc.run.warnf("chart in %s: %v", sc.slidePath, err)
			return nil
		}
		el.Chart = chart
	case findDescendant(data, "oMath") != nil:
		el.Type = "math"
		el.Latex = convertMath(findDescendant(data, "oMath"))
	default:
		return nil
	}
	return el
}

// convertGroup emits a group element whose children are already in
// absolute slide coordinates (the child-space transform is folded in), so
// consumers never re-derive the chOff/chExt mapping.
func convertGroup(grp *XmlNode, sc *slideContext, xf groupTransform) *Element {
	grpSpPr := grp.Child("grpSpPr")
	xfrm := grpSpPr.Child("xfrm")
	box := parseXfrm(xfrm)

	el := &Element{Type: "group", Name: grp.Path("nvGrpSpPr", "cNvPr").Attr("name")}
	sc.applyBounds(el, box, xf)

	inner := identityTransform
	if xfrm != nil {
		var chOffX, chOffY, chExtCX, chExtCY int64
		if ch := xfrm.Child("chOff"); ch != nil {
			chOffX, chOffY = emuAttr(ch.Attr("x")), emuAttr(ch.Attr("y"))
		}
		if ch := xfrm.Child("chExt"); ch != nil {
			chExtCX, chExtCY = emuAttr(ch.Attr("cx")), emuAttr(ch.Attr("cy"))
		}
		scaleX, scaleY := 1.0, 1.0
		if chExtCX > 0 {
			scaleX = float64(box.extCX) / float64(chExtCX)
		}
		if chExtCY > 0 {
			scaleY = float64(box.extCY) / float64(chExtCY)
		}
		absX, absY := xf.point(box.offX, box.offY)
		inner = groupTransform{
			scaleX: xf.scaleX * scaleX,
			scaleY: xf.scaleY * scaleY,
			dx:     absX - xf.scaleX*scaleX*float64(chOffX),
			dy:     absY - xf.scaleY*scaleY*float64(chOffY),
		}
	}

	var groupFill *Fill
	if fill, ok := resolveFill(grpSpPr, sc, partRef{sc.slidePath, sc.rels}); ok {
		groupFill = &fill
	}

	el.Children = convertShapeTree(grp, sc, groupFill, inner)
	return el
}

// resolveStroke maps an a:ln outline, nil when absent or explicitly noFill.
func resolveStroke(ln *XmlNode, sc *slideContext) *Stroke {
	if ln == nil || ln.Child("noFill") != nil {
		return nil
	}
	stroke := &Stroke{WidthPt: 1}
	if w := ln.Attr("w"); w != "" {
		stroke.WidthPt = roundTo(EMUToPointsRaw(emuAttr(w)), 2)
	}
	if tok := ResolveColor(ln.Child("solidFill"), sc.colorEnv()); tok.Valid {
		stroke.Color = tok.Hex()
	}
	if dash := ln.Child("prstDash"); dash != nil {
		stroke.Dash = dash.Attr("val")
	}
	if stroke.Color == "" && stroke.Dash == "" && ln.Child("solidFill") == nil {
		// Outline element with no usable content.
		return nil
	}
	return stroke
}

// findDescendant does a depth-first search for the first node with the
// given name.
func findDescendant(n *XmlNode, name string) *XmlNode {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
		if found := findDescendant(c, name); found != nil {
			return found
		}
	}
	return nil
}
