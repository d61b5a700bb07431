package pptxjson

import "fmt"

// themeSlots lists the 12 scheme slots in their canonical order. The
// aggregated themeColors output follows this order.
var themeSlots = []string{
	"dk1", "lt1", "dk2", "lt2",
	"accent1", "accent2", "accent3", "accent4", "accent5", "accent6",
	"hlink", "folHlink",
}

// Theme is the loaded theme part: the color scheme plus the major/minor
// latin fonts. Immutable once loaded; shared by reference across slides.
type Theme struct {
	Name      string
	Colors    map[string]string // slot -> "#RRGGBB"
	MajorFont string
	MinorFont string
}

// loadTheme extracts the color scheme and font scheme from a theme part.
func loadTheme(root *XmlNode) (*Theme, error) {
	elements := root.Child("themeElements")
	if elements == nil {
		return nil, fmt.Errorf("%w: theme has no themeElements", ErrMalformedXML)
	}
	scheme := elements.Child("clrScheme")
	if scheme == nil {
		return nil, fmt.Errorf("%w: theme has no clrScheme", ErrMalformedXML)
	}

	theme := &Theme{
		Name:   root.Attr("name"),
		Colors: make(map[string]string, len(themeSlots)),
	}
	for _, slot := range themeSlots {
		node := scheme.Child(slot)
		if node == nil {
			continue
		}
		if srgb := node.Child("srgbClr"); srgb != nil {
			if tok := ParseHexColor(srgb.Attr("val")); tok.Valid {
				theme.Colors[slot] = tok.Hex()
			}
		} else if sys := node.Child("sysClr"); sys != nil {
			tok := ParseHexColor(sys.Attr("lastClr"))
			if !tok.Valid {
				tok = systemColor(sys.Attr("val"))
			}
			if tok.Valid {
				theme.Colors[slot] = tok.Hex()
			}
		}
	}

	if fonts := elements.Child("fontScheme"); fonts != nil {
		theme.MajorFont = fonts.Path("majorFont", "latin").Attr("typeface")
		theme.MinorFont = fonts.Path("minorFont", "latin").Attr("typeface")
	}
	return theme, nil
}

// ColorList returns the scheme colors in canonical slot order, skipping
// slots the theme did not define.
func (t *Theme) ColorList() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(themeSlots))
	for _, slot := range themeSlots {
		if hex, ok := t.Colors[slot]; ok {
			out = append(out, hex)
		}
	}
	return out
}

// resolveFont maps the theme font placeholders "+mj-lt" (major latin) and
// "+mn-lt" (minor latin) to concrete typefaces.
func (t *Theme) resolveFont(typeface string) string {
	if t == nil {
		return typeface
	}
	switch typeface {
	case "+mj-lt", "+mj-ea", "+mj-cs":
		return t.MajorFont
	case "+mn-lt", "+mn-ea", "+mn-cs":
		return t.MinorFont
	}
	return typeface
}

// parseColorMap reads a clrMap / overrideClrMapping element into a
// role → slot map (bg1 → lt1 and so on).
func parseColorMap(node *XmlNode) map[string]string {
	if node == nil || node.Attrs == nil {
		return nil
	}
	m := make(map[string]string, len(node.Attrs))
	for role, slot := range node.Attrs {
		m[role] = slot
	}
	return m
}

// slideColorMap captures the color map for one slide: the master's clrMap
// overridden by the slide's clrMapOvr when one is declared. Captured once
// per slide and threaded through every scheme-color lookup. The bg1/tx1/
// bg2/tx2 aliases are pre-seeded so lookups need no second hop.
func slideColorMap(master, slide *XmlNode) map[string]string {
	base := parseColorMap(master.Path("clrMap"))
	if ovr := slide.Path("clrMapOvr", "overrideClrMapping"); ovr != nil {
		base = parseColorMap(ovr)
	}
	if base == nil {
		base = map[string]string{}
	}
	// Identity defaults for roles the map does not remap.
	defaults := map[string]string{"bg1": "lt1", "tx1": "dk1", "bg2": "lt2", "tx2": "dk2"}
	for role, slot := range defaults {
		if _, ok := base[role]; !ok {
			base[role] = slot
		}
	}
	return base
}
