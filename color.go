package pptxjson

import (
	"fmt"
	"math"
	"strings"
)

// ColorToken is a resolved RGBA color. Alpha is carried separately and only
// serialized when it differs from 1. A zero ColorToken (Valid=false) is the
// fail-soft value for unresolvable references; callers substitute their own
// default.
type ColorToken struct {
	R, G, B uint8
	A       float64
	Valid   bool
}

// NewColorToken builds an opaque token from 8-bit channels.
func NewColorToken(r, g, b uint8) ColorToken {
	return ColorToken{R: r, G: g, B: b, A: 1, Valid: true}
}

// ParseHexColor parses "RRGGBB", "#RRGGBB" or "RRGGBBAA" input.
// Invalid input yields an invalid token, never an error.
func ParseHexColor(s string) ColorToken {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 && len(s) != 8 {
		return ColorToken{}
	}
	var ch [4]uint8
	for i := 0; i*2 < len(s); i++ {
		h := hexVal(s[i*2])
		l := hexVal(s[i*2+1])
		if h < 0 || l < 0 {
			return ColorToken{}
		}
		ch[i] = uint8(h<<4 | l)
	}
	tok := NewColorToken(ch[0], ch[1], ch[2])
	if len(s) == 8 {
		tok.A = float64(ch[3]) / 255
	}
	return tok
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return -1
	}
}

// Hex serializes the token as "#RRGGBB", or "#RRGGBBAA" when alpha != 1.
// Invalid tokens serialize as "".
func (c ColorToken) Hex() string {
	if !c.Valid {
		return ""
	}
	if c.A >= 0 && c.A < 1 {
		return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, uint8(math.Round(c.A*255)))
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// MarshalJSON emits the hex form.
func (c ColorToken) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.Hex() + `"`), nil
}

// ColorEnv carries the lookup context a color reference needs: the theme
// scheme, the active color-map override and, inside style references, the
// placeholder color substituted for <a:schemeClr val="phClr"/>.
type ColorEnv struct {
	Theme       *Theme
	ColorMap    map[string]string
	Placeholder *ColorToken
}

// ResolveColor resolves the color child of node (a solidFill, fgClr, bgClr
// or similar container) and applies its modifier pipeline. The modifier
// order is fixed regardless of document order: alpha, hueMod, lumMod,
// lumOff, satMod, shade, tint.
func ResolveColor(node *XmlNode, env ColorEnv) ColorToken {
	if node == nil {
		return ColorToken{}
	}
	colorNode := node.ChildAny("srgbClr", "schemeClr", "scrgbClr", "prstClr", "hslClr", "sysClr")
	if colorNode == nil {
		return ColorToken{}
	}

	var tok ColorToken
	switch colorNode.Name {
	case "srgbClr":
		tok = ParseHexColor(colorNode.Attr("val"))
	case "schemeClr":
		tok = resolveSchemeColor(colorNode.Attr("val"), env)
	case "scrgbClr":
		tok = NewColorToken(
			percentChannel(colorNode.Attr("r")),
			percentChannel(colorNode.Attr("g")),
			percentChannel(colorNode.Attr("b")),
		)
	case "prstClr":
		tok = presetColor(colorNode.Attr("val"))
	case "hslClr":
		h := AngleUnitsToDegrees(emuAttr(colorNode.Attr("hue")))
		s := percentAttr(colorNode.Attr("sat"))
		l := percentAttr(colorNode.Attr("lum"))
		r, g, b := hslToRGB(h, s, l)
		tok = NewColorToken(r, g, b)
	case "sysClr":
		if last := colorNode.Attr("lastClr"); last != "" {
			tok = ParseHexColor(last)
		} else {
			tok = systemColor(colorNode.Attr("val"))
		}
	}
	if !tok.Valid {
		return tok
	}
	return applyModifiers(tok, colorNode)
}

// resolveSchemeColor maps a scheme role through the active color map into
// the theme's 12 slots. Unknown names fail soft.
func resolveSchemeColor(name string, env ColorEnv) ColorToken {
	if name == "phClr" {
		if env.Placeholder != nil {
			return *env.Placeholder
		}
		return ColorToken{}
	}
	slot := name
	if env.ColorMap != nil {
		if mapped, ok := env.ColorMap[name]; ok {
			slot = mapped
		}
	}
	if env.Theme == nil {
		return ColorToken{}
	}
	hex, ok := env.Theme.Colors[slot]
	if !ok {
		return ColorToken{}
	}
	return ParseHexColor(hex)
}

// applyModifiers runs the channel-modifier pipeline in its required order.
func applyModifiers(tok ColorToken, colorNode *XmlNode) ColorToken {
	if v := colorNode.Child("alpha"); v != nil {
		tok = applyAlpha(tok, percentAttr(v.Attr("val")))
	}
	if v := colorNode.Child("hueMod"); v != nil {
		tok = applyHueMod(tok, percentAttr(v.Attr("val")))
	}
	if v := colorNode.Child("lumMod"); v != nil {
		tok = applyLumMod(tok, percentAttr(v.Attr("val")))
	}
	if v := colorNode.Child("lumOff"); v != nil {
		tok = applyLumOff(tok, percentAttr(v.Attr("val")))
	}
	if v := colorNode.Child("satMod"); v != nil {
		tok = applySatMod(tok, percentAttr(v.Attr("val")))
	}
	if v := colorNode.Child("shade"); v != nil {
		tok = applyShade(tok, percentAttr(v.Attr("val")))
	}
	if v := colorNode.Child("tint"); v != nil {
		tok = applyTint(tok, percentAttr(v.Attr("val")))
	}
	return tok
}

func applyAlpha(c ColorToken, val float64) ColorToken {
	c.A = clampFloat(val, 0, 1)
	return c
}

func applyHueMod(c ColorToken, val float64) ColorToken {
	h, s, l := rgbToHSL(c.R, c.G, c.B)
	h = math.Mod(h*val, 360)
	if h < 0 {
		h += 360
	}
	c.R, c.G, c.B = hslToRGB(h, s, l)
	return c
}

// applyLumMod multiplies perceptual luminance; applyLumOff shifts it.
// Both clamp, so extreme offsets saturate instead of wrapping.
func applyLumMod(c ColorToken, val float64) ColorToken {
	h, s, l := rgbToHSL(c.R, c.G, c.B)
	l = clampFloat(l*val, 0, 1)
	c.R, c.G, c.B = hslToRGB(h, s, l)
	return c
}

func applyLumOff(c ColorToken, val float64) ColorToken {
	h, s, l := rgbToHSL(c.R, c.G, c.B)
	l = clampFloat(l+val, 0, 1)
	c.R, c.G, c.B = hslToRGB(h, s, l)
	return c
}

func applySatMod(c ColorToken, val float64) ColorToken {
	h, s, l := rgbToHSL(c.R, c.G, c.B)
	s = clampFloat(s*val, 0, 1)
	c.R, c.G, c.B = hslToRGB(h, s, l)
	return c
}

// applyShade blends toward black, applyTint toward white, each by the
// complement of val (val=1 is identity).
func applyShade(c ColorToken, val float64) ColorToken {
	c.R = clampChannel(float64(c.R) * val)
	c.G = clampChannel(float64(c.G) * val)
	c.B = clampChannel(float64(c.B) * val)
	return c
}

func applyTint(c ColorToken, val float64) ColorToken {
	c.R = clampChannel(float64(c.R)*val + 255*(1-val))
	c.G = clampChannel(float64(c.G)*val + 255*(1-val))
	c.B = clampChannel(float64(c.B)*val + 255*(1-val))
	return c
}

func clampChannel(v float64) uint8 {
	return uint8(clampFloat(math.Round(v), 0, 255))
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func percentChannel(s string) uint8 {
	return clampChannel(percentAttr(s) * 255)
}

// rgbToHSL converts 8-bit RGB to HSL with h in [0,360), s and l in [0,1].
func rgbToHSL(r8, g8, b8 uint8) (h, s, l float64) {
	r := float64(r8) / 255
	g := float64(g8) / 255
	b := float64(b8) / 255
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l = (max + min) / 2
	if max == min {
		return 0, 0, l
	}
	d := max - min
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}
	switch max {
	case r:
		h = math.Mod((g-b)/d, 6)
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h *= 60
	if h < 0 {
		h += 360
	}
	return h, s, l
}

// hslToRGB converts back to 8-bit RGB, rounding each channel.
func hslToRGB(h, s, l float64) (uint8, uint8, uint8) {
	c := (1 - math.Abs(2*l-1)) * s
	hp := math.Mod(h, 360) / 60
	if hp < 0 {
		hp += 6
	}
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))
	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	m := l - c/2
	return clampChannel((r + m) * 255), clampChannel((g + m) * 255), clampChannel((b + m) * 255)
}

// systemColor maps the sysClr names PowerPoint writes when no lastClr was
// captured. The set mirrors common Windows UI roles; unknown names fail soft.
func systemColor(name string) ColorToken {
	switch name {
	case "window", "windowFrame", "3dLight":
		return NewColorToken(0xFF, 0xFF, 0xFF)
	case "windowText", "captionText", "menuText", "btnText", "infoText":
		return NewColorToken(0x00, 0x00, 0x00)
	case "btnFace", "menu", "scrollBar":
		return NewColorToken(0xF0, 0xF0, 0xF0)
	case "btnShadow", "grayText":
		return NewColorToken(0x80, 0x80, 0x80)
	case "highlight":
		return NewColorToken(0x00, 0x78, 0xD7)
	case "highlightText", "btnHighlight":
		return NewColorToken(0xFF, 0xFF, 0xFF)
	case "hotLight":
		return NewColorToken(0x00, 0x66, 0xCC)
	case "infoBk":
		return NewColorToken(0xFF, 0xFF, 0xE1)
	default:
		return ColorToken{}
	}
}

// presetColors covers the OOXML preset color names the converter encounters
// in practice. Unknown presets fail soft to an invalid token.
var presetColors = map[string]string{
	"aliceBlue": "F0F8FF", "antiqueWhite": "FAEBD7", "aqua": "00FFFF",
	"aquamarine": "7FFFD4", "azure": "F0FFFF", "beige": "F5F5DC",
	"bisque": "FFE4C4", "black": "000000", "blue": "0000FF",
	"blueViolet": "8A2BE2", "brown": "A52A2A", "burlyWood": "DEB887",
	"cadetBlue": "5F9EA0", "chartreuse": "7FFF00", "chocolate": "D2691E",
	"coral": "FF7F50", "cornflowerBlue": "6495ED", "cornsilk": "FFF8DC",
	"crimson": "DC143C", "cyan": "00FFFF", "darkBlue": "00008B",
	"darkCyan": "008B8B", "darkGoldenrod": "B8860B", "darkGray": "A9A9A9",
	"darkGreen": "006400", "darkGrey": "A9A9A9", "darkKhaki": "BDB76B",
	"darkMagenta": "8B008B", "darkOliveGreen": "556B2F", "darkOrange": "FF8C00",
	"darkOrchid": "9932CC", "darkRed": "8B0000", "darkSalmon": "E9967A",
	"darkSeaGreen": "8FBC8F", "darkSlateBlue": "483D8B", "darkSlateGray": "2F4F4F",
	"darkTurquoise": "00CED1", "darkViolet": "9400D3", "deepPink": "FF1493",
	"deepSkyBlue": "00BFFF", "dimGray": "696969", "dkBlue": "00008B",
	"dkGray": "A9A9A9", "dkGreen": "006400", "dkRed": "8B0000",
	"dodgerBlue": "1E90FF", "firebrick": "B22222", "floralWhite": "FFFAF0",
	"forestGreen": "228B22", "fuchsia": "FF00FF", "gainsboro": "DCDCDC",
	"ghostWhite": "F8F8FF", "gold": "FFD700", "goldenrod": "DAA520",
	"gray": "808080", "green": "008000", "greenYellow": "ADFF2F",
	"grey": "808080", "honeydew": "F0FFF0", "hotPink": "FF69B4",
	"indianRed": "CD5C5C", "indigo": "4B0082", "ivory": "FFFFF0",
	"khaki": "F0E68C", "lavender": "E6E6FA", "lavenderBlush": "FFF0F5",
	"lawnGreen": "7CFC00", "lemonChiffon": "FFFACD", "lightBlue": "ADD8E6",
	"lightCoral": "F08080", "lightCyan": "E0FFFF", "lightGray": "D3D3D3",
	"lightGreen": "90EE90", "lightPink": "FFB6C1", "lightSalmon": "FFA07A",
	"lightSeaGreen": "20B2AA", "lightSkyBlue": "87CEFA", "lightSlateGray": "778899",
	"lightSteelBlue": "B0C4DE", "lightYellow": "FFFFE0", "lime": "00FF00",
	"limeGreen": "32CD32", "linen": "FAF0E6", "ltBlue": "ADD8E6",
	"ltGray": "D3D3D3", "ltGreen": "90EE90", "magenta": "FF00FF",
	"maroon": "800000", "medAquamarine": "66CDAA", "medBlue": "0000CD",
	"medPurple": "9370DB", "medSeaGreen": "3CB371", "medSlateBlue": "7B68EE",
	"midnightBlue": "191970", "mintCream": "F5FFFA", "mistyRose": "FFE4E1",
	"moccasin": "FFE4B5", "navy": "000080", "oldLace": "FDF5E6",
	"olive": "808000", "oliveDrab": "6B8E23", "orange": "FFA500",
	"orangeRed": "FF4500", "orchid": "DA70D6", "paleGoldenrod": "EEE8AA",
	"paleGreen": "98FB98", "paleTurquoise": "AFEEEE", "paleVioletRed": "DB7093",
	"papayaWhip": "FFEFD5", "peachPuff": "FFDAB9", "peru": "CD853F",
	"pink": "FFC0CB", "plum": "DDA0DD", "powderBlue": "B0E0E6",
	"purple": "800080", "red": "FF0000", "rosyBrown": "BC8F8F",
	"royalBlue": "4169E1", "saddleBrown": "8B4513", "salmon": "FA8072",
	"sandyBrown": "F4A460", "seaGreen": "2E8B57", "seaShell": "FFF5EE",
	"sienna": "A0522D", "silver": "C0C0C0", "skyBlue": "87CEEB",
	"slateBlue": "6A5ACD", "slateGray": "708090", "snow": "FFFAFA",
	"springGreen": "00FF7F", "steelBlue": "4682B4", "tan": "D2B48C",
	"teal": "008080", "thistle": "D8BFD8", "tomato": "FF6347",
	"turquoise": "40E0D0", "violet": "EE82EE", "wheat": "F5DEB3",
	"white": "FFFFFF", "whiteSmoke": "F5F5F5", "yellow": "FFFF00",
	"yellowGreen": "9ACD32",
}

func presetColor(name string) ColorToken {
	hex, ok := presetColors[name]
	if !ok {
		return ColorToken{}
	}
	return ParseHexColor(hex)
}
