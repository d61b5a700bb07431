package pptxjson

import "strings"

// OOXML math (m:oMath) to a LaTeX-like string.
//
// Conversion dispatches on element kind through a keyed table; element
// kinds outside the table contribute an empty string so one exotic node
// never fails the whole expression.

var mathHandlers map[string]func(*XmlNode) string

func init() {
	mathHandlers = map[string]func(*XmlNode) string{
		"oMath":     mathChildren,
		"oMathPara": mathChildren,
		"e":         mathChildren,
		"num":       mathChildren,
		"den":       mathChildren,
		"sub":       mathChildren,
		"sup":       mathChildren,
		"deg":       mathChildren,
		"fName":     mathChildren,
		"lim":       mathChildren,

		"r": func(n *XmlNode) string {
			var sb strings.Builder
			for _, t := range n.All("t") {
				sb.WriteString(t.GetText())
			}
			return sb.String()
		},

		"f": func(n *XmlNode) string {
			return `\frac{` + convertMath(n.Child("num")) + `}{` + convertMath(n.Child("den")) + `}`
		},

		"sSup": func(n *XmlNode) string {
			return "{" + convertMath(n.Child("e")) + "}^{" + convertMath(n.Child("sup")) + "}"
		},

		"sSub": func(n *XmlNode) string {
			return "{" + convertMath(n.Child("e")) + "}_{" + convertMath(n.Child("sub")) + "}"
		},

		"sSubSup": func(n *XmlNode) string {
			return "{" + convertMath(n.Child("e")) + "}_{" + convertMath(n.Child("sub")) +
				"}^{" + convertMath(n.Child("sup")) + "}"
		},

		"rad": func(n *XmlNode) string {
			deg := convertMath(n.Child("deg"))
			if deg == "" || n.Path("radPr", "degHide").Attr("val") == "1" {
				return `\sqrt{` + convertMath(n.Child("e")) + `}`
			}
			return `\sqrt[` + deg + `]{` + convertMath(n.Child("e")) + `}`
		},

		"m": func(n *XmlNode) string {
			var rows []string
			for _, mr := range n.All("mr") {
				var cols []string
				for _, e := range mr.All("e") {
					cols = append(cols, convertMath(e))
				}
				rows = append(rows, strings.Join(cols, " & "))
			}
			return `\begin{matrix}` + strings.Join(rows, ` \\ `) + `\end{matrix}`
		},

		"nary": func(n *XmlNode) string {
			op := naryOperator(n.Path("naryPr", "chr").Attr("val"))
			out := op
			if sub := convertMath(n.Child("sub")); sub != "" {
				out += "_{" + sub + "}"
			}
			if sup := convertMath(n.Child("sup")); sup != "" {
				out += "^{" + sup + "}"
			}
			return out + "{" + convertMath(n.Child("e")) + "}"
		},

		"d": func(n *XmlNode) string {
			beg := n.Path("dPr", "begChr").Attr("val")
			end := n.Path("dPr", "endChr").Attr("val")
			if beg == "" {
				beg = "("
			}
			if end == "" {
				end = ")"
			}
			var parts []string
			for _, e := range n.All("e") {
				parts = append(parts, convertMath(e))
			}
			return `\left` + delimiterChar(beg) + strings.Join(parts, ",") + `\right` + delimiterChar(end)
		},

		"func": func(n *XmlNode) string {
			return convertMath(n.Child("fName")) + "{" + convertMath(n.Child("e")) + "}"
		},

		"acc": func(n *XmlNode) string {
			chr := n.Path("accPr", "chr").Attr("val")
			return accentCommand(chr) + "{" + convertMath(n.Child("e")) + "}"
		},

		"bar": func(n *XmlNode) string {
			if n.Path("barPr", "pos").Attr("val") == "top" {
				return `\overline{` + convertMath(n.Child("e")) + `}`
			}
			return `\underline{` + convertMath(n.Child("e")) + `}`
		},

		"box": func(n *XmlNode) string {
			return convertMath(n.Child("e"))
		},

		"borderBox": func(n *XmlNode) string {
			return `\boxed{` + convertMath(n.Child("e")) + `}`
		},

		"limLow": func(n *XmlNode) string {
			return convertMath(n.Child("e")) + "_{" + convertMath(n.Child("lim")) + "}"
		},

		"limUpp": func(n *XmlNode) string {
			return convertMath(n.Child("e")) + "^{" + convertMath(n.Child("lim")) + "}"
		},
	}
}

// convertMath converts one math element. Unknown kinds yield "".
func convertMath(n *XmlNode) string {
	if n == nil {
		return ""
	}
	if handler, ok := mathHandlers[n.Name]; ok {
		return handler(n)
	}
	return ""
}

func mathChildren(n *XmlNode) string {
	var sb strings.Builder
	for _, c := range n.Children {
		sb.WriteString(convertMath(c))
	}
	return sb.String()
}

// naryOperator maps the n-ary operator glyph to a LaTeX command. The OOXML
// default (no chr) is the integral.
func naryOperator(chr string) string {
	switch chr {
	case "", "∫":
		return `\int`
	case "∑":
		return `\sum`
	case "∏":
		return `\prod`
	case "∬":
		return `\iint`
	case "∭":
		return `\iiint`
	case "∮":
		return `\oint`
	case "⋃":
		return `\bigcup`
	case "⋂":
		return `\bigcap`
	case "⋁":
		return `\bigvee`
	case "⋀":
		return `\bigwedge`
	default:
		return chr
	}
}

func delimiterChar(chr string) string {
	switch chr {
	case "{":
		return `\{`
	case "}":
		return `\}`
	case "|":
		return "|"
	default:
		return chr
	}
}

func accentCommand(chr string) string {
	switch chr {
	case "", "́", "^", "̂":
		return `\hat`
	case "̃":
		return `\tilde`
	case "̄":
		return `\bar`
	case "⃗":
		return `\vec`
	case "̇":
		return `\dot`
	case "̈":
		return `\ddot`
	default:
		return `\hat`
	}
}
