package pptxjson

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// XmlNode is a simplified, order-preserving view of one XML element.
// Names are namespace-local ("solidFill", not "a:solidFill"); sibling order
// is preserved in Children and additionally stamped into Order with a
// counter scoped to one ParsePart call, so interleaved siblings (text runs,
// line breaks, fields) can be re-sorted into document order after being
// grouped by tag.
type XmlNode struct {
	Name     string
	Attrs    map[string]string
	Text     string
	Children []*XmlNode
	Order    int
}

// Attr returns the attribute value or "" when absent. Nil-safe.
func (n *XmlNode) Attr(name string) string {
	if n == nil || n.Attrs == nil {
		return ""
	}
	return n.Attrs[name]
}

// Child returns the first child with the given name, or nil. Nil-safe.
func (n *XmlNode) Child(name string) *XmlNode {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildAny returns the first child matching any of the given names, or nil.
func (n *XmlNode) ChildAny(names ...string) *XmlNode {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		for _, name := range names {
			if c.Name == name {
				return c
			}
		}
	}
	return nil
}

// All returns every child with the given name in document order.
func (n *XmlNode) All(name string) []*XmlNode {
	if n == nil {
		return nil
	}
	var out []*XmlNode
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Path walks Child for each name in turn, nil when any step is absent.
func (n *XmlNode) Path(names ...string) *XmlNode {
	cur := n
	for _, name := range names {
		cur = cur.Child(name)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// ChildText returns the collapsed text of the named child, "" when absent.
func (n *XmlNode) ChildText(name string) string {
	return n.Child(name).GetText()
}

// GetText returns the node's collapsed text value. Nil-safe.
func (n *XmlNode) GetText() string {
	if n == nil {
		return ""
	}
	return n.Text
}

// ParsePart parses one package part into an XmlNode tree.
// It fails with ErrMalformedXML on unparseable byte streams and is a pure
// function of its input: the sibling-order counter is local to the call.
func ParsePart(data []byte) (*XmlNode, error) {
	decoder := xml.NewDecoder(bytes.NewReader(stripBOM(data)))
	decoder.CharsetReader = charsetReader

	type frame struct {
		node *XmlNode
		text strings.Builder
	}

	var (
		root  *XmlNode
		stack []*frame
		order int
	)

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedXML, err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			node := &XmlNode{Name: t.Name.Local, Order: order}
			order++
			if len(t.Attr) > 0 {
				node.Attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					node.Attrs[a.Name.Local] = a.Value
				}
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1].node
				parent.Children = append(parent.Children, node)
			} else if root == nil {
				root = node
			}
			stack = append(stack, &frame{node: node})

		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: unbalanced end element %s", ErrMalformedXML, t.Name.Local)
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			// Collapsing rule: a node whose only content is character data
			// keeps it verbatim as Text; interstitial whitespace around
			// element children is dropped.
			text := top.text.String()
			if len(top.node.Children) == 0 {
				top.node.Text = text
			} else if strings.TrimSpace(text) != "" {
				top.node.Text = strings.TrimSpace(text)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%w: empty document", ErrMalformedXML)
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("%w: unclosed element %s", ErrMalformedXML, stack[len(stack)-1].node.Name)
	}
	return root, nil
}

// stripBOM removes a UTF-8 BOM and transcodes UTF-16 input (detected by BOM)
// so the decoder always sees UTF-8.
func stripBOM(data []byte) []byte {
	switch {
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		return data[3:]
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}), bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		out, _, err := transform.Bytes(dec, data)
		if err != nil {
			return data
		}
		return out
	}
	return data
}

// charsetReader supports the encodings PowerPoint exports declare besides
// UTF-8. Unknown charsets fall through to the raw reader rather than failing
// the whole part.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	var enc encoding.Encoding
	switch strings.ToLower(charset) {
	case "", "utf-8", "us-ascii":
		return input, nil
	case "utf-16", "utf-16le":
		enc = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case "utf-16be":
		enc = unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case "iso-8859-1", "latin1":
		enc = charmap.ISO8859_1
	case "windows-1252", "cp1252":
		enc = charmap.Windows1252
	default:
		return input, nil
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}
