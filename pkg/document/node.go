package document

import (
	"strings"
)

// Type is an element type tag. The set of types is open: plugins
// register the types they govern.
type Type string

// Core types known to the engine itself. Everything else is contributed
// by plugins.
const (
	TypeEditor    Type = "editor"
	TypeSection   Type = "section"
	TypeParagraph Type = "paragraph"
	TypeBreak     Type = "break"
)

// Node is either a *Text leaf or an *Element.
type Node interface {
	isNode()
	// Clone returns a deep copy of the node. Data payloads are shared
	// because they are immutable.
	Clone() Node
}

// Marks are the formatting flags of a text leaf.
type Marks struct {
	Bold       bool `json:"bold,omitempty"`
	Italic     bool `json:"italic,omitempty"`
	Underlined bool `json:"underlined,omitempty"`
	Code       bool `json:"code,omitempty"`
	Sup        bool `json:"sup,omitempty"`
	Sub        bool `json:"sub,omitempty"`
}

func (m Marks) IsZero() bool { return m == Marks{} }

// Text is a leaf holding a string and its marks.
type Text struct {
	Text  string `json:"text"`
	Marks Marks  `json:"marks,omitempty"`
}

func (*Text) isNode() {}

func (t *Text) Clone() Node {
	clone := *t
	return &clone
}

// NewText returns an unmarked text leaf.
func NewText(s string) *Text { return &Text{Text: s} }

// Data is a typed payload attached to an element, for example embed
// metadata or a heading level. Values are treated as immutable; replace
// them with a set-node operation instead of mutating in place.
type Data interface {
	Kind() string
}

// Element is a structural node.
type Element struct {
	Type      Type   `json:"type"`
	ID        string `json:"id,omitempty"`
	Data      Data   `json:"data,omitempty"`
	FirstEdit bool   `json:"isFirstEdit,omitempty"`
	Children  []Node `json:"children"`
}

func (*Element) isNode() {}

func (e *Element) Clone() Node {
	clone := *e
	clone.Children = make([]Node, len(e.Children))
	for i, child := range e.Children {
		clone.Children[i] = child.Clone()
	}
	return &clone
}

// NewElement creates an element of the given type. An element without
// children gets an empty text placeholder.
func NewElement(typ Type, children ...Node) *Element {
	if len(children) == 0 {
		children = []Node{NewText("")}
	}
	return &Element{Type: typ, Children: children}
}

// WithData sets the data payload and returns the element for chaining.
func (e *Element) WithData(data Data) *Element {
	e.Data = data
	return e
}

// IsElement reports whether n is an element, optionally of one of the given types.
func IsElement(n Node, types ...Type) bool {
	el, ok := n.(*Element)
	if !ok {
		return false
	}
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if el.Type == t {
			return true
		}
	}
	return false
}

// IsText reports whether n is a text leaf.
func IsText(n Node) bool {
	_, ok := n.(*Text)
	return ok
}

// TextContent concatenates all text leaves below n.
func TextContent(n Node) string {
	var b strings.Builder
	writeText(&b, n)
	return b.String()
}

func writeText(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Text:
		b.WriteString(n.Text)
	case *Element:
		for _, child := range n.Children {
			writeText(b, child)
		}
	}
}

// IsEmpty reports whether an element holds only empty text.
func IsEmpty(el *Element) bool {
	for _, child := range el.Children {
		t, ok := child.(*Text)
		if !ok || t.Text != "" {
			return false
		}
	}
	return true
}

// WalkFunc is called for every node visited by Walk. Returning false
// skips the node's children.
type WalkFunc func(n Node, path Path) bool

// Walk visits n and its descendants in document order.
func Walk(n Node, fn WalkFunc) {
	walk(n, Path{}, fn)
}

func walk(n Node, path Path, fn WalkFunc) {
	if !fn(n, path) {
		return
	}
	el, ok := n.(*Element)
	if !ok {
		return
	}
	for i, child := range el.Children {
		walk(child, path.Child(i), fn)
	}
}

// Entry pairs a node with its path.
type Entry struct {
	Node Node
	Path Path
}

// Element returns the entry's node as an element or nil.
func (e Entry) Element() *Element {
	el, _ := e.Node.(*Element)
	return el
}
