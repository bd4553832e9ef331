// Package serializer converts between HTML and document trees. The
// element-specific work is done by rules contributed by plugins; the
// pipeline walks the trees, handles text, and preserves everything no
// rule understands.
package serializer

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/NDLANO/editorcore/pkg/document"
)

// Rule converts one kind of node in both directions. Deserialize receives
// the already converted children of el. Serialize receives the serialized
// children of n; for a text leaf that is its escaped text. Returning
// false passes the node to the next rule.
type Rule interface {
	Deserialize(el *html.Node, children []document.Node) ([]document.Node, bool)
	Serialize(n document.Node, children string) (string, bool)
}

// RuleFuncs adapts a pair of functions to Rule. Either may be nil.
type RuleFuncs struct {
	DeserializeFunc func(el *html.Node, children []document.Node) ([]document.Node, bool)
	SerializeFunc   func(n document.Node, children string) (string, bool)
}

func (f RuleFuncs) Deserialize(el *html.Node, children []document.Node) ([]document.Node, bool) {
	if f.DeserializeFunc == nil {
		return nil, false
	}
	return f.DeserializeFunc(el, children)
}

func (f RuleFuncs) Serialize(n document.Node, children string) (string, bool) {
	if f.SerializeFunc == nil {
		return "", false
	}
	return f.SerializeFunc(n, children)
}

type Pipeline struct {
	rules  []Rule
	logger *zap.Logger
}

type Option func(*Pipeline)

func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a pipeline trying rules in the given order.
func New(rules []Rule, opts ...Option) *Pipeline {
	p := &Pipeline{rules: rules}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	return p
}

// Deserialize parses src leniently and converts it into top-level nodes.
// The result is not normalized.
func (p *Pipeline) Deserialize(src string) ([]document.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(src), body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse html")
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}

	result := []document.Node{}
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		result = append(result, p.deserializeNode(c)...)
	}
	return result, nil
}

// DeserializeNode converts a single parsed node.
func (p *Pipeline) DeserializeNode(n *html.Node) []document.Node {
	return p.deserializeNode(n)
}

func (p *Pipeline) deserializeNode(n *html.Node) []document.Node {
	switch n.Type {
	case html.TextNode:
		if isBlankBetweenBlocks(n) {
			return nil
		}
		return []document.Node{document.NewText(collapseNewlines(n.Data))}

	case html.ElementNode:
		var children []document.Node
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			children = append(children, p.deserializeNode(c)...)
		}
		for i, rule := range p.rules {
			if nodes, ok := p.tryDeserialize(i, rule, n, children); ok {
				return nodes
			}
		}
		return p.fallback(n, children)
	}

	return nil
}

func (p *Pipeline) tryDeserialize(i int, rule Rule, n *html.Node, children []document.Node) (nodes []document.Node, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("serializer rule panicked during deserialize",
				zap.Int("rule", i), zap.String("tag", n.Data), zap.Any("panic", r))
			nodes, ok = nil, false
		}
	}()
	return rule.Deserialize(n, children)
}

func (p *Pipeline) fallback(n *html.Node, children []document.Node) []document.Node {
	switch n.DataAtom {
	case atom.Html, atom.Body:
		return children
	case atom.Span, atom.Font:
		if len(n.Attr) == 0 {
			return children
		}
	case atom.Head, atom.Script, atom.Style:
		return nil
	}

	typ := TypeUnsupported
	if isInlineTag(n) || (!IsBlockTag(n) && inTextContext(n)) {
		typ = TypeUnsupportedInline
	}
	p.logger.Debug("preserving unsupported element", zap.String("tag", n.Data))

	if len(children) == 0 {
		children = []document.Node{document.NewText("")}
	}
	return []document.Node{&document.Element{
		Type:     typ,
		Data:     &Unsupported{HTML: shell(n)},
		Children: children,
	}}
}

// Serialize converts top-level nodes to HTML.
func (p *Pipeline) Serialize(nodes []document.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(p.SerializeNode(n))
	}
	return b.String()
}

// SerializeNode converts one node and its descendants to HTML.
func (p *Pipeline) SerializeNode(n document.Node) string {
	var children string
	switch n := n.(type) {
	case *document.Text:
		children = EscapeText(n.Text)
	case *document.Element:
		var b strings.Builder
		for _, child := range n.Children {
			b.WriteString(p.SerializeNode(child))
		}
		children = b.String()
	}

	for i, rule := range p.rules {
		if s, ok := p.trySerialize(i, rule, n, children); ok {
			return s
		}
	}

	if el, ok := n.(*document.Element); ok {
		if u, ok := el.Data.(*Unsupported); ok {
			return u.Splice(children)
		}
	}
	return children
}

func (p *Pipeline) trySerialize(i int, rule Rule, n document.Node, children string) (s string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("serializer rule panicked during serialize", zap.Int("rule", i), zap.Any("panic", r))
			s, ok = "", false
		}
	}()
	return rule.Serialize(n, children)
}

// EscapeText escapes text content and writes newlines as <br>.
func EscapeText(s string) string {
	escaped := html.EscapeString(s)
	return strings.ReplaceAll(escaped, "\n", "<br>")
}

func collapseNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
}

var blockTags = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Body: true, atom.Caption: true, atom.Colgroup: true, atom.Col: true,
	atom.Details: true, atom.Div: true, atom.Dl: true, atom.Figure: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Hr: true, atom.Li: true, atom.Ol: true, atom.P: true, atom.Pre: true,
	atom.Section: true, atom.Summary: true, atom.Table: true, atom.Tbody: true,
	atom.Td: true, atom.Tfoot: true, atom.Th: true, atom.Thead: true, atom.Tr: true,
	atom.Ul: true,
}

var inlineTags = map[atom.Atom]bool{
	atom.A: true, atom.Abbr: true, atom.B: true, atom.Bdi: true, atom.Bdo: true,
	atom.Cite: true, atom.Code: true, atom.Data: true, atom.Dfn: true, atom.Em: true,
	atom.I: true, atom.Kbd: true, atom.Mark: true, atom.Q: true, atom.S: true,
	atom.Samp: true, atom.Small: true, atom.Span: true, atom.Strong: true,
	atom.Sub: true, atom.Sup: true, atom.Time: true, atom.U: true, atom.Var: true,
	atom.Math: true, atom.Img: true, atom.Br: true,
}

// IsBlockTag reports whether el is a block-level element. Embed tags are
// block-level unless marked inline.
func IsBlockTag(el *html.Node) bool {
	if el == nil || el.Type != html.ElementNode {
		return false
	}
	if el.Data == EmbedTag {
		v, _ := Attr(el, "data-type")
		return v != "inline"
	}
	return blockTags[el.DataAtom]
}

func isInlineTag(el *html.Node) bool {
	return inlineTags[el.DataAtom]
}

var textTags = map[atom.Atom]bool{
	atom.P: true, atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.H5: true, atom.H6: true, atom.Summary: true, atom.Caption: true,
	atom.Figcaption: true, atom.Pre: true, atom.Dt: true,
}

// inTextContext reports whether el sits among text: inside a text
// container or an inline element, or next to non-blank text.
func inTextContext(el *html.Node) bool {
	if parent := el.Parent; parent != nil && parent.Type == html.ElementNode {
		if textTags[parent.DataAtom] || isInlineTag(parent) {
			return true
		}
		if parent.Data == EmbedTag && !IsBlockTag(parent) {
			return true
		}
	}
	for _, sib := range []*html.Node{el.PrevSibling, el.NextSibling} {
		if sib != nil && sib.Type == html.TextNode && strings.TrimSpace(sib.Data) != "" {
			return true
		}
	}
	return false
}

// isBlankBetweenBlocks reports whether a whitespace-only text node sits
// between block boundaries and is therefore only source formatting.
func isBlankBetweenBlocks(n *html.Node) bool {
	if strings.TrimSpace(n.Data) != "" {
		return false
	}
	if n.Parent != nil && !IsBlockTag(n.Parent) {
		return false
	}
	prevOK := n.PrevSibling == nil || IsBlockTag(n.PrevSibling)
	nextOK := n.NextSibling == nil || IsBlockTag(n.NextSibling)
	return prevOK && nextOK
}
