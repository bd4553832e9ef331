// Package plugins provides the element types of NDLA articles: their
// schema rules, HTML serializers, renderers and editing behavior.
package plugins

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/NDLANO/editorcore/pkg/document"
	"github.com/NDLANO/editorcore/pkg/document/editor"
	"github.com/NDLANO/editorcore/pkg/document/embed"
	"github.com/NDLANO/editorcore/pkg/document/schema"
	"github.com/NDLANO/editorcore/pkg/document/serializer"
)

// Options configure the plugin set.
type Options struct {
	// SingleLine restricts the editor to one top-level block of type
	// RootNode and disables Enter.
	SingleLine bool
	// RootNode is the top-level block type in single-line mode. It
	// defaults to paragraph.
	RootNode document.Type
}

func (o Options) rootNode() document.Type {
	if o.RootNode == "" {
		return document.TypeParagraph
	}
	return o.RootNode
}

// Default returns the article plugin set in registration order.
func Default(opts Options) []*editor.Plugin {
	plugins := []*editor.Plugin{
		Root(opts),
		Section(),
		Paragraph(),
		Heading(),
		Quote(),
		List(),
		Aside(),
		Details(),
		Table(),
		Link(),
		Math(),
		Break(),
		Embeds(),
		Marks(),
		Unsupported(),
		NodeID(),
	}
	if opts.SingleLine {
		plugins = append(plugins, SingleLine(opts))
	}
	return plugins
}

// Root constrains the top level of the document.
func Root(opts Options) *editor.Plugin {
	rule := schema.Rule{
		Type:            document.TypeEditor,
		AllowedChildren: []document.Type{document.TypeSection},
		DefaultType:     document.TypeSection,
		InvalidChild:    schema.ActionWrap,
	}
	if opts.SingleLine {
		rule.AllowedChildren = []document.Type{opts.rootNode()}
		rule.DefaultType = opts.rootNode()
		rule.InvalidChild = schema.ActionUnwrap
	}
	return &editor.Plugin{
		Name:      "root",
		Normalize: normalizer(rule),
	}
}

func normalizer(rules ...schema.Rule) editor.NormalizeFunc {
	index := schema.NewRules(rules...)
	return func(ed *editor.Editor, entry document.Entry) bool {
		return index.Normalize(ed, entry)
	}
}

// tagRule converts between one element type and one tag without
// attributes.
func tagRule(typ document.Type, tag atom.Atom) serializer.Rule {
	return serializer.RuleFuncs{
		DeserializeFunc: func(el *html.Node, children []document.Node) ([]document.Node, bool) {
			if el.DataAtom != tag {
				return nil, false
			}
			return []document.Node{document.NewElement(typ, children...)}, true
		},
		SerializeFunc: func(n document.Node, children string) (string, bool) {
			if !document.IsElement(n, typ) {
				return "", false
			}
			return serializer.Tag(tag.String(), nil, children), true
		},
	}
}

// htmlAttrs returns the attributes of el in source order.
func htmlAttrs(el *html.Node) []embed.Attr {
	if len(el.Attr) == 0 {
		return nil
	}
	result := make([]embed.Attr, 0, len(el.Attr))
	for _, a := range el.Attr {
		result = append(result, embed.Attr{Key: a.Key, Value: a.Val})
	}
	return result
}

// element returns n as an element of one of types, or nil.
func element(n document.Node, types ...document.Type) *document.Element {
	if !document.IsElement(n, types...) {
		return nil
	}
	return n.(*document.Element)
}

// caretBlock returns the collapsed caret and the lowest block holding it.
func caretBlock(ed *editor.Editor) (document.Point, document.Entry, bool) {
	sel, ok := ed.Selection()
	if !ok || !sel.IsCollapsed() {
		return document.Point{}, document.Entry{}, false
	}
	block, ok := ed.BlockAbove(sel.Anchor.Path)
	if !ok {
		return document.Point{}, document.Entry{}, false
	}
	return sel.Anchor, block, true
}
