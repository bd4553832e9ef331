package plugins

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/NDLANO/editorcore/pkg/document"
	"github.com/NDLANO/editorcore/pkg/document/editor"
	"github.com/NDLANO/editorcore/pkg/document/embed"
	"github.com/NDLANO/editorcore/pkg/document/schema"
	"github.com/NDLANO/editorcore/pkg/document/serializer"
)

func Link() *editor.Plugin {
	return &editor.Plugin{
		Name:      "link",
		Types:     []document.Type{TypeLink},
		Inline:    []document.Type{TypeLink},
		Normalize: normalizer(schema.Rule{Type: TypeLink, AllowText: true}),
		Serializer: serializer.RuleFuncs{
			DeserializeFunc: func(el *html.Node, children []document.Node) ([]document.Node, bool) {
				if el.DataAtom != atom.A {
					return nil, false
				}
				data := &LinkData{}
				data.Href, _ = serializer.Attr(el, "href")
				data.Target, _ = serializer.Attr(el, "target")
				data.Rel, _ = serializer.Attr(el, "rel")
				data.Title, _ = serializer.Attr(el, "title")
				return []document.Node{document.NewElement(TypeLink, children...).WithData(data)}, true
			},
			SerializeFunc: func(n document.Node, children string) (string, bool) {
				el := element(n, TypeLink)
				if el == nil {
					return "", false
				}
				var attrs []embed.Attr
				if d, ok := el.Data.(*LinkData); ok {
					for _, a := range []embed.Attr{
						{Key: "href", Value: d.Href},
						{Key: "target", Value: d.Target},
						{Key: "rel", Value: d.Rel},
						{Key: "title", Value: d.Title},
					} {
						if a.Value != "" {
							attrs = append(attrs, a)
						}
					}
				}
				return serializer.Tag("a", attrs, children), true
			},
		},
	}
}

// Math keeps MathML verbatim as an inline void element.
func Math() *editor.Plugin {
	return &editor.Plugin{
		Name:   "mathml",
		Types:  []document.Type{TypeMath},
		Inline: []document.Type{TypeMath},
		Void:   []document.Type{TypeMath},
		Serializer: serializer.RuleFuncs{
			DeserializeFunc: func(el *html.Node, _ []document.Node) ([]document.Node, bool) {
				if el.DataAtom != atom.Math {
					return nil, false
				}
				var b strings.Builder
				if err := html.Render(&b, el); err != nil {
					return nil, false
				}
				return []document.Node{document.NewElement(TypeMath).WithData(&MathData{HTML: b.String()})}, true
			},
			SerializeFunc: func(n document.Node, _ string) (string, bool) {
				el := element(n, TypeMath)
				if el == nil {
					return "", false
				}
				d, ok := el.Data.(*MathData)
				if !ok {
					return "", true
				}
				return d.HTML, true
			},
		},
	}
}

type markTag struct {
	tag string
	on  func(*document.Marks) *bool
}

// markTags are in nesting order, outermost first.
var markTags = []markTag{
	{"strong", func(m *document.Marks) *bool { return &m.Bold }},
	{"em", func(m *document.Marks) *bool { return &m.Italic }},
	{"u", func(m *document.Marks) *bool { return &m.Underlined }},
	{"code", func(m *document.Marks) *bool { return &m.Code }},
	{"sup", func(m *document.Marks) *bool { return &m.Sup }},
	{"sub", func(m *document.Marks) *bool { return &m.Sub }},
}

var markAliases = map[atom.Atom]string{
	atom.Strong: "strong", atom.B: "strong",
	atom.Em: "em", atom.I: "em",
	atom.U:    "u",
	atom.Code: "code",
	atom.Sup:  "sup",
	atom.Sub:  "sub",
}

// Marks turns formatting tags into marks on the text they contain.
func Marks() *editor.Plugin {
	return &editor.Plugin{
		Name: "marks",
		Serializer: serializer.RuleFuncs{
			DeserializeFunc: func(el *html.Node, children []document.Node) ([]document.Node, bool) {
				name, ok := markAliases[el.DataAtom]
				if !ok {
					return nil, false
				}
				for _, mt := range markTags {
					if mt.tag != name {
						continue
					}
					for _, child := range children {
						document.Walk(child, func(n document.Node, _ document.Path) bool {
							if t, ok := n.(*document.Text); ok {
								*mt.on(&t.Marks) = true
							}
							return true
						})
					}
				}
				if len(children) == 0 {
					children = []document.Node{}
				}
				return children, true
			},
			SerializeFunc: func(n document.Node, children string) (string, bool) {
				t, ok := n.(*document.Text)
				if !ok || t.Marks.IsZero() {
					return "", false
				}
				out := children
				for i := len(markTags) - 1; i >= 0; i-- {
					if *markTags[i].on(&t.Marks) {
						out = serializer.Tag(markTags[i].tag, nil, out)
					}
				}
				return out, true
			},
		},
	}
}

// Unsupported owns the elements no other plugin understood so that they
// survive editing unchanged.
func Unsupported() *editor.Plugin {
	return &editor.Plugin{
		Name:   "unsupported",
		Types:  []document.Type{serializer.TypeUnsupported, serializer.TypeUnsupportedInline},
		Inline: []document.Type{serializer.TypeUnsupportedInline},
		Render: func(ed *editor.Editor, el *document.Element, path document.Path, children string) (string, bool) {
			if el.Type != serializer.TypeUnsupported && el.Type != serializer.TypeUnsupportedInline {
				return "", false
			}
			ed.Logger().Debug("rendering unsupported element", zap.Stringer("path", path))
			u, ok := el.Data.(*serializer.Unsupported)
			if !ok {
				return "", false
			}
			return u.Splice(children), true
		},
	}
}
