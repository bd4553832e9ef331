package plugins

import (
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/NDLANO/editorcore/pkg/document"
	"github.com/NDLANO/editorcore/pkg/document/editor"
	"github.com/NDLANO/editorcore/pkg/document/embed"
	"github.com/NDLANO/editorcore/pkg/document/schema"
	"github.com/NDLANO/editorcore/pkg/document/serializer"
)

// Section is the top-level block. Sections never nest.
func Section() *editor.Plugin {
	return &editor.Plugin{
		Name:  "section",
		Types: []document.Type{document.TypeSection},
		Normalize: normalizer(schema.Rule{
			Type:        document.TypeSection,
			DefaultType: document.TypeParagraph,
			Parents:     []document.Type{document.TypeEditor},
		}),
		Serializer: tagRule(document.TypeSection, atom.Section),
	}
}

func Paragraph() *editor.Plugin {
	return &editor.Plugin{
		Name:       "paragraph",
		Types:      []document.Type{document.TypeParagraph},
		Normalize:  normalizer(schema.Rule{Type: document.TypeParagraph, AllowText: true}),
		Serializer: tagRule(document.TypeParagraph, atom.P),
		Render: func(ed *editor.Editor, el *document.Element, _ document.Path, children string) (string, bool) {
			if el.Type != document.TypeParagraph {
				return "", false
			}
			return serializer.Tag("p", ed.ElementAttrs(el), children), true
		},
	}
}

var headingTags = []atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

func headingLevel(el *document.Element) int {
	if d, ok := el.Data.(*HeadingData); ok && d.Level >= 1 && d.Level <= 6 {
		return d.Level
	}
	return 2
}

// Heading handles h1 to h6. Enter at the end of a heading continues with
// a paragraph; Backspace at its start turns it into a paragraph.
func Heading() *editor.Plugin {
	return &editor.Plugin{
		Name:      "heading",
		Types:     []document.Type{TypeHeading},
		Normalize: normalizer(schema.Rule{Type: TypeHeading, AllowText: true}),
		Serializer: serializer.RuleFuncs{
			DeserializeFunc: func(el *html.Node, children []document.Node) ([]document.Node, bool) {
				for i, tag := range headingTags {
					if el.DataAtom == tag {
						h := document.NewElement(TypeHeading, children...).WithData(&HeadingData{Level: i + 1})
						return []document.Node{h}, true
					}
				}
				return nil, false
			},
			SerializeFunc: func(n document.Node, children string) (string, bool) {
				el := element(n, TypeHeading)
				if el == nil {
					return "", false
				}
				return serializer.Tag("h"+strconv.Itoa(headingLevel(el)), nil, children), true
			},
		},
		Render: func(ed *editor.Editor, el *document.Element, _ document.Path, children string) (string, bool) {
			if el.Type != TypeHeading {
				return "", false
			}
			return serializer.Tag("h"+strconv.Itoa(headingLevel(el)), ed.ElementAttrs(el), children), true
		},
		Hooks: editor.Hooks{
			InsertBreak: func(ed *editor.Editor, next editor.InsertBreakFunc) editor.InsertBreakFunc {
				return func() {
					point, block, ok := caretBlock(ed)
					if !ok || !document.IsElement(block.Node, TypeHeading) || !ed.IsEnd(point, block.Path) {
						next()
						return
					}
					at := block.Path.Next()
					if err := ed.InsertNodes(at, document.NewElement(document.TypeParagraph)); err != nil {
						return
					}
					ed.SelectPoint(document.Point{Path: at.Child(0), Offset: 0})
				}
			},
			DeleteBackward: func(ed *editor.Editor, next editor.DeleteBackwardFunc) editor.DeleteBackwardFunc {
				return func() {
					point, block, ok := caretBlock(ed)
					if !ok || !document.IsElement(block.Node, TypeHeading) || !ed.IsStart(point, block.Path) {
						next()
						return
					}
					typ := document.TypeParagraph
					_ = ed.SetNodes(block.Path, document.Properties{Type: &typ, SetData: true})
				}
			},
		},
	}
}

// Quote is a blockquote. Enter on an empty line inside it moves the line
// out of the quote.
func Quote() *editor.Plugin {
	return &editor.Plugin{
		Name:  "quote",
		Types: []document.Type{TypeQuote},
		Normalize: normalizer(schema.Rule{
			Type:            TypeQuote,
			AllowedChildren: []document.Type{document.TypeParagraph, TypeHeading, TypeList},
			DefaultType:     document.TypeParagraph,
			InvalidChild:    schema.ActionUnwrap,
		}),
		Serializer: tagRule(TypeQuote, atom.Blockquote),
		Hooks: editor.Hooks{
			InsertBreak: func(ed *editor.Editor, next editor.InsertBreakFunc) editor.InsertBreakFunc {
				return func() {
					_, block, ok := caretBlock(ed)
					if !ok || len(block.Path) < 2 {
						next()
						return
					}
					el := block.Node.(*document.Element)
					parent, _ := ed.Element(block.Path.Parent())
					if parent == nil || parent.Type != TypeQuote || !document.IsEmpty(el) {
						next()
						return
					}
					_, _ = ed.LiftNodes(block.Path)
				}
			},
		},
	}
}

// Aside is a fact box or a right-floated aside, told apart by data-type.
func Aside() *editor.Plugin {
	return &editor.Plugin{
		Name:  "aside",
		Types: []document.Type{TypeAside},
		Normalize: normalizer(schema.Rule{
			Type:        TypeAside,
			DefaultType: document.TypeParagraph,
			Parents:     []document.Type{document.TypeSection},
		}),
		Serializer: serializer.RuleFuncs{
			DeserializeFunc: func(el *html.Node, children []document.Node) ([]document.Node, bool) {
				if el.DataAtom != atom.Aside {
					return nil, false
				}
				typ, _ := serializer.Attr(el, "data-type")
				return []document.Node{document.NewElement(TypeAside, children...).WithData(&AsideData{Type: typ})}, true
			},
			SerializeFunc: func(n document.Node, children string) (string, bool) {
				el := element(n, TypeAside)
				if el == nil {
					return "", false
				}
				var attrs []embed.Attr
				if d, ok := el.Data.(*AsideData); ok && d.Type != "" {
					attrs = append(attrs, embed.Attr{Key: "data-type", Value: d.Type})
				}
				return serializer.Tag("aside", attrs, children), true
			},
		},
	}
}

// Details is a collapsible block whose first child is its summary.
func Details() *editor.Plugin {
	rules := schema.NewRules(
		schema.Rule{Type: TypeDetails, DefaultType: document.TypeParagraph},
		schema.Rule{Type: TypeSummary, AllowText: true, Parents: []document.Type{TypeDetails}},
	)
	return &editor.Plugin{
		Name:  "details",
		Types: []document.Type{TypeDetails, TypeSummary},
		Normalize: func(ed *editor.Editor, entry document.Entry) bool {
			if el := element(entry.Node, TypeDetails); el != nil && len(el.Children) > 0 {
				if !document.IsElement(el.Children[0], TypeSummary) {
					return ed.InsertNodes(entry.Path.Child(0), document.NewElement(TypeSummary)) == nil
				}
				for i := 1; i < len(el.Children); i++ {
					if document.IsElement(el.Children[i], TypeSummary) {
						typ := document.TypeParagraph
						return ed.SetNodes(entry.Path.Child(i), document.Properties{Type: &typ}) == nil
					}
				}
			}
			return rules.Normalize(ed, entry)
		},
		Serializer: serializer.RuleFuncs{
			DeserializeFunc: func(el *html.Node, children []document.Node) ([]document.Node, bool) {
				switch el.DataAtom {
				case atom.Details:
					return []document.Node{document.NewElement(TypeDetails, children...)}, true
				case atom.Summary:
					return []document.Node{document.NewElement(TypeSummary, children...)}, true
				}
				return nil, false
			},
			SerializeFunc: func(n document.Node, children string) (string, bool) {
				switch {
				case document.IsElement(n, TypeDetails):
					return serializer.Tag("details", nil, children), true
				case document.IsElement(n, TypeSummary):
					return serializer.Tag("summary", nil, children), true
				}
				return "", false
			},
		},
	}
}

// textTags hold inline content, so a <br> inside them is a line break
// within the text rather than a block.
var textTags = map[atom.Atom]bool{
	atom.P: true, atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.H5: true, atom.H6: true, atom.Summary: true, atom.Caption: true,
	atom.Li: true, atom.Td: true, atom.Th: true, atom.Pre: true,
}

// Break turns <br> into a newline in text, or into a break block where
// blocks are expected.
func Break() *editor.Plugin {
	return &editor.Plugin{
		Name:  "break",
		Types: []document.Type{document.TypeBreak},
		Void:  []document.Type{document.TypeBreak},
		Serializer: serializer.RuleFuncs{
			DeserializeFunc: func(el *html.Node, _ []document.Node) ([]document.Node, bool) {
				if el.DataAtom != atom.Br {
					return nil, false
				}
				if blockContext(el) {
					return []document.Node{document.NewElement(document.TypeBreak)}, true
				}
				return []document.Node{document.NewText("\n")}, true
			},
			SerializeFunc: func(n document.Node, _ string) (string, bool) {
				if !document.IsElement(n, document.TypeBreak) {
					return "", false
				}
				return "<br>", true
			},
		},
	}
}

func blockContext(el *html.Node) bool {
	for p := el.Parent; p != nil; p = p.Parent {
		if textTags[p.DataAtom] {
			return false
		}
		if serializer.IsBlockTag(p) {
			return true
		}
	}
	return true
}
