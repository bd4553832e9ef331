package plugins

import (
	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/NDLANO/editorcore/pkg/document"
	"github.com/NDLANO/editorcore/pkg/document/editor"
	"github.com/NDLANO/editorcore/pkg/document/embed"
	"github.com/NDLANO/editorcore/pkg/document/schema"
	"github.com/NDLANO/editorcore/pkg/document/serializer"
)

// List handles bulleted, numbered and letter lists. Backspace at the
// start of an item and Enter in an empty item move the item out of its
// list.
func List() *editor.Plugin {
	return &editor.Plugin{
		Name:  "list",
		Types: []document.Type{TypeList, TypeListItem},
		Normalize: normalizer(
			schema.Rule{
				Type:            TypeList,
				AllowedChildren: []document.Type{TypeListItem},
				DefaultType:     TypeListItem,
				InvalidChild:    schema.ActionWrap,
				RemoveEmpty:     true,
			},
			schema.Rule{
				Type:            TypeListItem,
				AllowedChildren: []document.Type{document.TypeParagraph, TypeHeading, TypeList},
				DefaultType:     document.TypeParagraph,
				InvalidChild:    schema.ActionUnwrap,
				Parents:         []document.Type{TypeList},
				ParentDefault:   TypeList,
			},
		),
		Serializer: serializer.RuleFuncs{
			DeserializeFunc: deserializeList,
			SerializeFunc:   serializeList,
		},
		Hooks: editor.Hooks{
			DeleteBackward: func(ed *editor.Editor, next editor.DeleteBackwardFunc) editor.DeleteBackwardFunc {
				return func() {
					point, _, ok := caretBlock(ed)
					if !ok {
						next()
						return
					}
					item, ok := ed.Above(point.Path, TypeListItem)
					if !ok || !ed.IsStart(point, item.Path) {
						next()
						return
					}
					_ = UnwrapList(ed, item.Path)
				}
			},
			InsertBreak: func(ed *editor.Editor, next editor.InsertBreakFunc) editor.InsertBreakFunc {
				return func() {
					point, _, ok := caretBlock(ed)
					if !ok {
						next()
						return
					}
					item, ok := ed.Above(point.Path, TypeListItem)
					if !ok || document.TextContent(item.Node) != "" || hasEmbeddedList(item.Node) {
						next()
						return
					}
					_ = UnwrapList(ed, item.Path)
				}
			},
		},
	}
}

func hasEmbeddedList(n document.Node) bool {
	for _, child := range n.(*document.Element).Children {
		if document.IsElement(child, TypeList) {
			return true
		}
	}
	return false
}

// UnwrapList moves the list item at path out of its list. An item of a
// nested list becomes an item of the enclosing list; otherwise the item's
// content replaces it.
func UnwrapList(ed *editor.Editor, path document.Path) error {
	if !document.IsElement(nodeAt(ed, path), TypeListItem) {
		return errors.Wrapf(document.ErrNotElement, "no list item at %s", path)
	}

	var err error
	ed.WithoutNormalizing(func() {
		var lifted document.Path
		if lifted, err = ed.LiftNodes(path); err != nil {
			return
		}
		if len(lifted) >= 2 && document.IsElement(nodeAt(ed, lifted.Parent()), TypeListItem) {
			_, err = ed.LiftNodes(lifted)
			return
		}
		err = ed.UnwrapNodes(lifted)
	})
	return err
}

func nodeAt(ed *editor.Editor, path document.Path) document.Node {
	n, _ := ed.Node(path)
	return n
}

func deserializeList(el *html.Node, children []document.Node) ([]document.Node, bool) {
	switch el.DataAtom {
	case atom.Ul:
		return []document.Node{document.NewElement(TypeList, children...).WithData(&ListData{Style: ListBulleted})}, true
	case atom.Ol:
		data := &ListData{Style: ListNumbered}
		if typ, _ := serializer.Attr(el, "data-type"); typ == "letters" {
			data.Style = ListLetter
		}
		data.Start, _ = serializer.Attr(el, "start")
		return []document.Node{document.NewElement(TypeList, children...).WithData(data)}, true
	case atom.Li:
		return []document.Node{document.NewElement(TypeListItem, children...)}, true
	}
	return nil, false
}

func serializeList(n document.Node, children string) (string, bool) {
	if document.IsElement(n, TypeListItem) {
		return serializer.Tag("li", nil, children), true
	}
	el := element(n, TypeList)
	if el == nil {
		return "", false
	}
	data, _ := el.Data.(*ListData)
	if data == nil || data.Style == ListBulleted || data.Style == "" {
		return serializer.Tag("ul", nil, children), true
	}
	var attrs []embed.Attr
	if data.Style == ListLetter {
		attrs = append(attrs, embed.Attr{Key: "data-type", Value: "letters"})
	}
	if data.Start != "" {
		attrs = append(attrs, embed.Attr{Key: "start", Value: data.Start})
	}
	return serializer.Tag("ol", attrs, children), true
}
