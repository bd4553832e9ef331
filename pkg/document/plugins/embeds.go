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

const fileListType = "file"

// Embeds handles every <ndlaembed> resource and file lists. A new embed
// is marked FirstEdit by the UI; the flag is cleared the first time the
// embed's data is set.
func Embeds() *editor.Plugin {
	return &editor.Plugin{
		Name: "embeds",
		Types: []document.Type{
			TypeEmbed, TypeFileList,
			TypeConceptInline, TypeConceptBlock,
			TypeCommentInline, TypeCommentBlock,
		},
		Inline: []document.Type{TypeConceptInline, TypeCommentInline},
		Void:   []document.Type{TypeEmbed, TypeFileList, TypeConceptBlock},
		Normalize: normalizer(
			schema.Rule{Type: TypeConceptInline, AllowText: true},
			schema.Rule{Type: TypeCommentInline, AllowText: true},
			schema.Rule{Type: TypeCommentBlock, DefaultType: document.TypeParagraph},
		),
		Serializer: serializer.RuleFuncs{
			DeserializeFunc: deserializeEmbed,
			SerializeFunc:   serializeEmbed,
		},
		Render: renderEmbed,
		Hooks: editor.Hooks{
			Apply: func(ed *editor.Editor, next editor.ApplyFunc) editor.ApplyFunc {
				return func(op *document.Operation) error {
					if op.Type == document.OpSetNode && op.Properties.SetData && op.Properties.FirstEdit == nil {
						if el, ok := ed.Element(op.Path); ok && el.FirstEdit && isEmbedType(el.Type) {
							cleared := false
							op.Properties.FirstEdit = &cleared
						}
					}
					return next(op)
				}
			},
		},
	}
}

func isEmbedType(t document.Type) bool {
	switch t {
	case TypeEmbed, TypeFileList, TypeConceptInline, TypeConceptBlock, TypeCommentInline, TypeCommentBlock:
		return true
	}
	return false
}

// NewEmbed returns a block element for e, as inserted from the UI.
func NewEmbed(e embed.Embed) *document.Element {
	el := embedElement(e, nil)
	el.FirstEdit = true
	return el
}

func embedElement(e embed.Embed, children []document.Node) *document.Element {
	switch e := e.(type) {
	case *embed.Concept:
		if embed.IsInline(e) {
			if len(children) == 0 && e.LinkText != "" {
				children = []document.Node{document.NewText(e.LinkText)}
			}
			return document.NewElement(TypeConceptInline, children...).WithData(e)
		}
		return document.NewElement(TypeConceptBlock).WithData(e)
	case *embed.Comment:
		if embed.IsInline(e) {
			return document.NewElement(TypeCommentInline, children...).WithData(e)
		}
		return document.NewElement(TypeCommentBlock, children...).WithData(e)
	case *embed.File:
		return document.NewElement(TypeFileList).WithData(&FileListData{Files: []*embed.File{e}})
	}
	return document.NewElement(TypeEmbed).WithData(e)
}

func deserializeEmbed(el *html.Node, children []document.Node) ([]document.Node, bool) {
	if el.DataAtom == atom.Div {
		if typ, _ := serializer.Attr(el, "data-type"); typ == fileListType {
			return deserializeFileList(el)
		}
		return nil, false
	}
	if el.Data != serializer.EmbedTag {
		return nil, false
	}
	e, err := serializer.DecodeEmbed(el)
	if err != nil {
		// Left to the unsupported fallback, which keeps it verbatim.
		return nil, false
	}
	return []document.Node{embedElement(e, children)}, true
}

func deserializeFileList(el *html.Node) ([]document.Node, bool) {
	data := &FileListData{}
	for c := el.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != serializer.EmbedTag {
			continue
		}
		e, err := serializer.DecodeEmbed(c)
		if err != nil {
			continue
		}
		if f, ok := e.(*embed.File); ok {
			data.Files = append(data.Files, f)
		}
	}
	return []document.Node{document.NewElement(TypeFileList).WithData(data)}, true
}

func serializeEmbed(n document.Node, children string) (string, bool) {
	el, ok := n.(*document.Element)
	if !ok || !isEmbedType(el.Type) {
		return "", false
	}

	switch el.Type {
	case TypeFileList:
		var inner string
		if d, ok := el.Data.(*FileListData); ok {
			for _, f := range d.Files {
				inner += serializer.EmbedHTML(f)
			}
		}
		return serializer.Tag("div", []embed.Attr{{Key: "data-type", Value: fileListType}}, inner), true

	case TypeConceptInline:
		c, ok := el.Data.(*embed.Concept)
		if !ok {
			return children, true
		}
		linked := *c
		linked.LinkText = document.TextContent(el)
		return serializer.EmbedHTML(&linked), true

	case TypeCommentInline, TypeCommentBlock:
		e, ok := el.Data.(embed.Embed)
		if !ok {
			return children, true
		}
		return serializer.Tag(serializer.EmbedTag, serializer.EmbedAttrs(e), children), true
	}

	e, ok := el.Data.(embed.Embed)
	if !ok {
		return "", true
	}
	return serializer.EmbedHTML(e), true
}

func renderEmbed(ed *editor.Editor, el *document.Element, _ document.Path, children string) (string, bool) {
	if !isEmbedType(el.Type) {
		return "", false
	}
	attrs := ed.ElementAttrs(el)
	if e, ok := el.Data.(embed.Embed); ok {
		attrs = append(attrs, embed.Attr{Key: "data-resource", Value: string(e.Resource())})
		if err := embed.Validate(e); err != nil {
			attrs = append(attrs, embed.Attr{Key: "data-error", Value: "invalid"})
		}
	}
	switch {
	case ed.IsInlineType(el.Type):
		return serializer.Tag("span", attrs, children), true
	case el.Type == TypeCommentBlock:
		return serializer.Tag("figure", attrs, children), true
	}
	return serializer.Tag("figure", attrs, ""), true
}
