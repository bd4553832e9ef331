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

var tableTags = map[atom.Atom]document.Type{
	atom.Table:   TypeTable,
	atom.Caption: TypeTableCaption,
	atom.Thead:   TypeTableHead,
	atom.Tbody:   TypeTableBody,
	atom.Tr:      TypeTableRow,
}

var tableTypes = map[document.Type]string{
	TypeTable:        "table",
	TypeTableCaption: "caption",
	TypeTableHead:    "thead",
	TypeTableBody:    "tbody",
	TypeTableRow:     "tr",
}

// Table handles tables with caption, head, body, rows and cells. The
// attributes of every table element are kept as they were.
func Table() *editor.Plugin {
	return &editor.Plugin{
		Name: "table",
		Types: []document.Type{
			TypeTable, TypeTableCaption, TypeTableHead, TypeTableBody, TypeTableRow, TypeTableCell,
		},
		Normalize: normalizer(
			schema.Rule{
				Type:            TypeTable,
				AllowedChildren: []document.Type{TypeTableCaption, TypeTableHead, TypeTableBody, serializer.TypeUnsupported},
				DefaultType:     TypeTableBody,
				InvalidChild:    schema.ActionWrap,
				RemoveEmpty:     true,
			},
			schema.Rule{
				Type:      TypeTableCaption,
				AllowText: true,
				Parents:   []document.Type{TypeTable},
			},
			schema.Rule{
				Type:            TypeTableHead,
				AllowedChildren: []document.Type{TypeTableRow},
				DefaultType:     TypeTableRow,
				InvalidChild:    schema.ActionWrap,
				Parents:         []document.Type{TypeTable},
				ParentDefault:   TypeTable,
			},
			schema.Rule{
				Type:            TypeTableBody,
				AllowedChildren: []document.Type{TypeTableRow},
				DefaultType:     TypeTableRow,
				InvalidChild:    schema.ActionWrap,
				Parents:         []document.Type{TypeTable},
				ParentDefault:   TypeTable,
			},
			schema.Rule{
				Type:            TypeTableRow,
				AllowedChildren: []document.Type{TypeTableCell},
				DefaultType:     TypeTableCell,
				InvalidChild:    schema.ActionWrap,
				Parents:         []document.Type{TypeTableHead, TypeTableBody},
				ParentDefault:   TypeTableBody,
			},
			schema.Rule{
				Type:          TypeTableCell,
				DefaultType:   document.TypeParagraph,
				Parents:       []document.Type{TypeTableRow},
				ParentDefault: TypeTableRow,
			},
		),
		Serializer: serializer.RuleFuncs{
			DeserializeFunc: deserializeTable,
			SerializeFunc:   serializeTable,
		},
	}
}

func deserializeTable(el *html.Node, children []document.Node) ([]document.Node, bool) {
	if el.DataAtom == atom.Td || el.DataAtom == atom.Th {
		data := &CellData{Header: el.DataAtom == atom.Th, Attrs: htmlAttrs(el)}
		return []document.Node{document.NewElement(TypeTableCell, children...).WithData(data)}, true
	}
	typ, ok := tableTags[el.DataAtom]
	if !ok {
		return nil, false
	}
	n := document.NewElement(typ, children...)
	if attrs := htmlAttrs(el); attrs != nil {
		n.Data = &AttrsData{Attrs: attrs}
	}
	return []document.Node{n}, true
}

func serializeTable(n document.Node, children string) (string, bool) {
	el, ok := n.(*document.Element)
	if !ok {
		return "", false
	}
	if el.Type == TypeTableCell {
		tag := "td"
		var attrs []embed.Attr
		if d, ok := el.Data.(*CellData); ok {
			if d.Header {
				tag = "th"
			}
			attrs = d.Attrs
		}
		return serializer.Tag(tag, attrs, children), true
	}
	tag, ok := tableTypes[el.Type]
	if !ok {
		return "", false
	}
	var attrs []embed.Attr
	if d, ok := el.Data.(*AttrsData); ok {
		attrs = d.Attrs
	}
	return serializer.Tag(tag, attrs, children), true
}
