package plugins

import (
	"github.com/NDLANO/editorcore/pkg/document"
	"github.com/NDLANO/editorcore/pkg/document/embed"
)

const (
	TypeHeading       document.Type = "heading"
	TypeQuote         document.Type = "quote"
	TypeList          document.Type = "list"
	TypeListItem      document.Type = "list-item"
	TypeAside         document.Type = "aside"
	TypeDetails       document.Type = "details"
	TypeSummary       document.Type = "summary"
	TypeTable         document.Type = "table"
	TypeTableCaption  document.Type = "table-caption"
	TypeTableHead     document.Type = "table-head"
	TypeTableBody     document.Type = "table-body"
	TypeTableRow      document.Type = "table-row"
	TypeTableCell     document.Type = "table-cell"
	TypeLink          document.Type = "link"
	TypeMath          document.Type = "mathml"
	TypeEmbed         document.Type = "embed"
	TypeFileList      document.Type = "file"
	TypeConceptInline document.Type = "concept-inline"
	TypeConceptBlock  document.Type = "concept-block"
	TypeCommentInline document.Type = "comment-inline"
	TypeCommentBlock  document.Type = "comment-block"
)

// HeadingData is the level of a heading, 1 to 6.
type HeadingData struct {
	Level int
}

func (*HeadingData) Kind() string { return "heading" }

type ListKind string

const (
	ListBulleted ListKind = "bulleted-list"
	ListNumbered ListKind = "numbered-list"
	ListLetter   ListKind = "letter-list"
)

type ListData struct {
	Style ListKind
	Start string
}

func (*ListData) Kind() string { return "list" }

// AsideData carries the aside's data-type, such as factAside.
type AsideData struct {
	Type string
}

func (*AsideData) Kind() string { return "aside" }

// AttrsData keeps the HTML attributes of table elements in source order.
type AttrsData struct {
	Attrs []embed.Attr
}

func (*AttrsData) Kind() string { return "attrs" }

// CellData describes a table cell.
type CellData struct {
	Header bool
	Attrs  []embed.Attr
}

func (*CellData) Kind() string { return "cell" }

type LinkData struct {
	Href   string
	Target string
	Rel    string
	Title  string
}

func (*LinkData) Kind() string { return "link" }

// MathData keeps a MathML element verbatim.
type MathData struct {
	HTML string
}

func (*MathData) Kind() string { return "mathml" }

// FileListData lists the files of a file block.
type FileListData struct {
	Files []*embed.File
}

func (*FileListData) Kind() string { return "file-list" }
