package serializer

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/NDLANO/editorcore/pkg/document"
	"github.com/NDLANO/editorcore/pkg/document/embed"
)

// EmbedTag is the custom element carrying embedded resources.
const EmbedTag = "ndlaembed"

const (
	TypeUnsupported       document.Type = "unsupported"
	TypeUnsupportedInline document.Type = "unsupported-inline"
)

// childrenMarker marks where the children of a preserved element go.
const childrenMarker = "ndla-children"

// Unsupported keeps the markup of an element no rule understood. HTML is
// the element rendered without its children but with a marker comment
// where they belong.
type Unsupported struct {
	HTML string
}

func (*Unsupported) Kind() string { return "unsupported" }

// Splice renders the preserved element around children.
func (u *Unsupported) Splice(children string) string {
	marker := "<!--" + childrenMarker + "-->"
	if strings.Contains(u.HTML, marker) {
		return strings.Replace(u.HTML, marker, children, 1)
	}
	return u.HTML + children
}

func shell(n *html.Node) string {
	clone := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	if !isVoidTag(n.Data) {
		clone.AppendChild(&html.Node{Type: html.CommentNode, Data: childrenMarker})
	}
	var b strings.Builder
	if err := html.Render(&b, clone); err != nil {
		return ""
	}
	return b.String()
}

func isVoidTag(tag string) bool {
	switch tag {
	case "area", "base", "br", "col", "embed", "hr", "img", "input", "link", "meta", "source", "track", "wbr":
		return true
	}
	return false
}

// Attr returns the value of key on el.
func Attr(el *html.Node, key string) (string, bool) {
	for _, a := range el.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Tag renders an element with attributes in the given order around
// children. Empty children still produce a closing tag.
func Tag(name string, attrs []embed.Attr, children string) string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(name)
	writeAttrs(&b, attrs)
	b.WriteByte('>')
	b.WriteString(children)
	b.WriteString("</")
	b.WriteString(name)
	b.WriteByte('>')
	return b.String()
}

// VoidTag renders an element that has no closing tag.
func VoidTag(name string, attrs []embed.Attr) string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(name)
	writeAttrs(&b, attrs)
	b.WriteByte('>')
	return b.String()
}

func writeAttrs(b *strings.Builder, attrs []embed.Attr) {
	for _, a := range attrs {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Value))
		b.WriteByte('"')
	}
}

// EmbedAttrs converts embed attributes to their data-* form.
func EmbedAttrs(e embed.Embed) []embed.Attr {
	attrs := embed.Encode(e)
	result := make([]embed.Attr, 0, len(attrs))
	for _, a := range attrs {
		result = append(result, embed.Attr{Key: "data-" + a.Key, Value: a.Value})
	}
	return result
}

// DecodeEmbed reads the data-* attributes of an embed element.
func DecodeEmbed(el *html.Node) (embed.Embed, error) {
	var attrs []embed.Attr
	for _, a := range el.Attr {
		if key, ok := strings.CutPrefix(a.Key, "data-"); ok {
			attrs = append(attrs, embed.Attr{Key: key, Value: a.Val})
		}
	}
	return embed.Decode(attrs)
}

// EmbedHTML renders e as an embed element.
func EmbedHTML(e embed.Embed) string {
	return Tag(EmbedTag, EmbedAttrs(e), "")
}
