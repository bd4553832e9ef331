package editor

import (
	"strings"

	"go.uber.org/zap"

	"github.com/NDLANO/editorcore/pkg/document"
	"github.com/NDLANO/editorcore/pkg/document/embed"
	"github.com/NDLANO/editorcore/pkg/document/serializer"
)

// Render produces preview markup for the document. Elements are offered
// to the plugin renderers from the last registered to the first; the
// default renderer writes a div tagged with the element's type and id.
func (ed *Editor) Render() string {
	var b strings.Builder
	for i, child := range ed.tree.Children() {
		b.WriteString(ed.renderNode(child, document.Path{i}))
	}
	return b.String()
}

func (ed *Editor) renderNode(n document.Node, path document.Path) string {
	el, ok := n.(*document.Element)
	if !ok {
		return ed.pipeline.SerializeNode(n)
	}

	var b strings.Builder
	for i, child := range el.Children {
		b.WriteString(ed.renderNode(child, path.Child(i)))
	}
	children := b.String()

	for i := len(ed.plugins) - 1; i >= 0; i-- {
		p := ed.plugins[i]
		if p.Render == nil {
			continue
		}
		if s, ok := ed.safeRender(p, el, path, children); ok {
			return s
		}
	}
	return ed.defaultRender(el, children)
}

func (ed *Editor) safeRender(p *Plugin, el *document.Element, path document.Path, children string) (s string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ed.logger.Error("plugin renderer panicked",
				zap.String("plugin", p.Name), zap.Stringer("path", path), zap.Any("panic", r))
			s, ok = "", false
		}
	}()
	return p.Render(ed, el, path, children)
}

// ElementAttrs returns the attributes every rendered element carries.
func (ed *Editor) ElementAttrs(el *document.Element) []embed.Attr {
	attrs := []embed.Attr{{Key: "data-type", Value: string(el.Type)}}
	if el.ID != "" {
		attrs = append(attrs, embed.Attr{Key: "data-id", Value: el.ID})
	}
	if ed.draggable != nil && ed.draggable(el) {
		attrs = append(attrs, embed.Attr{Key: "data-drag-handle", Value: "true"})
	}
	return attrs
}

func (ed *Editor) defaultRender(el *document.Element, children string) string {
	tag := "div"
	if ed.inline[el.Type] {
		tag = "span"
	}
	return serializer.Tag(tag, ed.ElementAttrs(el), children)
}
