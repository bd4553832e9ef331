package plugins

import (
	"github.com/NDLANO/editorcore/pkg/document"
	"github.com/NDLANO/editorcore/pkg/document/editor"
)

// NodeID keeps every eligible block carrying a unique id. New elements
// get one during normalization, the second half of a split gets a fresh
// one as the split is applied, and a duplicate loses its id to the
// element that comes first in the document.
func NodeID() *editor.Plugin {
	return &editor.Plugin{
		Name: "node-id",
		Normalize: func(ed *editor.Editor, entry document.Entry) bool {
			el := entry.Element()
			if el == nil || !ed.Resolver().Eligible(el) {
				return false
			}
			if el.ID != "" {
				first, ok := ed.Tree().FindByID(el.ID)
				if !ok || first.Equal(entry.Path) {
					return false
				}
			}
			id := ed.Resolver().NewID()
			return ed.SetNodes(entry.Path, document.Properties{ID: &id}) == nil
		},
		Hooks: editor.Hooks{
			Apply: func(ed *editor.Editor, next editor.ApplyFunc) editor.ApplyFunc {
				return func(op *document.Operation) error {
					if op.Type == document.OpSplitNode && op.Properties.ID == nil {
						if el, ok := ed.Element(op.Path); ok {
							op.Properties.ID = ed.Resolver().SplitProperties(el).ID
						}
					}
					return next(op)
				}
			},
		},
	}
}
