package plugins

import (
	"github.com/NDLANO/editorcore/pkg/document"
	"github.com/NDLANO/editorcore/pkg/document/editor"
)

// SingleLine keeps the document to one block of the root node type.
// Enter does nothing; a second block is merged into the first and any
// further blocks are dropped.
func SingleLine(opts Options) *editor.Plugin {
	root := opts.rootNode()
	return &editor.Plugin{
		Name: "single-line",
		Normalize: func(ed *editor.Editor, entry document.Entry) bool {
			if len(entry.Path) != 0 {
				return false
			}
			children := ed.Tree().Children()
			switch {
			case len(children) == 2 && document.IsElement(children[0], root) && document.IsElement(children[1], root):
				return ed.MergeNodes(document.Path{1}) == nil
			case len(children) > 2:
				ed.WithoutNormalizing(func() {
					for i := len(children) - 1; i > 0; i-- {
						_ = ed.RemoveNodes(document.Path{i})
					}
				})
				return true
			}
			return false
		},
		Hooks: editor.Hooks{
			InsertBreak: func(*editor.Editor, editor.InsertBreakFunc) editor.InsertBreakFunc {
				return func() {}
			},
		},
	}
}
