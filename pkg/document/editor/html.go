package editor

import (
	"github.com/NDLANO/editorcore/pkg/document"
)

// LoadHTML replaces the document with the deserialized src and
// normalizes it completely. The selection is cleared.
func (ed *Editor) LoadHTML(src string) error {
	nodes, err := ed.pipeline.Deserialize(src)
	if err != nil {
		return err
	}
	ed.SetTree(document.NewTree(nodes...))
	return nil
}

// SetTree replaces the document and normalizes it completely.
func (ed *Editor) SetTree(tree *document.Tree) {
	ed.tree = tree
	ed.selection = nil
	ed.dirty = nil
	ed.ForceNormalize()
}

// HTML serializes the document.
func (ed *Editor) HTML() string {
	return ed.pipeline.Serialize(ed.tree.Children())
}

// SerializeInline serializes nodes without a block wrapper, for caption
// and title fields.
func (ed *Editor) SerializeInline(nodes []document.Node) string {
	return ed.pipeline.Serialize(nodes)
}
