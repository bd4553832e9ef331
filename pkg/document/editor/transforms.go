package editor

import (
	"unicode/utf8"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/NDLANO/editorcore/pkg/document"
)

// InsertNodes inserts nodes starting at path.
func (ed *Editor) InsertNodes(path document.Path, nodes ...document.Node) error {
	var err error
	ed.WithoutNormalizing(func() {
		at := path.Copy()
		for _, n := range nodes {
			if err = ed.Apply(document.InsertNodeOp(at, n)); err != nil {
				return
			}
			at = at.Next()
		}
	})
	return err
}

func (ed *Editor) RemoveNodes(path document.Path) error {
	return ed.Apply(document.RemoveNodeOp(path))
}

// MoveNodes moves the node at from to to, where to is interpreted like
// the new path of a move operation.
func (ed *Editor) MoveNodes(from, to document.Path) error {
	if from.Equal(to) {
		return nil
	}
	return ed.Apply(document.MoveNodeOp(from, to))
}

func (ed *Editor) SetNodes(path document.Path, props document.Properties) error {
	if props.IsZero() {
		return nil
	}
	return ed.Apply(document.SetNodeOp(path, props))
}

// MergeNodes merges the node at path into its previous sibling.
func (ed *Editor) MergeNodes(path document.Path) error {
	prevPath, ok := path.Previous()
	if !ok {
		return errors.Wrapf(document.ErrInvalidPath, "nothing to merge %s into", path)
	}
	prev, err := ed.tree.Node(prevPath)
	if err != nil {
		return err
	}
	position := 0
	switch prev := prev.(type) {
	case *document.Text:
		position = len(prev.Text)
	case *document.Element:
		position = len(prev.Children)
	}
	return ed.Apply(document.MergeNodeOp(path, position))
}

// WrapNodes wraps the children of parent in [from, to) with a copy of
// wrapper. The wrapper's own children are discarded.
func (ed *Editor) WrapNodes(parent document.Path, from, to int, wrapper *document.Element) error {
	if from < 0 || to <= from {
		return errors.Wrapf(document.ErrInvalidPath, "empty wrap range %d:%d at %s", from, to, parent)
	}
	shell := &document.Element{Type: wrapper.Type, Data: wrapper.Data, Children: []document.Node{}}

	var err error
	ed.WithoutNormalizing(func() {
		if err = ed.Apply(document.InsertNodeOp(parent.Child(from), shell)); err != nil {
			return
		}
		wrapperPath := parent.Child(from)
		for i := 0; i < to-from; i++ {
			if err = ed.Apply(document.MoveNodeOp(parent.Child(from+1), wrapperPath.Child(i))); err != nil {
				return
			}
		}
	})
	return err
}

// UnwrapNodes replaces the element at path with its children.
func (ed *Editor) UnwrapNodes(path document.Path) error {
	el, err := ed.tree.Element(path)
	if err != nil {
		return err
	}
	n := len(el.Children)

	ed.WithoutNormalizing(func() {
		at := path.Copy()
		for i := 0; i < n; i++ {
			if err = ed.Apply(document.MoveNodeOp(at.Child(0), at)); err != nil {
				return
			}
			at = at.Next()
		}
		err = ed.Apply(document.RemoveNodeOp(at))
	})
	return err
}

// LiftNodes moves the node at path out of its parent, splitting the
// parent when the node sits between siblings. A parent left empty is
// removed. It returns the node's new path.
func (ed *Editor) LiftNodes(path document.Path) (document.Path, error) {
	if len(path) < 2 {
		return nil, errors.Wrapf(document.ErrInvalidPath, "cannot lift top-level node %s", path)
	}
	parentPath := path.Parent()
	parent, err := ed.tree.Element(parentPath)
	if err != nil {
		return nil, err
	}
	index := path.Index()
	length := len(parent.Children)

	var lifted document.Path
	ed.WithoutNormalizing(func() {
		switch {
		case length == 1:
			if err = ed.Apply(document.MoveNodeOp(path, parentPath.Next())); err != nil {
				return
			}
			err = ed.Apply(document.RemoveNodeOp(parentPath))
			lifted = parentPath
		case index == 0:
			err = ed.Apply(document.MoveNodeOp(path, parentPath))
			lifted = parentPath
		case index == length-1:
			err = ed.Apply(document.MoveNodeOp(path, parentPath.Next()))
			lifted = parentPath.Next()
		default:
			if err = ed.Apply(document.SplitNodeOp(parentPath, index+1, document.Properties{})); err != nil {
				return
			}
			err = ed.Apply(document.MoveNodeOp(path, parentPath.Next()))
			lifted = parentPath.Next()
		}
	})
	if err != nil {
		return nil, err
	}
	return lifted, nil
}

// SplitNodes splits the text at point and every ancestor below depth.
// SplitNodes(p, 1) splits up to and including the top-level block.
func (ed *Editor) SplitNodes(at document.Point, depth int) error {
	if depth < 1 || depth > len(at.Path) {
		return errors.Wrapf(document.ErrInvalidPath, "split depth %d at %s", depth, at.Path)
	}
	var err error
	ed.WithoutNormalizing(func() {
		path := at.Path.Copy()
		position := at.Offset
		for len(path) >= depth {
			if err = ed.Apply(document.SplitNodeOp(path, position, document.Properties{})); err != nil {
				return
			}
			position = path.Index() + 1
			path = path.Parent()
		}
	})
	return err
}

// InsertTextAt inserts text at point.
func (ed *Editor) InsertTextAt(at document.Point, text string) error {
	if text == "" {
		return nil
	}
	return ed.Apply(document.InsertTextOp(at.Path, at.Offset, text))
}

// RemoveText removes n bytes of text at point.
func (ed *Editor) RemoveText(at document.Point, n int) error {
	txt, err := ed.tree.Text(at.Path)
	if err != nil {
		return err
	}
	end := at.Offset + n
	if at.Offset < 0 || end > len(txt.Text) {
		return errors.Wrapf(document.ErrInvalidPath, "remove %d:%d at %s", at.Offset, end, at.Path)
	}
	if n == 0 {
		return nil
	}
	return ed.Apply(document.RemoveTextOp(at.Path, at.Offset, txt.Text[at.Offset:end]))
}

// BlockAbove returns the lowest non-inline element containing path.
func (ed *Editor) BlockAbove(path document.Path) (document.Entry, bool) {
	for p := path.Copy(); len(p) > 0; p = p.Parent() {
		n, ok := ed.Node(p)
		if !ok {
			return document.Entry{}, false
		}
		if ed.IsBlock(n) {
			return document.Entry{Node: n, Path: p}, true
		}
	}
	return document.Entry{}, false
}

// Above returns the lowest ancestor of path, or the node itself, whose
// type is one of types.
func (ed *Editor) Above(path document.Path, types ...document.Type) (document.Entry, bool) {
	for p := path.Copy(); len(p) > 0; p = p.Parent() {
		n, ok := ed.Node(p)
		if !ok {
			return document.Entry{}, false
		}
		if document.IsElement(n, types...) {
			return document.Entry{Node: n, Path: p}, true
		}
	}
	return document.Entry{}, false
}

// texts returns the text leaves under path in document order.
func (ed *Editor) texts(path document.Path) []document.Entry {
	n, ok := ed.Node(path)
	if !ok {
		return nil
	}
	var result []document.Entry
	document.Walk(n, func(n document.Node, rel document.Path) bool {
		if document.IsText(n) {
			result = append(result, document.Entry{Node: n, Path: append(path.Copy(), rel...)})
		}
		return true
	})
	return result
}

// IsStart reports whether point is at the very start of the node at path.
func (ed *Editor) IsStart(point document.Point, path document.Path) bool {
	texts := ed.texts(path)
	return len(texts) > 0 && point.Offset == 0 && texts[0].Path.Equal(point.Path)
}

// IsEnd reports whether point is at the very end of the node at path.
func (ed *Editor) IsEnd(point document.Point, path document.Path) bool {
	texts := ed.texts(path)
	if len(texts) == 0 {
		return false
	}
	last := texts[len(texts)-1]
	return last.Path.Equal(point.Path) && point.Offset == len(last.Node.(*document.Text).Text)
}

// Start returns the first point inside the node at path.
func (ed *Editor) Start(path document.Path) (document.Point, bool) {
	texts := ed.texts(path)
	if len(texts) == 0 {
		return document.Point{}, false
	}
	return document.Point{Path: texts[0].Path, Offset: 0}, true
}

// End returns the last point inside the node at path.
func (ed *Editor) End(path document.Path) (document.Point, bool) {
	texts := ed.texts(path)
	if len(texts) == 0 {
		return document.Point{}, false
	}
	last := texts[len(texts)-1]
	return document.Point{Path: last.Path, Offset: len(last.Node.(*document.Text).Text)}, true
}

// DeleteFragment removes the content of an expanded selection and
// collapses it to its start. Ranges spanning sibling blocks merge the
// last block into the first; other ranges only collapse.
func (ed *Editor) DeleteFragment() {
	if ed.selection == nil || ed.selection.IsCollapsed() {
		return
	}
	start, end := ed.selection.Edges()

	startBlock, ok1 := ed.BlockAbove(start.Path)
	endBlock, ok2 := ed.BlockAbove(end.Path)
	if !ok1 || !ok2 {
		ed.SelectPoint(start)
		return
	}

	sameBlock := startBlock.Path.Equal(endBlock.Path)
	if !sameBlock && !startBlock.Path.IsSibling(endBlock.Path) {
		ed.SelectPoint(start)
		return
	}

	ed.WithoutNormalizing(func() {
		if start.Path.Equal(end.Path) {
			_ = ed.RemoveText(start, end.Offset-start.Offset)
			return
		}

		// Trim the tail of the start text and the head of the end text,
		// then drop every leaf or block strictly between them.
		if startText, err := ed.tree.Text(start.Path); err == nil {
			_ = ed.RemoveText(start, len(startText.Text)-start.Offset)
		}
		_ = ed.RemoveText(document.Point{Path: end.Path, Offset: 0}, end.Offset)

		if sameBlock {
			ed.removeBetween(start.Path, end.Path)
			return
		}

		for i := endBlock.Path.Index() - 1; i > startBlock.Path.Index(); i-- {
			_ = ed.RemoveNodes(startBlock.Path.Parent().Child(i))
		}
		ed.removeAfter(start.Path, startBlock.Path)
		next := startBlock.Path.Next()
		ed.removeBefore(next, end.Path, endBlock.Path)
		_ = ed.MergeNodes(next)
	})
	ed.SelectPoint(start)
}

// removeBetween removes the siblings strictly between two leaves sharing
// a parent.
func (ed *Editor) removeBetween(from, to document.Path) {
	if !from.IsSibling(to) {
		return
	}
	for i := to.Index() - 1; i > from.Index(); i-- {
		_ = ed.RemoveNodes(from.Parent().Child(i))
	}
}

func (ed *Editor) removeAfter(leaf, block document.Path) {
	if !leaf.Parent().Equal(block) {
		return
	}
	el, ok := ed.Element(block)
	if !ok {
		return
	}
	for i := len(el.Children) - 1; i > leaf.Index(); i-- {
		_ = ed.RemoveNodes(block.Child(i))
	}
}

func (ed *Editor) removeBefore(block, leaf, origBlock document.Path) {
	if !leaf.Parent().Equal(origBlock) {
		return
	}
	for i := leaf.Index() - 1; i >= 0; i-- {
		_ = ed.RemoveNodes(block.Child(i))
	}
}

// InsertBreak runs the composed Enter behavior.
func (ed *Editor) InsertBreak() {
	defer ed.recoverEdit("insert_break")
	ed.insertBreak()
}

// DeleteBackward runs the composed Backspace behavior.
func (ed *Editor) DeleteBackward() {
	defer ed.recoverEdit("delete_backward")
	ed.deleteBackward()
}

// InsertText runs the composed typing behavior.
func (ed *Editor) InsertText(text string) {
	defer ed.recoverEdit("insert_text")
	ed.insertText(text)
}

func (ed *Editor) recoverEdit(name string) {
	if r := recover(); r != nil {
		ed.logger.Error("plugin panicked, edit dropped", zap.String("edit", name), zap.Any("panic", r))
	}
}

// defaultInsertBreak splits the lowest block at the caret.
func (ed *Editor) defaultInsertBreak() {
	if ed.selection == nil {
		return
	}
	ed.DeleteFragment()
	point := ed.selection.Anchor
	block, ok := ed.BlockAbove(point.Path)
	if !ok || ed.IsVoid(block.Node) {
		return
	}
	if err := ed.SplitNodes(point, len(block.Path)); err != nil {
		ed.logger.Debug("insert break dropped", zap.Error(err))
	}
}

func (ed *Editor) defaultInsertText(text string) {
	if ed.selection == nil {
		return
	}
	ed.DeleteFragment()
	point := ed.selection.Anchor
	if _, err := ed.tree.Text(point.Path); err != nil {
		return
	}
	_ = ed.InsertTextAt(point, text)
}

// defaultDeleteBackward removes the character before the caret. At the
// start of a block it merges the block into the previous one, or removes
// a void or empty previous block.
func (ed *Editor) defaultDeleteBackward() {
	if ed.selection == nil {
		return
	}
	if !ed.selection.IsCollapsed() {
		ed.DeleteFragment()
		return
	}
	point := ed.selection.Anchor

	if point.Offset > 0 {
		txt, err := ed.tree.Text(point.Path)
		if err != nil {
			return
		}
		_, size := utf8.DecodeLastRuneInString(txt.Text[:point.Offset])
		_ = ed.RemoveText(document.Point{Path: point.Path, Offset: point.Offset - size}, size)
		return
	}

	block, ok := ed.BlockAbove(point.Path)
	if !ok {
		return
	}

	if !ed.IsStart(point, block.Path) {
		ed.deleteInsideBlock(point, block)
		return
	}

	prevPath, ok := block.Path.Previous()
	if !ok {
		return
	}
	prev, _ := ed.Node(prevPath)
	if ed.IsVoid(prev) {
		_ = ed.RemoveNodes(prevPath)
		return
	}

	target, ok := ed.lastTextBlock(prevPath)
	if !ok {
		return
	}
	ed.WithoutNormalizing(func() {
		if document.IsEmpty(target.Node.(*document.Element)) {
			_ = ed.RemoveNodes(target.Path)
			return
		}
		if target.Path.Equal(prevPath) {
			_ = ed.MergeNodes(block.Path)
			return
		}
		if err := ed.MoveNodes(block.Path, target.Path.Next()); err != nil {
			return
		}
		_ = ed.MergeNodes(target.Path.Next())
	})
}

// deleteInsideBlock handles Backspace at the start of a leaf that is not
// the first in its block.
func (ed *Editor) deleteInsideBlock(point document.Point, block document.Entry) {
	var prev *document.Entry
	for _, entry := range ed.texts(block.Path) {
		if entry.Path.Equal(point.Path) {
			break
		}
		e := entry
		prev = &e
	}
	if prev == nil {
		return
	}

	// A void inline between the leaves is removed as a whole.
	for p := point.Path; len(p) > len(block.Path); p = p.Parent() {
		if prevSibling, ok := p.Previous(); ok {
			if n, ok := ed.Node(prevSibling); ok && ed.IsVoid(n) {
				_ = ed.RemoveNodes(prevSibling)
				return
			}
			break
		}
	}

	txt := prev.Node.(*document.Text)
	if txt.Text == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(txt.Text)
	caret := document.Point{Path: prev.Path, Offset: len(txt.Text) - size}
	ed.WithoutNormalizing(func() {
		ed.SelectPoint(caret)
		_ = ed.RemoveText(caret, size)
	})
}

// lastTextBlock returns the last block at or below path whose children
// are inline content.
func (ed *Editor) lastTextBlock(path document.Path) (document.Entry, bool) {
	n, ok := ed.Node(path)
	if !ok {
		return document.Entry{}, false
	}
	el, ok := n.(*document.Element)
	if !ok || ed.IsVoid(el) {
		return document.Entry{}, false
	}
	if len(el.Children) == 0 || ed.IsInline(el.Children[0]) {
		return document.Entry{Node: el, Path: path}, true
	}
	for i := len(el.Children) - 1; i >= 0; i-- {
		if entry, ok := ed.lastTextBlock(path.Child(i)); ok {
			return entry, true
		}
	}
	return document.Entry{}, false
}
