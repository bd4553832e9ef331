package document

import (
	"github.com/pkg/errors"
)

var (
	ErrInvalidPath  = errors.New("invalid path")
	ErrNotElement   = errors.New("node is not an element")
	ErrNotText      = errors.New("node is not a text")
	ErrInvalidMove  = errors.New("cannot move a node into itself")
	ErrInvalidMerge = errors.New("cannot merge nodes of different kinds")
)

// Tree is a document rooted at an element of type TypeEditor whose
// children are the top-level blocks.
type Tree struct {
	Root *Element
}

// NewTree creates a tree holding the given top-level nodes.
func NewTree(children ...Node) *Tree {
	if children == nil {
		children = []Node{}
	}
	return &Tree{Root: &Element{Type: TypeEditor, Children: children}}
}

// Children returns the top-level nodes.
func (t *Tree) Children() []Node { return t.Root.Children }

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() *Tree {
	return &Tree{Root: t.Root.Clone().(*Element)}
}

// Node returns the node at path.
func (t *Tree) Node(path Path) (Node, error) {
	var n Node = t.Root
	for i, idx := range path {
		el, ok := n.(*Element)
		if !ok || idx < 0 || idx >= len(el.Children) {
			return nil, errors.Wrapf(ErrInvalidPath, "no node at %s", path[:i+1])
		}
		n = el.Children[idx]
	}
	return n, nil
}

// Element returns the element at path.
func (t *Tree) Element(path Path) (*Element, error) {
	n, err := t.Node(path)
	if err != nil {
		return nil, err
	}
	el, ok := n.(*Element)
	if !ok {
		return nil, errors.Wrapf(ErrNotElement, "at %s", path)
	}
	return el, nil
}

// Text returns the text leaf at path.
func (t *Tree) Text(path Path) (*Text, error) {
	n, err := t.Node(path)
	if err != nil {
		return nil, err
	}
	txt, ok := n.(*Text)
	if !ok {
		return nil, errors.Wrapf(ErrNotText, "at %s", path)
	}
	return txt, nil
}

// Has reports whether a node exists at path.
func (t *Tree) Has(path Path) bool {
	_, err := t.Node(path)
	return err == nil
}

// FindByID returns the path of the first element carrying id.
func (t *Tree) FindByID(id string) (Path, bool) {
	if id == "" {
		return nil, false
	}
	var found Path
	Walk(t.Root, func(n Node, path Path) bool {
		if found != nil {
			return false
		}
		if el, ok := n.(*Element); ok && el.ID == id {
			found = path.Copy()
			return false
		}
		return true
	})
	return found, found != nil
}

// Entries returns every node below the root in document order.
func (t *Tree) Entries() []Entry {
	var result []Entry
	Walk(t.Root, func(n Node, path Path) bool {
		if len(path) > 0 {
			result = append(result, Entry{Node: n, Path: path.Copy()})
		}
		return true
	})
	return result
}

// Apply performs op on the tree. A remove_node operation records the
// removed node in op.Node.
func (t *Tree) Apply(op *Operation) error {
	switch op.Type {
	case OpInsertNode:
		return t.insertNode(op.Path, op.Node)

	case OpRemoveNode:
		n, err := t.removeNode(op.Path)
		if err != nil {
			return err
		}
		op.Node = n
		return nil

	case OpMoveNode:
		return t.moveNode(*op)

	case OpSetNode:
		return t.setNode(op.Path, op.Properties)

	case OpSplitNode:
		return t.splitNode(op.Path, op.Position, op.Properties)

	case OpMergeNode:
		return t.mergeNode(op)

	case OpInsertText:
		txt, err := t.Text(op.Path)
		if err != nil {
			return err
		}
		if op.Offset < 0 || op.Offset > len(txt.Text) {
			return errors.Wrapf(ErrInvalidPath, "offset %d out of range at %s", op.Offset, op.Path)
		}
		txt.Text = txt.Text[:op.Offset] + op.Text + txt.Text[op.Offset:]
		return nil

	case OpRemoveText:
		txt, err := t.Text(op.Path)
		if err != nil {
			return err
		}
		end := op.Offset + len(op.Text)
		if op.Offset < 0 || end > len(txt.Text) {
			return errors.Wrapf(ErrInvalidPath, "range %d:%d out of range at %s", op.Offset, end, op.Path)
		}
		txt.Text = txt.Text[:op.Offset] + txt.Text[end:]
		return nil
	}

	return errors.Errorf("unknown operation %q", op.Type)
}

func (t *Tree) parentOf(path Path) (*Element, int, error) {
	if len(path) == 0 {
		return nil, 0, errors.Wrap(ErrInvalidPath, "the root has no parent")
	}
	parent, err := t.Element(path.Parent())
	if err != nil {
		return nil, 0, err
	}
	return parent, path.Index(), nil
}

func (t *Tree) insertNode(path Path, n Node) error {
	if n == nil {
		return errors.New("cannot insert a nil node")
	}
	parent, idx, err := t.parentOf(path)
	if err != nil {
		return err
	}
	if idx < 0 || idx > len(parent.Children) {
		return errors.Wrapf(ErrInvalidPath, "cannot insert at %s", path)
	}
	parent.Children = append(parent.Children, nil)
	copy(parent.Children[idx+1:], parent.Children[idx:])
	parent.Children[idx] = n
	return nil
}

func (t *Tree) removeNode(path Path) (Node, error) {
	parent, idx, err := t.parentOf(path)
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(parent.Children) {
		return nil, errors.Wrapf(ErrInvalidPath, "cannot remove at %s", path)
	}
	n := parent.Children[idx]
	parent.Children = append(parent.Children[:idx], parent.Children[idx+1:]...)
	return n, nil
}

func (t *Tree) moveNode(op Operation) error {
	if op.Path.Equal(op.NewPath) {
		return nil
	}
	if len(op.Path) == 0 || len(op.NewPath) == 0 {
		return errors.Wrap(ErrInvalidPath, "cannot move the root")
	}
	if op.Path.IsAncestor(op.NewPath) {
		return errors.Wrapf(ErrInvalidMove, "%s into %s", op.Path, op.NewPath)
	}

	n, err := t.removeNode(op.Path)
	if err != nil {
		return err
	}

	truePath, _ := op.Path.Transform(op, AffinityForward)
	if err := t.insertNode(truePath, n); err != nil {
		// Put the node back to keep the tree intact.
		_ = t.insertNode(op.Path, n)
		return err
	}
	return nil
}

func (t *Tree) setNode(path Path, props Properties) error {
	n, err := t.Node(path)
	if err != nil {
		return err
	}
	switch n := n.(type) {
	case *Element:
		if props.Type != nil {
			n.Type = *props.Type
		}
		if props.ID != nil {
			n.ID = *props.ID
		}
		if props.SetData {
			n.Data = props.Data
		}
		if props.FirstEdit != nil {
			n.FirstEdit = *props.FirstEdit
		}
	case *Text:
		if props.Marks != nil {
			n.Marks = *props.Marks
		}
	}
	return nil
}

func (t *Tree) splitNode(path Path, position int, props Properties) error {
	parent, idx, err := t.parentOf(path)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(parent.Children) {
		return errors.Wrapf(ErrInvalidPath, "cannot split at %s", path)
	}

	var next Node
	switch n := parent.Children[idx].(type) {
	case *Text:
		if position < 0 || position > len(n.Text) {
			return errors.Wrapf(ErrInvalidPath, "split offset %d out of range at %s", position, path)
		}
		after := &Text{Text: n.Text[position:], Marks: n.Marks}
		if props.Marks != nil {
			after.Marks = *props.Marks
		}
		n.Text = n.Text[:position]
		next = after
	case *Element:
		if position < 0 || position > len(n.Children) {
			return errors.Wrapf(ErrInvalidPath, "split index %d out of range at %s", position, path)
		}
		// The second half is a new node: it never inherits the id.
		after := &Element{Type: n.Type, Data: n.Data, FirstEdit: n.FirstEdit}
		after.Children = append([]Node{}, n.Children[position:]...)
		n.Children = append([]Node{}, n.Children[:position]...)
		if props.Type != nil {
			after.Type = *props.Type
		}
		if props.ID != nil {
			after.ID = *props.ID
		}
		if props.SetData {
			after.Data = props.Data
		}
		next = after
	}

	return t.insertNode(path.Next(), next)
}

func (t *Tree) mergeNode(op *Operation) error {
	prevPath, ok := op.Path.Previous()
	if !ok {
		return errors.Wrapf(ErrInvalidPath, "no previous sibling to merge %s into", op.Path)
	}
	prev, err := t.Node(prevPath)
	if err != nil {
		return err
	}
	n, err := t.Node(op.Path)
	if err != nil {
		return err
	}

	switch prev := prev.(type) {
	case *Text:
		txt, ok := n.(*Text)
		if !ok {
			return errors.Wrapf(ErrInvalidMerge, "at %s", op.Path)
		}
		op.Position = len(prev.Text)
		prev.Text += txt.Text
	case *Element:
		el, ok := n.(*Element)
		if !ok {
			return errors.Wrapf(ErrInvalidMerge, "at %s", op.Path)
		}
		op.Position = len(prev.Children)
		prev.Children = append(prev.Children, el.Children...)
	}

	removed, err := t.removeNode(op.Path)
	if err != nil {
		return err
	}
	op.Node = removed
	return nil
}
