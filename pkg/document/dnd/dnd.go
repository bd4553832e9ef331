// Package dnd reorders blocks by drag and drop: it resolves pointer
// geometry to a drop zone, checks the drop against the legal-children
// rules and moves the node on the editor's next flush.
package dnd

import (
	"slices"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/NDLANO/editorcore/pkg/document"
	"github.com/NDLANO/editorcore/pkg/document/editor"
)

var (
	ErrIllegalDrop  = errors.New("drop not allowed here")
	ErrIntoItself   = errors.New("cannot drop a node into itself")
	ErrNotDraggable = errors.New("element is not draggable")
)

// Options configure which elements can be dragged and where they may go.
type Options struct {
	// DisabledElements never get a drag handle.
	DisabledElements []document.Type `yaml:"disabledElements"`
	// LegalChildren restricts the child types droppable into a parent
	// type. An empty list accepts nothing; a missing entry accepts all.
	LegalChildren map[document.Type][]document.Type `yaml:"legalChildren"`
}

// Draggable reports whether el gets a drag handle.
func (o Options) Draggable(el *document.Element) bool {
	return el != nil && el.ID != "" && !slices.Contains(o.DisabledElements, el.Type)
}

// Legal reports whether child may be dropped into parent.
func (o Options) Legal(parent, child document.Type) bool {
	allowed, ok := o.LegalChildren[parent]
	if !ok {
		return true
	}
	return slices.Contains(allowed, child)
}

// DestinationPath returns the move destination for dropping the node at
// source on the given side of the node at target. The result is a move
// operation's new path.
func DestinationPath(source, target document.Path, position Position) (document.Path, error) {
	if len(source) == 0 || len(target) == 0 {
		return nil, errors.Wrap(document.ErrInvalidPath, "cannot drag the root")
	}
	if source.Equal(target) || source.IsAncestor(target) {
		return nil, errors.Wrapf(ErrIntoItself, "%s onto %s", source, target)
	}

	forward := source.IsSibling(target) && source.Index() < target.Index()
	switch position {
	case PositionBottom:
		if forward {
			return target.Copy(), nil
		}
		return target.Next(), nil
	default:
		if forward {
			prev, _ := target.Previous()
			return prev, nil
		}
		return target.Copy(), nil
	}
}

// CheckDrop validates dropping the element with activeID on overID and
// returns the source path and move destination.
func CheckDrop(ed *editor.Editor, opts Options, activeID, overID string, position Position) (document.Path, document.Path, error) {
	tree := ed.Tree()
	source, ok := tree.FindByID(activeID)
	if !ok {
		return nil, nil, errors.Wrapf(document.ErrInvalidPath, "no element %q", activeID)
	}
	target, ok := tree.FindByID(overID)
	if !ok {
		return nil, nil, errors.Wrapf(document.ErrInvalidPath, "no element %q", overID)
	}

	active, _ := ed.Element(source)
	if !opts.Draggable(active) {
		return nil, nil, errors.Wrapf(ErrNotDraggable, "%q", active.Type)
	}

	dest, err := DestinationPath(source, target, position)
	if err != nil {
		return nil, nil, err
	}

	parent, _ := ed.Element(target.Parent())
	if !opts.Legal(parent.Type, active.Type) {
		return nil, nil, errors.Wrapf(ErrIllegalDrop, "%q into %q", active.Type, parent.Type)
	}
	return source, dest, nil
}

// AcceptedTypes returns the types droppable next to the element with
// overID, or nil when any type is accepted.
func AcceptedTypes(ed *editor.Editor, opts Options, overID string) []document.Type {
	target, ok := ed.Tree().FindByID(overID)
	if !ok || len(target) == 0 {
		return nil
	}
	parent, _ := ed.Element(target.Parent())
	allowed, ok := opts.LegalChildren[parent.Type]
	if !ok {
		return nil
	}
	return append([]document.Type{}, allowed...)
}

// Move drops the element with activeID on overID immediately and forces
// a full normalization. Illegal drops leave the tree unchanged.
func Move(ed *editor.Editor, opts Options, activeID, overID string, position Position) error {
	source, dest, err := CheckDrop(ed, opts, activeID, overID, position)
	if err != nil {
		return err
	}
	if source.Equal(dest) {
		return nil
	}
	if err := ed.MoveNodes(source, dest); err != nil {
		return err
	}
	ed.ForceNormalize()
	ed.Logger().Debug("moved element", zap.String("id", activeID), zap.Stringer("from", source), zap.Stringer("to", dest))
	return nil
}
