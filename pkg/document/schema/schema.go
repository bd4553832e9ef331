// Package schema describes which children an element type accepts and
// repairs trees that violate those rules.
package schema

import (
	"slices"

	"github.com/NDLANO/editorcore/pkg/document"
)

// Editor is what rules need from the editor to inspect and repair a tree.
// Every mutation goes through the editor so that it is recorded and
// re-normalized.
type Editor interface {
	Node(path document.Path) (document.Node, bool)
	// IsInline reports whether n is a text leaf or an inline element.
	IsInline(n document.Node) bool
	IsVoid(n document.Node) bool

	WrapNodes(parent document.Path, from, to int, wrapper *document.Element) error
	UnwrapNodes(path document.Path) error
	RemoveNodes(path document.Path) error
	InsertNodes(path document.Path, nodes ...document.Node) error
	MergeNodes(path document.Path) error
	SetNodes(path document.Path, props document.Properties) error
}

// Action is what happens to a child whose type is not allowed.
type Action int

const (
	// ActionWrap wraps the child in an element of the rule's DefaultType.
	ActionWrap Action = iota
	// ActionUnwrap replaces the child with its own children.
	ActionUnwrap
	// ActionRemove drops the child.
	ActionRemove
)

// Rule constrains one element type.
type Rule struct {
	Type document.Type

	// AllowedChildren lists the block types accepted as children. Nil
	// accepts any block; an empty, non-nil slice accepts none.
	AllowedChildren []document.Type
	// AllowText accepts text leaves and inline elements as children.
	AllowText bool
	// DefaultType wraps runs of text and inline nodes when AllowText is
	// false, and disallowed blocks when InvalidChild is ActionWrap.
	DefaultType document.Type
	// InvalidChild handles disallowed block children.
	InvalidChild Action

	// Parents lists the types this element may live in. Nil accepts any.
	Parents []document.Type
	// ParentDefault wraps the element when its parent is not allowed.
	// When empty, the element is unwrapped instead.
	ParentDefault document.Type

	// RemoveEmpty drops the element when it has no element children and
	// no text, which is what an empty container in the source HTML
	// deserializes to.
	RemoveEmpty bool
}

func (r Rule) allowsBlock(t document.Type) bool {
	return r.AllowedChildren == nil || slices.Contains(r.AllowedChildren, t)
}

// Normalize applies at most one fix to the element at entry and reports
// whether it did. Callers re-run it until it returns false.
func (r Rule) Normalize(ed Editor, entry document.Entry) bool {
	el := entry.Element()
	if el == nil || el.Type != r.Type {
		return false
	}
	path := entry.Path

	if r.Parents != nil && len(path) > 0 {
		if parent, ok := ed.Node(path.Parent()); ok {
			parentType := parent.(*document.Element).Type
			if !slices.Contains(r.Parents, parentType) {
				if r.ParentDefault != "" {
					return ed.WrapNodes(path.Parent(), path.Index(), path.Index()+1, document.NewElement(r.ParentDefault)) == nil
				}
				return ed.UnwrapNodes(path) == nil
			}
		}
	}

	if r.RemoveEmpty && !hasContent(el) {
		return ed.RemoveNodes(path) == nil
	}

	if ed.IsVoid(el) {
		return false
	}

	for i := 0; i < len(el.Children); i++ {
		child := el.Children[i]
		childPath := path.Child(i)

		if ed.IsInline(child) {
			if r.AllowText {
				continue
			}
			if _, ok := child.(*document.Text); ok && isBlank(child) && hasBlockSibling(ed, el) {
				return ed.RemoveNodes(childPath) == nil
			}
			end := i + 1
			for end < len(el.Children) && ed.IsInline(el.Children[end]) {
				end++
			}
			wrapper := r.DefaultType
			if wrapper == "" {
				wrapper = document.TypeParagraph
			}
			return ed.WrapNodes(path, i, end, document.NewElement(wrapper)) == nil
		}

		childEl := child.(*document.Element)
		if r.allowsBlock(childEl.Type) && !r.AllowText {
			continue
		}
		if r.AllowText && r.AllowedChildren != nil && slices.Contains(r.AllowedChildren, childEl.Type) {
			continue
		}

		action := r.InvalidChild
		if r.AllowText || (action == ActionWrap && (r.DefaultType == "" || r.DefaultType == childEl.Type)) {
			action = ActionUnwrap
		}
		switch action {
		case ActionWrap:
			end := i + 1
			for end < len(el.Children) && r.wraps(ed, el.Children[end]) {
				end++
			}
			return ed.WrapNodes(path, i, end, document.NewElement(r.DefaultType)) == nil
		case ActionUnwrap:
			return ed.UnwrapNodes(childPath) == nil
		case ActionRemove:
			return ed.RemoveNodes(childPath) == nil
		}
	}

	return false
}

// wraps reports whether child is a block this rule wraps in DefaultType.
func (r Rule) wraps(ed Editor, child document.Node) bool {
	el, ok := child.(*document.Element)
	if !ok || ed.IsInline(el) {
		return false
	}
	return !r.allowsBlock(el.Type) && el.Type != r.DefaultType
}

func isBlank(n document.Node) bool {
	t, ok := n.(*document.Text)
	return ok && t.Text == ""
}

func hasBlockSibling(ed Editor, el *document.Element) bool {
	for _, child := range el.Children {
		if !ed.IsInline(child) {
			return true
		}
	}
	return false
}

func hasContent(el *document.Element) bool {
	for _, child := range el.Children {
		switch child := child.(type) {
		case *document.Text:
			if child.Text != "" {
				return true
			}
		case *document.Element:
			return true
		}
	}
	return false
}

// Rules indexes rules by element type.
type Rules map[document.Type]Rule

// NewRules builds an index; a later rule for the same type replaces an
// earlier one.
func NewRules(rules ...Rule) Rules {
	result := make(Rules, len(rules))
	for _, r := range rules {
		result[r.Type] = r
	}
	return result
}

// Normalize applies the rule registered for the entry's type, if any.
func (rs Rules) Normalize(ed Editor, entry document.Entry) bool {
	el := entry.Element()
	if el == nil {
		return false
	}
	rule, ok := rs[el.Type]
	if !ok {
		return false
	}
	return rule.Normalize(ed, entry)
}
