package identity

import (
	"github.com/NDLANO/editorcore/internal/idgen"
	"github.com/NDLANO/editorcore/pkg/document"
)

// DefaultExcludedTypes are structural separators that are never drag or
// reference targets and therefore never receive ids.
var DefaultExcludedTypes = []document.Type{
	document.TypeSection,
	document.TypeBreak,
}

// Resolver decides which elements carry ids and mints new ones.
type Resolver struct {
	generate idgen.Generator
	excluded map[document.Type]struct{}
	inline   func(document.Type) bool
}

type Option func(*Resolver)

// WithGenerator overrides the id generator. The default is the
// process-wide idgen generator.
func WithGenerator(gen idgen.Generator) Option {
	return func(r *Resolver) {
		r.generate = gen
	}
}

// WithExcludedTypes replaces the set of types that never get ids.
func WithExcludedTypes(types ...document.Type) Option {
	return func(r *Resolver) {
		r.excluded = make(map[document.Type]struct{}, len(types))
		for _, t := range types {
			r.excluded[t] = struct{}{}
		}
	}
}

// WithInline tells the resolver which types are inline. Inline elements
// never get ids.
func WithInline(fn func(document.Type) bool) Option {
	return func(r *Resolver) {
		r.inline = fn
	}
}

func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{}
	WithExcludedTypes(DefaultExcludedTypes...)(r)
	for _, opt := range opts {
		opt(r)
	}
	if r.generate == nil {
		r.generate = idgen.Default()
	}
	if r.inline == nil {
		r.inline = func(document.Type) bool { return false }
	}
	return r
}

// Eligible reports whether el should carry an id.
func (r *Resolver) Eligible(el *document.Element) bool {
	if el == nil || el.Type == document.TypeEditor {
		return false
	}
	if _, ok := r.excluded[el.Type]; ok {
		return false
	}
	return !r.inline(el.Type)
}

// NewID mints a fresh id.
func (r *Resolver) NewID() string {
	return r.generate()
}

// GetID returns the element's id and true if it already has one,
// otherwise a freshly minted id and false. It does not modify el.
func (r *Resolver) GetID(el *document.Element) (string, bool) {
	if el.ID != "" {
		return el.ID, true
	}
	return r.NewID(), false
}

// AssignIDs gives every eligible element without an id a fresh one and
// returns how many were assigned. It is idempotent. When external data
// carries the same id twice, the first occurrence in document order keeps
// it and later ones are re-minted.
func (r *Resolver) AssignIDs(tree *document.Tree) int {
	seen := make(map[string]struct{})
	assigned := 0
	document.Walk(tree.Root, func(n document.Node, _ document.Path) bool {
		el, ok := n.(*document.Element)
		if !ok {
			return false
		}
		if !r.Eligible(el) {
			return true
		}
		if _, dup := seen[el.ID]; el.ID == "" || dup {
			el.ID = r.NewID()
			assigned++
		}
		seen[el.ID] = struct{}{}
		return true
	})
	return assigned
}

// SplitProperties returns the properties for the second half of a split
// of el: a fresh id when el carries ids at all.
func (r *Resolver) SplitProperties(el *document.Element) document.Properties {
	if !r.Eligible(el) {
		return document.Properties{}
	}
	id := r.NewID()
	return document.Properties{ID: &id}
}
