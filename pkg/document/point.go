package document

// Point is a location inside a text leaf. Offset counts bytes.
type Point struct {
	Path   Path `json:"path"`
	Offset int  `json:"offset"`
}

func (p Point) Equal(o Point) bool {
	return p.Path.Equal(o.Path) && p.Offset == o.Offset
}

// Compare orders points in document order.
func (p Point) Compare(o Point) int {
	if c := p.Path.Compare(o.Path); c != 0 {
		return c
	}
	switch {
	case p.Offset < o.Offset:
		return -1
	case p.Offset > o.Offset:
		return 1
	}
	return 0
}

// Transform rebases p across op. It returns false when the point no
// longer exists.
func (p Point) Transform(op Operation, affinity Affinity) (Point, bool) {
	r := Point{Path: p.Path.Copy(), Offset: p.Offset}

	switch op.Type {
	case OpInsertText:
		if op.Path.Equal(r.Path) && (op.Offset < r.Offset || (op.Offset == r.Offset && affinity == AffinityForward)) {
			r.Offset += len(op.Text)
		}
		return r, true

	case OpRemoveText:
		if op.Path.Equal(r.Path) && op.Offset <= r.Offset {
			r.Offset -= min(r.Offset-op.Offset, len(op.Text))
		}
		return r, true

	case OpMergeNode:
		if op.Path.Equal(r.Path) {
			r.Offset += op.Position
		}

	case OpSplitNode:
		if op.Path.Equal(r.Path) {
			if op.Position < r.Offset || (op.Position == r.Offset && affinity == AffinityForward) {
				r.Offset -= op.Position
				r.Path = r.Path.Next()
			}
			return r, true
		}
	}

	path, ok := r.Path.Transform(op, affinity)
	if !ok {
		return Point{}, false
	}
	r.Path = path
	return r, true
}

// Range is a selection between two points. A collapsed range is a caret.
type Range struct {
	Anchor Point `json:"anchor"`
	Focus  Point `json:"focus"`
}

// Collapsed returns a caret range at p.
func Collapsed(p Point) Range { return Range{Anchor: p, Focus: p} }

func (r Range) IsCollapsed() bool { return r.Anchor.Equal(r.Focus) }

// Edges returns the start and end points in document order.
func (r Range) Edges() (Point, Point) {
	if r.Anchor.Compare(r.Focus) <= 0 {
		return r.Anchor, r.Focus
	}
	return r.Focus, r.Anchor
}

// Transform rebases both points of r. The anchor and focus of a collapsed
// range move together.
func (r Range) Transform(op Operation) (Range, bool) {
	anchor, ok := r.Anchor.Transform(op, AffinityForward)
	if !ok {
		return Range{}, false
	}
	focus, ok := r.Focus.Transform(op, AffinityForward)
	if !ok {
		return Range{}, false
	}
	return Range{Anchor: anchor, Focus: focus}, true
}
