package document

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Path addresses a node by the child indexes leading to it from the root.
// The empty path is the root.
type Path []int

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Copy returns an independent copy of p.
func (p Path) Copy() Path {
	if p == nil {
		return nil
	}
	c := make(Path, len(p))
	copy(c, p)
	return c
}

// Child returns the path of the index-th child of p.
func (p Path) Child(index int) Path {
	c := make(Path, len(p), len(p)+1)
	copy(c, p)
	return append(c, index)
}

// Parent returns the parent path. It panics on the root path.
func (p Path) Parent() Path {
	if len(p) == 0 {
		panic("document: cannot get the parent of the root path")
	}
	return p[:len(p)-1].Copy()
}

// Index returns the last index of p.
func (p Path) Index() int {
	return p[len(p)-1]
}

// Next returns the path of the following sibling.
func (p Path) Next() Path {
	if len(p) == 0 {
		panic("document: cannot get the next sibling of the root path")
	}
	c := p.Copy()
	c[len(c)-1]++
	return c
}

// Previous returns the path of the preceding sibling.
func (p Path) Previous() (Path, bool) {
	if len(p) == 0 || p[len(p)-1] == 0 {
		return nil, false
	}
	c := p.Copy()
	c[len(c)-1]--
	return c, true
}

// Ancestors returns all ancestor paths from the root down, excluding p.
func (p Path) Ancestors() []Path {
	result := make([]Path, 0, len(p))
	for i := 0; i < len(p); i++ {
		result = append(result, p[:i].Copy())
	}
	return result
}

// Compare returns -1, 0 or 1 comparing p and o in document order.
// Paths where one is an ancestor of the other compare equal.
func (p Path) Compare(o Path) int {
	n := min(len(p), len(o))
	for i := 0; i < n; i++ {
		if p[i] < o[i] {
			return -1
		}
		if p[i] > o[i] {
			return 1
		}
	}
	return 0
}

func (p Path) Equal(o Path) bool {
	return len(p) == len(o) && p.Compare(o) == 0
}

// IsAncestor reports whether p is a strict ancestor of o.
func (p Path) IsAncestor(o Path) bool {
	return len(p) < len(o) && p.Compare(o) == 0
}

// IsDescendant reports whether p is a strict descendant of o.
func (p Path) IsDescendant(o Path) bool {
	return o.IsAncestor(p)
}

// IsBefore reports whether p precedes o in document order without being
// its ancestor.
func (p Path) IsBefore(o Path) bool { return p.Compare(o) == -1 }

// IsAfter reports whether p follows o in document order without being
// its descendant.
func (p Path) IsAfter(o Path) bool { return p.Compare(o) == 1 }

// IsSibling reports whether p and o share a parent and differ.
func (p Path) IsSibling(o Path) bool {
	if len(p) == 0 || len(p) != len(o) {
		return false
	}
	return p[:len(p)-1].Equal(o[:len(o)-1]) && p[len(p)-1] != o[len(o)-1]
}

// EndsBefore reports whether p ends before the branch of o at p's depth,
// i.e. a sibling of p located before it is an ancestor-or-self of o.
func (p Path) EndsBefore(o Path) bool {
	if len(p) == 0 || len(o) < len(p) {
		return false
	}
	i := len(p) - 1
	return p[:i].Equal(o[:i]) && p[i] < o[i]
}

// Affinity decides where a path or point sticks when an operation
// happens exactly at its position.
type Affinity int

const (
	AffinityForward Affinity = iota
	AffinityBackward
)

// Transform rebases p across op. It returns false when the node at p is
// removed by op.
func (p Path) Transform(op Operation, affinity Affinity) (Path, bool) {
	if p == nil {
		return nil, false
	}
	if len(p) == 0 {
		return p, true
	}

	r := p.Copy()
	at := op.Path

	switch op.Type {
	case OpInsertNode:
		if at.Equal(r) || at.EndsBefore(r) || at.IsAncestor(r) {
			r[len(at)-1]++
		}

	case OpRemoveNode:
		if at.Equal(r) || at.IsAncestor(r) {
			return nil, false
		}
		if at.EndsBefore(r) {
			r[len(at)-1]--
		}

	case OpMergeNode:
		if at.Equal(r) || at.EndsBefore(r) {
			r[len(at)-1]--
		} else if at.IsAncestor(r) {
			r[len(at)-1]--
			r[len(at)] += op.Position
		}

	case OpSplitNode:
		if at.Equal(r) {
			if affinity == AffinityForward {
				r[len(r)-1]++
			}
		} else if at.EndsBefore(r) {
			r[len(at)-1]++
		} else if at.IsAncestor(r) && p[len(at)] >= op.Position {
			r[len(at)-1]++
			r[len(at)] -= op.Position
		}

	case OpMoveNode:
		to := op.NewPath
		if at.Equal(to) {
			return r, true
		}
		if at.IsAncestor(r) || at.Equal(r) {
			c := to.Copy()
			if at.EndsBefore(to) && len(at) < len(to) {
				c[len(at)-1]--
			}
			return append(c, r[len(at):]...), true
		}
		if at.IsSibling(to) && (to.IsAncestor(r) || to.Equal(r)) {
			if at.EndsBefore(r) {
				r[len(at)-1]--
			} else {
				r[len(at)-1]++
			}
		} else if to.EndsBefore(r) || to.Equal(r) || to.IsAncestor(r) {
			if at.EndsBefore(r) {
				r[len(at)-1]--
			}
			r[len(to)-1]++
		} else if at.EndsBefore(r) {
			if to.Equal(r) {
				r[len(to)-1]++
			}
			r[len(at)-1]--
		}
	}

	return r, true
}

// ParsePath parses the form produced by Path.String.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, errors.Wrapf(ErrInvalidPath, "parse %q", s)
	}
	s = strings.TrimSpace(s[1 : len(s)-1])
	if s == "" {
		return Path{}, nil
	}
	parts := strings.Split(s, ",")
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		idx, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || idx < 0 {
			return nil, errors.Wrapf(ErrInvalidPath, "parse %q", s)
		}
		p = append(p, idx)
	}
	return p, nil
}
