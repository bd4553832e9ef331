package editor

import (
	"go.uber.org/zap"

	"github.com/NDLANO/editorcore/pkg/document"
	"github.com/NDLANO/editorcore/pkg/document/schema"
)

// transformDirty rebases the pending dirty paths across op and adds the
// paths op touched.
func (ed *Editor) transformDirty(op document.Operation) {
	seen := make(map[string]struct{}, len(ed.dirty))
	next := make([]document.Path, 0, len(ed.dirty))
	add := func(p document.Path) {
		key := p.String()
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		next = append(next, p)
	}

	for _, p := range ed.dirty {
		if moved, ok := p.Transform(op, document.AffinityForward); ok {
			add(moved)
		}
	}
	for _, p := range op.AffectedPaths() {
		add(p)
	}
	ed.dirty = next
}

// MarkDirty queues paths for normalization.
func (ed *Editor) MarkDirty(paths ...document.Path) {
	seen := make(map[string]struct{}, len(ed.dirty))
	for _, p := range ed.dirty {
		seen[p.String()] = struct{}{}
	}
	for _, p := range paths {
		if _, ok := seen[p.String()]; !ok {
			ed.dirty = append(ed.dirty, p.Copy())
			seen[p.String()] = struct{}{}
		}
	}
}

// Normalize repairs the dirty paths until none remain. The number of
// repairs is capped at the configured iterations per dirty path; when the
// cap is hit the remaining paths are dropped and a warning is logged.
func (ed *Editor) Normalize() {
	if ed.normalizing {
		return
	}
	ed.normalizing = true
	defer func() { ed.normalizing = false }()

	limit := len(ed.dirty) * ed.maxIterations
	iterations := 0
	for len(ed.dirty) > 0 {
		if iterations > limit {
			ed.logger.Warn("giving up on normalization",
				zap.Error(schema.ErrIterationLimit),
				zap.Int("iterations", iterations),
				zap.Int("pending", len(ed.dirty)),
				zap.Stringer("path", ed.dirty[len(ed.dirty)-1]),
			)
			ed.dirty = nil
			return
		}

		path := ed.dirty[len(ed.dirty)-1]
		ed.dirty = ed.dirty[:len(ed.dirty)-1]

		if n, ok := ed.Node(path); ok {
			ed.normalizeNode(document.Entry{Node: n, Path: path})
		}
		iterations++
	}
}

// ForceNormalize marks every node dirty and normalizes.
func (ed *Editor) ForceNormalize() {
	document.Walk(ed.tree.Root, func(_ document.Node, path document.Path) bool {
		ed.dirty = append(ed.dirty, path.Copy())
		return true
	})
	ed.Normalize()
}

// normalizeNode tries the plugin normalizers in registration order and
// falls back to the structural defaults. The first fix wins.
func (ed *Editor) normalizeNode(entry document.Entry) bool {
	for _, p := range ed.plugins {
		if p.Normalize == nil {
			continue
		}
		if ed.safeNormalize(p, entry) {
			return true
		}
	}
	return ed.defaultNormalize(entry)
}

func (ed *Editor) safeNormalize(p *Plugin, entry document.Entry) (fixed bool) {
	defer func() {
		if r := recover(); r != nil {
			ed.logger.Error("plugin normalizer panicked",
				zap.String("plugin", p.Name), zap.Stringer("path", entry.Path), zap.Any("panic", r))
			fixed = false
		}
	}()
	return p.Normalize(ed, entry)
}

// defaultNormalize keeps elements non-empty, merges adjacent texts with
// the same marks and keeps inline elements surrounded by text.
func (ed *Editor) defaultNormalize(entry document.Entry) bool {
	el := entry.Element()
	if el == nil {
		return false
	}
	path := entry.Path

	if len(el.Children) == 0 {
		return ed.InsertNodes(path.Child(0), document.NewText("")) == nil
	}
	if ed.IsVoid(el) {
		return false
	}

	for i, child := range el.Children {
		switch child := child.(type) {
		case *document.Text:
			if i == 0 {
				continue
			}
			prev, ok := el.Children[i-1].(*document.Text)
			if !ok {
				continue
			}
			if prev.Marks == child.Marks {
				return ed.MergeNodes(path.Child(i)) == nil
			}
			if child.Text == "" {
				return ed.RemoveNodes(path.Child(i)) == nil
			}
			if prev.Text == "" {
				return ed.RemoveNodes(path.Child(i-1)) == nil
			}

		case *document.Element:
			if !ed.inline[child.Type] || len(path) == 0 {
				continue
			}
			if i == 0 || !document.IsText(el.Children[i-1]) {
				return ed.InsertNodes(path.Child(i), document.NewText("")) == nil
			}
			if i == len(el.Children)-1 || !document.IsText(el.Children[i+1]) {
				return ed.InsertNodes(path.Child(i+1), document.NewText("")) == nil
			}
		}
	}
	return false
}
