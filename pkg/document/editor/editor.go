// Package editor composes plugins into an editing session over a
// document tree. All mutation goes through Apply so that the selection
// and the set of paths awaiting normalization follow every operation.
package editor

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/NDLANO/editorcore/internal/idgen"
	"github.com/NDLANO/editorcore/pkg/document"
	"github.com/NDLANO/editorcore/pkg/document/identity"
	"github.com/NDLANO/editorcore/pkg/document/schema"
	"github.com/NDLANO/editorcore/pkg/document/serializer"
)

// DefaultMaxIterations bounds normalization per dirty path.
const DefaultMaxIterations = schema.DefaultMaxIterations

type Editor struct {
	tree      *document.Tree
	selection *document.Range

	plugins []*Plugin
	inline  map[document.Type]bool
	void    map[document.Type]bool

	insertBreak    InsertBreakFunc
	deleteBackward DeleteBackwardFunc
	insertText     InsertTextFunc
	apply          ApplyFunc

	pipeline *serializer.Pipeline
	resolver *identity.Resolver

	dirty         []document.Path
	normalizing   bool
	suppress      int
	maxIterations int

	queue []func()

	draggable func(*document.Element) bool

	logger   *zap.Logger
	generate idgen.Generator
}

type Option func(*Editor)

func WithLogger(logger *zap.Logger) Option {
	return func(ed *Editor) {
		ed.logger = logger
	}
}

// WithGenerator sets the id generator used for new and split elements.
func WithGenerator(gen idgen.Generator) Option {
	return func(ed *Editor) {
		ed.generate = gen
	}
}

// WithMaxIterations sets the normalization cap per dirty path.
func WithMaxIterations(n int) Option {
	return func(ed *Editor) {
		if n > 0 {
			ed.maxIterations = n
		}
	}
}

// WithDraggable decides which rendered elements get a drag handle.
func WithDraggable(fn func(*document.Element) bool) Option {
	return func(ed *Editor) {
		ed.draggable = fn
	}
}

// New composes plugins in registration order. It fails when two plugins
// share a name or claim the same element type.
func New(plugins []*Plugin, opts ...Option) (*Editor, error) {
	if err := validatePlugins(plugins); err != nil {
		return nil, err
	}

	ed := &Editor{
		tree:          document.NewTree(),
		plugins:       plugins,
		inline:        make(map[document.Type]bool),
		void:          make(map[document.Type]bool),
		maxIterations: DefaultMaxIterations,
	}
	for _, opt := range opts {
		opt(ed)
	}
	if ed.logger == nil {
		ed.logger = zap.NewNop()
	}
	if ed.generate == nil {
		ed.generate = idgen.Default()
	}

	var rules []serializer.Rule
	for _, p := range plugins {
		for _, t := range p.Inline {
			ed.inline[t] = true
		}
		for _, t := range p.Void {
			ed.void[t] = true
		}
		if p.Serializer != nil {
			rules = append(rules, p.Serializer)
		}
	}

	ed.pipeline = serializer.New(rules, serializer.WithLogger(ed.logger))
	ed.resolver = identity.NewResolver(
		identity.WithGenerator(ed.generate),
		identity.WithInline(func(t document.Type) bool { return ed.inline[t] }),
	)
	ed.compose()

	return ed, nil
}

func (ed *Editor) compose() {
	ed.insertBreak = ed.defaultInsertBreak
	ed.deleteBackward = ed.defaultDeleteBackward
	ed.insertText = ed.defaultInsertText
	ed.apply = ed.applyOperation

	for _, p := range ed.plugins {
		h := p.Hooks
		if h.InsertBreak != nil {
			ed.insertBreak = h.InsertBreak(ed, ed.insertBreak)
		}
		if h.DeleteBackward != nil {
			ed.deleteBackward = h.DeleteBackward(ed, ed.deleteBackward)
		}
		if h.InsertText != nil {
			ed.insertText = h.InsertText(ed, ed.insertText)
		}
		if h.Apply != nil {
			ed.apply = h.Apply(ed, ed.apply)
		}
	}
}

func (ed *Editor) Logger() *zap.Logger { return ed.logger }

// Tree returns the live document. Callers must not mutate it directly.
func (ed *Editor) Tree() *document.Tree { return ed.tree }

// Resolver returns the identity resolver bound to the editor's generator
// and inline types.
func (ed *Editor) Resolver() *identity.Resolver { return ed.resolver }

// Pipeline returns the serializer built from the plugins' rules.
func (ed *Editor) Pipeline() *serializer.Pipeline { return ed.pipeline }

// Selection returns the current selection, if any.
func (ed *Editor) Selection() (document.Range, bool) {
	if ed.selection == nil {
		return document.Range{}, false
	}
	return *ed.selection, true
}

// Select sets the selection without validating it against the tree.
func (ed *Editor) Select(r document.Range) {
	ed.selection = &r
}

// SelectPoint collapses the selection to p.
func (ed *Editor) SelectPoint(p document.Point) {
	ed.Select(document.Collapsed(p))
}

func (ed *Editor) Deselect() {
	ed.selection = nil
}

// Node returns the node at path.
func (ed *Editor) Node(path document.Path) (document.Node, bool) {
	n, err := ed.tree.Node(path)
	return n, err == nil
}

// Element returns the element at path.
func (ed *Editor) Element(path document.Path) (*document.Element, bool) {
	el, err := ed.tree.Element(path)
	return el, err == nil
}

// IsInline reports whether n is a text leaf or an inline element.
func (ed *Editor) IsInline(n document.Node) bool {
	switch n := n.(type) {
	case *document.Text:
		return true
	case *document.Element:
		return ed.inline[n.Type]
	}
	return false
}

func (ed *Editor) IsInlineType(t document.Type) bool { return ed.inline[t] }

func (ed *Editor) IsVoid(n document.Node) bool {
	el, ok := n.(*document.Element)
	return ok && ed.void[el.Type]
}

// IsBlock reports whether n is an element that is not inline.
func (ed *Editor) IsBlock(n document.Node) bool {
	el, ok := n.(*document.Element)
	return ok && !ed.inline[el.Type]
}

// Apply runs op through the composed apply behavior and, outside of
// WithoutNormalizing, normalizes the paths it touched.
func (ed *Editor) Apply(op document.Operation) error {
	if err := ed.safeApply(&op); err != nil {
		return err
	}
	if ed.suppress == 0 {
		ed.Normalize()
	}
	return nil
}

func (ed *Editor) safeApply(op *document.Operation) (err error) {
	defer func() {
		if r := recover(); r != nil {
			ed.logger.Error("plugin panicked while applying operation",
				zap.String("op", string(op.Type)), zap.Any("panic", r))
			err = errors.Errorf("apply %s: plugin panic: %v", op.Type, r)
		}
	}()
	return ed.apply(op)
}

// applyOperation is the innermost apply: it changes the tree, rebases the
// selection and records dirty paths.
func (ed *Editor) applyOperation(op *document.Operation) error {
	var fallback *document.Point
	if op.Type == document.OpRemoveNode && ed.selection != nil {
		fallback = ed.pointOutside(op.Path)
	}

	if err := ed.tree.Apply(op); err != nil {
		return err
	}

	ed.transformDirty(*op)
	ed.transformSelection(*op, fallback)
	return nil
}

func (ed *Editor) transformSelection(op document.Operation, fallback *document.Point) {
	if ed.selection == nil {
		return
	}
	r, ok := ed.selection.Transform(op)
	if ok {
		ed.selection = &r
		return
	}
	if fallback == nil {
		ed.selection = nil
		return
	}
	p, ok := fallback.Transform(op, document.AffinityForward)
	if !ok {
		ed.selection = nil
		return
	}
	ed.SelectPoint(p)
}

// pointOutside returns the end of the last text before path, or the start
// of the first text after it, as seen before path is removed.
func (ed *Editor) pointOutside(path document.Path) *document.Point {
	var before, after *document.Point
	for _, entry := range ed.tree.Entries() {
		txt, ok := entry.Node.(*document.Text)
		if !ok {
			continue
		}
		switch {
		case entry.Path.IsBefore(path) && !path.IsAncestor(entry.Path):
			before = &document.Point{Path: entry.Path, Offset: len(txt.Text)}
		case entry.Path.IsAfter(path) && !path.IsAncestor(entry.Path) && after == nil:
			after = &document.Point{Path: entry.Path, Offset: 0}
		}
	}
	if before != nil {
		return before
	}
	return after
}

// WithoutNormalizing runs fn with normalization suspended and normalizes
// once afterwards.
func (ed *Editor) WithoutNormalizing(fn func()) {
	ed.suppress++
	func() {
		defer func() { ed.suppress-- }()
		fn()
	}()
	if ed.suppress == 0 {
		ed.Normalize()
	}
}

// Defer queues fn to run on the next Flush. Drops use it to apply moves
// after the pointer handling has finished.
func (ed *Editor) Defer(fn func()) {
	ed.queue = append(ed.queue, fn)
}

// Flush runs the deferred tasks in order, including any they queue.
func (ed *Editor) Flush() {
	for len(ed.queue) > 0 {
		fn := ed.queue[0]
		ed.queue = ed.queue[1:]
		ed.runTask(fn)
	}
}

// Pending reports how many deferred tasks wait for Flush.
func (ed *Editor) Pending() int { return len(ed.queue) }

func (ed *Editor) runTask(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			ed.logger.Error("deferred task panicked", zap.Any("panic", r))
		}
	}()
	fn()
}

// PluginFor returns the plugin owning t.
func (ed *Editor) PluginFor(t document.Type) (*Plugin, bool) {
	for _, p := range ed.plugins {
		if p.owns(t) {
			return p, true
		}
	}
	return nil, false
}
