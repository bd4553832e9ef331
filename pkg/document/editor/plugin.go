package editor

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/NDLANO/editorcore/pkg/document"
	"github.com/NDLANO/editorcore/pkg/document/serializer"
)

var (
	ErrDuplicateType   = errors.New("element type claimed by more than one plugin")
	ErrDuplicatePlugin = errors.New("plugin name registered more than once")
)

type (
	InsertBreakFunc    func()
	DeleteBackwardFunc func()
	InsertTextFunc     func(text string)
	ApplyFunc          func(op *document.Operation) error
)

// Hooks wrap the editor behavior. Each receives the behavior composed so
// far and returns a replacement; plugins registered later wrap earlier
// ones and run first.
type Hooks struct {
	InsertBreak    func(ed *Editor, next InsertBreakFunc) InsertBreakFunc
	DeleteBackward func(ed *Editor, next DeleteBackwardFunc) DeleteBackwardFunc
	InsertText     func(ed *Editor, next InsertTextFunc) InsertTextFunc
	Apply          func(ed *Editor, next ApplyFunc) ApplyFunc
}

// NormalizeFunc repairs at most one violation at entry and reports
// whether it changed the tree.
type NormalizeFunc func(ed *Editor, entry document.Entry) bool

// RenderFunc renders an element whose children are already rendered.
// Returning false passes the element to the previous renderer.
type RenderFunc func(ed *Editor, el *document.Element, path document.Path, children string) (string, bool)

// Plugin is one editor feature.
type Plugin struct {
	Name string
	// Types are the element types the plugin owns. A type may be owned by
	// one plugin only.
	Types  []document.Type
	Inline []document.Type
	Void   []document.Type

	Normalize  NormalizeFunc
	Serializer serializer.Rule
	Render     RenderFunc
	Hooks      Hooks
}

func (p *Plugin) owns(t document.Type) bool {
	for _, own := range p.Types {
		if own == t {
			return true
		}
	}
	return false
}

// validatePlugins checks that names and type claims are unique and
// returns every conflict.
func validatePlugins(plugins []*Plugin) error {
	var err error
	names := make(map[string]struct{}, len(plugins))
	types := make(map[document.Type]string)

	for _, p := range plugins {
		if p == nil {
			err = multierr.Append(err, errors.New("nil plugin"))
			continue
		}
		if _, ok := names[p.Name]; ok {
			err = multierr.Append(err, errors.Wrapf(ErrDuplicatePlugin, "%q", p.Name))
		}
		names[p.Name] = struct{}{}

		for _, t := range p.Types {
			if owner, ok := types[t]; ok {
				err = multierr.Append(err, errors.Wrapf(ErrDuplicateType, "%q claimed by %q and %q", t, owner, p.Name))
				continue
			}
			types[t] = p.Name
		}
	}
	return err
}
