package dnd

import (
	"go.uber.org/zap"

	"github.com/NDLANO/editorcore/pkg/document"
	"github.com/NDLANO/editorcore/pkg/document/editor"
)

type State int

const (
	StateIdle State = iota
	StateDragging
	StateResolving
)

func (s State) String() string {
	switch s {
	case StateDragging:
		return "dragging"
	case StateResolving:
		return "resolving"
	default:
		return "idle"
	}
}

// Drag is the state of one drag gesture.
type Drag struct {
	ActiveID      string
	OverID        string
	Position      Position
	AcceptedTypes []document.Type
}

// Engine tracks a drag gesture over one editor.
type Engine struct {
	ed     *editor.Editor
	opts   Options
	state  State
	drag   Drag
	logger *zap.Logger
}

func NewEngine(ed *editor.Editor, opts Options) *Engine {
	return &Engine{
		ed:     ed,
		opts:   opts,
		logger: ed.Logger().Named("dnd"),
	}
}

func (e *Engine) State() State { return e.state }

// Drag returns the current gesture.
func (e *Engine) Drag() (Drag, bool) {
	if e.state == StateIdle {
		return Drag{}, false
	}
	return e.drag, true
}

// PointerDown starts dragging the element with id. It fails when a
// gesture is in progress or the element has no drag handle.
func (e *Engine) PointerDown(id string) bool {
	if e.state != StateIdle {
		return false
	}
	path, ok := e.ed.Tree().FindByID(id)
	if !ok {
		return false
	}
	el, _ := e.ed.Element(path)
	if !e.opts.Draggable(el) {
		return false
	}
	e.drag = Drag{ActiveID: id}
	e.state = StateDragging
	return true
}

// PointerMove updates the drop target. An empty overID clears it.
func (e *Engine) PointerMove(overID string, position Position) {
	if e.state != StateDragging {
		return
	}
	if overID == "" || overID == e.drag.ActiveID {
		e.drag.OverID, e.drag.Position, e.drag.AcceptedTypes = "", "", nil
		return
	}
	e.drag.OverID = overID
	e.drag.Position = position
	e.drag.AcceptedTypes = AcceptedTypes(e.ed, e.opts, overID)
}

// PointerMoveRect resolves the drop target from the dragged block's box.
func (e *Engine) PointerMoveRect(active Rect, zones []Zone) {
	zone, ok := DetectCollision(active, zones)
	if !ok {
		e.PointerMove("", "")
		return
	}
	e.PointerMove(zone.ID, zone.Position)
}

// PointerUp ends the gesture. A legal drop is applied on the editor's
// next flush and PointerUp reports true; anything else returns to idle
// without touching the tree.
func (e *Engine) PointerUp() bool {
	if e.state != StateDragging {
		return false
	}
	drag := e.drag
	if drag.OverID == "" {
		e.reset()
		return false
	}
	if _, _, err := CheckDrop(e.ed, e.opts, drag.ActiveID, drag.OverID, drag.Position); err != nil {
		e.logger.Debug("discarding drop", zap.Error(err))
		e.reset()
		return false
	}

	e.state = StateResolving
	e.ed.Defer(func() {
		defer e.reset()
		// The tree may have changed since the pointer was released.
		if err := Move(e.ed, e.opts, drag.ActiveID, drag.OverID, drag.Position); err != nil {
			e.logger.Debug("discarding drop", zap.Error(err))
		}
	})
	return true
}

// Cancel abandons the gesture, as on Escape.
func (e *Engine) Cancel() {
	if e.state == StateDragging {
		e.reset()
	}
}

func (e *Engine) reset() {
	e.state = StateIdle
	e.drag = Drag{}
}
