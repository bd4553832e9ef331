package dnd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/NDLANO/editorcore/internal/idgen"
	"github.com/NDLANO/editorcore/pkg/document"
	"github.com/NDLANO/editorcore/pkg/document/dnd"
	"github.com/NDLANO/editorcore/pkg/document/editor"
	"github.com/NDLANO/editorcore/pkg/document/plugins"
)

func load(t *testing.T, src string) *editor.Editor {
	t.Helper()
	ed, err := editor.New(plugins.Default(plugins.Options{}),
		editor.WithLogger(zaptest.NewLogger(t)),
		editor.WithGenerator(idgen.SequenceGenerator("n")),
	)
	require.NoError(t, err)
	require.NoError(t, ed.LoadHTML(src))
	return ed
}

func idAt(t *testing.T, ed *editor.Editor, path document.Path) string {
	t.Helper()
	el, ok := ed.Element(path)
	require.True(t, ok)
	require.NotEmpty(t, el.ID)
	return el.ID
}

const abc = `<section><p>a</p><p>b</p><p>c</p></section>`

func TestDestinationPath(t *testing.T) {
	testCases := []struct {
		name     string
		source   document.Path
		target   document.Path
		position dnd.Position
		want     document.Path
	}{
		{"ForwardBottom", document.Path{0, 0}, document.Path{0, 2}, dnd.PositionBottom, document.Path{0, 2}},
		{"ForwardTop", document.Path{0, 0}, document.Path{0, 2}, dnd.PositionTop, document.Path{0, 1}},
		{"BackwardBottom", document.Path{0, 2}, document.Path{0, 0}, dnd.PositionBottom, document.Path{0, 1}},
		{"BackwardTop", document.Path{0, 2}, document.Path{0, 0}, dnd.PositionTop, document.Path{0, 0}},
		{"OtherParentBottom", document.Path{0, 0}, document.Path{1, 0}, dnd.PositionBottom, document.Path{1, 1}},
		{"OtherParentTop", document.Path{1, 0}, document.Path{0, 3}, dnd.PositionTop, document.Path{0, 3}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := dnd.DestinationPath(tc.source, tc.target, tc.position)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := dnd.DestinationPath(document.Path{0}, document.Path{0, 1}, dnd.PositionTop)
	require.ErrorIs(t, err, dnd.ErrIntoItself)
	_, err = dnd.DestinationPath(document.Path{0, 1}, document.Path{0, 1}, dnd.PositionTop)
	require.ErrorIs(t, err, dnd.ErrIntoItself)
}

func TestMove(t *testing.T) {
	testCases := []struct {
		name     string
		from, to document.Path
		position dnd.Position
		want     string
	}{
		{"FirstBelowLast", document.Path{0, 0}, document.Path{0, 2}, dnd.PositionBottom, `<section><p>b</p><p>c</p><p>a</p></section>`},
		{"FirstAboveLast", document.Path{0, 0}, document.Path{0, 2}, dnd.PositionTop, `<section><p>b</p><p>a</p><p>c</p></section>`},
		{"LastAboveFirst", document.Path{0, 2}, document.Path{0, 0}, dnd.PositionTop, `<section><p>c</p><p>a</p><p>b</p></section>`},
		{"LastBelowFirst", document.Path{0, 2}, document.Path{0, 0}, dnd.PositionBottom, `<section><p>a</p><p>c</p><p>b</p></section>`},
		{"OntoNeighbourNoop", document.Path{0, 0}, document.Path{0, 1}, dnd.PositionTop, abc},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ed := load(t, abc)
			err := dnd.Move(ed, dnd.Options{}, idAt(t, ed, tc.from), idAt(t, ed, tc.to), tc.position)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ed.HTML())
		})
	}

	t.Run("AcrossSections", func(t *testing.T) {
		ed := load(t, `<section><p>a</p></section><section><p>b</p></section>`)
		err := dnd.Move(ed, dnd.Options{}, idAt(t, ed, document.Path{0, 0}), idAt(t, ed, document.Path{1, 0}), dnd.PositionBottom)
		require.NoError(t, err)
		assert.Equal(t, `<section><p></p></section><section><p>b</p><p>a</p></section>`, ed.HTML())
	})
}

func TestMove_Rejected(t *testing.T) {
	t.Run("EmptyLegalList", func(t *testing.T) {
		ed := load(t, abc)
		opts := dnd.Options{LegalChildren: map[document.Type][]document.Type{document.TypeSection: {}}}
		err := dnd.Move(ed, opts, idAt(t, ed, document.Path{0, 0}), idAt(t, ed, document.Path{0, 2}), dnd.PositionBottom)
		require.ErrorIs(t, err, dnd.ErrIllegalDrop)
		assert.Equal(t, abc, ed.HTML())
	})

	t.Run("TypeNotListed", func(t *testing.T) {
		opts := dnd.Options{LegalChildren: map[document.Type][]document.Type{document.TypeSection: {plugins.TypeHeading}}}

		ed := load(t, abc)
		err := dnd.Move(ed, opts, idAt(t, ed, document.Path{0, 0}), idAt(t, ed, document.Path{0, 2}), dnd.PositionBottom)
		require.ErrorIs(t, err, dnd.ErrIllegalDrop)

		ed = load(t, `<section><h2>h</h2><p>b</p></section>`)
		err = dnd.Move(ed, opts, idAt(t, ed, document.Path{0, 0}), idAt(t, ed, document.Path{0, 1}), dnd.PositionBottom)
		require.NoError(t, err)
		assert.Equal(t, `<section><p>b</p><h2>h</h2></section>`, ed.HTML())
	})

	t.Run("IntoOwnSubtree", func(t *testing.T) {
		src := `<section><blockquote><p>x</p></blockquote><p>y</p></section>`
		ed := load(t, src)
		before := ed.Tree().Clone()
		err := dnd.Move(ed, dnd.Options{}, idAt(t, ed, document.Path{0, 0}), idAt(t, ed, document.Path{0, 0, 0}), dnd.PositionBottom)
		require.ErrorIs(t, err, dnd.ErrIntoItself)
		assert.Equal(t, before, ed.Tree())
	})

	t.Run("Disabled", func(t *testing.T) {
		ed := load(t, abc)
		opts := dnd.Options{DisabledElements: []document.Type{document.TypeParagraph}}
		err := dnd.Move(ed, opts, idAt(t, ed, document.Path{0, 0}), idAt(t, ed, document.Path{0, 2}), dnd.PositionBottom)
		require.ErrorIs(t, err, dnd.ErrNotDraggable)
	})
}

func TestAcceptedTypes(t *testing.T) {
	ed := load(t, abc)
	over := idAt(t, ed, document.Path{0, 1})

	assert.Nil(t, dnd.AcceptedTypes(ed, dnd.Options{}, over))

	opts := dnd.Options{LegalChildren: map[document.Type][]document.Type{document.TypeSection: {document.TypeParagraph}}}
	assert.Equal(t, []document.Type{document.TypeParagraph}, dnd.AcceptedTypes(ed, opts, over))
}

func TestEngine(t *testing.T) {
	t.Run("DropIsDeferredUntilFlush", func(t *testing.T) {
		ed := load(t, abc)
		engine := dnd.NewEngine(ed, dnd.Options{})
		a, c := idAt(t, ed, document.Path{0, 0}), idAt(t, ed, document.Path{0, 2})

		require.True(t, engine.PointerDown(a))
		assert.Equal(t, dnd.StateDragging, engine.State())
		assert.False(t, engine.PointerDown(c))

		engine.PointerMove(c, dnd.PositionBottom)
		drag, ok := engine.Drag()
		require.True(t, ok)
		assert.Equal(t, dnd.Drag{ActiveID: a, OverID: c, Position: dnd.PositionBottom}, drag)

		require.True(t, engine.PointerUp())
		assert.Equal(t, dnd.StateResolving, engine.State())
		assert.Equal(t, 1, ed.Pending())
		assert.Equal(t, abc, ed.HTML())

		ed.Flush()
		assert.Equal(t, dnd.StateIdle, engine.State())
		assert.Equal(t, `<section><p>b</p><p>c</p><p>a</p></section>`, ed.HTML())
	})

	t.Run("IllegalDropReturnsToIdle", func(t *testing.T) {
		ed := load(t, abc)
		opts := dnd.Options{LegalChildren: map[document.Type][]document.Type{document.TypeSection: {}}}
		engine := dnd.NewEngine(ed, opts)

		require.True(t, engine.PointerDown(idAt(t, ed, document.Path{0, 0})))
		engine.PointerMove(idAt(t, ed, document.Path{0, 2}), dnd.PositionTop)
		drag, _ := engine.Drag()
		assert.Empty(t, drag.AcceptedTypes)

		assert.False(t, engine.PointerUp())
		assert.Equal(t, dnd.StateIdle, engine.State())
		assert.Zero(t, ed.Pending())
		assert.Equal(t, abc, ed.HTML())
	})

	t.Run("HoverOverSelfClearsTarget", func(t *testing.T) {
		ed := load(t, abc)
		engine := dnd.NewEngine(ed, dnd.Options{})
		a := idAt(t, ed, document.Path{0, 0})

		require.True(t, engine.PointerDown(a))
		engine.PointerMove(a, dnd.PositionTop)
		drag, _ := engine.Drag()
		assert.Empty(t, drag.OverID)
		assert.False(t, engine.PointerUp())
	})

	t.Run("Cancel", func(t *testing.T) {
		ed := load(t, abc)
		engine := dnd.NewEngine(ed, dnd.Options{})
		require.True(t, engine.PointerDown(idAt(t, ed, document.Path{0, 1})))
		engine.Cancel()
		assert.Equal(t, dnd.StateIdle, engine.State())
		_, ok := engine.Drag()
		assert.False(t, ok)
	})

	t.Run("PointerMoveRect", func(t *testing.T) {
		ed := load(t, abc)
		engine := dnd.NewEngine(ed, dnd.Options{})
		a, b := idAt(t, ed, document.Path{0, 0}), idAt(t, ed, document.Path{0, 1})
		zones := dnd.Zones([]dnd.Target{
			{ID: a, Rect: dnd.Rect{Width: 100, Height: 40}},
			{ID: b, Rect: dnd.Rect{Top: 40, Width: 100, Height: 40}},
		})

		require.True(t, engine.PointerDown(a))
		engine.PointerMoveRect(dnd.Rect{Top: 65, Width: 100, Height: 10}, zones)
		drag, _ := engine.Drag()
		assert.Equal(t, b, drag.OverID)
		assert.Equal(t, dnd.PositionBottom, drag.Position)

		require.True(t, engine.PointerUp())
		ed.Flush()
		assert.Equal(t, `<section><p>b</p><p>a</p><p>c</p></section>`, ed.HTML())
	})
}
