package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/NDLANO/editorcore/internal/idgen"
	"github.com/NDLANO/editorcore/pkg/document"
	"github.com/NDLANO/editorcore/pkg/document/schema"
	"github.com/NDLANO/editorcore/pkg/document/serializer"
)

const typeQuote document.Type = "quote"

func tagRule(typ document.Type, tag atom.Atom) serializer.Rule {
	return serializer.RuleFuncs{
		DeserializeFunc: func(el *html.Node, children []document.Node) ([]document.Node, bool) {
			if el.DataAtom != tag {
				return nil, false
			}
			return []document.Node{document.NewElement(typ, children...)}, true
		},
		SerializeFunc: func(n document.Node, children string) (string, bool) {
			if !document.IsElement(n, typ) {
				return "", false
			}
			return serializer.Tag(tag.String(), nil, children), true
		},
	}
}

func rulePlugin(name string, rule schema.Rule, tag atom.Atom) *Plugin {
	return &Plugin{
		Name:  name,
		Types: []document.Type{rule.Type},
		Normalize: func(ed *Editor, entry document.Entry) bool {
			return rule.Normalize(ed, entry)
		},
		Serializer: tagRule(rule.Type, tag),
	}
}

func idPlugin() *Plugin {
	return &Plugin{
		Name: "node-id",
		Normalize: func(ed *Editor, entry document.Entry) bool {
			el := entry.Element()
			if el == nil || el.ID != "" || !ed.Resolver().Eligible(el) {
				return false
			}
			id := ed.Resolver().NewID()
			return ed.SetNodes(entry.Path, document.Properties{ID: &id}) == nil
		},
	}
}

func testPlugins() []*Plugin {
	return []*Plugin{
		rulePlugin("section", schema.Rule{Type: document.TypeSection, DefaultType: document.TypeParagraph}, atom.Section),
		rulePlugin("paragraph", schema.Rule{Type: document.TypeParagraph, AllowText: true}, atom.P),
		rulePlugin("quote", schema.Rule{Type: typeQuote, DefaultType: document.TypeParagraph}, atom.Blockquote),
		idPlugin(),
	}
}

func newTestEditor(t *testing.T, plugins ...*Plugin) *Editor {
	t.Helper()
	if plugins == nil {
		plugins = testPlugins()
	}
	ed, err := New(plugins,
		WithLogger(zaptest.NewLogger(t)),
		WithGenerator(idgen.SequenceGenerator("n")),
	)
	require.NoError(t, err)
	return ed
}

func TestNew_Conflicts(t *testing.T) {
	p1 := &Plugin{Name: "a", Types: []document.Type{"x"}}
	p2 := &Plugin{Name: "a", Types: []document.Type{"x", "y"}}

	_, err := New([]*Plugin{p1, p2})
	require.ErrorIs(t, err, ErrDuplicatePlugin)
	require.ErrorIs(t, err, ErrDuplicateType)
}

func TestEditor_LoadHTML(t *testing.T) {
	ed := newTestEditor(t)
	require.NoError(t, ed.LoadHTML("<section>loose text<p>para</p></section>"))

	section := ed.Tree().Children()[0].(*document.Element)
	require.Len(t, section.Children, 2)
	assert.True(t, document.IsElement(section.Children[0], document.TypeParagraph))
	assert.Empty(t, section.ID)
	assert.NotEmpty(t, section.Children[0].(*document.Element).ID)
	assert.Equal(t, "<section><p>loose text</p><p>para</p></section>", ed.HTML())
}

func TestEditor_InsertBreakSplitsWithFreshID(t *testing.T) {
	ed := newTestEditor(t)
	require.NoError(t, ed.LoadHTML("<section><p>foobar</p></section>"))
	before := ed.Tree().Children()[0].(*document.Element).Children[0].(*document.Element).ID
	require.NotEmpty(t, before)

	ed.SelectPoint(document.Point{Path: document.Path{0, 0, 0}, Offset: 3})
	ed.InsertBreak()

	section := ed.Tree().Children()[0].(*document.Element)
	require.Len(t, section.Children, 2)
	first := section.Children[0].(*document.Element)
	second := section.Children[1].(*document.Element)
	assert.Equal(t, before, first.ID)
	assert.NotEmpty(t, second.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "foo", document.TextContent(first))
	assert.Equal(t, "bar", document.TextContent(second))

	sel, ok := ed.Selection()
	require.True(t, ok)
	assert.Equal(t, document.Point{Path: document.Path{0, 1, 0}, Offset: 0}, sel.Anchor)
}

func TestEditor_DeleteBackward(t *testing.T) {
	t.Run("Character", func(t *testing.T) {
		ed := newTestEditor(t)
		require.NoError(t, ed.LoadHTML("<section><p>abø</p></section>"))
		ed.SelectPoint(document.Point{Path: document.Path{0, 0, 0}, Offset: len("abø")})
		ed.DeleteBackward()
		assert.Equal(t, "<section><p>ab</p></section>", ed.HTML())
	})

	t.Run("MergeWithPrevious", func(t *testing.T) {
		ed := newTestEditor(t)
		require.NoError(t, ed.LoadHTML("<section><p>foo</p><p>bar</p></section>"))
		ed.SelectPoint(document.Point{Path: document.Path{0, 1, 0}, Offset: 0})
		ed.DeleteBackward()
		assert.Equal(t, "<section><p>foobar</p></section>", ed.HTML())

		sel, ok := ed.Selection()
		require.True(t, ok)
		assert.Equal(t, document.Point{Path: document.Path{0, 0, 0}, Offset: 3}, sel.Anchor)
	})

	t.Run("RemoveEmptyPrevious", func(t *testing.T) {
		ed := newTestEditor(t)
		require.NoError(t, ed.LoadHTML("<section><p></p><p>bar</p></section>"))
		id := ed.Tree().Children()[0].(*document.Element).Children[1].(*document.Element).ID
		ed.SelectPoint(document.Point{Path: document.Path{0, 1, 0}, Offset: 0})
		ed.DeleteBackward()
		assert.Equal(t, "<section><p>bar</p></section>", ed.HTML())
		assert.Equal(t, id, ed.Tree().Children()[0].(*document.Element).Children[0].(*document.Element).ID)
	})
}

func TestEditor_InsertTextReplacesSelection(t *testing.T) {
	ed := newTestEditor(t)
	require.NoError(t, ed.LoadHTML("<section><p>hello world</p></section>"))
	ed.Select(document.Range{
		Anchor: document.Point{Path: document.Path{0, 0, 0}, Offset: 6},
		Focus:  document.Point{Path: document.Path{0, 0, 0}, Offset: 11},
	})
	ed.InsertText("there")
	assert.Equal(t, "<section><p>hello there</p></section>", ed.HTML())
}

func TestEditor_DeleteFragmentAcrossBlocks(t *testing.T) {
	ed := newTestEditor(t)
	require.NoError(t, ed.LoadHTML("<section><p>abc</p><p>middle</p><p>xyz</p></section>"))
	ed.Select(document.Range{
		Anchor: document.Point{Path: document.Path{0, 0, 0}, Offset: 1},
		Focus:  document.Point{Path: document.Path{0, 2, 0}, Offset: 2},
	})
	ed.DeleteBackward()
	assert.Equal(t, "<section><p>az</p></section>", ed.HTML())
}

func TestEditor_LiftNodes(t *testing.T) {
	ed := newTestEditor(t)
	require.NoError(t, ed.LoadHTML("<section><blockquote><p>a</p><p>b</p><p>c</p></blockquote></section>"))
	lifted, err := ed.LiftNodes(document.Path{0, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, document.Path{0, 1}, lifted)
	assert.Equal(t,
		"<section><blockquote><p>a</p></blockquote><p>b</p><blockquote><p>c</p></blockquote></section>",
		ed.HTML(),
	)
}

func TestEditor_WrapUnwrap(t *testing.T) {
	ed := newTestEditor(t)
	require.NoError(t, ed.LoadHTML("<section><p>a</p><p>b</p></section>"))

	require.NoError(t, ed.WrapNodes(document.Path{0}, 0, 2, document.NewElement(typeQuote)))
	assert.Equal(t, "<section><blockquote><p>a</p><p>b</p></blockquote></section>", ed.HTML())

	require.NoError(t, ed.UnwrapNodes(document.Path{0, 0}))
	assert.Equal(t, "<section><p>a</p><p>b</p></section>", ed.HTML())
}

func TestEditor_NormalizationTerminates(t *testing.T) {
	flip := &Plugin{
		Name: "flip",
		Normalize: func(ed *Editor, entry document.Entry) bool {
			el := entry.Element()
			if el == nil || !el.FirstEdit && el.Type != document.TypeParagraph {
				return false
			}
			v := !el.FirstEdit
			return ed.SetNodes(entry.Path, document.Properties{FirstEdit: &v}) == nil
		},
	}
	ed, err := New(append(testPlugins(), flip),
		WithLogger(zaptest.NewLogger(t)),
		WithMaxIterations(5),
	)
	require.NoError(t, err)

	require.NoError(t, ed.LoadHTML("<section><p>x</p></section>"))
	assert.Len(t, ed.Tree().Children(), 1)
	assert.Empty(t, ed.dirty)
}

func TestEditor_PanickingPluginIsContained(t *testing.T) {
	boom := &Plugin{
		Name: "boom",
		Normalize: func(*Editor, document.Entry) bool {
			panic("normalize")
		},
		Hooks: Hooks{
			InsertBreak: func(_ *Editor, _ InsertBreakFunc) InsertBreakFunc {
				return func() { panic("break") }
			},
		},
		Render: func(*Editor, *document.Element, document.Path, string) (string, bool) {
			panic("render")
		},
	}
	ed := newTestEditor(t, append(testPlugins(), boom)...)

	require.NotPanics(t, func() {
		require.NoError(t, ed.LoadHTML("<section><p>x</p></section>"))
		ed.SelectPoint(document.Point{Path: document.Path{0, 0, 0}, Offset: 0})
		ed.InsertBreak()
		_ = ed.Render()
	})
	assert.Equal(t, "<section><p>x</p></section>", ed.HTML())
}

func TestEditor_HooksWrapInRegistrationOrder(t *testing.T) {
	var calls []string
	hook := func(name string) *Plugin {
		return &Plugin{
			Name: name,
			Hooks: Hooks{
				InsertText: func(_ *Editor, next InsertTextFunc) InsertTextFunc {
					return func(text string) {
						calls = append(calls, name)
						next(text)
					}
				},
			},
		}
	}
	ed := newTestEditor(t, append(testPlugins(), hook("first"), hook("second"))...)
	require.NoError(t, ed.LoadHTML("<section><p>x</p></section>"))
	ed.SelectPoint(document.Point{Path: document.Path{0, 0, 0}, Offset: 1})
	ed.InsertText("y")

	assert.Equal(t, []string{"second", "first"}, calls)
	assert.Equal(t, "<section><p>xy</p></section>", ed.HTML())
}

func TestEditor_DeferFlush(t *testing.T) {
	ed := newTestEditor(t)
	var order []int
	ed.Defer(func() {
		order = append(order, 1)
		ed.Defer(func() { order = append(order, 3) })
	})
	ed.Defer(func() { panic("task") })
	ed.Defer(func() { order = append(order, 2) })
	assert.Equal(t, 3, ed.Pending())

	ed.Flush()
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Zero(t, ed.Pending())
}

func TestEditor_Render(t *testing.T) {
	ed := newTestEditor(t)
	require.NoError(t, ed.LoadHTML("<section><p>x</p></section>"))
	out := ed.Render()
	assert.Contains(t, out, `<div data-type="section"><div data-type="paragraph" data-id="n-1">x</div></div>`)
}
