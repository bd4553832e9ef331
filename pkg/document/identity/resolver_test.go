package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NDLANO/editorcore/internal/idgen"
	"github.com/NDLANO/editorcore/pkg/document"
)

func testTree() *document.Tree {
	link := document.NewElement("link", document.NewText("x"))
	return document.NewTree(
		document.NewElement(document.TypeSection,
			document.NewElement(document.TypeParagraph, document.NewText(""), link, document.NewText("")),
			document.NewElement(document.TypeBreak),
			document.NewElement("quote", document.NewElement(document.TypeParagraph)),
		),
	)
}

func collectIDs(tree *document.Tree) map[document.Type][]string {
	result := make(map[document.Type][]string)
	document.Walk(tree.Root, func(n document.Node, _ document.Path) bool {
		if el, ok := n.(*document.Element); ok {
			result[el.Type] = append(result[el.Type], el.ID)
		}
		return true
	})
	return result
}

func TestResolver_AssignIDs(t *testing.T) {
	resolver := NewResolver(
		WithGenerator(idgen.SequenceGenerator("n")),
		WithInline(func(t document.Type) bool { return t == "link" }),
	)

	tree := testTree()
	assigned := resolver.AssignIDs(tree)
	assert.Equal(t, 3, assigned)

	ids := collectIDs(tree)
	assert.Equal(t, []string{""}, ids[document.TypeSection])
	assert.Equal(t, []string{""}, ids[document.TypeBreak])
	assert.Equal(t, []string{""}, ids["link"])
	assert.Equal(t, []string{""}, ids[document.TypeEditor])
	assert.Equal(t, []string{"n-1", "n-3"}, ids[document.TypeParagraph])
	assert.Equal(t, []string{"n-2"}, ids["quote"])

	t.Run("Idempotent", func(t *testing.T) {
		before := tree.Clone()
		assert.Equal(t, 0, resolver.AssignIDs(tree))
		assert.Equal(t, before, tree)
	})
}

func TestResolver_DuplicateIDs(t *testing.T) {
	resolver := NewResolver(WithGenerator(idgen.SequenceGenerator("fresh")))

	first := document.NewElement(document.TypeParagraph)
	first.ID = "dup"
	second := document.NewElement(document.TypeParagraph)
	second.ID = "dup"
	tree := document.NewTree(first, second)

	assert.Equal(t, 1, resolver.AssignIDs(tree))
	assert.Equal(t, "dup", first.ID)
	assert.Equal(t, "fresh-1", second.ID)
}

func TestResolver_SplitProperties(t *testing.T) {
	resolver := NewResolver(WithGenerator(idgen.SequenceGenerator("s")))

	props := resolver.SplitProperties(&document.Element{Type: document.TypeParagraph, ID: "orig"})
	require.NotNil(t, props.ID)
	assert.Equal(t, "s-1", *props.ID)

	props = resolver.SplitProperties(&document.Element{Type: document.TypeSection})
	assert.True(t, props.IsZero())
}

func TestResolver_GetID(t *testing.T) {
	resolver := NewResolver(WithGenerator(idgen.SequenceGenerator("g")))

	id, existed := resolver.GetID(&document.Element{ID: "kept"})
	assert.True(t, existed)
	assert.Equal(t, "kept", id)

	id, existed = resolver.GetID(&document.Element{})
	assert.False(t, existed)
	assert.Equal(t, "g-1", id)
}
