package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_Clone(t *testing.T) {
	orig := NewElement(TypeSection, paragraph("a"), NewElement(TypeParagraph, &Text{Text: "b", Marks: Marks{Bold: true}}))
	orig.ID = "s1"

	clone := orig.Clone().(*Element)
	assert.Equal(t, orig, clone)

	clone.Children[0].(*Element).Children[0].(*Text).Text = "changed"
	clone.Children = clone.Children[:1]
	assert.Equal(t, "ab", TextContent(orig))
	assert.Equal(t, "changed", TextContent(clone))
}

func TestNewElement(t *testing.T) {
	el := NewElement(TypeParagraph)
	require.Len(t, el.Children, 1)
	assert.Equal(t, NewText(""), el.Children[0])
	assert.True(t, IsEmpty(el))

	assert.False(t, IsEmpty(paragraph("x")))
	assert.False(t, IsEmpty(NewElement(TypeSection, NewElement(TypeParagraph))))
}

func TestIsElement(t *testing.T) {
	p := paragraph("x")
	assert.True(t, IsElement(p))
	assert.True(t, IsElement(p, TypeSection, TypeParagraph))
	assert.False(t, IsElement(p, TypeSection))
	assert.False(t, IsElement(NewText("x")))
	assert.True(t, IsText(NewText("x")))
}

func TestWalk(t *testing.T) {
	root := NewElement(TypeSection, paragraph("a"), NewElement(TypeSection, paragraph("b")))

	var visited []string
	Walk(root, func(n Node, path Path) bool {
		visited = append(visited, path.String())
		el, ok := n.(*Element)
		// Do not descend into the nested section.
		return !ok || len(path) == 0 || el.Type != TypeSection
	})
	assert.Equal(t, []string{"[]", "[0]", "[0,0]", "[1]"}, visited)
}

func TestTree_EntriesElement(t *testing.T) {
	tree := NewTree(paragraph("a"))
	entries := tree.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, Path{0}, entries[0].Path)
	assert.NotNil(t, entries[0].Element())
	assert.Nil(t, entries[1].Element())
}
