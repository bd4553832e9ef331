package embed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_Brightcove(t *testing.T) {
	e := &Brightcove{
		VideoID: "123",
		Title:   "title",
		URL:     "url",
		Caption: "caption",
		Account: "account",
		Player:  "player",
	}
	assert.Equal(t, []Attr{
		{"resource", "brightcove"},
		{"videoid", "123"},
		{"title", "title"},
		{"url", "url"},
		{"caption", "caption"},
		{"account", "account"},
		{"player", "player"},
	}, Encode(e))
	assert.Equal(t, "embed/brightcove", e.Kind())
}

func TestDecode(t *testing.T) {
	t.Run("KnownVariantWithExtra", func(t *testing.T) {
		e, err := Decode([]Attr{
			{"resource", "external"},
			{"zeta", "z"},
			{"url", "https://www.youtube.com/watch?v=123"},
			{"alpha", "a"},
			{"url", "ignored duplicate"},
		})
		require.NoError(t, err)
		assert.Equal(t, &External{
			URL:   "https://www.youtube.com/watch?v=123",
			Extra: []Attr{{"zeta", "z"}, {"alpha", "a"}},
		}, e)
		assert.Equal(t, []Attr{
			{"resource", "external"},
			{"url", "https://www.youtube.com/watch?v=123"},
			{"zeta", "z"},
			{"alpha", "a"},
		}, Encode(e))
	})

	t.Run("UnknownResource", func(t *testing.T) {
		attrs := []Attr{{"resource", "podcast-series"}, {"resource_id", "7"}, {"b", "2"}}
		e, err := Decode(attrs)
		require.NoError(t, err)
		assert.Equal(t, &Generic{Res: "podcast-series", Attrs: attrs[1:]}, e)
		assert.Equal(t, attrs, Encode(e))
	})

	t.Run("AbsentFieldsStayAbsent", func(t *testing.T) {
		attrs := []Attr{{"resource", "brightcove"}, {"videoid", "1"}, {"caption", "c"}}
		e, err := Decode(attrs)
		require.NoError(t, err)
		assert.Equal(t, attrs, Encode(e))
		require.Error(t, Validate(e))

		attrs = []Attr{{"resource", "image"}, {"resource_id", "7"}}
		e, err = Decode(attrs)
		require.NoError(t, err)
		assert.Equal(t, attrs, Encode(e))

		attrs = []Attr{{"resource", "comment"}, {"type", "inline"}}
		e, err = Decode(attrs)
		require.NoError(t, err)
		assert.Equal(t, attrs, Encode(e))
	})

	t.Run("MissingResource", func(t *testing.T) {
		_, err := Decode([]Attr{{"url", "x"}})
		require.ErrorIs(t, err, ErrMissingResource)
	})
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(&Brightcove{VideoID: "1", Account: "a", Player: "p"}))
	require.Error(t, Validate(&Brightcove{VideoID: "1"}))
	require.Error(t, Validate(&External{URL: "not a url"}))
	require.Error(t, Validate(&Concept{ContentID: "1", Type: "sideways"}))
	require.NoError(t, Validate(&Generic{Res: "anything"}))
}

func TestIsInline(t *testing.T) {
	assert.True(t, IsInline(&Concept{Type: "inline"}))
	assert.False(t, IsInline(&Concept{Type: "block"}))
	assert.True(t, IsInline(&Comment{Type: "inline"}))
	assert.False(t, IsInline(&Image{}))
}

func TestGet(t *testing.T) {
	e := &File{Type: "pdf", URL: "https://example.org/a.pdf", Title: "A", Extra: []Attr{{"size", "3"}}}
	v, ok := Get(e, "url")
	require.True(t, ok)
	assert.Equal(t, "https://example.org/a.pdf", v)
	v, ok = Get(e, "size")
	require.True(t, ok)
	assert.Equal(t, "3", v)
	_, ok = Get(e, "missing")
	assert.False(t, ok)
}
