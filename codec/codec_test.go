package codec

import (
	"testing"

	"github.com/hupe1980/booksearch/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestDefault(t *testing.T) {
	assert.Equal(t, "go-json", Default.Name())
	assert.Equal(t, Default, Or(nil))
	assert.Equal(t, Codec(JSON{}), Or(JSON{}))
}

// Both codecs must agree on the wire form of results, including the
// embedded variant payloads.
func TestCodecsAgree(t *testing.T) {
	results := []model.Result{
		model.NewWordResult(3, "a <mark>light</mark>", 2, "light"),
		model.NewPhraseResult(1, "b"),
		model.NewChapterResult(model.Chapter{Number: 2, Title: "Dois", StartPage: 5, EndPage: 9}, "c"),
		model.NewVerseResult(11, "d", 3, 16),
	}

	std := MustMarshal(JSON{}, results)
	fast := MustMarshal(GoJSON{}, results)
	assert.JSONEq(t, string(std), string(fast))

}

func TestGoJSON_Segments(t *testing.T) {
	in := []model.Segment{
		{Page: 1, Chapter: 1, Text: "Nada brilha na escuridão total."},
		{Page: 2, Chapter: 1, Text: "<p>3:16</p> \"quoted\""},
	}

	var out []model.Segment
	require.NoError(t, GoJSON{}.Unmarshal(MustMarshal(GoJSON{}, in), &out))
	assert.Equal(t, in, out)
}
