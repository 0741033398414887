package lastfm

import (
	"context"
	"encoding/xml"
	"testing"

	"github.com/shkh/lastfm-go/lastfm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err, "api key is required")

	c, err := New(Config{APIKey: "test_key"})
	require.NoError(t, err)
	assert.NotNil(t, c.api)
}

func TestGetSimilarArtists_Validation(t *testing.T) {
	c, err := New(Config{APIKey: "test_key"})
	require.NoError(t, err)

	_, err = c.GetSimilarArtists(context.Background(), "  ", 5)
	assert.Error(t, err, "empty artist name is rejected before any request")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.GetSimilarArtists(ctx, "Radiohead", 5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseMatch(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{name: "decimal", input: "0.834", expected: 0.834},
		{name: "one", input: "1", expected: 1},
		{name: "padded", input: " 0.5 ", expected: 0.5},
		{name: "empty", input: "", expected: 0},
		{name: "garbage", input: "n/a", expected: 0},
		{name: "above range", input: "3.2", expected: 1},
		{name: "negative", input: "-0.1", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, parseMatch(tt.input), 1e-9)
		})
	}
}

func TestConvertSimilar(t *testing.T) {
	const body = `<similarartists artist="Radiohead">
  <artist><name>Thom Yorke</name><mbid>8ed2e0b3</mbid><match>1</match><url>https://www.last.fm/music/Thom+Yorke</url></artist>
  <artist><name>Portishead</name><match>0.419</match></artist>
  <artist><name> </name><match>0.4</match></artist>
  <artist><name>Muse</name><match>n/a</match></artist>
</similarartists>`

	var result lastfm.ArtistGetSimilar
	require.NoError(t, xml.Unmarshal([]byte(body), &result))

	got := convertSimilar(result)

	require.Len(t, got, 3)
	assert.Equal(t, SimilarArtist{Name: "Thom Yorke", Match: 1}, got[0])
	assert.Equal(t, "Portishead", got[1].Name)
	assert.InDelta(t, 0.419, got[1].Match, 1e-9)
	assert.Equal(t, SimilarArtist{Name: "Muse", Match: 0}, got[2])

	assert.Empty(t, convertSimilar(lastfm.ArtistGetSimilar{}))
}
