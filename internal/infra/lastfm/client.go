// Package lastfm provides a client for the Last.fm API.
package lastfm

import (
	"context"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/shkh/lastfm-go/lastfm"
)

// Client is a Last.fm API client.
type Client struct {
	api *lastfm.Api
}

// Config represents Last.fm client configuration.
type Config struct {
	APIKey string
	// APISecret is only needed for authenticated calls; spotlist makes none.
	APISecret string
}

// SimilarArtist represents a similar artist from Last.fm.
type SimilarArtist struct {
	Name  string
	Match float64 // similarity in [0, 1]
}

// New creates a new Last.fm client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("last.fm API key is required")
	}

	return &Client{
		api: lastfm.New(cfg.APIKey, cfg.APISecret),
	}, nil
}

// GetSimilarArtists retrieves artists similar to artistName, most similar first.
// Reference: https://www.last.fm/api/show/artist.getSimilar
func (c *Client) GetSimilarArtists(ctx context.Context, artistName string, limit int) ([]SimilarArtist, error) {
	artistName = strings.TrimSpace(artistName)
	if artistName == "" {
		return nil, errors.New("artist name is required")
	}
	// The underlying library takes no context; honour cancellation before the call.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	result, err := c.api.Artist.GetSimilar(lastfm.P{
		"artist":      artistName,
		"limit":       limit,
		"autocorrect": 1,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get similar artists for %q", artistName)
	}

	return convertSimilar(result), nil
}

// convertSimilar keeps the response order and drops entries without a name.
func convertSimilar(result lastfm.ArtistGetSimilar) []SimilarArtist {
	artists := make([]SimilarArtist, 0, len(result.Similars))
	for _, a := range result.Similars {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			continue
		}
		artists = append(artists, SimilarArtist{
			Name:  name,
			Match: parseMatch(a.Match),
		})
	}
	return artists
}

// parseMatch parses Last.fm's textual match score. Unparseable values count as 0.
func parseMatch(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return max(0, min(f, 1))
}
