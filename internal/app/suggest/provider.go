// Package suggest provides similar-artist suggestion strategies.
package suggest

import (
	"context"

	"github.com/osa030/spotlist/internal/domain/artist"
)

// Suggestion is an artist proposed for the selection list.
type Suggestion struct {
	Name   string
	Score  float64 // provider-specific similarity in [0, 1]
	Source string  // display name of the provider
}

// Provider is the interface for suggestion providers.
type Provider interface {
	// Suggest returns up to limit artists similar to artistName, best first.
	Suggest(ctx context.Context, artistName string, limit int) ([]Suggestion, error)

	// Name returns the provider type (used in config).
	Name() string
}

// SpotifyClient defines the Spotify operations needed by suggestion providers.
type SpotifyClient interface {
	SearchArtist(ctx context.Context, name string) (*artist.Artist, error)
	GetRelatedArtists(ctx context.Context, artistID string) ([]artist.Artist, error)
}
