package suggest

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"
)

type SpotifyProviderConfig struct {
	MinPopularity int `yaml:"min_popularity" mapstructure:"min_popularity" default:"0" validate:"gte=0,lte=100"`
}

// SpotifyProvider suggests the related artists of the first catalog match.
type SpotifyProvider struct {
	spotify SpotifyClient
	config  *SpotifyProviderConfig
}

// NewSpotifyProvider creates a new SpotifyProvider. settings may be empty.
func NewSpotifyProvider(spotify SpotifyClient, settings map[string]any) (*SpotifyProvider, error) {
	if spotify == nil {
		return nil, errors.New("spotify client is required")
	}

	var config SpotifyProviderConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}

	return &SpotifyProvider{
		spotify: spotify,
		config:  &config,
	}, nil
}

// Suggest returns related artists in Spotify's order. The score is the
// artist's popularity scaled to [0, 1].
func (p *SpotifyProvider) Suggest(ctx context.Context, artistName string, limit int) ([]Suggestion, error) {
	if limit <= 0 {
		return []Suggestion{}, nil
	}

	seed, err := p.spotify.SearchArtist(ctx, artistName)
	if err != nil {
		return nil, err
	}
	if seed == nil {
		zlog.Debug().Msgf("no artist found for suggestions: name=%s", artistName)
		return []Suggestion{}, nil
	}

	related, err := p.spotify.GetRelatedArtists(ctx, seed.ID)
	if err != nil {
		return nil, err
	}

	suggestions := make([]Suggestion, 0, min(limit, len(related)))
	for _, a := range related {
		if len(suggestions) == limit {
			break
		}
		if a.Popularity < p.config.MinPopularity {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Name:  a.Name,
			Score: float64(a.Popularity) / 100,
		})
	}
	return suggestions, nil
}

// Name returns the provider name.
func (p *SpotifyProvider) Name() string {
	return "spotify"
}
