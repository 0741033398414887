package suggest

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/osa030/spotlist/internal/infra/lastfm"
)

// LastFmClient defines the interface for Last.fm operations.
type LastFmClient interface {
	GetSimilarArtists(ctx context.Context, artistName string, limit int) ([]lastfm.SimilarArtist, error)
}

type LastFmProviderConfig struct {
	APIKey    string  `yaml:"api_key" mapstructure:"api_key" validate:"required"`
	APISecret string  `yaml:"api_secret" mapstructure:"api_secret"`
	MinMatch  float64 `yaml:"min_match" mapstructure:"min_match" default:"0" validate:"gte=0,lte=1"`
}

// LastFmProvider suggests artists using Last.fm artist.getSimilar.
type LastFmProvider struct {
	lastfm LastFmClient
	config *LastFmProviderConfig
}

// NewLastFmProvider creates a new LastFmProvider from provider settings.
func NewLastFmProvider(settings map[string]any) (*LastFmProvider, error) {
	if len(settings) == 0 {
		return nil, errors.New("settings are required")
	}

	var config LastFmProviderConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}

	client, err := lastfm.New(lastfm.Config{APIKey: config.APIKey, APISecret: config.APISecret})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create last.fm client")
	}

	return &LastFmProvider{
		lastfm: client,
		config: &config,
	}, nil
}

// Suggest returns similar artists with a match score of at least MinMatch.
func (p *LastFmProvider) Suggest(ctx context.Context, artistName string, limit int) ([]Suggestion, error) {
	if limit <= 0 {
		return []Suggestion{}, nil
	}

	similar, err := p.lastfm.GetSimilarArtists(ctx, artistName, limit)
	if err != nil {
		return nil, err
	}

	suggestions := make([]Suggestion, 0, len(similar))
	for _, a := range similar {
		if a.Match < p.config.MinMatch {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Name:  a.Name,
			Score: a.Match,
		})
	}
	return suggestions, nil
}

// Name returns the provider name.
func (p *LastFmProvider) Name() string {
	return "lastfm"
}
