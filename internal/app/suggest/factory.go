package suggest

import (
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/spotlist/internal/infra/config"
)

// NewProviderChainFromConfig creates a provider chain from configuration.
// Without configured providers the chain falls back to Spotify related artists.
// Spotify no longer serves that endpoint to newly registered apps, so config.Load
// adds Last.fm first when LASTFM_API_KEY is set.
func NewProviderChainFromConfig(cfg *config.Config, spotify SpotifyClient) (*ProviderChain, error) {
	providerConfigs := cfg.Suggest.Providers
	if len(providerConfigs) == 0 {
		providerConfigs = []config.ProviderConfig{{Type: "spotify", DisplayName: "Spotify"}}
	}

	var providers []ProviderWithMetadata

	for i, pcfg := range providerConfigs {
		var provider Provider
		var err error
		zlog.Debug().Msgf("creating suggestion provider: index=%d type=%s", i+1, pcfg.Type)
		switch pcfg.Type {
		case "lastfm":
			provider, err = NewLastFmProvider(pcfg.Settings)

		case "spotify":
			provider, err = NewSpotifyProvider(spotify, pcfg.Settings)

		default:
			return nil, errors.Newf("unsupported provider type: %s (provider index %d)", pcfg.Type, i)
		}

		if err != nil {
			return nil, errors.Wrapf(err, "failed to create provider (index %d, type %s)", i, pcfg.Type)
		}

		providers = append(providers, ProviderWithMetadata{
			Provider:    provider,
			DisplayName: pcfg.DisplayName,
		})

		zlog.Debug().Msgf("registered suggestion provider: index=%d type=%s display_name=%s", i+1, pcfg.Type, pcfg.DisplayName)
	}

	return NewProviderChain(providers), nil
}
