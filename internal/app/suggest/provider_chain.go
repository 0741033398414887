package suggest

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// ProviderWithMetadata wraps a provider with its metadata.
type ProviderWithMetadata struct {
	Provider    Provider
	DisplayName string
}

// ProviderChain queries every provider in order and merges their suggestions.
type ProviderChain struct {
	providers []ProviderWithMetadata
}

// NewProviderChain creates a new provider chain.
func NewProviderChain(providers []ProviderWithMetadata) *ProviderChain {
	return &ProviderChain{
		providers: providers,
	}
}

// Suggest returns up to limit artists similar to artistName.
// Results keep provider order, names are de-duplicated case-insensitively, and
// the seed artist and every name in exclude are left out.
// A failing provider is logged and skipped; the call fails only when all of them fail.
func (c *ProviderChain) Suggest(ctx context.Context, artistName string, limit int, exclude []string) ([]Suggestion, error) {
	artistName = strings.TrimSpace(artistName)
	if artistName == "" {
		return nil, errors.New("artist name is required")
	}
	if limit <= 0 {
		return []Suggestion{}, nil
	}

	seen := make(map[string]bool, len(exclude)+1)
	seen[normalize(artistName)] = true
	for _, name := range exclude {
		seen[normalize(name)] = true
	}

	var (
		merged   []Suggestion
		failures int
	)
	for i, pm := range c.providers {
		zlog.Debug().Msgf("trying provider: index=%d total=%d name=%s provider_type=%s",
			i+1, len(c.providers), pm.DisplayName, pm.Provider.Name())

		suggestions, err := pm.Provider.Suggest(ctx, artistName, limit)
		if err != nil {
			failures++
			zlog.Warn().Msgf("provider failed, trying next: provider=%s error=%v", pm.DisplayName, err)
			continue
		}

		added := 0
		for _, s := range suggestions {
			key := normalize(s.Name)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			s.Source = pm.DisplayName
			merged = append(merged, s)
			added++
		}

		zlog.Info().Msgf("provider returned suggestions: provider=%s count=%d new=%d total_so_far=%d",
			pm.DisplayName, len(suggestions), added, len(merged))
	}

	if len(c.providers) > 0 && failures == len(c.providers) {
		return nil, errors.New("all suggestion providers failed")
	}

	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

// Len returns the number of providers in the chain.
func (c *ProviderChain) Len() int {
	return len(c.providers)
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
