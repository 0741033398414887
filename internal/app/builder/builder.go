// Package builder creates a playlist from an ordered list of artist requests.
package builder

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/spotlist/internal/domain/artist"
	"github.com/osa030/spotlist/internal/domain/playlist"
	"github.com/osa030/spotlist/internal/domain/selection"
	"github.com/osa030/spotlist/internal/domain/track"
	"github.com/osa030/spotlist/internal/infra/spotify"
)

// MusicService defines the music service operations needed to build a playlist.
type MusicService interface {
	// CurrentUserID returns the ID of the authenticated user. A missing or rejected
	// session is marked with spotify.ErrUnauthorized.
	CurrentUserID(ctx context.Context) (string, error)
	// CreatePlaylist creates a playlist owned by userID and returns its ID.
	CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (string, error)
	// SearchArtist returns the best catalog match for name, or nil when nothing matches.
	SearchArtist(ctx context.Context, name string) (*artist.Artist, error)
	// GetArtistTopTracks returns the artist's top tracks in service ranking order.
	GetArtistTopTracks(ctx context.Context, artistID string) ([]track.Track, error)
	// AddTracksToPlaylist appends the tracks to the playlist in order.
	AddTracksToPlaylist(ctx context.Context, playlistID string, trackIDs []string) error
	// PlaylistURL returns the public URL of a playlist.
	PlaylistURL(playlistID string) string
}

// Options configures created playlists.
type Options struct {
	Description string
	Visibility  playlist.Visibility
}

// ArtistResult describes how one artist request was resolved.
type ArtistResult struct {
	Request selection.ArtistRequest
	Artist  *artist.Artist // nil when the search found no match
	Tracks  []track.Track
}

// Resolved reports whether the artist was found.
func (r ArtistResult) Resolved() bool {
	return r.Artist != nil
}

// Result is the outcome of a successful build.
type Result struct {
	Playlist playlist.Playlist
	Artists  []ArtistResult
}

// Skipped returns the requests whose artist could not be found.
func (r *Result) Skipped() []selection.ArtistRequest {
	var skipped []selection.ArtistRequest
	for _, a := range r.Artists {
		if !a.Resolved() {
			skipped = append(skipped, a.Request)
		}
	}
	return skipped
}

// Builder builds playlists through a MusicService. The service is created once per
// session and injected here; Builder never replaces it.
type Builder struct {
	service MusicService
	opts    Options
}

// New creates a new Builder.
func New(service MusicService, opts Options) (*Builder, error) {
	if service == nil {
		return nil, errors.New("music service is required")
	}
	if opts.Visibility == "" {
		opts.Visibility = playlist.VisibilityPublic
	}
	return &Builder{
		service: service,
		opts:    opts,
	}, nil
}

// Build creates a playlist called name holding the top tracks of each requested artist,
// in request order and then in the service's top-track order.
//
// Artists that cannot be found are skipped. Nothing is retried, and a playlist created
// before a later failure is left in place; the returned error then carries a hint naming it.
func (b *Builder) Build(ctx context.Context, name string, selections []selection.ArtistRequest) (*Result, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("missing playlist name")
	}
	if len(selections) == 0 {
		return nil, validationError("no artists specified")
	}
	for i, req := range selections {
		if _, err := selection.NewArtistRequest(req.ArtistName, req.TrackCount); err != nil {
			return nil, invalidSelectionError(err, i+1, req)
		}
	}

	userID, err := b.service.CurrentUserID(ctx)
	if err != nil {
		if errors.Is(err, spotify.ErrUnauthorized) {
			return nil, authError(err, "failed to get current user")
		}
		return nil, serviceError(err, "failed to get current user")
	}

	playlistID, err := b.service.CreatePlaylist(ctx, userID, name, b.opts.Description, b.opts.Visibility.IsPublic())
	if err != nil {
		return nil, serviceError(err, "failed to create playlist %q", name)
	}
	zlog.Info().Msgf("created playlist: id=%s name=%q visibility=%s", playlistID, name, b.opts.Visibility)

	result := &Result{
		Playlist: playlist.Playlist{
			ID:          playlistID,
			Name:        name,
			Description: b.opts.Description,
			URL:         b.service.PlaylistURL(playlistID),
			Visibility:  b.opts.Visibility,
		},
		Artists: make([]ArtistResult, 0, len(selections)),
	}

	var tracks []track.Track
	for _, req := range selections {
		ar, err := b.resolve(ctx, req)
		if err != nil {
			return nil, leftInPlace(err, result.Playlist)
		}
		result.Artists = append(result.Artists, ar)
		tracks = append(tracks, ar.Tracks...)
	}

	result.Playlist.Tracks = tracks
	trackIDs := result.Playlist.TrackIDs()
	if err := b.service.AddTracksToPlaylist(ctx, playlistID, trackIDs); err != nil {
		return nil, leftInPlace(serviceError(err, "failed to add %d tracks to playlist", len(trackIDs)), result.Playlist)
	}

	zlog.Info().Msgf("playlist populated: id=%s tracks=%d artists=%d skipped=%d",
		playlistID, len(trackIDs), len(selections), len(result.Skipped()))

	return result, nil
}

// resolve finds the artist for req and returns its first req.TrackCount top tracks.
func (b *Builder) resolve(ctx context.Context, req selection.ArtistRequest) (ArtistResult, error) {
	res := ArtistResult{Request: req}

	found, err := b.service.SearchArtist(ctx, req.ArtistName)
	if err != nil {
		return res, serviceError(err, "failed to search artist %q", req.ArtistName)
	}
	if found == nil {
		zlog.Warn().Msgf("artist not found, skipping: artist=%q", req.ArtistName)
		return res, nil
	}
	res.Artist = found

	top, err := b.service.GetArtistTopTracks(ctx, found.ID)
	if err != nil {
		return res, serviceError(err, "failed to get top tracks for %q", found.Name)
	}
	if len(top) > req.TrackCount {
		top = top[:req.TrackCount]
	}
	res.Tracks = top

	zlog.Debug().Msgf("resolved artist: query=%q artist=%q id=%s tracks=%d",
		req.ArtistName, found.Name, found.ID, len(top))

	return res, nil
}

func leftInPlace(err error, p playlist.Playlist) error {
	return errors.WithHintf(err, "playlist %q was created and left in place: %s", p.Name, p.URL)
}
