// Package spotify provides a client for the Spotify API.
package spotify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"github.com/osa030/spotlist/internal/domain/artist"
	"github.com/osa030/spotlist/internal/domain/track"
)

// maxTracksPerRequest is the Spotify limit for adding items to a playlist.
const maxTracksPerRequest = 100

// Scopes are the OAuth scopes spotlist needs.
var Scopes = []string{
	spotifyauth.ScopePlaylistModifyPublic,
	spotifyauth.ScopePlaylistModifyPrivate,
}

// ErrUnauthorized marks failures caused by a missing, expired or rejected session.
var ErrUnauthorized = errors.New("spotify session is not authorized")

// Client is a Spotify API client.
type Client struct {
	client *spotify.Client
	market string
}

// Config represents Spotify client configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	Market       string
}

// New creates a new Spotify client. The session is refreshed from the refresh token
// by the underlying HTTP client; New itself makes no request.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RefreshToken == "" {
		return nil, errors.New("spotify credentials are required")
	}

	auth := spotifyauth.New(
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithClientSecret(cfg.ClientSecret),
		spotifyauth.WithScopes(Scopes...),
	)

	// Create token from refresh token
	token := &oauth2.Token{
		RefreshToken: cfg.RefreshToken,
	}

	// Get HTTP client with auto-refresh capability
	httpClient := auth.Client(ctx, token)

	return newClient(httpClient, cfg.Market), nil
}

func newClient(httpClient *http.Client, market string, opts ...spotify.ClientOption) *Client {
	if market == "" {
		market = "US"
	}
	return &Client{
		client: spotify.New(httpClient, opts...),
		market: market,
	}
}

// CurrentUserID returns the Spotify user ID of the authenticated user.
func (c *Client) CurrentUserID(ctx context.Context) (string, error) {
	user, err := c.client.CurrentUser(ctx)
	if err != nil {
		err = errors.Wrap(err, "failed to get current user")
		if isUnauthorized(err) {
			err = errors.Mark(err, ErrUnauthorized)
		}
		return "", err
	}
	return user.ID, nil
}

// isUnauthorized reports whether err is an API 401/403 or a failed token refresh.
func isUnauthorized(err error) bool {
	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
	}
	var retrieveErr *oauth2.RetrieveError
	return errors.As(err, &retrieveErr)
}

// CreatePlaylist creates a new, non-collaborative playlist for the user.
func (c *Client) CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (string, error) {
	playlist, err := c.client.CreatePlaylistForUser(ctx, userID, name, description, public, false)
	if err != nil {
		return "", errors.Wrap(err, "failed to create playlist")
	}
	return string(playlist.ID), nil
}

// SearchArtist searches the catalog for an artist and returns the first match.
// Returns nil without error when nothing matches.
func (c *Client) SearchArtist(ctx context.Context, name string) (*artist.Artist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("artist name is required")
	}

	result, err := c.client.Search(ctx, "artist:"+name, spotify.SearchTypeArtist, spotify.Limit(1))
	if err != nil {
		return nil, errors.Wrap(err, "failed to search")
	}

	if result.Artists == nil || len(result.Artists.Artists) == 0 {
		return nil, nil
	}

	return c.convertArtist(&result.Artists.Artists[0]), nil
}

// GetArtistTopTracks returns the artist's top tracks in the configured market.
func (c *Client) GetArtistTopTracks(ctx context.Context, artistID string) ([]track.Track, error) {
	id := extractArtistID(artistID)
	if id == "" {
		return nil, errors.New("artist ID is required")
	}

	top, err := c.client.GetArtistsTopTracks(ctx, spotify.ID(id), c.market)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get artist top tracks")
	}

	tracks := make([]track.Track, 0, len(top))
	for i := range top {
		tracks = append(tracks, *c.convertTrack(&top[i]))
	}
	return tracks, nil
}

// GetRelatedArtists returns artists Spotify considers similar to the given artist.
func (c *Client) GetRelatedArtists(ctx context.Context, artistID string) ([]artist.Artist, error) {
	id := extractArtistID(artistID)
	if id == "" {
		return nil, errors.New("artist ID is required")
	}

	related, err := c.client.GetRelatedArtists(ctx, spotify.ID(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get related artists")
	}

	artists := make([]artist.Artist, 0, len(related))
	for i := range related {
		artists = append(artists, *c.convertArtist(&related[i]))
	}
	return artists, nil
}

// AddTracksToPlaylist adds tracks to a playlist.
// trackIDs can be Spotify IDs, URLs, or URIs. An empty list makes no request.
func (c *Client) AddTracksToPlaylist(ctx context.Context, playlistID string, trackIDs []string) error {
	// Extract track IDs from URLs/URIs
	ids := make([]spotify.ID, len(trackIDs))
	for i, trackID := range trackIDs {
		ids[i] = spotify.ID(extractTrackID(trackID))
	}

	for i := 0; i < len(ids); i += maxTracksPerRequest {
		end := min(i+maxTracksPerRequest, len(ids))
		batch := ids[i:end]

		if _, err := c.client.AddTracksToPlaylist(ctx, spotify.ID(playlistID), batch...); err != nil {
			return errors.Wrapf(err, "failed to add tracks to playlist (batch %d-%d)", i+1, end)
		}
	}

	return nil
}

// PlaylistURL returns the Spotify URL for a playlist.
func (c *Client) PlaylistURL(playlistID string) string {
	return fmt.Sprintf("https://open.spotify.com/playlist/%s", playlistID)
}

// TrackURL returns the Spotify URL for a track.
func (c *Client) TrackURL(trackID string) string {
	return fmt.Sprintf("https://open.spotify.com/track/%s", trackID)
}

// ArtistURL returns the Spotify URL for an artist.
func (c *Client) ArtistURL(artistID string) string {
	return fmt.Sprintf("https://open.spotify.com/artist/%s", artistID)
}

// convertTrack converts a Spotify FullTrack to domain Track.
func (c *Client) convertTrack(t *spotify.FullTrack) *track.Track {
	artists := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		artists[i] = a.Name
	}

	return &track.Track{
		ID:         string(t.ID),
		Name:       t.Name,
		Artists:    artists,
		Album:      t.Album.Name,
		Duration:   time.Duration(t.Duration) * time.Millisecond,
		URL:        c.TrackURL(string(t.ID)),
		Popularity: int(t.Popularity),
		Explicit:   t.Explicit,
	}
}

// convertArtist converts a Spotify FullArtist to domain Artist.
func (c *Client) convertArtist(a *spotify.FullArtist) *artist.Artist {
	return &artist.Artist{
		ID:         string(a.ID),
		Name:       a.Name,
		Genres:     a.Genres,
		Popularity: int(a.Popularity),
		URL:        c.ArtistURL(string(a.ID)),
	}
}

// extractID extracts the ID of the given kind ("track" or "artist")
// from a Spotify URL or URI. Anything else is assumed to be a bare ID.
func extractID(kind, input string) string {
	input = strings.TrimSpace(input)
	// Handle Spotify URI format: spotify:<kind>:ID
	if prefix := "spotify:" + kind + ":"; strings.HasPrefix(input, prefix) {
		return strings.TrimPrefix(input, prefix)
	}

	// Handle URL format: https://open.spotify.com/<kind>/ID or https://open.spotify.com/intl-XX/<kind>/ID
	sep := "/" + kind + "/"
	if strings.Contains(input, "open.spotify.com") && strings.Contains(input, sep) {
		parts := strings.Split(input, sep)
		// Remove query parameters and trailing slashes
		id := strings.Split(parts[len(parts)-1], "?")[0]
		return strings.TrimRight(id, "/")
	}

	return input
}

func extractTrackID(input string) string {
	return extractID("track", input)
}

func extractArtistID(input string) string {
	return extractID("artist", input)
}
