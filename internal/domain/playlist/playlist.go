// Package playlist provides the Playlist domain entity.
package playlist

import (
	"time"

	"github.com/osa030/spotlist/internal/domain/track"
)

// Visibility controls who can see a created playlist.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// IsPublic reports whether the visibility is public.
// Anything other than "private" is treated as public.
func (v Visibility) IsPublic() bool {
	return v != VisibilityPrivate
}

// Playlist represents a Spotify playlist.
type Playlist struct {
	ID          string        // Spotify Playlist ID
	Name        string        // Playlist name
	Description string        // Playlist description
	URL         string        // Spotify URL
	Visibility  Visibility    // Public or private
	Tracks      []track.Track // Tracks in the playlist
}

// TrackIDs returns all track IDs in the playlist.
func (p *Playlist) TrackIDs() []string {
	return track.IDs(p.Tracks)
}

// TotalDuration returns the total duration of all tracks.
func (p *Playlist) TotalDuration() time.Duration {
	var total time.Duration
	for _, t := range p.Tracks {
		total += t.Duration
	}
	return total
}
