// Package track provides the Track domain entity.
package track

import "time"

// Track represents a Spotify track entity.
// Contains only information retrieved from Spotify API.
type Track struct {
	ID         string        // Spotify Track ID
	Name       string        // Track name
	Artists    []string      // Artist names
	Album      string        // Album name
	Duration   time.Duration // Track duration
	URL        string        // Spotify URL
	Popularity int           // Popularity score (0-100)
	Explicit   bool          // Explicit content flag
}

// IDs returns the IDs of the given tracks in order.
func IDs(tracks []Track) []string {
	ids := make([]string, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}
	return ids
}
