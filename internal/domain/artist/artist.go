// Package artist provides the Artist domain entity.
package artist

// Artist represents a Spotify artist matched by a catalog search.
type Artist struct {
	ID         string   // Spotify Artist ID
	Name       string   // Artist name as known to Spotify
	Genres     []string // Genres
	Popularity int      // Popularity score (0-100)
	URL        string   // Spotify URL
}
