// Package selection provides the ordered list of artist requests a playlist is built from.
package selection

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

const (
	MinTrackCount     = 1
	MaxTrackCount     = 10
	DefaultTrackCount = 5
)

var validate = validator.New()

// ArtistRequest asks for the top TrackCount tracks of an artist.
type ArtistRequest struct {
	ArtistName string `validate:"required"`
	TrackCount int    `validate:"gte=1,lte=10"`
}

// NewArtistRequest trims the artist name and validates the request.
func NewArtistRequest(artistName string, trackCount int) (ArtistRequest, error) {
	req := ArtistRequest{
		ArtistName: strings.TrimSpace(artistName),
		TrackCount: trackCount,
	}
	if err := validate.Struct(req); err != nil {
		return ArtistRequest{}, errors.Wrap(err, "invalid artist request")
	}
	return req, nil
}

// String renders the request the way it is shown in the selection list.
func (r ArtistRequest) String() string {
	return fmt.Sprintf("%s - Top %d", r.ArtistName, r.TrackCount)
}

// ParseArtistRequest parses "Artist" or "Artist:N".
// The suffix after the last colon is only treated as a count when it is an integer,
// so names containing colons still parse as plain names.
func ParseArtistRequest(s string, defaultCount int) (ArtistRequest, error) {
	name, count := s, defaultCount
	if i := strings.LastIndex(s, ":"); i >= 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(s[i+1:])); err == nil {
			name, count = s[:i], n
		}
	}
	return NewArtistRequest(name, count)
}

// List is the ordered, mutable sequence of artist requests assembled by the user.
// Duplicate artist names are kept. List is not safe for concurrent use.
type List struct {
	items        []ArtistRequest
	defaultCount int
	nextCount    int
}

// NewList creates an empty list. defaultCount is the count offered for the next entry
// and is clamped to [MinTrackCount, MaxTrackCount].
func NewList(defaultCount int) *List {
	if defaultCount == 0 {
		defaultCount = DefaultTrackCount
	}
	defaultCount = clampCount(defaultCount)
	return &List{
		items:        make([]ArtistRequest, 0),
		defaultCount: defaultCount,
		nextCount:    defaultCount,
	}
}

// Add appends a request for artistName. It is a no-op when the trimmed name is empty
// or count is out of range, and reports whether an entry was added.
// A successful add resets NextCount to the default.
func (l *List) Add(artistName string, count int) bool {
	req, err := NewArtistRequest(artistName, count)
	if err != nil {
		return false
	}
	l.items = append(l.items, req)
	l.nextCount = l.defaultCount
	return true
}

// Remove deletes the entry at position i. Invalid positions are ignored.
func (l *List) Remove(i int) bool {
	if i < 0 || i >= len(l.items) {
		return false
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	return true
}

// Clear removes all entries.
func (l *List) Clear() {
	l.items = l.items[:0]
}

// Snapshot returns a copy of the current entries in order.
func (l *List) Snapshot() []ArtistRequest {
	out := make([]ArtistRequest, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of entries.
func (l *List) Len() int {
	return len(l.items)
}

// Names returns the artist names in order.
func (l *List) Names() []string {
	names := make([]string, len(l.items))
	for i, r := range l.items {
		names[i] = r.ArtistName
	}
	return names
}

// NextCount returns the track count offered for the next entry.
func (l *List) NextCount() int {
	return l.nextCount
}

// SetNextCount sets the track count offered for the next entry, clamped to range.
func (l *List) SetNextCount(n int) {
	l.nextCount = clampCount(n)
}

func clampCount(n int) int {
	return max(MinTrackCount, min(n, MaxTrackCount))
}
