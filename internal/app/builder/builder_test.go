package builder

import (
	"context"
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/spotlist/internal/domain/artist"
	"github.com/osa030/spotlist/internal/domain/playlist"
	"github.com/osa030/spotlist/internal/domain/selection"
	"github.com/osa030/spotlist/internal/domain/track"
	"github.com/osa030/spotlist/internal/infra/spotify"
)

// fakeService is an in-memory MusicService that records every call.
type fakeService struct {
	userID    string
	userErr   error
	createErr error
	searchErr map[string]error
	topErr    error
	addErr    error

	artists   map[string]artist.Artist  // search query -> artist
	topTracks map[string][]track.Track  // artist id -> tracks

	calls         []string
	created       []createCall
	added         map[string][]string
	addCallsCount int
}

type createCall struct {
	userID      string
	name        string
	description string
	public      bool
}

func newFakeService() *fakeService {
	return &fakeService{
		userID:    "user-1",
		searchErr: make(map[string]error),
		artists:   make(map[string]artist.Artist),
		topTracks: make(map[string][]track.Track),
		added:     make(map[string][]string),
	}
}

// withArtist registers an artist whose top tracks are ids prefix-1..prefix-n.
func (f *fakeService) withArtist(name, id string, n int) *fakeService {
	f.artists[name] = artist.Artist{ID: id, Name: name}
	tracks := make([]track.Track, n)
	for i := range tracks {
		tracks[i] = track.Track{ID: fmt.Sprintf("%s-%d", id, i+1), Artists: []string{name}}
	}
	f.topTracks[id] = tracks
	return f
}

func (f *fakeService) CurrentUserID(ctx context.Context) (string, error) {
	f.calls = append(f.calls, "current_user")
	if f.userErr != nil {
		return "", f.userErr
	}
	return f.userID, nil
}

func (f *fakeService) CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (string, error) {
	f.calls = append(f.calls, "create_playlist")
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, createCall{userID, name, description, public})
	return "playlist-1", nil
}

func (f *fakeService) SearchArtist(ctx context.Context, name string) (*artist.Artist, error) {
	f.calls = append(f.calls, "search:"+name)
	if err := f.searchErr[name]; err != nil {
		return nil, err
	}
	a, ok := f.artists[name]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (f *fakeService) GetArtistTopTracks(ctx context.Context, artistID string) ([]track.Track, error) {
	f.calls = append(f.calls, "top_tracks:"+artistID)
	if f.topErr != nil {
		return nil, f.topErr
	}
	return f.topTracks[artistID], nil
}

func (f *fakeService) AddTracksToPlaylist(ctx context.Context, playlistID string, trackIDs []string) error {
	f.calls = append(f.calls, "add_tracks")
	f.addCallsCount++
	if f.addErr != nil {
		return f.addErr
	}
	f.added[playlistID] = append(f.added[playlistID], trackIDs...)
	return nil
}

func (f *fakeService) PlaylistURL(playlistID string) string {
	return "https://open.spotify.com/playlist/" + playlistID
}

func newBuilder(t *testing.T, svc MusicService) *Builder {
	t.Helper()
	b, err := New(svc, Options{Description: "test"})
	require.NoError(t, err)
	return b
}

func reqs(pairs ...any) []selection.ArtistRequest {
	var out []selection.ArtistRequest
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, selection.ArtistRequest{
			ArtistName: pairs[i].(string),
			TrackCount: pairs[i+1].(int),
		})
	}
	return out
}

func TestNew_RequiresService(t *testing.T) {
	_, err := New(nil, Options{})
	assert.Error(t, err)
}

func TestBuild_ValidationMakesNoCalls(t *testing.T) {
	tests := []struct {
		name       string
		playlist   string
		selections []selection.ArtistRequest
		errMsg     string
	}{
		{
			name:       "empty playlist name",
			playlist:   "",
			selections: reqs("Radiohead", 3),
			errMsg:     "missing playlist name",
		},
		{
			name:       "whitespace playlist name",
			playlist:   "  \t ",
			selections: reqs("Radiohead", 3),
			errMsg:     "missing playlist name",
		},
		{
			name:       "no selections",
			playlist:   "Mix",
			selections: nil,
			errMsg:     "no artists specified",
		},
		{
			name:       "empty selections",
			playlist:   "Mix",
			selections: []selection.ArtistRequest{},
			errMsg:     "no artists specified",
		},
		{
			name:       "negative track count",
			playlist:   "Mix",
			selections: []selection.ArtistRequest{{ArtistName: "Adele", TrackCount: -1}},
			errMsg:     "invalid artist request",
		},
		{
			name:       "zero track count",
			playlist:   "Mix",
			selections: []selection.ArtistRequest{{ArtistName: "Adele", TrackCount: 0}},
			errMsg:     "invalid artist request",
		},
		{
			name:       "track count above range",
			playlist:   "Mix",
			selections: []selection.ArtistRequest{{ArtistName: "Adele", TrackCount: 11}},
			errMsg:     "invalid artist request",
		},
		{
			name:     "blank artist after valid ones",
			playlist: "Mix",
			selections: []selection.ArtistRequest{
				{ArtistName: "Radiohead", TrackCount: 3},
				{ArtistName: "  ", TrackCount: 3},
			},
			errMsg: "selection 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newFakeService()
			b := newBuilder(t, svc)

			result, err := b.Build(context.Background(), tt.playlist, tt.selections)

			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, ErrValidation))
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.Empty(t, svc.calls, "validation failures must not reach the service")
		})
	}
}

func TestBuild_SkipsUnresolvedArtist(t *testing.T) {
	svc := newFakeService().
		withArtist("Radiohead", "rh", 10).
		withArtist("Daft Punk", "dp", 10)
	b := newBuilder(t, svc)

	result, err := b.Build(context.Background(), "  Mix  ", reqs("Radiohead", 3, "NoSuchArtist123", 2, "Daft Punk", 5))
	require.NoError(t, err)

	expected := []string{"rh-1", "rh-2", "rh-3", "dp-1", "dp-2", "dp-3", "dp-4", "dp-5"}
	assert.Equal(t, expected, svc.added["playlist-1"])
	assert.Equal(t, expected, result.Playlist.TrackIDs())
	assert.Len(t, result.Playlist.Tracks, 8)
	assert.Equal(t, 1, svc.addCallsCount)

	assert.Equal(t, "Mix", result.Playlist.Name, "playlist name is trimmed")
	assert.Equal(t, "playlist-1", result.Playlist.ID)
	assert.Equal(t, "https://open.spotify.com/playlist/playlist-1", result.Playlist.URL)

	require.Len(t, result.Artists, 3)
	assert.True(t, result.Artists[0].Resolved())
	assert.False(t, result.Artists[1].Resolved())
	assert.True(t, result.Artists[2].Resolved())
	assert.Equal(t, reqs("NoSuchArtist123", 2), result.Skipped())
}

func TestBuild_CallOrder(t *testing.T) {
	svc := newFakeService().
		withArtist("Radiohead", "rh", 10).
		withArtist("Daft Punk", "dp", 10)
	b := newBuilder(t, svc)

	_, err := b.Build(context.Background(), "Mix", reqs("Radiohead", 3, "NoSuchArtist123", 2, "Daft Punk", 5))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"current_user",
		"create_playlist",
		"search:Radiohead",
		"top_tracks:rh",
		"search:NoSuchArtist123",
		"search:Daft Punk",
		"top_tracks:dp",
		"add_tracks",
	}, svc.calls)
}

func TestBuild_SingleTrack(t *testing.T) {
	svc := newFakeService()
	svc.artists["Adele"] = artist.Artist{ID: "adele", Name: "Adele"}
	svc.topTracks["adele"] = []track.Track{{ID: "T1"}}
	b := newBuilder(t, svc)

	result, err := b.Build(context.Background(), "Adele only", reqs("Adele", 1))
	require.NoError(t, err)

	assert.Equal(t, []string{"T1"}, svc.added["playlist-1"])
	assert.Equal(t, []string{"T1"}, result.Playlist.TrackIDs())
}

func TestBuild_FewerTopTracksThanRequested(t *testing.T) {
	svc := newFakeService().withArtist("Adele", "adele", 2)
	b := newBuilder(t, svc)

	result, err := b.Build(context.Background(), "Mix", reqs("Adele", 10))
	require.NoError(t, err)

	assert.Equal(t, []string{"adele-1", "adele-2"}, result.Playlist.TrackIDs())
}

func TestBuild_DuplicateArtistsAreKept(t *testing.T) {
	svc := newFakeService().withArtist("Adele", "adele", 5)
	b := newBuilder(t, svc)

	result, err := b.Build(context.Background(), "Mix", reqs("Adele", 2, "Adele", 1))
	require.NoError(t, err)

	assert.Equal(t, []string{"adele-1", "adele-2", "adele-1"}, result.Playlist.TrackIDs())
}

func TestBuild_AllArtistsUnresolved(t *testing.T) {
	svc := newFakeService()
	b := newBuilder(t, svc)

	result, err := b.Build(context.Background(), "Empty", reqs("Nobody", 3, "NoOne", 2))
	require.NoError(t, err)

	require.Len(t, svc.created, 1, "playlist is still created")
	assert.Equal(t, 1, svc.addCallsCount, "add is called with an empty payload")
	assert.Empty(t, svc.added["playlist-1"])
	assert.Empty(t, result.Playlist.Tracks)
	assert.Len(t, result.Skipped(), 2)
}

func TestBuild_CreatesWithOptions(t *testing.T) {
	tests := []struct {
		name       string
		visibility playlist.Visibility
		wantPublic bool
	}{
		{name: "default is public", visibility: "", wantPublic: true},
		{name: "public", visibility: playlist.VisibilityPublic, wantPublic: true},
		{name: "private", visibility: playlist.VisibilityPrivate, wantPublic: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newFakeService().withArtist("Adele", "adele", 1)
			b, err := New(svc, Options{Description: "made by test", Visibility: tt.visibility})
			require.NoError(t, err)

			_, err = b.Build(context.Background(), "Mix", reqs("Adele", 1))
			require.NoError(t, err)

			require.Len(t, svc.created, 1)
			assert.Equal(t, createCall{
				userID:      "user-1",
				name:        "Mix",
				description: "made by test",
				public:      tt.wantPublic,
			}, svc.created[0])
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	remote := errors.New("The access token expired")

	tests := []struct {
		name          string
		setup         func(f *fakeService)
		wantClass     error
		wantMsg       string
		wantHint      bool
		wantCreated   bool
		wantAddCalled bool
	}{
		{
			name:      "no session",
			setup:     func(f *fakeService) { f.userErr = errors.Mark(remote, spotify.ErrUnauthorized) },
			wantClass: ErrAuth,
			wantMsg:   "The access token expired",
		},
		{
			name:      "identity lookup transport failure",
			setup:     func(f *fakeService) { f.userErr = errors.New("dial tcp: connection refused") },
			wantClass: ErrService,
			wantMsg:   "connection refused",
		},
		{
			name:      "create fails",
			setup:     func(f *fakeService) { f.createErr = errors.New("Invalid playlist name") },
			wantClass: ErrService,
			wantMsg:   "Invalid playlist name",
		},
		{
			name:        "search fails",
			setup:       func(f *fakeService) { f.searchErr["Daft Punk"] = errors.New("503 Service Unavailable") },
			wantClass:   ErrService,
			wantMsg:     "503 Service Unavailable",
			wantHint:    true,
			wantCreated: true,
		},
		{
			name:        "top tracks fail",
			setup:       func(f *fakeService) { f.topErr = errors.New("quota exceeded") },
			wantClass:   ErrService,
			wantMsg:     "quota exceeded",
			wantHint:    true,
			wantCreated: true,
		},
		{
			name:          "add tracks fails",
			setup:         func(f *fakeService) { f.addErr = errors.New("playlist is full") },
			wantClass:     ErrService,
			wantMsg:       "playlist is full",
			wantHint:      true,
			wantCreated:   true,
			wantAddCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newFakeService().
				withArtist("Radiohead", "rh", 5).
				withArtist("Daft Punk", "dp", 5)
			tt.setup(svc)
			b := newBuilder(t, svc)

			result, err := b.Build(context.Background(), "Mix", reqs("Radiohead", 2, "Daft Punk", 2))

			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, tt.wantClass), "error class: %v", err)
			if tt.wantClass == ErrService {
				assert.False(t, errors.Is(err, ErrAuth), "service failures are not auth failures")
			}
			assert.Contains(t, err.Error(), tt.wantMsg, "remote message is preserved")
			assert.Equal(t, tt.wantCreated, len(svc.created) == 1)
			assert.Equal(t, tt.wantAddCalled, svc.addCallsCount == 1)

			hints := errors.FlattenHints(err)
			if tt.wantHint {
				assert.Contains(t, hints, "left in place")
				assert.Contains(t, hints, "https://open.spotify.com/playlist/playlist-1")
			} else {
				assert.Empty(t, hints)
			}
		})
	}
}

func TestBuild_NoRetry(t *testing.T) {
	svc := newFakeService().withArtist("Adele", "adele", 1)
	svc.createErr = errors.New("500 internal server error")
	b := newBuilder(t, svc)

	_, err := b.Build(context.Background(), "Mix", reqs("Adele", 1))
	require.Error(t, err)

	assert.Equal(t, []string{"current_user", "create_playlist"}, svc.calls)
}
