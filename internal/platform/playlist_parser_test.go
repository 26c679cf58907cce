package platform

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/media-converter/internal/model"
)

type stubSource struct {
	name  string
	meta  PlaylistMetadata
	err   error
	calls int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(ctx context.Context, url string) (PlaylistMetadata, error) {
	s.calls++
	if _, ok := ctx.Deadline(); !ok {
		return PlaylistMetadata{}, errors.New("query without deadline")
	}
	return s.meta, s.err
}

func TestNewPlaylistResolver(t *testing.T) {
	r := NewPlaylistResolver(nil)
	require.NotNil(t, r)
	assert.Equal(t, DefaultPlaylistParseTimeout, r.timeout)
	assert.Len(t, r.sources, 2)

	r.SetTimeout(time.Minute)
	assert.Equal(t, time.Minute, r.timeout)
}

func TestFetchMetadata_FirstSourceWins(t *testing.T) {
	first := &stubSource{name: "first", meta: PlaylistMetadata{Title: "Mix", Count: 12}}
	second := &stubSource{name: "second"}
	r := NewPlaylistResolverWithSources(nil, first, second)

	meta := r.FetchMetadata(context.Background(), "https://www.youtube.com/playlist?list=PL1")

	assert.Equal(t, "Mix", meta.Title)
	assert.Equal(t, 12, meta.Count)
	assert.False(t, meta.Degraded)
	assert.Equal(t, 0, second.calls)
}

func TestFetchMetadata_FallsBack(t *testing.T) {
	first := &stubSource{name: "first", err: errors.New("HTTP Error 429")}
	second := &stubSource{name: "second", meta: PlaylistMetadata{Count: 3}}
	r := NewPlaylistResolverWithSources(nil, first, second)

	meta := r.FetchMetadata(context.Background(), "https://www.youtube.com/playlist?list=PL1")

	assert.Equal(t, 3, meta.Count)
	assert.Equal(t, model.DefaultPlaylistTitle, meta.Title)
	assert.Equal(t, 1, first.calls)
}

func TestFetchMetadata_Degrades(t *testing.T) {
	r := NewPlaylistResolverWithSources(nil,
		&stubSource{name: "a", err: errors.New("boom")},
		&stubSource{name: "b", err: errors.New("boom")},
	)

	meta := r.FetchMetadata(context.Background(), "https://www.youtube.com/playlist?list=PL1")

	assert.True(t, meta.Degraded)
	assert.Equal(t, model.UnknownPlaylistCount, meta.Count)
	assert.Equal(t, "Untitled Playlist", meta.Title)
}

func TestDecision(t *testing.T) {
	meta := PlaylistMetadata{Title: "Mix", Count: 12}

	page := Decision(PlaylistPage, meta)
	assert.Equal(t, []model.PlaylistAction{model.PlaylistActionEntire, model.PlaylistActionCancelled}, page.Choices)
	assert.Contains(t, page.Message, "12 videos")
	assert.True(t, page.NeedsPrompt())

	item := Decision(ItemWithinPlaylist, meta)
	assert.Len(t, item.Choices, 3)
	assert.True(t, item.Allows(model.PlaylistActionSingle))

	plain := Decision(PlainItem, meta)
	assert.False(t, plain.NeedsPrompt())
	assert.Equal(t, []model.PlaylistAction{model.PlaylistActionSingle}, plain.Choices)

	unknown := Decision(PlaylistPage, PlaylistMetadata{Count: -1})
	assert.Contains(t, unknown.Message, "unknown number")
}

func TestParseFlatPlaylistJSON(t *testing.T) {
	meta, err := parseFlatPlaylistJSON(`{"_type":"playlist","title":"Lo-fi beats","playlist_count":25,"entries":[{"id":"a"}]}`)
	require.NoError(t, err)
	assert.Equal(t, "Lo-fi beats", meta.Title)
	assert.Equal(t, 25, meta.Count)
	assert.Equal(t, FlatQuerySourceName, meta.Source)

	meta, err = parseFlatPlaylistJSON(`{"title":"No count","entries":[{"id":"a"},{"id":"b"}]}`)
	require.NoError(t, err)
	assert.Equal(t, 2, meta.Count)

	_, err = parseFlatPlaylistJSON("")
	assert.Error(t, err)
	_, err = parseFlatPlaylistJSON("{not json")
	assert.Error(t, err)
	_, err = parseFlatPlaylistJSON(`{"title":"empty"}`)
	assert.Error(t, err)

	meta, err = parseFlatPlaylistJSON(`{"_type":"playlist","title":"none","playlist_count":3}`)
	require.NoError(t, err)
	assert.Empty(t, meta.Title, "yt-dlp placeholder titles are cleared")
	assert.Equal(t, 3, meta.Count)
}

func TestListedCount(t *testing.T) {
	assert.Equal(t, 12, listedCount(12))
	assert.Equal(t, model.UnknownPlaylistCount, listedCount(ItemListingLimit))
}

func TestTitleFromItems(t *testing.T) {
	tests := []struct {
		name   string
		titles []string
		want   string
	}{
		{"empty", nil, ""},
		{"single", []string{"Intro"}, "Intro Playlist"},
		{"common prefix", []string{"Rammstein - Live Aus Berlin - Sonne", "Rammstein - Live Aus Berlin - Engel"}, "Rammstein - Live Aus Berlin - Playlist"},
		{"short prefix", []string{"Song A", "Song B"}, "Song A Playlist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, titleFromItems(tt.titles))
		})
	}
}
