package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	goytdlp "github.com/lrstanley/go-ytdlp"
	ytlist "github.com/ytget/ytdlp/v2"

	"github.com/ytget/media-converter/internal/model"
)

// Source names, used in logs
const (
	FlatQuerySourceName   = "yt-dlp-flat"
	ItemListingSourceName = "ytdlp-items"
)

// Playlist title constants
const (
	MinPrefixLength = 10
	PlaylistSuffix  = " Playlist"
)

// ItemListingLimit caps the fallback listing. A playlist that reaches it is
// reported with an unknown count.
const ItemListingLimit = 200

// PlaylistMetadata is what the prompt needs to know about a playlist
type PlaylistMetadata struct {
	Title    string
	Count    int
	Degraded bool
	Source   string
}

// MetadataSource answers a minimal playlist query
type MetadataSource interface {
	Name() string
	Fetch(ctx context.Context, url string) (PlaylistMetadata, error)
}

// FlatQuerySource asks yt-dlp for a flat, single-JSON dump of the playlist.
// Entries are not resolved, so this costs one page request.
type FlatQuerySource struct{}

// Name returns the source name
func (FlatQuerySource) Name() string { return FlatQuerySourceName }

// Fetch runs the flat query for url
func (FlatQuerySource) Fetch(ctx context.Context, url string) (PlaylistMetadata, error) {
	res, err := goytdlp.New().
		FlatPlaylist().
		DumpSingleJSON().
		YesPlaylist().
		Run(ctx, url)
	if err != nil {
		return PlaylistMetadata{}, fmt.Errorf("flat playlist query: %w", err)
	}
	return parseFlatPlaylistJSON(res.Stdout)
}

// parseFlatPlaylistJSON reads title and item count from a single-JSON dump
func parseFlatPlaylistJSON(output string) (PlaylistMetadata, error) {
	output = strings.TrimSpace(output)
	if output == "" {
		return PlaylistMetadata{}, fmt.Errorf("empty playlist dump")
	}

	raw := json.RawMessage(output)
	info, err := goytdlp.ParseExtractedInfo(&raw)
	if err != nil {
		return PlaylistMetadata{}, fmt.Errorf("decode playlist dump: %w", err)
	}

	count := len(info.Entries)
	if info.PlaylistCount != nil && *info.PlaylistCount > 0 {
		count = *info.PlaylistCount
	}
	if count <= 0 {
		return PlaylistMetadata{}, fmt.Errorf("playlist dump has no entries")
	}

	var title string
	if info.Title != nil {
		title = strings.TrimSpace(*info.Title)
	}
	return PlaylistMetadata{
		Title:  title,
		Count:  count,
		Source: FlatQuerySourceName,
	}, nil
}

// ItemListingSource lists playlist items through the InnerTube client and
// derives a title from them. It only understands YouTube playlist IDs. It is
// a best-effort second query used when the flat query fails, and it stops
// after ItemListingLimit items.
type ItemListingSource struct{}

// Name returns the source name
func (ItemListingSource) Name() string { return ItemListingSourceName }

// Fetch lists up to ItemListingLimit items of the playlist referenced by url
func (ItemListingSource) Fetch(ctx context.Context, url string) (PlaylistMetadata, error) {
	playlistID := PlaylistID(url)
	if playlistID == "" {
		return PlaylistMetadata{}, fmt.Errorf("could not extract playlist ID from URL: %s", url)
	}

	items, err := ytlist.New().GetPlaylistItemsAll(ctx, playlistID, ItemListingLimit)
	if err != nil {
		return PlaylistMetadata{}, fmt.Errorf("failed to get playlist items: %w", err)
	}
	if len(items) == 0 {
		return PlaylistMetadata{}, fmt.Errorf("playlist %s has no items", playlistID)
	}

	titles := make([]string, 0, len(items))
	for _, it := range items {
		titles = append(titles, it.Title)
	}
	return PlaylistMetadata{
		Title:  titleFromItems(titles),
		Count:  listedCount(len(items)),
		Source: ItemListingSourceName,
	}, nil
}

// listedCount turns a capped listing length into a playlist count
func listedCount(n int) int {
	if n >= ItemListingLimit {
		return model.UnknownPlaylistCount
	}
	return n
}

// titleFromItems generates a playlist title from the item titles
func titleFromItems(titles []string) string {
	if len(titles) == 0 {
		return ""
	}
	if len(titles) > 1 {
		commonPrefix := findCommonPrefix(titles[0], titles[1])
		if len(commonPrefix) > MinPrefixLength {
			return strings.TrimSpace(commonPrefix) + PlaylistSuffix
		}
	}
	return titles[0] + PlaylistSuffix
}

// findCommonPrefix finds the common prefix between two strings
func findCommonPrefix(s1, s2 string) string {
	minLen := min(len(s1), len(s2))
	for i := 0; i < minLen; i++ {
		if s1[i] != s2[i] {
			return s1[:i]
		}
	}
	return s1[:minLen]
}
