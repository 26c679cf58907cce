package platform

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/ytget/media-converter/internal/model"
)

// Timeout constants
const (
	DefaultPlaylistParseTimeout = 30 * time.Second
)

// PlaylistResolver classifies URLs and fetches the playlist metadata needed
// for the playlist-vs-single decision.
type PlaylistResolver struct {
	sources []MetadataSource
	timeout time.Duration
	logger  hclog.Logger
}

// NewPlaylistResolver creates a resolver querying yt-dlp first and the
// item listing client second.
func NewPlaylistResolver(logger hclog.Logger) *PlaylistResolver {
	return NewPlaylistResolverWithSources(logger, FlatQuerySource{}, ItemListingSource{})
}

// NewPlaylistResolverWithSources creates a resolver over the given sources,
// tried in order.
func NewPlaylistResolverWithSources(logger hclog.Logger, sources ...MetadataSource) *PlaylistResolver {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &PlaylistResolver{
		sources: sources,
		timeout: DefaultPlaylistParseTimeout,
		logger:  logger.Named("playlist"),
	}
}

// SetTimeout sets the timeout for each metadata query
func (p *PlaylistResolver) SetTimeout(timeout time.Duration) {
	p.timeout = timeout
}

// Classify returns the playlist shape of url
func (p *PlaylistResolver) Classify(url string) URLKind {
	return Classify(url)
}

// FetchMetadata returns title and item count for the playlist behind url.
// It never fails: when every source errors the result is degraded to an
// unknown count and the default title.
func (p *PlaylistResolver) FetchMetadata(ctx context.Context, url string) PlaylistMetadata {
	for _, src := range p.sources {
		qctx, cancel := context.WithTimeout(ctx, p.timeout)
		meta, err := src.Fetch(qctx, url)
		cancel()
		if err == nil {
			if meta.Title == "" {
				meta.Title = model.DefaultPlaylistTitle
			}
			p.logger.Debug("playlist metadata", "source", src.Name(), "title", meta.Title, "count", meta.Count)
			return meta
		}
		p.logger.Warn("playlist metadata source failed", "source", src.Name(), "url", url, "error", err)
		if ctx.Err() != nil {
			break
		}
	}

	err := fmt.Errorf("%s: %w", url, model.ErrPlaylistMetadataUnavailable)
	p.logger.Error("playlist metadata unavailable, continuing with unknown count",
		"kind", model.KindOf(err), "error", err)
	return PlaylistMetadata{
		Title:    model.DefaultPlaylistTitle,
		Count:    model.UnknownPlaylistCount,
		Degraded: true,
	}
}

// Decision builds the question shown to the user for a URL of kind.
// Plain items need no prompt and carry the single answer Single.
func Decision(kind URLKind, meta PlaylistMetadata) model.DecisionRequest {
	switch kind {
	case PlaylistPage:
		return model.DecisionRequest{
			Title:   "Playlist detected",
			Message: fmt.Sprintf("This is a playlist link containing %s. Download the entire playlist?", countText(meta.Count)),
			Choices: []model.PlaylistAction{model.PlaylistActionEntire, model.PlaylistActionCancelled},
		}
	case ItemWithinPlaylist:
		return model.DecisionRequest{
			Title:   "Video within a playlist",
			Message: fmt.Sprintf("This video is part of a playlist of %s.\n\nDownload the entire playlist or just this video?", countText(meta.Count)),
			Choices: []model.PlaylistAction{model.PlaylistActionEntire, model.PlaylistActionSingle, model.PlaylistActionCancelled},
		}
	default:
		return model.DecisionRequest{Choices: []model.PlaylistAction{model.PlaylistActionSingle}}
	}
}

func countText(n int) string {
	if n <= 0 {
		return "an unknown number of videos"
	}
	if n == 1 {
		return "1 video"
	}
	return fmt.Sprintf("%d videos", n)
}
