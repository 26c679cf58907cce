package download

import (
	"context"

	"github.com/ytget/media-converter/internal/model"
)

// Downloader defines the interface for the download orchestration service.
type Downloader interface {
	Download(ctx context.Context, req *model.DownloadRequest, pctx *model.PlaylistContext, events chan<- model.ProgressEvent) (model.JobResult, error)
}

// Extractor runs one remote fetch with the given options. The hook is called
// synchronously on the extractor's own goroutine for every progress tick and
// must not block.
type Extractor interface {
	Extract(ctx context.Context, opts ExtractorOptions, hook func(model.ProgressEvent)) (ExtractResult, error)
}

// ExtractResult carries what the extractor printed, for error mapping
type ExtractResult struct {
	Stderr string
}
