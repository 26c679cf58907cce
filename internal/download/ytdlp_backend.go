package download

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/media-converter/internal/model"
)

// DefaultProgressInterval is how often yt-dlp progress is sampled
const DefaultProgressInterval = 500 * time.Millisecond

// YTDLPExtractor implements Extractor on top of the yt-dlp binary
type YTDLPExtractor struct {
	progressInterval time.Duration
	logger           hclog.Logger
}

// NewYTDLPExtractor creates the yt-dlp backed extractor
func NewYTDLPExtractor(logger hclog.Logger) *YTDLPExtractor {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &YTDLPExtractor{
		progressInterval: DefaultProgressInterval,
		logger:           logger.Named("yt-dlp"),
	}
}

// Extract runs yt-dlp once for opts
func (e *YTDLPExtractor) Extract(ctx context.Context, opts ExtractorOptions, hook func(model.ProgressEvent)) (ExtractResult, error) {
	dl := buildCommand(opts)
	if hook != nil {
		dl.ProgressFunc(e.progressInterval, func(update ytdlp.ProgressUpdate) {
			hook(progressEvent(update, time.Now()))
		})
	}

	e.logger.Debug("running extractor", "url", opts.URL, "format", opts.Format, "items", opts.PlaylistItems)
	res, err := dl.Run(ctx, opts.URL)
	var out ExtractResult
	if res != nil {
		out.Stderr = res.Stderr
	}
	return out, err
}

// buildCommand translates backend-neutral options into yt-dlp flags
func buildCommand(opts ExtractorOptions) *ytdlp.Command {
	t := opts.Tuning
	dl := ytdlp.New().
		Format(opts.Format).
		Output(opts.OutputTemplate).
		Retries(strconv.Itoa(t.Retries)).
		FragmentRetries(strconv.Itoa(t.FragmentRetries)).
		ExtractorRetries(strconv.Itoa(t.ExtractorRetries)).
		SocketTimeout(seconds(t.SocketTimeout)).
		SleepInterval(seconds(t.SleepMin)).
		MaxSleepInterval(seconds(t.SleepMax))

	if opts.ForceOverwrites {
		dl.ForceOverwrites()
	}
	if opts.NoPlaylist {
		dl.NoPlaylist()
	}
	if opts.YesPlaylist {
		dl.YesPlaylist()
	}
	if opts.PlaylistItems != "" {
		dl.PlaylistItems(opts.PlaylistItems)
	}
	if opts.MergeOutputFormat != "" {
		dl.MergeOutputFormat(opts.MergeOutputFormat)
	}
	if opts.WriteThumbnail {
		dl.WriteThumbnail()
	}

	for _, pp := range opts.Postprocessors {
		switch pp.Kind {
		case PPExtractAudio:
			dl.ExtractAudio().AudioFormat(pp.Codec).AudioQuality(pp.Quality)
		case PPRemuxVideo:
			dl.RemuxVideo(pp.Codec)
		case PPRecodeVideo:
			dl.RecodeVideo(pp.Codec)
		case PPMetadata:
			dl.EmbedMetadata()
		case PPEmbedThumbnail:
			dl.EmbedThumbnail()
		}
		if len(pp.Args) > 0 {
			dl.PostProcessorArgs(joinArgs(pp))
		}
	}
	return dl
}

// progressEvent converts a yt-dlp progress update
func progressEvent(update ytdlp.ProgressUpdate, now time.Time) model.ProgressEvent {
	ev := model.ProgressEvent{
		Phase:           model.PhaseDownloading,
		Percent:         -1,
		BytesDownloaded: int64(update.DownloadedBytes),
		BytesTotal:      int64(update.TotalBytes),
		At:              now,
	}

	switch update.Status {
	case ytdlp.ProgressStatusFinished, ytdlp.ProgressStatusPostProcessing:
		ev.Phase = model.PhaseFinished
	case ytdlp.ProgressStatusError:
		ev.Phase = model.PhaseError
	}

	if update.TotalBytes > 0 {
		ev.Percent = float64(update.DownloadedBytes) / float64(update.TotalBytes) * 100
	}

	if !update.Started.IsZero() {
		elapsed := now.Sub(update.Started)
		if elapsed.Seconds() > 0 {
			ev.Speed = float64(update.DownloadedBytes) / elapsed.Seconds()
		}
	}

	if eta := update.ETA(); eta > 0 {
		ev.ETA = eta
	}

	if update.Info != nil && update.Info.Title != nil {
		ev.Title = strings.TrimSpace(*update.Info.Title)
	}
	return ev
}
