package download

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/ytget/media-converter/internal/formats"
	"github.com/ytget/media-converter/internal/model"
	"github.com/ytget/media-converter/internal/platform"
	"github.com/ytget/media-converter/internal/progress"
)

// Service orchestrates one download request at a time: option building,
// per-item playlist runs, progress forwarding and error mapping. Retries
// happen inside the extractor, never here.
type Service struct {
	extractor Extractor
	logger    hclog.Logger
	now       func() time.Time
	mu        sync.Mutex
	onUpdate  func(*model.DownloadRequest, string) // callback for notes such as format coercion
}

// NewService creates a download service. A nil extractor uses yt-dlp.
func NewService(extractor Extractor, logger hclog.Logger) *Service {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if extractor == nil {
		extractor = NewYTDLPExtractor(logger)
	}
	return &Service{
		extractor: extractor,
		logger:    logger.Named("download"),
		now:       time.Now,
	}
}

// SetUpdateCallback sets the callback for informational notes
func (s *Service) SetUpdateCallback(callback func(*model.DownloadRequest, string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = callback
}

// Download fetches req. pctx must be non-nil when the request covers an
// entire playlist. Progress events go to events, which may be nil.
func (s *Service) Download(ctx context.Context, req *model.DownloadRequest, pctx *model.PlaylistContext, events chan<- model.ProgressEvent) (model.JobResult, error) {
	log := s.logger.With("request", req.ID, "url", req.URL)

	format, coerced := EffectiveFormat(req.URL, req.Format)
	if coerced {
		note := fmt.Sprintf("Music platform detected - downloading as %s instead of %s", format, req.Format)
		log.Info(note)
		s.notifyUpdate(req, note)
	}

	opts, err := BuildOptions(req, pctx)
	if err != nil {
		log.Error("invalid request", "error", err)
		return failedResult(err), err
	}

	started := s.now()
	sender := progress.NewSender(events)

	switch {
	case req.PlaylistAction == model.PlaylistActionEntire && pctx.KnownCount():
		err = s.runItems(ctx, opts, pctx, sender, log)
	case req.PlaylistAction == model.PlaylistActionEntire:
		err = s.runOnce(ctx, opts, sender, &titleIndexer{})
	default:
		err = s.runOnce(ctx, opts, sender, nil)
	}
	if dropped := sender.Dropped(); dropped > 0 {
		log.Debug("progress ticks dropped", "count", dropped)
	}
	if err != nil {
		if IsCancelled(err) {
			log.Info("download cancelled")
		} else {
			log.Error("download failed", "kind", model.KindOf(err), "error", err)
		}
		return failedResult(err), err
	}

	outputs, scanErr := platform.FindProducedFiles(req.OutputDir, format, started)
	if scanErr != nil {
		log.Warn("could not list downloaded files", "dir", req.OutputDir, "error", scanErr)
	}
	log.Info("download complete", "files", len(outputs))
	return model.JobResult{
		Success:     true,
		Message:     completionMessage(format, req.OutputDir, outputs, coerced),
		OutputPaths: outputs,
	}, nil
}

// runItems fetches a playlist of known size one index at a time so the
// cancel flag is honored between items. The first failed item ends the
// request.
func (s *Service) runItems(ctx context.Context, opts ExtractorOptions, pctx *model.PlaylistContext, sender *progress.Sender, log hclog.Logger) error {
	for i := 1; i <= pctx.TotalCount; i++ {
		if err := ctx.Err(); err != nil {
			log.Info("playlist cancelled", "next_item", i)
			return ClassifyError(opts.URL, err, "")
		}

		index := i
		hook := func(ev model.ProgressEvent) {
			ev.ItemIndex = index
			ev.ItemCount = pctx.TotalCount
			sender.Send(ctx, ev)
		}
		res, err := s.extractor.Extract(ctx, opts.ForItem(i), hook)
		if err == nil {
			continue
		}
		if ctx.Err() != nil {
			return ClassifyError(opts.URL, ctx.Err(), "")
		}

		mapped := ClassifyError(opts.URL, err, res.Stderr)
		log.Warn("playlist item failed", "index", i, "error", mapped)
		sender.Send(ctx, model.ProgressEvent{Phase: model.PhaseError, ItemIndex: i, ItemCount: pctx.TotalCount, At: s.now()})
		return mapped
	}
	return nil
}

// runOnce performs a single extractor run. indexer, when set, derives the
// item index of an unknown-size playlist from title changes.
func (s *Service) runOnce(ctx context.Context, opts ExtractorOptions, sender *progress.Sender, indexer *titleIndexer) error {
	hook := func(ev model.ProgressEvent) {
		if indexer != nil {
			ev.ItemIndex = indexer.index(ev.Title)
			ev.ItemCount = model.UnknownPlaylistCount
		}
		sender.Send(ctx, ev)
	}
	res, err := s.extractor.Extract(ctx, opts, hook)
	if err != nil {
		if ctx.Err() != nil {
			return ClassifyError(opts.URL, ctx.Err(), "")
		}
		sender.Send(ctx, model.ProgressEvent{Phase: model.PhaseError, At: s.now()})
		return ClassifyError(opts.URL, err, res.Stderr)
	}
	return nil
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(req *model.DownloadRequest, note string) {
	s.mu.Lock()
	cb := s.onUpdate
	s.mu.Unlock()
	if cb != nil {
		cb(req, note)
	}
}

// titleIndexer numbers playlist items by watching the title change between
// progress ticks. It runs on the extractor goroutine only.
type titleIndexer struct {
	title string
	n     int
}

func (t *titleIndexer) index(title string) int {
	if t.n == 0 || (title != "" && title != t.title) {
		t.n++
	}
	if title != "" {
		t.title = title
	}
	return t.n
}

func failedResult(err error) model.JobResult {
	kind := model.KindOf(err)
	if kind == model.KindInternal {
		kind = model.KindDownloadGeneric
	}
	return model.JobResult{Kind: kind, Message: err.Error()}
}

func completionMessage(format, dir string, outputs []string, coerced bool) string {
	var b strings.Builder
	b.WriteString("Download complete!")
	if len(outputs) > 0 {
		fmt.Fprintf(&b, " %d file(s) saved to %s.", len(outputs), dir)
	}
	if coerced {
		fmt.Fprintf(&b, "\nSaved as %s.", format)
	}
	if formats.Classify(format) == formats.Audio && len(outputs) == 1 {
		if desc := platform.DescribeAudioFile(outputs[0]); desc != "" {
			b.WriteString("\n" + desc)
		}
	}
	return b.String()
}

// IsCancelled reports whether err ended a download because of Cancel
func IsCancelled(err error) bool {
	return errors.Is(err, model.ErrCancelled) || errors.Is(err, context.Canceled)
}
