package jobs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/ytget/media-converter/internal/convert"
	"github.com/ytget/media-converter/internal/download"
	"github.com/ytget/media-converter/internal/model"
	"github.com/ytget/media-converter/internal/platform"
	"github.com/ytget/media-converter/internal/progress"
)

// Status texts
const (
	IdleText             = "Status: Idle"
	ConvertingText       = "Converting..."
	ProcessingURLText    = "Processing URL..."
	ExtractingPlaylist   = "Extracting playlist data - this may take a while..."
	CancelledText        = "Cancelled"
	DefaultIdleDelay     = 3 * time.Second
	ConversionDoneTitle  = "Conversion Complete"
	DownloadDoneTitle    = "Download Complete"
	UnsupportedURLTitle  = "Invalid URL"
	JobInFlightTitle     = "Busy"
	JobInFlightMessage   = "Another job is already running. Wait for it to finish."
	unsupportedURLFormat = "Please enter a valid URL from a supported platform:\n%s"
)

// Resolver answers the playlist questions for a URL
type Resolver interface {
	Classify(url string) platform.URLKind
	FetchMetadata(ctx context.Context, url string) platform.PlaylistMetadata
}

// Options configures a Runner
type Options struct {
	Surface    Surface
	View       View
	Converter  convert.Converter
	Downloader download.Downloader
	Resolver   Resolver
	Logger     hclog.Logger
	// IdleDelay is how long the final status stays before the idle text
	IdleDelay time.Duration
}

// Runner starts jobs on a worker goroutine and reports back through the
// surface.
type Runner struct {
	surface    Surface
	view       View
	converter  convert.Converter
	downloader download.Downloader
	resolver   Resolver
	logger     hclog.Logger
	idleDelay  time.Duration
	guard      Guard

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRunner creates a runner
func NewRunner(opts Options) *Runner {
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	if opts.IdleDelay <= 0 {
		opts.IdleDelay = DefaultIdleDelay
	}
	return &Runner{
		surface:    opts.Surface,
		view:       opts.View,
		converter:  opts.Converter,
		downloader: opts.Downloader,
		resolver:   opts.Resolver,
		logger:     opts.Logger.Named("jobs"),
		idleDelay:  opts.IdleDelay,
	}
}

// Busy reports whether a job is in flight
func (r *Runner) Busy() bool {
	return r.guard.Busy()
}

// Wait blocks until every started worker has returned
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Cancel stops the in-flight download. Playlists stop before the next item.
// A conversion batch always runs to completion or to its first failure.
func (r *Runner) Cancel() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel == nil {
		r.logger.Debug("nothing to cancel")
		return
	}
	r.logger.Info("cancel requested")
	cancel()
}

// RunConversion starts job on a worker
func (r *Runner) RunConversion(job *model.ConversionJob) error {
	if !r.acquire() {
		return model.ErrJobInFlight
	}
	log := r.logger.With("job", job.ID)
	log.Info("conversion started", "items", len(job.Items), "format", job.OutputFormat, "gpu", job.UseGPU)

	r.post(func() {
		r.view.SetControlsEnabled(false)
		r.view.SetStatus(ConvertingText)
		r.view.SetProgress(0)
	})

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.converter.SetUpdateCallback(func(job *model.ConversionJob, item *model.ConversionItem) {
			r.conversionUpdate(job, item)
		})
		res := r.converter.Run(context.Background(), job)
		r.finish(log, ConversionDoneTitle, res)
	}()
	return nil
}

// conversionUpdate runs on the worker; values are copied before posting
func (r *Runner) conversionUpdate(job *model.ConversionJob, item *model.ConversionItem) {
	pct := job.Percent()
	var text string
	if item.Status.IsActive() {
		pos := 0
		for i, it := range job.Items {
			if it == item {
				pos = i + 1
				break
			}
		}
		text = fmt.Sprintf("Converting file %d/%d: %s", pos, len(job.Items), filepath.Base(item.InputPath))
	}
	r.post(func() {
		if text != "" {
			r.view.SetStatus(text)
		}
		r.view.SetProgress(pct)
	})
}

// RunDownload starts req on a worker. Unsupported URLs are rejected before
// any job starts.
func (r *Runner) RunDownload(req *model.DownloadRequest) error {
	req.URL = platform.NormalizeURL(req.URL)
	if !platform.IsSupportedURL(req.URL) {
		err := fmt.Errorf("%q: %w", req.URL, model.ErrInvalidURL)
		r.logger.Warn("rejected URL", "url", req.URL)
		msg := fmt.Sprintf(unsupportedURLFormat, strings.Join(platform.SupportedPlatforms, ", "))
		r.post(func() { r.view.ShowError(UnsupportedURLTitle, msg) })
		return err
	}
	if !r.acquire() {
		return model.ErrJobInFlight
	}
	log := r.logger.With("request", req.ID, "url", req.URL)
	log.Info("download started", "format", req.Format, "quality", req.Quality)

	r.post(func() {
		r.view.SetControlsEnabled(false)
		r.view.SetCancelEnabled(true)
		r.view.SetStatus(ProcessingURLText)
		r.view.SetProgress(0)
	})

	ctx := r.newContext()
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.download(ctx, log, req)
	}()
	return nil
}

func (r *Runner) download(ctx context.Context, log hclog.Logger, req *model.DownloadRequest) {
	var pctx *model.PlaylistContext

	kind := r.resolver.Classify(req.URL)
	if kind == platform.PlainItem {
		req.PlaylistAction = model.PlaylistActionSingle
	} else {
		r.post(func() { r.view.SetStatus(ExtractingPlaylist) })
		meta := r.resolver.FetchMetadata(ctx, req.URL)
		choice := r.ask(ctx, platform.Decision(kind, meta))
		log.Info("playlist decision", "kind", kind, "choice", choice, "count", meta.Count)

		if choice == model.PlaylistActionCancelled {
			req.PlaylistAction = choice
			r.finish(log, DownloadDoneTitle, model.JobResult{Kind: model.KindCancelled, Message: CancelledText})
			return
		}
		req.PlaylistAction = choice
		if choice == model.PlaylistActionEntire {
			pctx = model.NewPlaylistContext(meta.Title, meta.Count)
		}
	}

	events := progress.NewChannel()
	agg := progress.New(pctx, nil)
	aggDone := make(chan struct{})
	go func() {
		defer close(aggDone)
		agg.Run(context.Background(), events, func(st model.Status) {
			r.post(func() {
				r.view.SetStatus(st.Text)
				r.view.SetProgress(st.Percent)
			})
		})
	}()

	res, err := r.downloader.Download(ctx, req, pctx, events)
	close(events)
	<-aggDone

	switch {
	case download.IsCancelled(err):
		res = model.JobResult{Kind: model.KindCancelled, Message: CancelledText}
	case err != nil && res.Kind == model.KindNone:
		res = model.JobResult{Kind: model.KindOf(err), Message: err.Error()}
	}
	r.finish(log, DownloadDoneTitle, res)
}

// ask suspends the worker until the user answers req on the UI thread.
// Requests that need no prompt return their only choice.
func (r *Runner) ask(ctx context.Context, req model.DecisionRequest) model.PlaylistAction {
	if !req.NeedsPrompt() {
		if len(req.Choices) == 1 {
			return req.Choices[0]
		}
		return model.PlaylistActionSingle
	}

	reply := make(chan model.PlaylistAction, 1)
	r.post(func() {
		r.view.Choose(req, func(choice model.PlaylistAction) {
			select {
			case reply <- choice:
			default:
			}
		})
	})

	select {
	case choice := <-reply:
		if !req.Allows(choice) {
			return model.PlaylistActionCancelled
		}
		return choice
	case <-ctx.Done():
		return model.PlaylistActionCancelled
	}
}

// finish posts the terminal modal, re-enables the controls and releases the
// guard on the UI thread, then schedules the idle status.
func (r *Runner) finish(log hclog.Logger, doneTitle string, res model.JobResult) {
	r.clearContext()

	switch {
	case res.Success:
		log.Info("job succeeded", "outputs", len(res.OutputPaths))
	case res.Kind == model.KindCancelled:
		log.Info("job cancelled")
	default:
		log.Error("job failed", "kind", res.Kind, "error", res.Message)
	}

	r.post(func() {
		switch {
		case res.Success:
			r.view.SetProgress(100)
			r.view.ShowInfo(doneTitle, res.Message)
		case res.Kind == model.KindCancelled:
			r.view.SetStatus(CancelledText)
		default:
			r.view.SetStatus(errorTitle(res.Kind))
			r.view.ShowError(errorTitle(res.Kind), res.Message)
		}
		r.view.SetCancelEnabled(false)
		r.view.SetControlsEnabled(true)
		r.guard.Release()
	})

	time.AfterFunc(r.idleDelay, func() {
		r.post(func() {
			if r.guard.Busy() {
				return
			}
			r.view.SetStatus(IdleText)
			r.view.SetProgress(0)
		})
	})
}

func (r *Runner) acquire() bool {
	if r.guard.TryAcquire() {
		return true
	}
	r.logger.Warn("job rejected", "kind", model.KindJobInFlight)
	r.post(func() { r.view.ShowError(JobInFlightTitle, JobInFlightMessage) })
	return false
}

func (r *Runner) newContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	r.mu.Lock()
	r.cancel = cancel
	r.mu.Unlock()
	return ctx
}

func (r *Runner) clearContext() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()
}

func (r *Runner) post(fn func()) {
	r.surface.Post(fn)
}

// errorTitle names the modal for a failure kind
func errorTitle(kind model.ErrorKind) string {
	switch kind {
	case model.KindUnsupportedFormat:
		return "Unsupported Format"
	case model.KindInvalidConversionKind:
		return "Invalid Conversion"
	case model.KindNoAudioTrack, model.KindProbeFailure:
		return "No Audio Track"
	case model.KindEncodeFailure:
		return "Conversion Failed"
	case model.KindDownloadThrottled:
		return "Download Throttled"
	case model.KindContentRestricted:
		return "Content Restricted"
	case model.KindContentUnavailable:
		return "Content Unavailable"
	case model.KindNetworkFailure:
		return "Network Error"
	case model.KindDownloadGeneric:
		return "Download Error"
	case model.KindInvalidURL:
		return UnsupportedURLTitle
	default:
		return "Error"
	}
}
