package progress

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/ytget/media-converter/internal/model"
)

// Status texts
const (
	ProcessingText    = "Processing..."
	DownloadErrorText = "Download error"
)

// Aggregator folds progress events into a Status. It is not safe for
// concurrent use; Run gives it a single owning goroutine.
type Aggregator struct {
	pctx      *model.PlaylistContext
	now       func() time.Time
	highWater float64
	last      model.Status
}

// New creates an aggregator. pctx is nil for non-playlist downloads; clock
// defaults to time.Now.
func New(pctx *model.PlaylistContext, clock func() time.Time) *Aggregator {
	if clock == nil {
		clock = time.Now
	}
	return &Aggregator{pctx: pctx, now: clock}
}

// Run consumes events until the channel is closed or ctx is done, handing
// every resulting Status to publish.
func (a *Aggregator) Run(ctx context.Context, events <-chan model.ProgressEvent, publish func(model.Status)) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			publish(a.Consume(ev))
		}
	}
}

// Last returns the most recently produced status
func (a *Aggregator) Last() model.Status {
	return a.last
}

// Consume applies one event and returns the new status
func (a *Aggregator) Consume(ev model.ProgressEvent) model.Status {
	at := ev.At
	if at.IsZero() {
		at = a.now()
	}

	var st model.Status
	switch {
	case ev.Phase == model.PhaseError:
		st = model.Status{Text: DownloadErrorText, Percent: a.last.Percent}
	case a.pctx == nil:
		st = a.single(ev)
	case a.pctx.KnownCount():
		st = a.playlist(ev, at)
	default:
		st = a.unknownCount(ev)
	}
	a.last = st
	return st
}

func (a *Aggregator) single(ev model.ProgressEvent) model.Status {
	pct := ev.Fraction() * 100
	if ev.Phase == model.PhaseFinished {
		return model.Status{Text: ProcessingText, Percent: 100}
	}
	return model.Status{
		Text:    fmt.Sprintf("Downloading... %.1f%% @ %s (ETA: %s)", pct, FormatSpeed(ev.Speed), model.FormatETA(ev.ETA)),
		Percent: floorPercent(pct),
	}
}

func (a *Aggregator) playlist(ev model.ProgressEvent, at time.Time) model.Status {
	p := a.pctx
	idx := ev.ItemIndex
	if idx <= 0 {
		idx = max(p.CurrentIndex, 1)
	}
	p.Advance(idx)

	frac := ev.Fraction()
	if ev.Phase == model.PhaseDownloading {
		p.MarkStarted(at)
	}
	if ev.Phase == model.PhaseFinished {
		p.MarkStarted(at)
		p.MarkItemDone(idx, at)
	}

	overall := (float64(idx-1) + frac) / float64(p.TotalCount) * 100
	overall = math.Min(overall, 100)
	if overall < a.highWater {
		overall = a.highWater
	}
	a.highWater = overall

	if ev.Phase == model.PhaseFinished {
		return model.Status{Text: ProcessingText, Percent: floorPercent(overall)}
	}

	text := fmt.Sprintf("Downloading %d/%d - %.1f%% @ %s | Overall %.1f%% | Elapsed %s",
		idx, p.TotalCount, frac*100, FormatSpeed(ev.Speed), overall, FormatClock(at.Sub(p.StartedAt)))
	if remaining, ok := a.remaining(); ok {
		text += " | Remaining ~" + FormatClock(remaining)
	}
	return model.Status{Text: text, Percent: floorPercent(overall)}
}

// remaining estimates the time left from the average duration of the items
// finished so far. It is unknown until the first item completes.
func (a *Aggregator) remaining() (time.Duration, bool) {
	p := a.pctx
	if p.Completed == 0 || p.StartedAt.IsZero() || !p.LastDoneAt.After(p.StartedAt) {
		return 0, false
	}
	avg := p.LastDoneAt.Sub(p.StartedAt) / time.Duration(p.Completed)
	return avg * time.Duration(p.Remaining()), true
}

func (a *Aggregator) unknownCount(ev model.ProgressEvent) model.Status {
	p := a.pctx
	idx := ev.ItemIndex
	if idx <= 0 {
		idx = max(p.CurrentIndex, 1)
	}
	p.Advance(idx)

	pct := ev.Fraction() * 100
	if ev.Phase == model.PhaseFinished {
		p.MarkItemDone(idx, a.now())
		return model.Status{Text: ProcessingText, Percent: 100}
	}
	return model.Status{
		Text:    fmt.Sprintf("Downloading item %d - %.1f%% @ %s", p.CurrentIndex, pct, FormatSpeed(ev.Speed)),
		Percent: floorPercent(pct),
	}
}

func floorPercent(p float64) int {
	switch {
	case p <= 0:
		return 0
	case p >= 100:
		return 100
	}
	return int(math.Floor(p))
}

// FormatSpeed renders bytes per second with binary units
func FormatSpeed(bps float64) string {
	const (
		kib = 1024.0
		mib = kib * 1024
		gib = mib * 1024
	)
	switch {
	case bps <= 0:
		return "N/A"
	case bps < kib:
		return fmt.Sprintf("%.0f B/s", bps)
	case bps < mib:
		return fmt.Sprintf("%.1f KiB/s", bps/kib)
	case bps < gib:
		return fmt.Sprintf("%.1f MiB/s", bps/mib)
	default:
		return fmt.Sprintf("%.1f GiB/s", bps/gib)
	}
}

// FormatClock formats an elapsed duration as mm:ss or hh:mm:ss
func FormatClock(d time.Duration) string {
	if d < time.Second {
		return "00:00"
	}
	return model.FormatETA(d)
}
