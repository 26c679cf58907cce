package jobs

import (
	"context"

	"github.com/ytget/media-converter/internal/model"
)

// Surface executes fn on the UI thread. Workers never touch the view
// directly.
type Surface interface {
	Post(fn func())
}

// View is the opaque sink the runner drives. All methods are called on the
// UI thread.
type View interface {
	SetControlsEnabled(enabled bool)
	// SetCancelEnabled toggles the cancel control; only downloads can be cancelled
	SetCancelEnabled(enabled bool)
	SetStatus(text string)
	SetProgress(percent int)
	ShowError(title, message string)
	ShowInfo(title, message string)
	// Choose presents req and calls reply exactly once with the picked answer
	Choose(req model.DecisionRequest, reply func(model.PlaylistAction))
}

// DefaultLoopBuffer is the queue size of a Loop
const DefaultLoopBuffer = 256

// Loop is a single-goroutine Surface for the CLI and tests
type Loop struct {
	queue chan func()
}

// NewLoop creates a loop; call Run on the goroutine that owns the view
func NewLoop() *Loop {
	return &Loop{queue: make(chan func(), DefaultLoopBuffer)}
}

// Post enqueues fn
func (l *Loop) Post(fn func()) {
	l.queue <- fn
}

// Run executes posted functions in order until ctx is done
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.queue:
			fn()
		}
	}
}

// RunUntil executes posted functions until done is closed, then drains
// whatever is still queued.
func (l *Loop) RunUntil(done <-chan struct{}) {
	for {
		select {
		case fn := <-l.queue:
			fn()
		case <-done:
			for {
				select {
				case fn := <-l.queue:
					fn()
				default:
					return
				}
			}
		}
	}
}
