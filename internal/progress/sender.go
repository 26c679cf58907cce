package progress

import (
	"context"
	"sync/atomic"

	"github.com/ytget/media-converter/internal/model"
)

// DefaultBufferSize bounds the event channel between the extractor hook and
// the consumer.
const DefaultBufferSize = 64

// NewChannel returns a bounded event channel
func NewChannel() chan model.ProgressEvent {
	return make(chan model.ProgressEvent, DefaultBufferSize)
}

// Sender publishes events from the extractor thread. Downloading ticks are
// dropped when the channel is full so the hook never blocks the transfer;
// Finished and Error events are always delivered.
type Sender struct {
	ch      chan<- model.ProgressEvent
	dropped atomic.Int64
}

// NewSender wraps ch. A nil channel makes every Send a no-op.
func NewSender(ch chan<- model.ProgressEvent) *Sender {
	return &Sender{ch: ch}
}

// Send delivers ev and reports whether it was enqueued
func (s *Sender) Send(ctx context.Context, ev model.ProgressEvent) bool {
	if s == nil || s.ch == nil {
		return false
	}

	if ev.Phase == model.PhaseDownloading {
		select {
		case s.ch <- ev:
			return true
		default:
			s.dropped.Add(1)
			return false
		}
	}

	select {
	case s.ch <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// Dropped returns the number of ticks discarded on a full channel
func (s *Sender) Dropped() int64 {
	if s == nil {
		return 0
	}
	return s.dropped.Load()
}
