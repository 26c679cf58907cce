package model

import (
	"time"
)

// Playlist defaults
const (
	UnknownPlaylistCount = -1
	DefaultPlaylistTitle = "Untitled Playlist"
)

// PlaylistContext holds the per-request playlist counters. It is created only
// for playlist-related requests and owned by that request's worker and its
// progress consumer; nothing here is shared between requests.
type PlaylistContext struct {
	Title        string
	TotalCount   int // UnknownPlaylistCount when the metadata query failed
	CurrentIndex int // 1-based, never decreases
	StartedAt    time.Time
	LastDoneAt   time.Time
	Completed    int
}

// NewPlaylistContext creates a context for a playlist of count items
func NewPlaylistContext(title string, count int) *PlaylistContext {
	if title == "" {
		title = DefaultPlaylistTitle
	}
	if count <= 0 {
		count = UnknownPlaylistCount
	}
	return &PlaylistContext{
		Title:      title,
		TotalCount: count,
	}
}

// KnownCount reports whether the total number of items is known
func (p *PlaylistContext) KnownCount() bool {
	return p != nil && p.TotalCount > 0
}

// Advance moves the current index forward. Lower indices are ignored so the
// index is monotonically non-decreasing within one request.
func (p *PlaylistContext) Advance(index int) {
	if index > p.CurrentIndex {
		p.CurrentIndex = index
	}
}

// MarkStarted records the start time on the first downloading event of item 1
func (p *PlaylistContext) MarkStarted(now time.Time) {
	if p.StartedAt.IsZero() {
		p.StartedAt = now
	}
}

// MarkItemDone records completion of the item at index
func (p *PlaylistContext) MarkItemDone(index int, now time.Time) {
	if index > p.Completed {
		p.Completed = index
		p.LastDoneAt = now
	}
}

// Remaining returns the number of items not yet completed, or -1 if unknown
func (p *PlaylistContext) Remaining() int {
	if !p.KnownCount() {
		return UnknownPlaylistCount
	}
	r := p.TotalCount - p.Completed
	if r < 0 {
		return 0
	}
	return r
}
