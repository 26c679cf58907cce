package model

import "time"

// ProgressPhase is the stage reported by a transfer tick
type ProgressPhase string

const (
	PhaseDownloading ProgressPhase = "downloading"
	PhaseFinished    ProgressPhase = "finished"
	PhaseError       ProgressPhase = "error"
)

// ProgressEvent is one raw transfer tick translated from the extractor hook
type ProgressEvent struct {
	Phase           ProgressPhase
	Percent         float64 // 0 to 100 for the current item, -1 if unknown
	Speed           float64 // bytes per second, 0 if unknown
	ETA             time.Duration
	BytesDownloaded int64
	BytesTotal      int64
	ItemIndex       int // 1-based, 0 for non-playlist downloads
	ItemCount       int // -1 if unknown, 0 for non-playlist downloads
	Title           string
	At              time.Time
}

// Fraction returns the in-item completion in the range [0, 1]
func (e ProgressEvent) Fraction() float64 {
	if e.Phase == PhaseFinished {
		return 1
	}
	p := e.Percent
	if p < 0 && e.BytesTotal > 0 {
		p = float64(e.BytesDownloaded) / float64(e.BytesTotal) * 100
	}
	switch {
	case p <= 0:
		return 0
	case p >= 100:
		return 1
	}
	return p / 100
}

// Status is the formatted output handed to the UI surface
type Status struct {
	Text    string
	Percent int
}
