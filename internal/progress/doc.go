// Package progress turns raw extractor ticks into the status line and the
// integer percent shown by the UI. Ticks travel over a bounded channel from
// the extractor thread to a single consumer that owns the playlist counters.
package progress
