// Package jobs runs one conversion batch or download at a time on a worker
// goroutine and routes every view mutation through a Surface, the UI thread
// dispatch. A Guard independent of widget state rejects a second job while
// one is in flight.
package jobs
