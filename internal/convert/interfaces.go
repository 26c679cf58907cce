package convert

import (
	"context"

	"github.com/ytget/media-converter/internal/model"
)

// Converter defines the interface for the batch conversion service.
type Converter interface {
	SetUpdateCallback(func(job *model.ConversionJob, item *model.ConversionItem))
	Run(ctx context.Context, job *model.ConversionJob) model.JobResult
}

// AudioProber reports whether a media file carries an audio stream.
type AudioProber interface {
	HasAudioTrack(ctx context.Context, path string) bool
}

// CommandRunner runs an external process (enables fakes in tests)
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ExecResult
}
