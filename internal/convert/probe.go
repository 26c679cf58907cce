package convert

import (
	"context"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Markers ffmpeg prints on stderr for an input with an audio stream
const (
	StreamMarker = "Stream #0"
	AudioMarker  = "Audio:"
)

// Probe checks media files for audio streams by reading ffmpeg's input dump
type Probe struct {
	runner     CommandRunner
	ffmpegPath string
	logger     hclog.Logger
}

// NewProbe creates a probe using ffmpegPath
func NewProbe(runner CommandRunner, ffmpegPath string, logger hclog.Logger) *Probe {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Probe{
		runner:     runner,
		ffmpegPath: ResolveFFmpegPath(ffmpegPath),
		logger:     logger.Named("probe"),
	}
}

// HasAudioTrack reports whether path has at least one audio stream. ffmpeg
// exits non-zero without an output file, so only stderr is inspected. A probe
// that cannot run counts as "no audio".
func (p *Probe) HasAudioTrack(ctx context.Context, path string) bool {
	res := p.runner.Run(ctx, p.ffmpegPath, HideBannerFlag, InputFlag, path)
	if res.ExitCode == ExitCodeNotStarted {
		p.logger.Warn("probe failed to run", "path", path, "error", res.Err)
		return false
	}
	if ctx.Err() != nil {
		p.logger.Warn("probe interrupted", "path", path, "error", ctx.Err())
		return false
	}

	hasAudio := strings.Contains(res.Stderr, StreamMarker) && strings.Contains(res.Stderr, AudioMarker)
	p.logger.Debug("probe finished", "path", path, "has_audio", hasAudio)
	return hasAudio
}
