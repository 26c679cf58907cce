package convert

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProbe_HasAudioTrack(t *testing.T) {
	tests := []struct {
		name   string
		result ExecResult
		want   bool
	}{
		{"audio stream", ExecResult{Stderr: audioProbeOutput, ExitCode: 1}, true},
		{"video only", ExecResult{Stderr: silentProbeOutput, ExitCode: 1}, false},
		{"not started", ExecResult{ExitCode: ExitCodeNotStarted, Err: errors.New("not found")}, false},
		{"empty output", ExecResult{ExitCode: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newFakeRunner()
			r.fallback = tt.result
			p := NewProbe(r, "ffmpeg", nil)

			assert.Equal(t, tt.want, p.HasAudioTrack(context.Background(), "clip.mp4"))
			assert.Equal(t, []string{HideBannerFlag, InputFlag, "clip.mp4"}, r.calls[0].Args)
		})
	}
}
