package model

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatETA(t *testing.T) {
	tests := []struct {
		eta      time.Duration
		expected string
	}{
		{-time.Second, "—"},
		{0, "—"},
		{30 * time.Second, "00:30"},
		{90 * time.Second, "01:30"},
		{time.Hour, "01:00:00"},
		{3661 * time.Second, "01:01:01"},
		{7323 * time.Second, "02:02:03"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, FormatETA(test.eta), "eta=%v", test.eta)
	}
}

func TestNewConversionJob(t *testing.T) {
	job := NewConversionJob([]string{`"/in/clip.wav"`, "  ", "/in/../in/movie.mp4"}, "/out", ".MP3", true)

	require.Len(t, job.Items, 2)
	assert.True(t, strings.HasPrefix(job.ID, ConversionIDPrefix))
	assert.Equal(t, "mp3", job.OutputFormat)
	assert.True(t, job.UseGPU)
	assert.Equal(t, "/in/clip.wav", job.Items[0].InputPath)
	assert.Equal(t, "/in/movie.mp4", job.Items[1].InputPath)
	for _, it := range job.Items {
		assert.Equal(t, TaskStatusPending, it.Status)
	}
}

func TestSplitInputList(t *testing.T) {
	got := SplitInputList(`/a/one.mp3; "/b/two.wav" ;;`)
	assert.Equal(t, []string{"/a/one.mp3", "/b/two.wav"}, got)
}

func TestConversionJob_PercentAndSkip(t *testing.T) {
	job := NewConversionJob([]string{"a.wav", "b.wav", "c.wav", "d.wav"}, "/out", "mp3", false)
	assert.Equal(t, 0, job.Percent())

	job.Items[0].Status = TaskStatusCompleted
	assert.Equal(t, 25, job.Percent())

	job.Items[1].Status = TaskStatusFailed
	job.SkipRemaining()
	assert.Equal(t, TaskStatusSkipped, job.Items[2].Status)
	assert.Equal(t, TaskStatusSkipped, job.Items[3].Status)
	assert.Equal(t, TaskStatusFailed, job.Items[1].Status)
}

func TestNewDownloadRequest(t *testing.T) {
	req := NewDownloadRequest(" https://youtu.be/abc ", "/out", "MP4", "720p")
	assert.True(t, strings.HasPrefix(req.ID, DownloadIDPrefix))
	assert.Equal(t, "https://youtu.be/abc", req.URL)
	assert.Equal(t, "mp4", req.Format)
	assert.Equal(t, PlaylistActionUnresolved, req.PlaylistAction)
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind ErrorKind
	}{
		{"nil", nil, KindNone},
		{"wrapped sentinel", fmt.Errorf("item a.mp4: %w", ErrNoAudioTrack), KindNoAudioTrack},
		{"probe failure counts as no audio", ErrProbeFailure, KindNoAudioTrack},
		{"encode error", &EncodeError{ExitCode: 1, StderrTail: "boom"}, KindEncodeFailure},
		{"job error", NewJobError(KindContentRestricted, "x", errors.New("copyright")), KindContentRestricted},
		{"unknown", errors.New("weird"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
		})
	}
}

func TestEncodeError_Is(t *testing.T) {
	err := fmt.Errorf("convert: %w", &EncodeError{ExitCode: 187})
	assert.True(t, errors.Is(err, ErrEncodeFailure))

	var ee *EncodeError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 187, ee.ExitCode)
}

func TestPlaylistContext(t *testing.T) {
	p := NewPlaylistContext("", 0)
	assert.Equal(t, DefaultPlaylistTitle, p.Title)
	assert.False(t, p.KnownCount())
	assert.Equal(t, UnknownPlaylistCount, p.Remaining())

	p = NewPlaylistContext("Mix", 12)
	p.Advance(3)
	p.Advance(2)
	assert.Equal(t, 3, p.CurrentIndex, "index must never go backwards")

	t0 := time.Unix(1000, 0)
	p.MarkStarted(t0)
	p.MarkStarted(t0.Add(time.Minute))
	assert.Equal(t, t0, p.StartedAt)

	p.MarkItemDone(2, t0.Add(time.Minute))
	assert.Equal(t, 10, p.Remaining())
}

func TestProgressEvent_Fraction(t *testing.T) {
	assert.Equal(t, 1.0, ProgressEvent{Phase: PhaseFinished}.Fraction())
	assert.Equal(t, 0.5, ProgressEvent{Phase: PhaseDownloading, Percent: 50}.Fraction())
	assert.Equal(t, 0.25, ProgressEvent{Phase: PhaseDownloading, Percent: -1, BytesDownloaded: 25, BytesTotal: 100}.Fraction())
	assert.Equal(t, 1.0, ProgressEvent{Phase: PhaseDownloading, Percent: 140}.Fraction())
	assert.Equal(t, 0.0, ProgressEvent{Phase: PhaseDownloading, Percent: -1}.Fraction())
}
