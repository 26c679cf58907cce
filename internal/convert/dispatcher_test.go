package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/media-converter/internal/formats"
	"github.com/ytget/media-converter/internal/model"
)

func TestSelectRoute(t *testing.T) {
	tests := []struct {
		in, out string
		want    Route
		wantErr error
	}{
		{".wav", "mp3", RouteAudioToAudio, nil},
		{".FLAC", "ogg", RouteAudioToAudio, nil},
		{".mp4", "mp3", RouteVideoToAudio, nil},
		{".mkv", "wav", RouteVideoToAudio, nil},
		{".mov", "mp4", RouteVideoToVideo, nil},
		{".avi", "webm", RouteVideoToVideo, nil},
		{".wav", "mp4", RouteAudioToVideo, model.ErrInvalidConversionKind},
		{".mp3", "mkv", RouteAudioToVideo, model.ErrInvalidConversionKind},
		{".txt", "mp3", RouteNone, model.ErrUnsupportedFormat},
		{".mp4", "gif", RouteNone, model.ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.in+"->"+tt.out, func(t *testing.T) {
			got, err := SelectRoute(tt.in, tt.out)
			assert.Equal(t, tt.want, got)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestSelectRoute_EveryPairHasOneRoute(t *testing.T) {
	for _, in := range formats.All() {
		for _, out := range formats.All() {
			route, _ := SelectRoute(in, out)
			assert.NotEqual(t, RouteNone, route, "%s -> %s", in, out)
		}
	}
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/out", "clip.mp3"), OutputPath("/in/clip.wav", "/out", "mp3"))
	assert.Equal(t, filepath.Join("/out", "movie.final.mkv"), OutputPath("/in/movie.final.mp4", "/out", ".MKV"))
}

func newTestDispatcher(r *fakeRunner) *Dispatcher {
	return NewDispatcher(NewEncoder(r, "ffmpeg", nil), NewProbe(r, "ffmpeg", nil), nil)
}

func TestDispatch_AudioToVideoNeverEncodes(t *testing.T) {
	r := newFakeRunner()
	d := newTestDispatcher(r)
	item := &model.ConversionItem{InputPath: "/in/song.wav"}

	out := d.Dispatch(context.Background(), item, "/out", "mp4", true)

	require.False(t, out.Continue())
	assert.Equal(t, RouteAudioToVideo, out.Route)
	assert.Equal(t, model.KindInvalidConversionKind, model.KindOf(out.Reason))
	assert.Empty(t, r.calls)
}

func TestDispatch_VideoToAudioWithoutAudioTrack(t *testing.T) {
	r := newFakeRunner().on(HideBannerFlag+" "+InputFlag, ExecResult{Stderr: silentProbeOutput, ExitCode: 1, Err: errors.New("exit status 1")})
	d := newTestDispatcher(r)
	item := &model.ConversionItem{InputPath: "/in/clip.mp4"}

	out := d.Dispatch(context.Background(), item, "/out", "mp3", false)

	require.False(t, out.Continue())
	assert.Equal(t, model.KindNoAudioTrack, model.KindOf(out.Reason))
	assert.Len(t, r.probes(), 1)
	assert.Empty(t, r.encodes())
}

func TestDispatch_VideoToAudioDropsVideo(t *testing.T) {
	r := newFakeRunner().on(HideBannerFlag+" "+InputFlag, ExecResult{Stderr: audioProbeOutput, ExitCode: 1})
	d := newTestDispatcher(r)
	item := &model.ConversionItem{InputPath: "/in/clip.mp4"}

	out := d.Dispatch(context.Background(), item, "/out", "mp3", true)

	require.True(t, out.Continue())
	assert.Len(t, r.probes(), 1)
	encodes := r.encodes()
	require.Len(t, encodes, 1)
	assert.True(t, encodes[0].has(NoVideoFlag))
	assert.False(t, encodes[0].has("cuda"), "audio extraction never uses the GPU")
	assert.Equal(t, filepath.Join("/out", "clip.mp3"), item.OutputPath)
}

func TestDispatch_AudioToAudioSingleInvocation(t *testing.T) {
	r := newFakeRunner()
	d := newTestDispatcher(r)
	item := &model.ConversionItem{InputPath: "/in/clip.wav"}

	out := d.Dispatch(context.Background(), item, "/out", "mp3", true)

	require.True(t, out.Continue())
	assert.Empty(t, r.probes())
	require.Len(t, r.encodes(), 1)
	assert.Equal(t, []formats.Attempt{formats.AttemptCPU}, out.Encode.Attempts)
}

func TestDispatch_VideoToVideoUsesGPUWhenEnabled(t *testing.T) {
	r := newFakeRunner()
	d := newTestDispatcher(r)
	item := &model.ConversionItem{InputPath: "/in/clip.mov"}

	out := d.Dispatch(context.Background(), item, "/out", "mp4", true)

	require.True(t, out.Continue())
	encodes := r.encodes()
	require.Len(t, encodes, 1)
	assert.True(t, encodes[0].has("h264_nvenc"))
	assert.Equal(t, []formats.Attempt{formats.AttemptGPU}, out.Encode.Attempts)
}

func TestDispatch_OutputOverInputNeverEncodes(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		outputDir string
	}{
		{"absolute", "/in/clip.wav", "/in"},
		{"relative", "clip.wav", "."},
		{"unclean", "/in/clip.wav", "/in/sub/.."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newFakeRunner()
			d := newTestDispatcher(r)
			item := &model.ConversionItem{InputPath: tt.input}

			out := d.Dispatch(context.Background(), item, tt.outputDir, "wav", false)

			require.False(t, out.Continue())
			assert.ErrorIs(t, out.Reason, model.ErrOutputIsInput)
			assert.Empty(t, out.Partial)
			assert.Empty(t, r.calls)
		})
	}
}

func TestDispatch_FailedEncodeReportsCreatedOutputOnly(t *testing.T) {
	out := t.TempDir()
	r := newFakeRunner()
	r.fallback = ExecResult{Stderr: "Conversion failed!", ExitCode: 1}
	d := newTestDispatcher(r)

	fresh := d.Dispatch(context.Background(), &model.ConversionItem{InputPath: "/in/a.wav"}, out, "mp3", false)
	require.False(t, fresh.Continue())
	assert.Equal(t, filepath.Join(out, "a.mp3"), fresh.Partial)

	existing := filepath.Join(out, "b.mp3")
	require.NoError(t, os.WriteFile(existing, []byte("earlier"), 0o644))
	kept := d.Dispatch(context.Background(), &model.ConversionItem{InputPath: "/in/b.wav"}, out, "mp3", false)
	require.False(t, kept.Continue())
	assert.Empty(t, kept.Partial)
}
