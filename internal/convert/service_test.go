package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/media-converter/internal/model"
)

// writeInputs creates empty input files and returns their paths
func writeInputs(t *testing.T, dir string, names ...string) []string {
	t.Helper()
	var paths []string
	for _, n := range names {
		p := filepath.Join(dir, n)
		require.NoError(t, os.WriteFile(p, []byte("media"), 0o644))
		paths = append(paths, p)
	}
	return paths
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestService_AudioToAudio(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	r := newFakeRunner()
	r.touch = true
	svc := NewService(r, "ffmpeg", nil)

	job := model.NewConversionJob(writeInputs(t, in, "clip.wav"), out, "mp3", true)
	res := svc.Run(context.Background(), job)

	require.True(t, res.Success, res.Message)
	assert.Equal(t, []string{"clip.mp3"}, listDir(t, out))
	assert.Equal(t, []string{filepath.Join(out, "clip.mp3")}, res.OutputPaths)
	assert.Len(t, r.encodes(), 1, "audio targets never fall back")
	assert.Equal(t, model.TaskStatusCompleted, job.Items[0].Status)
	assert.Contains(t, res.Message, "Conversion complete")
}

func TestService_VideoWithoutAudioAborts(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	r := newFakeRunner().on(HideBannerFlag+" "+InputFlag, ExecResult{Stderr: silentProbeOutput, ExitCode: 1})
	r.touch = true
	svc := NewService(r, "ffmpeg", nil)

	job := model.NewConversionJob(writeInputs(t, in, "clip.mp4"), out, "mp3", false)
	res := svc.Run(context.Background(), job)

	assert.False(t, res.Success)
	assert.Equal(t, model.KindNoAudioTrack, res.Kind)
	assert.Empty(t, listDir(t, out))
	assert.Empty(t, r.encodes())
}

func TestService_AudioToVideoRejected(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	r := newFakeRunner()
	svc := NewService(r, "ffmpeg", nil)

	job := model.NewConversionJob(writeInputs(t, in, "song.wav"), out, "mp4", true)
	res := svc.Run(context.Background(), job)

	assert.False(t, res.Success)
	assert.Equal(t, model.KindInvalidConversionKind, res.Kind)
	assert.Empty(t, r.calls)
}

func TestService_UnsupportedOutputFormat(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	r := newFakeRunner()
	svc := NewService(r, "ffmpeg", nil)

	job := model.NewConversionJob(writeInputs(t, in, "a.wav", "b.wav"), out, "gif", false)
	res := svc.Run(context.Background(), job)

	assert.Equal(t, model.KindUnsupportedFormat, res.Kind)
	assert.Empty(t, r.calls)
	for _, it := range job.Items {
		assert.Equal(t, model.TaskStatusSkipped, it.Status)
	}
}

func TestService_FirstFailureAbortsBatch(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	r := newFakeRunner().on("b.wav", ExecResult{Stderr: "Invalid data found when processing input", ExitCode: 1, Err: errors.New("exit status 1")})
	r.touch = true
	svc := NewService(r, "ffmpeg", nil)

	var updates []string
	svc.SetUpdateCallback(func(_ *model.ConversionJob, item *model.ConversionItem) {
		updates = append(updates, filepath.Base(item.InputPath)+":"+item.Status.String())
	})

	job := model.NewConversionJob(writeInputs(t, in, "a.wav", "b.wav", "c.wav"), out, "ogg", false)
	res := svc.Run(context.Background(), job)

	assert.False(t, res.Success)
	assert.Equal(t, model.KindEncodeFailure, res.Kind)
	assert.Equal(t, model.TaskStatusCompleted, job.Items[0].Status)
	assert.Equal(t, model.TaskStatusFailed, job.Items[1].Status)
	assert.Equal(t, model.TaskStatusSkipped, job.Items[2].Status)
	assert.Equal(t, []string{"a.ogg"}, listDir(t, out))
	assert.Equal(t, []string{
		"a.wav:" + model.TaskStatusRunning.String(),
		"a.wav:" + model.TaskStatusCompleted.String(),
		"b.wav:" + model.TaskStatusRunning.String(),
		"b.wav:" + model.TaskStatusFailed.String(),
	}, updates)
}

func TestService_MissingInput(t *testing.T) {
	out := t.TempDir()
	r := newFakeRunner()
	svc := NewService(r, "ffmpeg", nil)

	job := model.NewConversionJob([]string{filepath.Join(out, "nope.wav")}, out, "mp3", false)
	res := svc.Run(context.Background(), job)

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "does not exist")
	assert.Empty(t, r.calls)
}

func TestService_CreatesOutputDirectory(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "nested", "out")
	r := newFakeRunner()
	r.touch = true
	svc := NewService(r, "ffmpeg", nil)

	res := svc.Run(context.Background(), model.NewConversionJob(writeInputs(t, in, "x.flac"), out, "wav", false))

	require.True(t, res.Success, res.Message)
	assert.DirExists(t, out)
}

func TestService_SameFormatInPlaceKeepsInput(t *testing.T) {
	dir := t.TempDir()
	r := newFakeRunner()
	r.fallback = ExecResult{Stderr: "Output same as Input", ExitCode: 1, Err: errors.New("exit status 1")}
	svc := NewService(r, "ffmpeg", nil)

	job := model.NewConversionJob(writeInputs(t, dir, "clip.wav"), dir, "wav", false)
	res := svc.Run(context.Background(), job)

	assert.False(t, res.Success)
	assert.Equal(t, model.KindInvalidConversionKind, res.Kind)
	assert.Empty(t, r.calls)
	data, err := os.ReadFile(filepath.Join(dir, "clip.wav"))
	require.NoError(t, err)
	assert.Equal(t, "media", string(data))
}

func TestService_FailedEncodeKeepsEarlierOutput(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	earlier := filepath.Join(out, "clip.mp3")
	require.NoError(t, os.WriteFile(earlier, []byte("earlier"), 0o644))
	r := newFakeRunner()
	r.fallback = ExecResult{Stderr: "Conversion failed!", ExitCode: 1}
	svc := NewService(r, "ffmpeg", nil)

	res := svc.Run(context.Background(), model.NewConversionJob(writeInputs(t, in, "clip.wav"), out, "mp3", false))

	assert.Equal(t, model.KindEncodeFailure, res.Kind)
	assert.FileExists(t, earlier)
}

func TestService_EmptyBatch(t *testing.T) {
	r := newFakeRunner()
	svc := NewService(r, "ffmpeg", nil)

	res := svc.Run(context.Background(), model.NewConversionJob(nil, t.TempDir(), "mp3", false))

	assert.False(t, res.Success)
	assert.Equal(t, model.KindInternal, res.Kind)
	assert.Equal(t, "no input files", res.Message)
	assert.Empty(t, r.calls)
}
