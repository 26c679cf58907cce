package convert

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/media-converter/internal/formats"
	"github.com/ytget/media-converter/internal/model"
)

func mustPlan(t *testing.T, target string, useGPU bool) formats.EncoderPlan {
	t.Helper()
	plan, err := formats.Plan(target, useGPU)
	require.NoError(t, err)
	return plan
}

func TestBuildFFmpegArgs(t *testing.T) {
	tmpl := formats.ArgTemplate{
		InputArgs:  []string{"-hwaccel", "cuda"},
		OutputArgs: []string{"-c:v", "mpeg4"},
	}
	args := BuildFFmpegArgs("/in.mov", "/out.avi", tmpl, []string{"-vn"})

	expected := []string{"-hide_banner", "-y", "-hwaccel", "cuda", "-i", "/in.mov", "-vn", "-c:v", "mpeg4", "/out.avi"}
	assert.Equal(t, expected, args)
}

func TestEncode_GPUSuccess(t *testing.T) {
	r := newFakeRunner()
	e := NewEncoder(r, "ffmpeg", nil)

	res, err := e.Encode(context.Background(), EncodeRequest{InputPath: "a.mov", OutputPath: "a.mp4", Plan: mustPlan(t, "mp4", true)})

	require.NoError(t, err)
	assert.Equal(t, []EncoderState{StateNotStarted, StateGPUAttempted, StateSucceeded}, res.Trace)
	assert.Len(t, r.calls, 1)
}

func TestEncode_GPUFailureFallsBackOnce(t *testing.T) {
	r := newFakeRunner().on("h264_nvenc", ExecResult{Stderr: "Cannot load libcuda.so.1", ExitCode: 1, Err: errors.New("exit status 1")})
	e := NewEncoder(r, "ffmpeg", nil)

	res, err := e.Encode(context.Background(), EncodeRequest{InputPath: "a.mov", OutputPath: "a.mp4", Plan: mustPlan(t, "mp4", true)})

	require.NoError(t, err)
	assert.Equal(t, []EncoderState{StateNotStarted, StateGPUAttempted, StateCPUAttempted, StateSucceeded}, res.Trace)
	assert.Equal(t, []formats.Attempt{formats.AttemptGPU, formats.AttemptCPU}, res.Attempts)
	require.Len(t, r.calls, 2)
	assert.True(t, r.calls[1].has("libx264"))
	assert.False(t, r.calls[1].has("cuda"))
}

func TestEncode_BothAttemptsFail(t *testing.T) {
	r := newFakeRunner()
	r.fallback = ExecResult{Stderr: "line1\nConversion failed!\n", ExitCode: 1, Err: errors.New("exit status 1")}
	e := NewEncoder(r, "ffmpeg", nil)

	res, err := e.Encode(context.Background(), EncodeRequest{InputPath: "a.mov", OutputPath: "a.mp4", Plan: mustPlan(t, "mp4", true)})

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrEncodeFailure)
	assert.Equal(t, model.KindEncodeFailure, model.KindOf(err))
	var encErr *model.EncodeError
	require.True(t, errors.As(err, &encErr))
	assert.Equal(t, 1, encErr.ExitCode)
	assert.True(t, strings.HasSuffix(encErr.StderrTail, "Conversion failed!"))
	assert.Equal(t, StateFailed, res.Final())
	assert.Len(t, r.calls, 2, "exactly one CPU attempt after the GPU failure")
}

func TestEncode_NoGPUArgsWhenDisabled(t *testing.T) {
	r := newFakeRunner()
	e := NewEncoder(r, "ffmpeg", nil)

	_, err := e.Encode(context.Background(), EncodeRequest{InputPath: "a.mov", OutputPath: "a.mp4", Plan: mustPlan(t, "mp4", false)})

	require.NoError(t, err)
	require.Len(t, r.calls, 1)
	assert.False(t, r.calls[0].has("cuda"))
	assert.False(t, r.calls[0].has("h264_nvenc"))
}

func TestEncode_IneligibleTargetNeverUsesGPU(t *testing.T) {
	r := newFakeRunner()
	e := NewEncoder(r, "ffmpeg", nil)

	res, err := e.Encode(context.Background(), EncodeRequest{InputPath: "a.mp4", OutputPath: "a.webm", Plan: mustPlan(t, "webm", true)})

	require.NoError(t, err)
	assert.Equal(t, []formats.Attempt{formats.AttemptCPU}, res.Attempts)
	assert.False(t, r.calls[0].has("cuda"))
}

func TestEncode_StartFailureKeepsError(t *testing.T) {
	r := newFakeRunner()
	r.fallback = ExecResult{ExitCode: ExitCodeNotStarted, Err: errors.New(`exec: "ffmpeg": executable file not found in $PATH`)}
	e := NewEncoder(r, "ffmpeg", nil)

	_, err := e.Encode(context.Background(), EncodeRequest{InputPath: "a.wav", OutputPath: "a.mp3", Plan: mustPlan(t, "mp3", false)})

	var encErr *model.EncodeError
	require.True(t, errors.As(err, &encErr))
	assert.Contains(t, encErr.StderrTail, "executable file not found")
}

func TestEncode_CancelledDuringGPUSkipsCPU(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := newFakeRunner()
	r.fallback = ExecResult{ExitCode: -1, Err: context.Canceled}
	e := NewEncoder(r, "ffmpeg", nil)

	res, err := e.Encode(ctx, EncodeRequest{InputPath: "a.mov", OutputPath: "a.mp4", Plan: mustPlan(t, "mp4", true)})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, r.calls, 1)
	assert.Equal(t, StateFailed, res.Final())
}

func TestTail(t *testing.T) {
	var lines []string
	for i := 0; i < 50; i++ {
		lines = append(lines, "x")
	}
	out := tail(strings.Join(lines, "\n"))
	assert.Len(t, strings.Split(out, "\n"), StderrTailLines)

	long := strings.Repeat("a", StderrTailBytes*2)
	assert.Len(t, tail(long), StderrTailBytes)
}

func TestResolveFFmpegPath(t *testing.T) {
	t.Setenv(FFmpegPathEnv, "/opt/ffmpeg/bin/ffmpeg")
	assert.Equal(t, "/usr/bin/ffmpeg", ResolveFFmpegPath("/usr/bin/ffmpeg"))
	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", ResolveFFmpegPath(""))

	t.Setenv(FFmpegPathEnv, "")
	assert.Equal(t, FFmpegCommand, ResolveFFmpegPath(""))
}
