package convert

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/ytget/media-converter/internal/formats"
	"github.com/ytget/media-converter/internal/model"
)

// EncoderState is a step of the per-item encode state machine
type EncoderState int

const (
	StateNotStarted EncoderState = iota
	StateGPUAttempted
	StateCPUAttempted
	StateSucceeded
	StateFailed
)

// String returns the state name
func (s EncoderState) String() string {
	switch s {
	case StateNotStarted:
		return "NotStarted"
	case StateGPUAttempted:
		return "GPUAttempted"
	case StateCPUAttempted:
		return "CPUAttempted"
	case StateSucceeded:
		return "Succeeded"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// EncodeRequest is one logical conversion
type EncodeRequest struct {
	InputPath  string
	OutputPath string
	Plan       formats.EncoderPlan
	// ExtraArgs go right after -i <input>, before the codec arguments.
	ExtraArgs []string
}

// EncodeResult records the path taken through the state machine
type EncodeResult struct {
	Trace    []EncoderState
	Attempts []formats.Attempt
}

// Final returns the terminal state
func (r EncodeResult) Final() EncoderState {
	if len(r.Trace) == 0 {
		return StateNotStarted
	}
	return r.Trace[len(r.Trace)-1]
}

// Encoder runs ffmpeg: a GPU attempt when the plan has one, then exactly one
// CPU attempt if the GPU run failed.
type Encoder struct {
	runner     CommandRunner
	ffmpegPath string
	logger     hclog.Logger
}

// NewEncoder creates an encoder invoking ffmpegPath through runner
func NewEncoder(runner CommandRunner, ffmpegPath string, logger hclog.Logger) *Encoder {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Encoder{
		runner:     runner,
		ffmpegPath: ResolveFFmpegPath(ffmpegPath),
		logger:     logger.Named("encoder"),
	}
}

// BuildFFmpegArgs builds the ffmpeg command arguments for one attempt
func BuildFFmpegArgs(inputPath, outputPath string, tmpl formats.ArgTemplate, extra []string) []string {
	args := []string{HideBannerFlag, OverwriteFlag}
	args = append(args, tmpl.InputArgs...)
	args = append(args, InputFlag, inputPath)
	args = append(args, extra...)
	args = append(args, tmpl.OutputArgs...)
	return append(args, outputPath)
}

// Encode runs the state machine for req
func (e *Encoder) Encode(ctx context.Context, req EncodeRequest) (EncodeResult, error) {
	res := EncodeResult{Trace: []EncoderState{StateNotStarted}}

	if req.Plan.GPU != nil {
		args := BuildFFmpegArgs(req.InputPath, req.OutputPath, *req.Plan.GPU, req.ExtraArgs)
		res.Trace = append(res.Trace, StateGPUAttempted)
		res.Attempts = append(res.Attempts, formats.AttemptGPU)

		e.logger.Info("attempting GPU encode", "input", req.InputPath, "target", req.Plan.Target, "args", strings.Join(args, " "))
		run := e.runner.Run(ctx, e.ffmpegPath, args...)
		if !run.Failed() {
			res.Trace = append(res.Trace, StateSucceeded)
			return res, nil
		}
		if err := ctx.Err(); err != nil {
			res.Trace = append(res.Trace, StateFailed)
			return res, err
		}
		e.logger.Warn("GPU encode failed, falling back to CPU", "input", req.InputPath, "exit_code", run.ExitCode, "stderr", tail(run.Stderr))
	}

	args := BuildFFmpegArgs(req.InputPath, req.OutputPath, req.Plan.CPU, req.ExtraArgs)
	res.Trace = append(res.Trace, StateCPUAttempted)
	res.Attempts = append(res.Attempts, formats.AttemptCPU)

	e.logger.Info("running CPU encode", "input", req.InputPath, "target", req.Plan.Target, "args", strings.Join(args, " "))
	run := e.runner.Run(ctx, e.ffmpegPath, args...)
	if !run.Failed() {
		res.Trace = append(res.Trace, StateSucceeded)
		return res, nil
	}

	res.Trace = append(res.Trace, StateFailed)
	if err := ctx.Err(); err != nil {
		return res, err
	}
	e.logger.Error("encode failed", "input", req.InputPath, "exit_code", run.ExitCode)
	return res, fmt.Errorf("encode %s: %w", req.InputPath, &model.EncodeError{
		ExitCode:   run.ExitCode,
		StderrTail: failureDetail(run),
	})
}

// failureDetail prefers the stderr tail and falls back to the start error
func failureDetail(run ExecResult) string {
	if t := tail(run.Stderr); t != "" {
		return t
	}
	if run.Err != nil {
		return run.Err.Error()
	}
	return ""
}
