package convert

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
)

// Executable constants
const (
	FFmpegCommand  = "ffmpeg"
	FFmpegPathEnv  = "FFMPEG_PATH"
	HideBannerFlag = "-hide_banner"
	OverwriteFlag  = "-y"
	InputFlag      = "-i"
	NoVideoFlag    = "-vn"
)

// Stderr tail limits kept in EncodeError
const (
	StderrTailLines = 20
	StderrTailBytes = 4096
)

// ExitCodeNotStarted marks a process that could not be started at all
const ExitCodeNotStarted = -1

// ExecResult holds the outcome of a single process invocation.
type ExecResult struct {
	Stderr   string
	ExitCode int
	Err      error
}

// Failed reports whether the process did not exit cleanly
func (r ExecResult) Failed() bool {
	return r.Err != nil || r.ExitCode != 0
}

// ExecRunner implements CommandRunner using os/exec
type ExecRunner struct{}

// Run executes the command and captures stderr
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ExecResult {
	cmd := exec.CommandContext(ctx, name, args...)

	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	res := ExecResult{Stderr: stderrBuf.String(), Err: err}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitCode = 0
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		res.ExitCode = ExitCodeNotStarted
	}
	return res
}

// ResolveFFmpegPath returns the ffmpeg binary, honoring FFMPEG_PATH
func ResolveFFmpegPath(configured string) string {
	if configured != "" {
		return configured
	}
	if custom := os.Getenv(FFmpegPathEnv); custom != "" {
		return custom
	}
	return FFmpegCommand
}

// tail keeps the last StderrTailLines lines of s, capped at StderrTailBytes
func tail(s string) string {
	s = strings.TrimRight(s, "\r\n")
	lines := strings.Split(s, "\n")
	if len(lines) > StderrTailLines {
		lines = lines[len(lines)-StderrTailLines:]
	}
	out := strings.Join(lines, "\n")
	if len(out) > StderrTailBytes {
		out = out[len(out)-StderrTailBytes:]
	}
	return out
}
