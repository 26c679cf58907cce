package convert

import (
	"context"
	"os"
	"strings"
	"sync"
)

// call is one recorded invocation
type call struct {
	Name string
	Args []string
}

// has reports whether the invocation contained arg
func (c call) has(arg string) bool {
	return contains(c.Args, arg)
}

// fakeRunner replays canned results keyed by a predicate on the arguments
type fakeRunner struct {
	mu        sync.Mutex
	calls     []call
	responses []fakeResponse
	fallback  ExecResult
	// touch writes the output file on successful encodes
	touch bool
}

type fakeResponse struct {
	match  func(args []string) bool
	result ExecResult
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{}
}

// on registers result for invocations whose joined args contain substr
func (f *fakeRunner) on(substr string, result ExecResult) *fakeRunner {
	f.responses = append(f.responses, fakeResponse{
		match:  func(args []string) bool { return strings.Contains(strings.Join(args, " "), substr) },
		result: result,
	})
	return f
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ExecResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{Name: name, Args: append([]string(nil), args...)})
	res := f.fallback
	for _, r := range f.responses {
		if r.match(args) {
			res = r.result
			break
		}
	}
	if f.touch && !res.Failed() && len(args) > 0 && contains(args, OverwriteFlag) {
		_ = os.WriteFile(args[len(args)-1], []byte("encoded"), 0o644)
	}
	return res
}

func contains(args []string, arg string) bool {
	for _, a := range args {
		if a == arg {
			return true
		}
	}
	return false
}

// encodes returns every invocation that writes an output file
func (f *fakeRunner) encodes() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if c.has(OverwriteFlag) {
			out = append(out, c)
		}
	}
	return out
}

// probes returns every probe invocation
func (f *fakeRunner) probes() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if !c.has(OverwriteFlag) {
			out = append(out, c)
		}
	}
	return out
}

const audioProbeOutput = `Input #0, mov,mp4,m4a,3gp,3g2,mj2, from 'clip.mp4':
  Duration: 00:00:10.00, start: 0.000000, bitrate: 1205 kb/s
  Stream #0:0[0x1](und): Video: h264 (High), yuv420p, 1920x1080, 1070 kb/s
  Stream #0:1[0x2](und): Audio: aac (LC), 44100 Hz, stereo, fltp, 128 kb/s
At least one output file must be specified`

const silentProbeOutput = `Input #0, mov,mp4,m4a,3gp,3g2,mj2, from 'clip.mp4':
  Duration: 00:00:10.00, start: 0.000000, bitrate: 1070 kb/s
  Stream #0:0[0x1](und): Video: h264 (High), yuv420p, 1920x1080, 1070 kb/s
At least one output file must be specified`
