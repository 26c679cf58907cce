package formats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ytget/media-converter/internal/model"
)

// MediaKind tells audio and video formats apart
type MediaKind int

const (
	Unknown MediaKind = iota
	Audio
	Video
)

// String returns the kind name
func (k MediaKind) String() string {
	switch k {
	case Audio:
		return "Audio"
	case Video:
		return "Video"
	default:
		return "Unknown"
	}
}

// Attempt selects the hardware-accelerated or the software argument set
type Attempt int

const (
	AttemptGPU Attempt = iota
	AttemptCPU
)

// String returns the attempt name
func (a Attempt) String() string {
	if a == AttemptGPU {
		return "GPU"
	}
	return "CPU"
}

// ArgTemplate is one encoder invocation profile. InputArgs go before -i,
// OutputArgs between the input and the output path.
type ArgTemplate struct {
	InputArgs  []string
	OutputArgs []string
}

// EncoderPlan is the pair of templates for one target. GPU is nil when the
// target never takes hardware acceleration.
type EncoderPlan struct {
	Target string
	GPU    *ArgTemplate
	CPU    ArgTemplate
}

// PostprocessMode is how the extractor finalizes a downloaded video
type PostprocessMode int

const (
	// PostprocessRemux copies streams into the target container
	PostprocessRemux PostprocessMode = iota
	// PostprocessRecode re-encodes with the container's codec profile
	PostprocessRecode
)

// profile is the static data for one target format
type profile struct {
	kind        MediaKind
	gpu         *ArgTemplate
	cpu         ArgTemplate
	postprocess PostprocessMode
}

// Shared argument fragments
var (
	cudaDecode       = []string{"-hwaccel", "cuda"}
	cudaDecodeOnCard = []string{"-hwaccel", "cuda", "-hwaccel_output_format", "cuda"}
	aac192           = []string{"-c:a", "aac", "-b:a", "192k"}
	nvencH264        = []string{
		"-c:v", "h264_nvenc",
		"-preset", "p1",
		"-tune", "hq",
		"-rc", "vbr",
		"-cq", "23",
		"-b:v", "0",
		"-maxrate", "130M",
		"-bufsize", "130M",
		"-spatial-aq", "1",
	}
)

func join(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

var profiles = map[string]profile{
	// Audio targets
	"mp3":  {kind: Audio, cpu: ArgTemplate{OutputArgs: []string{"-c:a", "libmp3lame", "-q:a", "2", "-b:a", "192k"}}},
	"ogg":  {kind: Audio, cpu: ArgTemplate{OutputArgs: []string{"-c:a", "libvorbis", "-q:a", "6"}}},
	"flac": {kind: Audio, cpu: ArgTemplate{OutputArgs: []string{"-c:a", "flac"}}},
	"wav":  {kind: Audio, cpu: ArgTemplate{OutputArgs: []string{"-c:a", "pcm_s16le"}}},
	"m4a":  {kind: Audio, cpu: ArgTemplate{OutputArgs: aac192}},
	"opus": {kind: Audio, cpu: ArgTemplate{OutputArgs: []string{"-c:a", "libopus", "-b:a", "160k"}}},

	// Video targets
	"mp4": {
		kind: Video,
		gpu: &ArgTemplate{
			InputArgs:  cudaDecodeOnCard,
			OutputArgs: join(nvencH264, aac192, []string{"-movflags", "+faststart"}),
		},
		cpu: ArgTemplate{OutputArgs: join(
			[]string{"-c:v", "libx264", "-preset", "medium", "-crf", "23"},
			aac192,
			[]string{"-movflags", "+faststart"},
		)},
		postprocess: PostprocessRecode,
	},
	"mov": {
		kind: Video,
		gpu: &ArgTemplate{
			InputArgs:  cudaDecodeOnCard,
			OutputArgs: join(nvencH264, []string{"-profile:v", "high"}, aac192),
		},
		cpu: ArgTemplate{OutputArgs: join(
			[]string{"-c:v", "libx264", "-preset", "medium", "-crf", "23", "-profile:v", "high", "-level", "4.1", "-pix_fmt", "yuv420p"},
			aac192,
		)},
		postprocess: PostprocessRecode,
	},
	"mkv": {
		kind: Video,
		gpu: &ArgTemplate{
			InputArgs:  cudaDecodeOnCard,
			OutputArgs: join(nvencH264, []string{"-c:a", "libopus", "-b:a", "160k"}),
		},
		cpu: ArgTemplate{OutputArgs: []string{"-c:v", "libx264", "-preset", "medium", "-crf", "20", "-c:a", "libopus", "-b:a", "160k"}},
	},
	"avi": {
		kind: Video,
		gpu: &ArgTemplate{
			InputArgs:  cudaDecode,
			OutputArgs: []string{"-c:v", "mpeg4", "-q:v", "5", "-c:a", "libmp3lame"},
		},
		cpu:         ArgTemplate{OutputArgs: []string{"-c:v", "mpeg4", "-q:v", "5", "-c:a", "libmp3lame"}},
		postprocess: PostprocessRecode,
	},
	// VP9/Opus has no NVENC encoder; always software.
	"webm": {
		kind: Video,
		cpu:  ArgTemplate{OutputArgs: []string{"-c:v", "libvpx-vp9", "-crf", "32", "-b:v", "0", "-row-mt", "1", "-c:a", "libopus", "-b:a", "128k"}},
	},
}

// Normalize lowercases ext and strips a leading dot
func Normalize(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// Classify returns the media kind of ext, or Unknown
func Classify(ext string) MediaKind {
	p, ok := profiles[Normalize(ext)]
	if !ok {
		return Unknown
	}
	return p.kind
}

// IsSupported reports whether ext is a known audio or video format
func IsSupported(ext string) bool {
	return Classify(ext) != Unknown
}

// GPUEligible reports whether target has a hardware-accelerated profile
func GPUEligible(target string) bool {
	p, ok := profiles[Normalize(target)]
	return ok && p.gpu != nil
}

// CodecArgs returns the argument template for target and attempt
func CodecArgs(target string, attempt Attempt) (ArgTemplate, error) {
	p, ok := profiles[Normalize(target)]
	if !ok {
		return ArgTemplate{}, fmt.Errorf("%q: %w", target, model.ErrUnsupportedFormat)
	}
	if attempt == AttemptGPU {
		if p.gpu == nil {
			return ArgTemplate{}, fmt.Errorf("%q has no GPU profile: %w", target, model.ErrUnsupportedFormat)
		}
		return copyTemplate(*p.gpu), nil
	}
	return copyTemplate(p.cpu), nil
}

// Plan returns the encoder plan for target. The GPU template is left out
// when useGPU is false or the target is not eligible.
func Plan(target string, useGPU bool) (EncoderPlan, error) {
	name := Normalize(target)
	p, ok := profiles[name]
	if !ok {
		return EncoderPlan{}, fmt.Errorf("%q: %w", target, model.ErrUnsupportedFormat)
	}
	plan := EncoderPlan{Target: name, CPU: copyTemplate(p.cpu)}
	if useGPU && GPUEligible(name) {
		gpu := copyTemplate(*p.gpu)
		plan.GPU = &gpu
	}
	return plan, nil
}

// Postprocess returns how a downloaded video should be finalized for target
func Postprocess(target string) PostprocessMode {
	return profiles[Normalize(target)].postprocess
}

// AudioFormats returns the supported audio extensions, sorted
func AudioFormats() []string {
	return formatsOf(Audio)
}

// VideoFormats returns the supported video extensions, sorted
func VideoFormats() []string {
	return formatsOf(Video)
}

// All returns every supported extension, audio first
func All() []string {
	return append(AudioFormats(), VideoFormats()...)
}

func formatsOf(kind MediaKind) []string {
	var out []string
	for name, p := range profiles {
		if p.kind == kind {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// copyTemplate keeps callers from mutating the shared table
func copyTemplate(t ArgTemplate) ArgTemplate {
	return ArgTemplate{
		InputArgs:  append([]string(nil), t.InputArgs...),
		OutputArgs: append([]string(nil), t.OutputArgs...),
	}
}
