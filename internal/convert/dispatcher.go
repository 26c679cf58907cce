package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/ytget/media-converter/internal/formats"
	"github.com/ytget/media-converter/internal/model"
)

// Route is the conversion strategy chosen for an (input, output) pair
type Route int

const (
	RouteNone Route = iota
	RouteAudioToVideo
	RouteVideoToAudio
	RouteVideoToVideo
	RouteAudioToAudio
)

// String returns the route name
func (r Route) String() string {
	switch r {
	case RouteAudioToVideo:
		return "Audio→Video"
	case RouteVideoToAudio:
		return "Video→Audio"
	case RouteVideoToVideo:
		return "Video→Video"
	case RouteAudioToAudio:
		return "Audio→Audio"
	default:
		return "None"
	}
}

// SelectRoute maps a supported (input, output) pair to exactly one route.
// Audio→Video is returned together with ErrInvalidConversionKind.
func SelectRoute(inputExt, outputExt string) (Route, error) {
	out := formats.Classify(outputExt)
	if out == formats.Unknown {
		return RouteNone, fmt.Errorf("output %q: %w", outputExt, model.ErrUnsupportedFormat)
	}
	in := formats.Classify(inputExt)
	if in == formats.Unknown {
		return RouteNone, fmt.Errorf("input %q: %w", inputExt, model.ErrUnsupportedFormat)
	}

	switch {
	case in == formats.Audio && out == formats.Video:
		return RouteAudioToVideo, model.ErrInvalidConversionKind
	case in == formats.Video && out == formats.Audio:
		return RouteVideoToAudio, nil
	case in == formats.Video && out == formats.Video:
		return RouteVideoToVideo, nil
	default:
		return RouteAudioToAudio, nil
	}
}

// Outcome tells the batch loop whether to keep going
type Outcome struct {
	Route  Route
	Abort  bool
	Reason error
	Encode EncodeResult
	// Partial is an output file the failed encode created; empty when the
	// file existed before the encode or was never written.
	Partial string
}

// Continue reports whether the batch may proceed with the next item
func (o Outcome) Continue() bool {
	return !o.Abort
}

func abort(route Route, item string, err error) Outcome {
	return Outcome{
		Route:  route,
		Abort:  true,
		Reason: model.NewJobError(model.KindOf(err), item, err),
	}
}

// OutputPath returns <outputDir>/<inputBaseName>.<target>
func OutputPath(inputPath, outputDir, target string) string {
	base := filepath.Base(inputPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, name+"."+formats.Normalize(target))
}

// samePath reports whether a and b name the same file
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && absA == absB {
		return true
	}
	infoA, errA := os.Stat(a)
	infoB, errB := os.Stat(b)
	return errA == nil && errB == nil && os.SameFile(infoA, infoB)
}

// Dispatcher routes one item to its conversion strategy
type Dispatcher struct {
	encoder *Encoder
	prober  AudioProber
	logger  hclog.Logger
}

// NewDispatcher creates a dispatcher
func NewDispatcher(encoder *Encoder, prober AudioProber, logger hclog.Logger) *Dispatcher {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Dispatcher{
		encoder: encoder,
		prober:  prober,
		logger:  logger.Named("dispatcher"),
	}
}

// Dispatch converts item into outputDir as target. Any failure aborts the
// whole batch, not just this item.
func (d *Dispatcher) Dispatch(ctx context.Context, item *model.ConversionItem, outputDir, target string, useGPU bool) Outcome {
	inExt := filepath.Ext(item.InputPath)
	route, err := SelectRoute(inExt, target)
	if err != nil {
		d.logger.Warn("no usable route", "input", item.InputPath, "target", target, "route", route, "error", err)
		return abort(route, item.InputPath, err)
	}

	item.OutputPath = OutputPath(item.InputPath, outputDir, target)
	log := d.logger.With("input", item.InputPath, "output", item.OutputPath, "route", route.String())
	if samePath(item.InputPath, item.OutputPath) {
		log.Warn("output would overwrite the input")
		return abort(route, item.InputPath, model.ErrOutputIsInput)
	}

	var req EncodeRequest
	switch route {
	case RouteVideoToAudio:
		if !d.prober.HasAudioTrack(ctx, item.InputPath) {
			log.Warn("no audio streams found")
			return abort(route, item.InputPath, model.ErrNoAudioTrack)
		}
		plan, err := formats.Plan(target, false)
		if err != nil {
			return abort(route, item.InputPath, err)
		}
		req = EncodeRequest{InputPath: item.InputPath, OutputPath: item.OutputPath, Plan: plan, ExtraArgs: []string{NoVideoFlag}}

	case RouteVideoToVideo:
		plan, err := formats.Plan(target, useGPU)
		if err != nil {
			return abort(route, item.InputPath, err)
		}
		req = EncodeRequest{InputPath: item.InputPath, OutputPath: item.OutputPath, Plan: plan}

	case RouteAudioToAudio:
		plan, err := formats.Plan(target, false)
		if err != nil {
			return abort(route, item.InputPath, err)
		}
		req = EncodeRequest{InputPath: item.InputPath, OutputPath: item.OutputPath, Plan: plan}
	}

	_, statErr := os.Stat(item.OutputPath)
	existed := !errors.Is(statErr, fs.ErrNotExist)

	res, err := d.encoder.Encode(ctx, req)
	if err != nil {
		log.Error("conversion failed", "trace", res.Trace, "final", res.Final(), "error", err)
		out := abort(route, item.InputPath, err)
		out.Encode = res
		if !existed {
			out.Partial = item.OutputPath
		}
		return out
	}

	log.Info("converted", "attempts", len(res.Attempts), "final", res.Final())
	return Outcome{Route: route, Encode: res}
}
