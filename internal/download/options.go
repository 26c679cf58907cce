package download

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ytget/media-converter/internal/formats"
	"github.com/ytget/media-converter/internal/model"
	"github.com/ytget/media-converter/internal/platform"
)

// Quality presets
const (
	QualityBest    = "Best"
	Quality4K      = "4K"
	Quality1440p   = "1440p"
	Quality1080p   = "1080p"
	Quality720p    = "720p"
	Quality480p    = "480p"
	DefaultQuality = Quality1080p
)

// Qualities lists the presets in the order shown to the user
var Qualities = []string{QualityBest, Quality4K, Quality1440p, Quality1080p, Quality720p, Quality480p}

var qualityHeights = map[string]int{
	QualityBest:  0,
	Quality4K:    2160,
	Quality1440p: 1440,
	Quality1080p: 1080,
	Quality720p:  720,
	Quality480p:  480,
}

// Extractor defaults
const (
	AudioFormatSelector = "bestaudio/best"
	AudioQualityKbps    = "192"
	MusicFallbackFormat = "mp3"

	SingleOutputTemplate   = "%(title)s.%(ext)s"
	PlaylistOutputTemplate = "%(playlist_title)s/%(playlist_index)s-%(title)s.%(ext)s"
)

// extractor audio codec names differ from container extensions in one case
var audioCodecNames = map[string]string{
	"ogg": "vorbis",
}

// PostprocessorKind identifies one extractor postprocessing step
type PostprocessorKind int

const (
	PPExtractAudio PostprocessorKind = iota
	PPRemuxVideo
	PPRecodeVideo
	PPMetadata
	PPEmbedThumbnail
)

// String returns the extractor's postprocessor name
func (k PostprocessorKind) String() string {
	switch k {
	case PPExtractAudio:
		return "ExtractAudio"
	case PPRemuxVideo:
		return "VideoRemuxer"
	case PPRecodeVideo:
		return "VideoConvertor"
	case PPMetadata:
		return "Metadata"
	case PPEmbedThumbnail:
		return "EmbedThumbnail"
	default:
		return "Unknown"
	}
}

// Postprocessor is one step run by the extractor after the transfer
type Postprocessor struct {
	Kind    PostprocessorKind
	Codec   string   // audio codec or target container
	Quality string   // audio quality in kbps
	Args    []string // extra ffmpeg arguments for the step
}

// ExtractorOptions is the complete, backend-neutral configuration of one
// extractor run.
type ExtractorOptions struct {
	URL               string
	Format            string
	OutputTemplate    string
	MergeOutputFormat string
	Postprocessors    []Postprocessor
	WriteThumbnail    bool
	ForceOverwrites   bool
	NoPlaylist        bool
	YesPlaylist       bool
	PlaylistItems     string
	Tuning            SiteTuning
}

// ForItem returns a copy of o restricted to the playlist item at index
func (o ExtractorOptions) ForItem(index int) ExtractorOptions {
	c := o
	c.Postprocessors = append([]Postprocessor(nil), o.Postprocessors...)
	c.PlaylistItems = strconv.Itoa(index)
	return c
}

// Has reports whether the options include a postprocessor of kind
func (o ExtractorOptions) Has(kind PostprocessorKind) bool {
	for _, pp := range o.Postprocessors {
		if pp.Kind == kind {
			return true
		}
	}
	return false
}

// EffectiveFormat returns the format actually fetched for url. Video formats
// requested from the music platform are coerced to mp3.
func EffectiveFormat(url, format string) (string, bool) {
	format = formats.Normalize(format)
	if platform.IsMusicPlatform(url) && formats.Classify(format) != formats.Audio {
		return MusicFallbackFormat, true
	}
	return format, false
}

// VideoFormatSelector returns the format selector for a quality preset. The
// selector always merges a video stream with an audio stream.
func VideoFormatSelector(quality string) string {
	height, ok := qualityHeights[quality]
	if !ok {
		height = qualityHeights[DefaultQuality]
	}
	if height == 0 {
		return "bestvideo[ext=mp4]+bestaudio[ext=m4a]/bestvideo+bestaudio/best"
	}
	return fmt.Sprintf("bestvideo[height<=%d][ext=mp4]+bestaudio[ext=m4a]/bestvideo[height<=%d]+bestaudio/best[height<=%d]",
		height, height, height)
}

// BuildOptions derives the extractor configuration for req. pctx is nil
// unless the request fetches an entire playlist.
func BuildOptions(req *model.DownloadRequest, pctx *model.PlaylistContext) (ExtractorOptions, error) {
	if !platform.IsSupportedURL(req.URL) {
		return ExtractorOptions{}, fmt.Errorf("%q: %w", req.URL, model.ErrInvalidURL)
	}
	format, _ := EffectiveFormat(req.URL, req.Format)
	kind := formats.Classify(format)
	if kind == formats.Unknown {
		return ExtractorOptions{}, fmt.Errorf("%q: %w", req.Format, model.ErrUnsupportedFormat)
	}

	opts := ExtractorOptions{
		URL:             req.URL,
		ForceOverwrites: true,
		Tuning:          TuningFor(req.URL),
	}

	switch req.PlaylistAction {
	case model.PlaylistActionEntire:
		opts.YesPlaylist = true
		opts.OutputTemplate = filepath.Join(req.OutputDir, PlaylistOutputTemplate)
	case model.PlaylistActionCancelled:
		return ExtractorOptions{}, model.ErrCancelled
	default:
		opts.NoPlaylist = true
		opts.URL = platform.SingleItemURL(req.URL)
		opts.OutputTemplate = filepath.Join(req.OutputDir, SingleOutputTemplate)
	}

	if kind == formats.Audio {
		opts.Format = AudioFormatSelector
		opts.Postprocessors = audioPostprocessors(req.URL, format)
		opts.WriteThumbnail = opts.Has(PPEmbedThumbnail)
		return opts, nil
	}

	opts.Format = VideoFormatSelector(req.Quality)
	opts.MergeOutputFormat = format
	pp, err := videoPostprocessor(format)
	if err != nil {
		return ExtractorOptions{}, err
	}
	opts.Postprocessors = []Postprocessor{pp}
	return opts, nil
}

func audioPostprocessors(url, format string) []Postprocessor {
	codec := format
	if name, ok := audioCodecNames[format]; ok {
		codec = name
	}
	pps := []Postprocessor{{Kind: PPExtractAudio, Codec: codec, Quality: AudioQualityKbps}}
	if platform.IsMusicPlatform(url) {
		pps = append(pps, Postprocessor{Kind: PPMetadata})
		if format == "mp3" {
			pps = append(pps, Postprocessor{Kind: PPEmbedThumbnail})
		}
	}
	return pps
}

// videoPostprocessor picks remux or recode for the container. Recodes reuse
// the software encoder profile; downloads never touch the GPU.
func videoPostprocessor(format string) (Postprocessor, error) {
	cpu, err := formats.CodecArgs(format, formats.AttemptCPU)
	if err != nil {
		return Postprocessor{}, err
	}
	if formats.Postprocess(format) == formats.PostprocessRecode {
		return Postprocessor{Kind: PPRecodeVideo, Codec: format, Args: cpu.OutputArgs}, nil
	}
	return Postprocessor{Kind: PPRemuxVideo, Codec: format}, nil
}

// seconds converts d for the extractor's float-second flags
func seconds(d time.Duration) float64 {
	return d.Seconds()
}

// joinArgs renders postprocessor args as "NAME:arg arg ..."
func joinArgs(pp Postprocessor) string {
	return pp.Kind.String() + ":" + strings.Join(pp.Args, " ")
}
