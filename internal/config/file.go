package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/ytget/media-converter/internal/download"
	"github.com/ytget/media-converter/internal/formats"
	"github.com/ytget/media-converter/internal/platform"
)

// Config file locations
const (
	ConfigPathEnv   = "MEDIA_CONVERTER_CONFIG"
	ConfigDirName   = "media-converter"
	ConfigFileName  = "config.yaml"
	DefaultLogLevel = "info"
)

// File is the command-line configuration, read from YAML and then
// overridden by flags.
type File struct {
	OutputDir      string `yaml:"output_dir"`
	ConvertFormat  string `yaml:"convert_format"`
	DownloadFormat string `yaml:"download_format"`
	Quality        string `yaml:"quality"`
	UseGPU         bool   `yaml:"use_gpu"`
	FFmpegPath     string `yaml:"ffmpeg_path"`
	Log            struct {
		Level string `yaml:"level"`
		JSON  bool   `yaml:"json"`
	} `yaml:"log"`
}

// DefaultFile returns the built-in defaults
func DefaultFile() File {
	f := File{
		ConvertFormat:  DefaultConvertFormat,
		DownloadFormat: DefaultDownloadFormat,
		Quality:        DefaultQuality,
	}
	f.Log.Level = DefaultLogLevel
	if dir, err := platform.GetHomeDownloadsDir(); err == nil {
		f.OutputDir = dir
	} else {
		f.OutputDir = FallbackOutputDir
	}
	return f
}

// DefaultConfigPath returns $MEDIA_CONVERTER_CONFIG or the file under the
// user config directory.
func DefaultConfigPath() string {
	if p := os.Getenv(ConfigPathEnv); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, ConfigDirName, ConfigFileName)
}

// LoadFile reads path over the defaults. A missing file is not an error.
func LoadFile(path string) (File, error) {
	f := DefaultFile()
	if path == "" {
		return f, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return f, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return f, f.Validate()
}

// Validate normalizes formats and checks every value
func (f *File) Validate() error {
	f.ConvertFormat = formats.Normalize(f.ConvertFormat)
	f.DownloadFormat = formats.Normalize(f.DownloadFormat)

	var errs []error
	if !formats.IsSupported(f.ConvertFormat) {
		errs = append(errs, fmt.Errorf("convert_format %q is not supported", f.ConvertFormat))
	}
	if !formats.IsSupported(f.DownloadFormat) {
		errs = append(errs, fmt.Errorf("download_format %q is not supported", f.DownloadFormat))
	}
	if !slices.Contains(download.Qualities, f.Quality) {
		errs = append(errs, fmt.Errorf("quality %q is not one of %v", f.Quality, download.Qualities))
	}
	if f.OutputDir == "" {
		errs = append(errs, errors.New("output_dir must not be empty"))
	}
	return errors.Join(errs...)
}

// RegisterFlags binds the overridable fields to fs, using the current values
// as flag defaults. Call it after LoadFile and before fs.Parse.
func (f *File) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&f.OutputDir, "out", f.OutputDir, "output directory")
	fs.StringVar(&f.Quality, "quality", f.Quality, "video quality: Best, 4K, 1440p, 1080p, 720p, 480p")
	fs.BoolVar(&f.UseGPU, "gpu", f.UseGPU, "try hardware encoding first")
	fs.StringVar(&f.FFmpegPath, "ffmpeg", f.FFmpegPath, "ffmpeg binary (default $FFMPEG_PATH or ffmpeg)")
	fs.StringVar(&f.Log.Level, "log-level", f.Log.Level, "log level: trace, debug, info, warn, error, off")
	fs.BoolVar(&f.Log.JSON, "log-json", f.Log.JSON, "log as JSON")
}
