package config

import (
	"slices"

	"fyne.io/fyne/v2"

	"github.com/ytget/media-converter/internal/download"
	"github.com/ytget/media-converter/internal/formats"
	"github.com/ytget/media-converter/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyOutputDir      = "output_directory"
	KeyConvertFormat  = "convert_format"
	KeyUseGPU         = "use_gpu"
	KeyDownloadFormat = "download_format"
	KeyQuality        = "download_quality"
	KeyLastInputDir   = "last_input_directory"
)

// Default values
const (
	DefaultConvertFormat  = "mp3"
	DefaultDownloadFormat = "mp4"
	DefaultQuality        = download.DefaultQuality
	DefaultUseGPU         = false
	FallbackOutputDir     = "/tmp/media-converter"
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetOutputDirectory returns the configured output directory
func (s *Settings) GetOutputDirectory() string {
	dir := s.app.Preferences().String(KeyOutputDir)
	if dir == "" {
		// Use system default Downloads directory
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			defaultDir = FallbackOutputDir
		}
		s.SetOutputDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetOutputDirectory sets the output directory
func (s *Settings) SetOutputDirectory(dir string) {
	s.app.Preferences().SetString(KeyOutputDir, dir)
}

// GetLastInputDirectory returns the folder the file picker opened last
func (s *Settings) GetLastInputDirectory() string {
	return s.app.Preferences().String(KeyLastInputDir)
}

// SetLastInputDirectory remembers the folder of the last picked file
func (s *Settings) SetLastInputDirectory(dir string) {
	s.app.Preferences().SetString(KeyLastInputDir, dir)
}

// GetConvertFormat returns the target format for local conversions
func (s *Settings) GetConvertFormat() string {
	format := formats.Normalize(s.app.Preferences().String(KeyConvertFormat))
	if !formats.IsSupported(format) {
		s.SetConvertFormat(DefaultConvertFormat)
		return DefaultConvertFormat
	}
	return format
}

// SetConvertFormat sets the conversion target. Unsupported values are ignored.
func (s *Settings) SetConvertFormat(format string) {
	format = formats.Normalize(format)
	if !formats.IsSupported(format) {
		return
	}
	s.app.Preferences().SetString(KeyConvertFormat, format)
}

// GetUseGPU returns whether hardware encoding is attempted
func (s *Settings) GetUseGPU() bool {
	return s.app.Preferences().BoolWithFallback(KeyUseGPU, DefaultUseGPU)
}

// SetUseGPU sets the hardware encoding flag
func (s *Settings) SetUseGPU(use bool) {
	s.app.Preferences().SetBool(KeyUseGPU, use)
}

// GetDownloadFormat returns the target format for downloads
func (s *Settings) GetDownloadFormat() string {
	format := formats.Normalize(s.app.Preferences().String(KeyDownloadFormat))
	if !formats.IsSupported(format) {
		s.SetDownloadFormat(DefaultDownloadFormat)
		return DefaultDownloadFormat
	}
	return format
}

// SetDownloadFormat sets the download format. Unsupported values are ignored.
func (s *Settings) SetDownloadFormat(format string) {
	format = formats.Normalize(format)
	if !formats.IsSupported(format) {
		return
	}
	s.app.Preferences().SetString(KeyDownloadFormat, format)
}

// GetQuality returns the configured video quality preset
func (s *Settings) GetQuality() string {
	quality := s.app.Preferences().String(KeyQuality)
	if !slices.Contains(download.Qualities, quality) {
		s.SetQuality(DefaultQuality)
		return DefaultQuality
	}
	return quality
}

// SetQuality sets the quality preset; unknown presets fall back to the default
func (s *Settings) SetQuality(quality string) {
	if !slices.Contains(download.Qualities, quality) {
		quality = DefaultQuality
	}
	s.app.Preferences().SetString(KeyQuality, quality)
}

// GetQualityOptions returns available quality presets
func (s *Settings) GetQualityOptions() []string {
	return slices.Clone(download.Qualities)
}
