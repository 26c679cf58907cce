package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ytget/media-converter/internal/config"
	"github.com/ytget/media-converter/internal/convert"
	"github.com/ytget/media-converter/internal/download"
	"github.com/ytget/media-converter/internal/jobs"
	"github.com/ytget/media-converter/internal/logging"
	"github.com/ytget/media-converter/internal/platform"
	"github.com/ytget/media-converter/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.media-converter"
	AppName = "Media Converter"

	WindowWidth  = 720
	WindowHeight = 420

	LogLevelEnv = "MEDIA_CONVERTER_LOG"
)

func main() {
	logger := logging.New(logging.Options{Level: os.Getenv(LogLevelEnv)})
	logger.Info("starting", "app", AppName, "version", version)

	myApp := app.NewWithID(AppID)
	myWindow := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	settings := config.NewSettings(myApp)
	outputDir := settings.GetOutputDirectory()
	if err := platform.CreateDirectoryIfNotExists(outputDir); err != nil {
		logger.Warn("failed to ensure output dir", "dir", outputDir, "error", err)
	}

	root := ui.NewRootUI(myWindow, settings, logger)
	runner := jobs.NewRunner(jobs.Options{
		Surface:    ui.Surface{},
		View:       root,
		Converter:  convert.NewService(nil, "", logger),
		Downloader: download.NewService(nil, logger),
		Resolver:   platform.NewPlaylistResolver(logger),
		Logger:     logger,
	})
	root.Bind(runner)

	myWindow.SetOnClosed(runner.Cancel)
	myWindow.ShowAndRun()
}
