package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"

	"github.com/ytget/media-converter/internal/config"
	"github.com/ytget/media-converter/internal/convert"
	"github.com/ytget/media-converter/internal/download"
	"github.com/ytget/media-converter/internal/jobs"
	"github.com/ytget/media-converter/internal/logging"
	"github.com/ytget/media-converter/internal/model"
	"github.com/ytget/media-converter/internal/platform"
)

// version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const usage = `Usage:
  media-converter [-config file] convert [flags] file...
  media-converter [-config file] download [flags] url

Run "media-converter <command> -h" for command flags.
`

// Exit codes
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("media-converter", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := global.String("config", config.DefaultConfigPath(), "YAML config file")
	showVersion := global.Bool("version", false, "print the version")
	if err := global.Parse(args); err != nil {
		return exitUsage
	}
	if *showVersion {
		fmt.Fprintln(stdout, "media-converter v"+version)
		return exitOK
	}

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	rest := global.Args()
	if len(rest) == 0 {
		global.Usage()
		return exitUsage
	}

	cmd, err := parseCommand(rest[0], rest[1:], &cfg, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, err)
		}
		return exitUsage
	}

	logger := logging.New(logging.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON, Output: stderr})
	logger.Debug("config loaded", "path", *configPath, "out", cfg.OutputDir)
	return execute(cmd, cfg, logger, stdin, stdout)
}

// command is a parsed subcommand
type command struct {
	name     string
	inputs   []string
	url      string
	playlist string
}

func parseCommand(name string, args []string, cfg *config.File, stderr io.Writer) (command, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg.RegisterFlags(fs)
	cmd := command{name: name}

	switch name {
	case "convert":
		fs.StringVar(&cfg.ConvertFormat, "format", cfg.ConvertFormat, "target format")
	case "download":
		fs.StringVar(&cfg.DownloadFormat, "format", cfg.DownloadFormat, "target format")
		fs.StringVar(&cmd.playlist, "playlist", PlaylistAsk, "playlist answer: ask, all, single")
	default:
		return cmd, fmt.Errorf("unknown command %q\n%s", name, usage)
	}
	if err := fs.Parse(args); err != nil {
		return cmd, err
	}
	if err := cfg.Validate(); err != nil {
		return cmd, err
	}

	switch name {
	case "convert":
		for _, a := range fs.Args() {
			cmd.inputs = append(cmd.inputs, model.SplitInputList(a)...)
		}
		if len(cmd.inputs) == 0 {
			return cmd, fmt.Errorf("convert: %w", model.ErrNoInputs)
		}
	case "download":
		if fs.NArg() != 1 {
			return cmd, errors.New("download: exactly one URL is required")
		}
		cmd.url = fs.Arg(0)
		switch cmd.playlist {
		case PlaylistAsk, PlaylistAll, PlaylistSingle:
		default:
			return cmd, fmt.Errorf("download: invalid -playlist %q", cmd.playlist)
		}
	}
	return cmd, nil
}

func execute(cmd command, cfg config.File, logger hclog.Logger, stdin io.Reader, stdout io.Writer) int {
	if err := platform.CreateDirectoryIfNotExists(cfg.OutputDir); err != nil {
		logger.Error("failed to create output dir", "dir", cfg.OutputDir, "error", err)
		return exitFailure
	}

	loop := jobs.NewLoop()
	view := newTerminalView(stdout, stdin, cmd.playlist)
	runner := jobs.NewRunner(jobs.Options{
		Surface:    loop,
		View:       view,
		Converter:  convert.NewService(nil, cfg.FFmpegPath, logger),
		Downloader: download.NewService(nil, logger),
		Resolver:   platform.NewPlaylistResolver(logger),
		Logger:     logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		// a second interrupt kills the process, e.g. during a conversion
		stop()
		runner.Cancel()
	}()

	var err error
	switch cmd.name {
	case "convert":
		err = runner.RunConversion(model.NewConversionJob(cmd.inputs, cfg.OutputDir, cfg.ConvertFormat, cfg.UseGPU))
	case "download":
		err = runner.RunDownload(model.NewDownloadRequest(cmd.url, cfg.OutputDir, cfg.DownloadFormat, cfg.Quality))
	}

	done := make(chan struct{})
	go func() {
		runner.Wait()
		close(done)
	}()
	loop.RunUntil(done)

	if err != nil || view.failed {
		return exitFailure
	}
	return exitOK
}
