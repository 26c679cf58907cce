package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/ytget/media-converter/internal/formats"
	"github.com/ytget/media-converter/internal/model"
	"github.com/ytget/media-converter/internal/platform"
)

// Service handles batch conversion of local files
type Service struct {
	dispatcher *Dispatcher
	logger     hclog.Logger
	mu         sync.Mutex
	onUpdate   func(*model.ConversionJob, *model.ConversionItem) // callback for UI updates
}

// NewService creates a conversion service backed by ffmpeg
func NewService(runner CommandRunner, ffmpegPath string, logger hclog.Logger) *Service {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	encoder := NewEncoder(runner, ffmpegPath, logger)
	probe := NewProbe(runner, ffmpegPath, logger)
	return NewServiceWithDispatcher(NewDispatcher(encoder, probe, logger), logger)
}

// NewServiceWithDispatcher creates a service around an existing dispatcher
func NewServiceWithDispatcher(d *Dispatcher, logger hclog.Logger) *Service {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Service{
		dispatcher: d,
		logger:     logger.Named("convert"),
	}
}

// SetUpdateCallback sets the callback function for item updates
func (s *Service) SetUpdateCallback(callback func(*model.ConversionJob, *model.ConversionItem)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = callback
}

// Run converts every item of job strictly in input order. The output format
// is validated before any route is chosen, and the first failing item aborts
// the rest of the batch.
func (s *Service) Run(ctx context.Context, job *model.ConversionJob) model.JobResult {
	job.StartedAt = time.Now()
	defer func() { job.FinishedAt = time.Now() }()
	log := s.logger.With("job", job.ID, "format", job.OutputFormat)

	if !formats.IsSupported(job.OutputFormat) {
		err := fmt.Errorf("output %q: %w", job.OutputFormat, model.ErrUnsupportedFormat)
		log.Error("rejected batch", "error", err)
		job.SkipRemaining()
		return failed(err)
	}
	if len(job.Items) == 0 {
		log.Error("rejected batch", "error", model.ErrNoInputs)
		return failed(model.NewJobError(model.KindInternal, "", model.ErrNoInputs))
	}
	if err := platform.CreateDirectoryIfNotExists(job.OutputDir); err != nil {
		log.Error("cannot create output directory", "dir", job.OutputDir, "error", err)
		job.SkipRemaining()
		return failed(fmt.Errorf("create output directory: %w", err))
	}

	var outputs []string
	for _, item := range job.Items {
		if _, err := os.Stat(item.InputPath); err != nil {
			item.Status = model.TaskStatusFailed
			item.LastError = err.Error()
			s.notifyUpdate(job, item)
			job.SkipRemaining()
			return failed(model.NewJobError(model.KindInternal, item.InputPath, fmt.Errorf("input file does not exist: %w", err)))
		}

		item.Status = model.TaskStatusRunning
		s.notifyUpdate(job, item)

		outcome := s.dispatcher.Dispatch(ctx, item, job.OutputDir, job.OutputFormat, job.UseGPU)
		if !outcome.Continue() {
			item.Status = model.TaskStatusFailed
			item.LastError = outcome.Reason.Error()
			if outcome.Partial != "" {
				if err := os.Remove(outcome.Partial); err != nil && !errors.Is(err, fs.ErrNotExist) {
					log.Warn("cannot remove partial output", "path", outcome.Partial, "error", err)
				}
			}
			s.notifyUpdate(job, item)
			job.SkipRemaining()
			log.Error("batch aborted", "item", item.InputPath, "route", outcome.Route, "error", outcome.Reason)
			return failed(outcome.Reason)
		}

		item.Status = model.TaskStatusCompleted
		outputs = append(outputs, item.OutputPath)
		s.notifyUpdate(job, item)
	}

	log.Info("batch complete", "items", len(job.Items))
	return model.JobResult{
		Success:     true,
		Message:     completionMessage(outputs),
		OutputPaths: outputs,
	}
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(job *model.ConversionJob, item *model.ConversionItem) {
	s.mu.Lock()
	cb := s.onUpdate
	s.mu.Unlock()
	if cb != nil {
		cb(job, item)
	}
}

func failed(err error) model.JobResult {
	return model.JobResult{
		Kind:    model.KindOf(err),
		Message: err.Error(),
	}
}

func completionMessage(outputs []string) string {
	msg := fmt.Sprintf("Conversion complete! %d file(s) written.", len(outputs))
	if len(outputs) == 1 {
		if desc := platform.DescribeAudioFile(outputs[0]); desc != "" {
			msg += "\n" + desc
		}
	}
	return msg
}
