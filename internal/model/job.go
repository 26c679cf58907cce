package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ID prefixes
const (
	ConversionIDPrefix = "convert-"
	DownloadIDPrefix   = "download-"
)

// ConversionItem is one input file inside a batch
type ConversionItem struct {
	InputPath  string
	OutputPath string
	Status     TaskStatus
	LastError  string
}

// ConversionJob is an ordered batch of local files converted to one format
type ConversionJob struct {
	ID           string
	Items        []*ConversionItem
	OutputDir    string
	OutputFormat string
	UseGPU       bool
	StartedAt    time.Time
	FinishedAt   time.Time
}

// NewConversionJob creates a job with every item pending. Input paths are
// normalized the same way the file picker hands them over: surrounding
// quotes dropped and the path cleaned.
func NewConversionJob(inputs []string, outputDir, outputFormat string, useGPU bool) *ConversionJob {
	job := &ConversionJob{
		ID:           generateID(ConversionIDPrefix),
		OutputDir:    outputDir,
		OutputFormat: strings.ToLower(strings.TrimPrefix(strings.TrimSpace(outputFormat), ".")),
		UseGPU:       useGPU,
	}
	for _, in := range inputs {
		in = NormalizeInputPath(in)
		if in == "" {
			continue
		}
		job.Items = append(job.Items, &ConversionItem{
			InputPath: in,
			Status:    TaskStatusPending,
		})
	}
	return job
}

// NormalizeInputPath strips quotes and whitespace and cleans the path
func NormalizeInputPath(p string) string {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\"", ""))
	if p == "" {
		return ""
	}
	return filepath.Clean(p)
}

// SplitInputList splits a ';' separated list of paths as produced by the
// input field.
func SplitInputList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ";") {
		if p := NormalizeInputPath(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Percent returns completed/total as an integer percentage
func (j *ConversionJob) Percent() int {
	if len(j.Items) == 0 {
		return 0
	}
	done := 0
	for _, it := range j.Items {
		if it.Status == TaskStatusCompleted {
			done++
		}
	}
	return done * 100 / len(j.Items)
}

// SkipRemaining marks every unfinished item as skipped after a batch abort
func (j *ConversionJob) SkipRemaining() {
	for _, it := range j.Items {
		if !it.Status.IsFinished() {
			it.Status = TaskStatusSkipped
		}
	}
}

// PlaylistAction is the user's answer to the playlist-vs-single question
type PlaylistAction int

const (
	PlaylistActionUnresolved PlaylistAction = iota
	PlaylistActionSingle
	PlaylistActionEntire
	PlaylistActionCancelled
)

// String returns a readable label for the action
func (a PlaylistAction) String() string {
	switch a {
	case PlaylistActionSingle:
		return "Single"
	case PlaylistActionEntire:
		return "EntirePlaylist"
	case PlaylistActionCancelled:
		return "Cancelled"
	default:
		return "Unresolved"
	}
}

// DownloadRequest describes one remote fetch
type DownloadRequest struct {
	ID             string
	URL            string
	OutputDir      string
	Format         string // target extension, e.g. "mp3" or "mp4"
	Quality        string // Best, 4K, 1440p, 1080p, 720p, 480p
	PlaylistAction PlaylistAction
}

// NewDownloadRequest creates a request with an unresolved playlist action
func NewDownloadRequest(url, outputDir, format, quality string) *DownloadRequest {
	return &DownloadRequest{
		ID:        generateID(DownloadIDPrefix),
		URL:       strings.TrimSpace(url),
		OutputDir: outputDir,
		Format:    strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), ".")),
		Quality:   quality,
	}
}

// JobResult is the terminal outcome of a conversion batch or a download
type JobResult struct {
	Success     bool
	Kind        ErrorKind
	Message     string
	OutputPaths []string
}

// FormatETA returns a duration formatted as hh:mm:ss or mm:ss, or "—" if unknown
func FormatETA(d time.Duration) string {
	secs := int(d.Round(time.Second).Seconds())
	if secs <= 0 {
		return "—"
	}

	hours := secs / 3600
	minutes := (secs % 3600) / 60
	seconds := secs % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// generateID generates a unique, time ordered ID using UUID v7
func generateID(prefix string) string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp if UUID generation fails
		return fmt.Sprintf("%s%d", prefix, time.Now().UnixNano())
	}
	return prefix + id.String()
}
