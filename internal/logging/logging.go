// Package logging builds the application logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// DefaultName is the root logger name
const DefaultName = "media-converter"

// Options configures New
type Options struct {
	Name   string
	Level  string // trace, debug, info, warn, error or off
	JSON   bool
	Output io.Writer
}

// New creates the root logger. Components derive their own with Named.
func New(opts Options) hclog.Logger {
	if opts.Name == "" {
		opts.Name = DefaultName
	}
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       opts.Name,
		Level:      ParseLevel(opts.Level),
		Output:     opts.Output,
		JSONFormat: opts.JSON,
	})
}

// ParseLevel maps a level name to hclog. Unknown names mean info.
func ParseLevel(level string) hclog.Level {
	l := hclog.LevelFromString(strings.TrimSpace(level))
	if l == hclog.NoLevel {
		return hclog.Info
	}
	return l
}
