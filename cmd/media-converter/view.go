package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/ytget/media-converter/internal/model"
)

// Playlist answers accepted by -playlist
const (
	PlaylistAsk    = "ask"
	PlaylistAll    = "all"
	PlaylistSingle = "single"
)

// terminalView renders the runner's output on a terminal. It runs on the
// loop goroutine only.
type terminalView struct {
	out      io.Writer
	in       *bufio.Reader
	playlist string
	bar      *progressbar.ProgressBar
	failed   bool
}

func newTerminalView(out io.Writer, in io.Reader, playlist string) *terminalView {
	return &terminalView{
		out:      out,
		in:       bufio.NewReader(in),
		playlist: playlist,
		bar: progressbar.NewOptions(100,
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetWidth(30),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionClearOnFinish(),
		),
	}
}

func (v *terminalView) SetControlsEnabled(bool) {}

func (v *terminalView) SetCancelEnabled(bool) {}

func (v *terminalView) SetStatus(text string) {
	v.bar.Describe(text)
}

func (v *terminalView) SetProgress(percent int) {
	_ = v.bar.Set(percent)
}

func (v *terminalView) ShowError(title, message string) {
	v.failed = true
	_ = v.bar.Clear()
	fmt.Fprintf(v.out, "\n%s: %s\n", title, message)
}

func (v *terminalView) ShowInfo(title, message string) {
	_ = v.bar.Finish()
	fmt.Fprintf(v.out, "\n%s\n%s\n", title, message)
}

// Choose answers from -playlist, prompting on stdin for "ask"
func (v *terminalView) Choose(req model.DecisionRequest, reply func(model.PlaylistAction)) {
	switch v.playlist {
	case PlaylistAll:
		reply(pick(req, model.PlaylistActionEntire))
		return
	case PlaylistSingle:
		reply(pick(req, model.PlaylistActionSingle))
		return
	}

	_ = v.bar.Clear()
	fmt.Fprintf(v.out, "\n%s\n%s\n", req.Title, req.Message)
	for i, c := range req.Choices {
		fmt.Fprintf(v.out, "  %d) %s\n", i+1, c.Label())
	}
	fmt.Fprint(v.out, "Choice: ")

	line, err := v.in.ReadString('\n')
	if err != nil && line == "" {
		reply(model.PlaylistActionCancelled)
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 1 || n > len(req.Choices) {
		fmt.Fprintln(v.out, "Invalid choice, cancelling.")
		reply(model.PlaylistActionCancelled)
		return
	}
	reply(req.Choices[n-1])
}

// pick returns want when req offers it, otherwise Cancelled
func pick(req model.DecisionRequest, want model.PlaylistAction) model.PlaylistAction {
	if req.Allows(want) {
		return want
	}
	return model.PlaylistActionCancelled
}
