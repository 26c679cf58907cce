package ui

import (
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/hashicorp/go-hclog"

	"github.com/ytget/media-converter/internal/config"
	"github.com/ytget/media-converter/internal/formats"
	"github.com/ytget/media-converter/internal/jobs"
	"github.com/ytget/media-converter/internal/model"
	"github.com/ytget/media-converter/internal/platform"
)

// JobStarter is the part of the job runner the window drives
type JobStarter interface {
	RunConversion(job *model.ConversionJob) error
	RunDownload(req *model.DownloadRequest) error
	Cancel()
}

// RootUI represents the main window
type RootUI struct {
	window   fyne.Window
	settings *config.Settings
	starter  JobStarter
	logger   hclog.Logger

	inputEntry     *widget.Entry
	browseBtn      *widget.Button
	convertSelect  *widget.Select
	gpuCheck       *widget.Check
	convertBtn     *widget.Button
	urlEntry       *widget.Entry
	downloadSelect *widget.Select
	downloadBtn    *widget.Button
	outputEntry    *widget.Entry
	outputBtn      *widget.Button
	cancelBtn      *widget.Button
	statusLabel    *widget.Label
	progressBar    *widget.ProgressBar
}

// NewRootUI builds the window content. Call Bind before the window is shown.
func NewRootUI(window fyne.Window, settings *config.Settings, logger hclog.Logger) *RootUI {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	ui := &RootUI{
		window:   window,
		settings: settings,
		logger:   logger.Named("ui"),
	}
	ui.setupUI()
	return ui
}

// Bind connects the window to the runner
func (ui *RootUI) Bind(starter JobStarter) {
	ui.starter = starter
}

var _ jobs.View = (*RootUI)(nil)

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.inputEntry = widget.NewEntry()
	ui.inputEntry.SetPlaceHolder(InputPlaceholder)
	ui.browseBtn = widget.NewButton(BrowseLabel, ui.onBrowseInput)

	ui.convertSelect = widget.NewSelect(formats.All(), func(format string) {
		ui.settings.SetConvertFormat(format)
	})
	ui.convertSelect.SetSelected(ui.settings.GetConvertFormat())
	ui.gpuCheck = widget.NewCheck(UseGPULabel, func(on bool) {
		ui.settings.SetUseGPU(on)
	})
	ui.gpuCheck.SetChecked(ui.settings.GetUseGPU())
	ui.convertBtn = widget.NewButton(ConvertLabel, ui.onConvertClick)
	ui.convertBtn.Importance = widget.HighImportance

	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(URLPlaceholder)
	ui.urlEntry.OnSubmitted = func(string) { ui.onDownloadClick() }
	ui.downloadSelect = widget.NewSelect(formats.All(), func(format string) {
		ui.settings.SetDownloadFormat(format)
	})
	ui.downloadSelect.SetSelected(ui.settings.GetDownloadFormat())
	ui.downloadBtn = widget.NewButton(DownloadLabel, ui.onDownloadClick)
	ui.downloadBtn.Importance = widget.HighImportance

	ui.outputEntry = widget.NewEntry()
	ui.outputEntry.SetPlaceHolder(OutputPlaceholder)
	ui.outputEntry.SetText(ui.settings.GetOutputDirectory())
	ui.outputEntry.OnChanged = func(dir string) {
		if dir = strings.TrimSpace(dir); dir != "" {
			ui.settings.SetOutputDirectory(dir)
		}
	}
	ui.outputBtn = widget.NewButton(BrowseLabel, ui.onBrowseOutput)
	openBtn := widget.NewButton(OpenFolderLabel, ui.onOpenFolder)

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	ui.cancelBtn = widget.NewButton(CancelLabel, ui.onCancelClick)
	ui.cancelBtn.Disable()
	ui.statusLabel = widget.NewLabel(jobs.IdleText)
	ui.progressBar = widget.NewProgressBar()
	ui.progressBar.Max = 100

	convertRow := container.NewBorder(nil, nil, nil,
		container.NewHBox(ui.browseBtn, ui.convertSelect, ui.convertBtn), ui.inputEntry)
	downloadRow := container.NewBorder(nil, nil, nil,
		container.NewHBox(ui.downloadSelect, ui.downloadBtn), ui.urlEntry)
	outputRow := container.NewBorder(nil, nil, nil,
		container.NewHBox(ui.outputBtn, openBtn), ui.outputEntry)
	statusRow := container.NewBorder(nil, nil, nil, ui.cancelBtn, ui.statusLabel)

	content := container.NewVBox(
		container.NewBorder(nil, nil, nil, settingsBtn, widget.NewLabel("Convert local files")),
		convertRow,
		ui.gpuCheck,
		widget.NewSeparator(),
		widget.NewLabel("Download from URL"),
		downloadRow,
		widget.NewSeparator(),
		outputRow,
		ui.progressBar,
		statusRow,
	)
	ui.window.SetContent(container.NewPadded(content))
}

// SetControlsEnabled toggles every input while a job runs
func (ui *RootUI) SetControlsEnabled(enabled bool) {
	for _, w := range []fyne.Disableable{
		ui.inputEntry, ui.browseBtn, ui.convertSelect, ui.gpuCheck, ui.convertBtn,
		ui.urlEntry, ui.downloadSelect, ui.downloadBtn, ui.outputEntry, ui.outputBtn,
	} {
		if enabled {
			w.Enable()
		} else {
			w.Disable()
		}
	}
}

// SetCancelEnabled toggles the cancel button
func (ui *RootUI) SetCancelEnabled(enabled bool) {
	if enabled {
		ui.cancelBtn.Enable()
	} else {
		ui.cancelBtn.Disable()
	}
}

// SetStatus updates the status line
func (ui *RootUI) SetStatus(text string) {
	ui.statusLabel.SetText(text)
}

// SetProgress updates the progress bar (0-100)
func (ui *RootUI) SetProgress(percent int) {
	ui.progressBar.SetValue(float64(percent))
}

// ShowError shows an error modal
func (ui *RootUI) ShowError(title, message string) {
	label := widget.NewLabel(message)
	label.Wrapping = fyne.TextWrapWord
	d := dialog.NewCustom(title, "OK", label, ui.window)
	d.Resize(fyne.NewSize(DecisionDialogWidth, d.MinSize().Height))
	d.Show()
}

// ShowInfo shows an information modal
func (ui *RootUI) ShowInfo(title, message string) {
	dialog.ShowInformation(title, message, ui.window)
}

// Choose shows one button per choice and replies once
func (ui *RootUI) Choose(req model.DecisionRequest, reply func(model.PlaylistAction)) {
	message := widget.NewLabel(req.Message)
	message.Wrapping = fyne.TextWrapWord

	d := dialog.NewCustomWithoutButtons(req.Title, message, ui.window)
	replied := false
	buttons := make([]fyne.CanvasObject, 0, len(req.Choices))
	for _, choice := range req.Choices {
		btn := widget.NewButton(choice.Label(), func() {
			if replied {
				return
			}
			replied = true
			d.Hide()
			reply(choice)
		})
		if choice == req.Choices[0] {
			btn.Importance = widget.HighImportance
		}
		buttons = append(buttons, btn)
	}
	d.SetButtons(buttons)
	d.Resize(fyne.NewSize(DecisionDialogWidth, d.MinSize().Height))
	d.Show()
}

func (ui *RootUI) onConvertClick() {
	inputs := model.SplitInputList(ui.inputEntry.Text)
	if len(inputs) == 0 {
		ui.ShowError(NoInputTitle, NoInputMessage)
		return
	}
	job := model.NewConversionJob(inputs, ui.outputDir(), ui.convertSelect.Selected, ui.gpuCheck.Checked)
	if err := ui.starter.RunConversion(job); err != nil {
		ui.logger.Warn("conversion not started", "error", err)
	}
}

func (ui *RootUI) onDownloadClick() {
	url := strings.TrimSpace(ui.urlEntry.Text)
	if url == "" {
		ui.ShowError(NoURLTitle, NoURLMessage)
		return
	}
	req := model.NewDownloadRequest(url, ui.outputDir(), ui.downloadSelect.Selected, ui.settings.GetQuality())
	if err := ui.starter.RunDownload(req); err != nil {
		ui.logger.Warn("download not started", "error", err)
	}
}

func (ui *RootUI) onCancelClick() {
	if ui.starter != nil {
		ui.starter.Cancel()
	}
}

// onBrowseInput appends a picked file to the input list
func (ui *RootUI) onBrowseInput() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		path := reader.URI().Path()
		ui.settings.SetLastInputDirectory(filepath.Dir(path))

		current := strings.TrimSpace(ui.inputEntry.Text)
		if current != "" {
			path = current + InputListSep + path
		}
		ui.inputEntry.SetText(path)
	}, ui.window)
	if dir := ui.settings.GetLastInputDirectory(); dir != "" {
		if lister, err := storage.ListerForURI(storage.NewFileURI(dir)); err == nil {
			d.SetLocation(lister)
		}
	}
	d.Show()
}

func (ui *RootUI) onBrowseOutput() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		ui.outputEntry.SetText(uri.Path())
	}, ui.window)
}

func (ui *RootUI) onOpenFolder() {
	dir := ui.outputDir()
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		ui.ShowError(FolderErrorTitle, err.Error())
		return
	}
	if err := platform.OpenFolder(dir); err != nil {
		ui.logger.Error("failed to open folder", "dir", dir, "error", err)
		ui.ShowError(FolderErrorTitle, err.Error())
	}
}

// onShowSettings shows the settings dialog and reloads the window on save
func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.settings, ui.window, func() {
		ui.outputEntry.SetText(ui.settings.GetOutputDirectory())
		ui.gpuCheck.SetChecked(ui.settings.GetUseGPU())
	}).Show()
}

// outputDir returns the entry value or the configured directory
func (ui *RootUI) outputDir() string {
	if dir := strings.TrimSpace(ui.outputEntry.Text); dir != "" {
		return dir
	}
	return ui.settings.GetOutputDirectory()
}
