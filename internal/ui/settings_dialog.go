package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/media-converter/internal/config"
)

// SettingsDialog edits the persisted defaults
type SettingsDialog struct {
	settings *config.Settings
	window   fyne.Window
	dialog   *dialog.ConfirmDialog
	onSaved  func()

	outputDirEntry *widget.Entry
	qualitySelect  *widget.Select
	gpuCheck       *widget.Check
}

// NewSettingsDialog creates a new settings dialog. onSaved may be nil.
func NewSettingsDialog(settings *config.Settings, window fyne.Window, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings: settings,
		window:   window,
		onSaved:  onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

func (sd *SettingsDialog) createUI() {
	sd.outputDirEntry = widget.NewEntry()
	sd.outputDirEntry.SetPlaceHolder(OutputPlaceholder)
	browseDirBtn := widget.NewButton(BrowseLabel, sd.onBrowseDirectory)
	outputDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.outputDirEntry)

	sd.qualitySelect = widget.NewSelect(sd.settings.GetQualityOptions(), nil)
	sd.gpuCheck = widget.NewCheck(UseGPULabel, nil)

	form := container.NewVBox(
		widget.NewLabel("Output Folder:"),
		outputDirRow,

		widget.NewLabel("Video Quality:"),
		sd.qualitySelect,

		widget.NewSeparator(),
		sd.gpuCheck,
	)

	sd.dialog = dialog.NewCustomConfirm(
		SettingsTitle,
		"Save",
		CancelLabel,
		form,
		sd.onSave,
		sd.window,
	)
	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

func (sd *SettingsDialog) loadCurrentSettings() {
	sd.outputDirEntry.SetText(sd.settings.GetOutputDirectory())
	sd.qualitySelect.SetSelected(sd.settings.GetQuality())
	sd.gpuCheck.SetChecked(sd.settings.GetUseGPU())
}

func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.outputDirEntry.SetText(uri.Path())
	}, sd.window)
}

func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}
	if dir := sd.outputDirEntry.Text; dir != "" {
		sd.settings.SetOutputDirectory(dir)
	}
	if sd.qualitySelect.Selected != "" {
		sd.settings.SetQuality(sd.qualitySelect.Selected)
	}
	sd.settings.SetUseGPU(sd.gpuCheck.Checked)

	if sd.onSaved != nil {
		sd.onSaved()
	}
	dialog.ShowInformation(SettingsTitle, SettingsSaved, sd.window)
}
