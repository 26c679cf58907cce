package ui

// Window texts
const (
	InputPlaceholder  = "Select files or paste paths separated by ';'"
	URLPlaceholder    = "Paste a YouTube, TikTok, Vimeo... URL"
	OutputPlaceholder = "Output folder"
	InputListSep      = ";"
	UseGPULabel       = "Use GPU encoding"
	NoInputTitle      = "No Input"
	NoInputMessage    = "Please select at least one file to convert."
	NoURLTitle        = "No URL"
	NoURLMessage      = "Please enter a URL to download."
	FolderErrorTitle  = "Folder Error"
	SettingsTitle     = "Settings"
	SettingsSaved     = "Settings saved successfully!"
)

// Button labels
const (
	BrowseLabel     = "Browse"
	ConvertLabel    = "Convert"
	DownloadLabel   = "Download"
	CancelLabel     = "Cancel"
	OpenFolderLabel = "Open Folder"
	IconSettings    = "⚙"
)

// Layout sizing
const (
	DecisionDialogWidth  float32 = 420
	SettingsDialogWidth  float32 = 500
	SettingsDialogHeight float32 = 320
)
