package model

// DecisionRequest is a blocking question the worker hands to the UI thread
type DecisionRequest struct {
	Title   string
	Message string
	Choices []PlaylistAction
}

// NeedsPrompt reports whether the user has to pick between several choices
func (d DecisionRequest) NeedsPrompt() bool {
	return len(d.Choices) > 1
}

// Allows reports whether choice is one of the offered answers
func (d DecisionRequest) Allows(choice PlaylistAction) bool {
	for _, c := range d.Choices {
		if c == choice {
			return true
		}
	}
	return false
}

// Label returns the button text for a choice
func (a PlaylistAction) Label() string {
	switch a {
	case PlaylistActionSingle:
		return "Download Single"
	case PlaylistActionEntire:
		return "Download Playlist"
	case PlaylistActionCancelled:
		return "Cancel"
	default:
		return a.String()
	}
}
