package ui

import "fyne.io/fyne/v2"

// Surface posts work onto the Fyne thread
type Surface struct{}

// Post runs fn on the Fyne thread
func (Surface) Post(fn func()) {
	fyne.Do(fn)
}
