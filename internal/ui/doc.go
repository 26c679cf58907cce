// Package ui contains the Fyne desktop window. It implements jobs.View and
// hands conversions and downloads to the job runner; every widget mutation
// happens on the Fyne thread.
package ui
