// Package formats is the static format registry: which extensions are audio
// or video, and the encoder argument profiles for each target container.
// Profiles are plain data; nothing in here runs a process.
package formats
