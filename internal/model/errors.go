package model

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies every terminal failure surfaced to the user
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindUnsupportedFormat
	KindInvalidConversionKind
	KindNoAudioTrack
	KindProbeFailure
	KindEncodeFailure
	KindDownloadThrottled
	KindContentRestricted
	KindContentUnavailable
	KindNetworkFailure
	KindDownloadGeneric
	KindPlaylistMetadataUnavailable
	KindInvalidURL
	KindJobInFlight
	KindCancelled
	KindInternal
)

var kindNames = map[ErrorKind]string{
	KindNone:                        "None",
	KindUnsupportedFormat:           "UnsupportedFormat",
	KindInvalidConversionKind:       "InvalidConversionKind",
	KindNoAudioTrack:                "NoAudioTrackError",
	KindProbeFailure:                "ProbeFailure",
	KindEncodeFailure:               "EncodeFailure",
	KindDownloadThrottled:           "DownloadThrottled",
	KindContentRestricted:           "ContentRestricted",
	KindContentUnavailable:          "ContentUnavailable",
	KindNetworkFailure:              "NetworkFailure",
	KindDownloadGeneric:             "DownloadErrorGeneric",
	KindPlaylistMetadataUnavailable: "PlaylistMetadataUnavailable",
	KindInvalidURL:                  "InvalidURL",
	KindJobInFlight:                 "JobInFlight",
	KindCancelled:                   "Cancelled",
	KindInternal:                    "InternalError",
}

// String returns the taxonomy name of the kind
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Sentinel errors, one per kind. Wrapped errors are matched with errors.Is.
var (
	ErrUnsupportedFormat           = errors.New("unsupported format")
	ErrInvalidConversionKind       = errors.New("audio files cannot be converted to video formats")
	ErrNoAudioTrack                = errors.New("video file does not contain any audio tracks")
	ErrProbeFailure                = errors.New("media probe failed")
	ErrEncodeFailure               = errors.New("encoder failed")
	ErrDownloadThrottled           = errors.New("download throttled by the site")
	ErrContentRestricted           = errors.New("content is restricted")
	ErrContentUnavailable          = errors.New("content is private or unavailable")
	ErrNetworkFailure              = errors.New("network failure")
	ErrDownloadGeneric             = errors.New("download failed")
	ErrPlaylistMetadataUnavailable = errors.New("playlist metadata unavailable")
	ErrInvalidURL                  = errors.New("unsupported or invalid URL")
	ErrJobInFlight                 = errors.New("another job is already running")
	ErrCancelled                   = errors.New("cancelled")
	ErrOutputIsInput               = errors.New("output file would overwrite the input")
	ErrNoInputs                    = errors.New("no input files")
)

var sentinelKinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrUnsupportedFormat, KindUnsupportedFormat},
	{ErrInvalidConversionKind, KindInvalidConversionKind},
	// Probe failures are reported the same way as a missing audio track.
	{ErrProbeFailure, KindNoAudioTrack},
	{ErrNoAudioTrack, KindNoAudioTrack},
	{ErrEncodeFailure, KindEncodeFailure},
	{ErrDownloadThrottled, KindDownloadThrottled},
	{ErrContentRestricted, KindContentRestricted},
	{ErrContentUnavailable, KindContentUnavailable},
	{ErrNetworkFailure, KindNetworkFailure},
	{ErrDownloadGeneric, KindDownloadGeneric},
	{ErrPlaylistMetadataUnavailable, KindPlaylistMetadataUnavailable},
	{ErrInvalidURL, KindInvalidURL},
	{ErrJobInFlight, KindJobInFlight},
	{ErrCancelled, KindCancelled},
	{ErrOutputIsInput, KindInvalidConversionKind},
	{ErrNoInputs, KindInternal},
}

// JobError attaches a kind and the offending item to an underlying error
type JobError struct {
	Kind ErrorKind
	Item string
	Err  error
}

// NewJobError wraps err with kind and item
func NewJobError(kind ErrorKind, item string, err error) *JobError {
	return &JobError{Kind: kind, Item: item, Err: err}
}

func (e *JobError) Error() string {
	if e.Item != "" {
		return fmt.Sprintf("%s: %v", e.Item, e.Err)
	}
	return e.Err.Error()
}

func (e *JobError) Unwrap() error {
	return e.Err
}

// EncodeError is returned when both encoder attempts (or the only one) fail
type EncodeError struct {
	ExitCode   int
	StderrTail string
}

func (e *EncodeError) Error() string {
	if e.StderrTail == "" {
		return fmt.Sprintf("encoder exited with code %d", e.ExitCode)
	}
	return fmt.Sprintf("encoder exited with code %d: %s", e.ExitCode, e.StderrTail)
}

// Is makes errors.Is(err, ErrEncodeFailure) match any EncodeError
func (e *EncodeError) Is(target error) bool {
	return target == ErrEncodeFailure
}

// KindOf classifies err into the taxonomy
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var je *JobError
	if errors.As(err, &je) && je.Kind != KindNone {
		return je.Kind
	}
	for _, sk := range sentinelKinds {
		if errors.Is(err, sk.err) {
			return sk.kind
		}
	}
	if errors.Is(err, context.Canceled) {
		return KindCancelled
	}
	return KindInternal
}
