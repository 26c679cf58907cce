package download

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ytget/media-converter/internal/model"
)

// Extractor message fragments per error kind, matched case-insensitively
var (
	throttledMarkers  = []string{"http error 429", "too many requests", "rate-limit", "rate limit"}
	restrictedMarkers = []string{
		"copyright", "age-restricted", "age restricted", "confirm your age",
		"inappropriate for some users", "not available in your country", "geo restricted", "geo-restricted",
		"members-only", "join this channel",
	}
	unavailableMarkers = []string{
		"private video", "video unavailable", "has been removed", "is unavailable",
		"no longer available", "does not exist", "http error 404", "account has been terminated",
	}
	networkMarkers = []string{
		"timed out", "timeout", "connection reset", "connection refused", "connection aborted",
		"network is unreachable", "name resolution", "unable to download webpage", "getaddrinfo",
		"ssl:", "remote end closed connection",
	}
)

// ClassifyError maps an extractor failure to the download error taxonomy.
// stderr is the extractor's diagnostic output, possibly empty.
func ClassifyError(url string, err error, stderr string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return model.NewJobError(model.KindCancelled, url, fmt.Errorf("%w: %v", model.ErrCancelled, err))
	}

	detail := errorDetail(err, stderr)
	text := strings.ToLower(err.Error() + "\n" + stderr)

	var sentinel error
	switch {
	case containsAny(text, throttledMarkers):
		sentinel = model.ErrDownloadThrottled
	case containsAny(text, restrictedMarkers):
		sentinel = model.ErrContentRestricted
	case containsAny(text, unavailableMarkers):
		sentinel = model.ErrContentUnavailable
	case containsAny(text, networkMarkers):
		sentinel = model.ErrNetworkFailure
	default:
		sentinel = model.ErrDownloadGeneric
	}
	return model.NewJobError(model.KindOf(sentinel), url, fmt.Errorf("%w: %s", sentinel, detail))
}

// errorDetail prefers the last ERROR line printed by the extractor
func errorDetail(err error, stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "ERROR:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "ERROR:"))
		}
	}
	return err.Error()
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
