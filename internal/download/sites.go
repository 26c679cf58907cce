package download

import (
	"net/url"
	"strings"
	"time"
)

// SiteTuning holds the extractor's retry and pacing parameters for one site
type SiteTuning struct {
	Name             string
	Retries          int
	FragmentRetries  int
	ExtractorRetries int
	SocketTimeout    time.Duration
	SleepMin         time.Duration
	SleepMax         time.Duration
}

// Per-site tuning profiles
var (
	DefaultTuning = SiteTuning{
		Name:             "default",
		Retries:          5,
		FragmentRetries:  5,
		ExtractorRetries: 5,
		SocketTimeout:    60 * time.Second,
		SleepMin:         1 * time.Second,
		SleepMax:         1 * time.Second,
	}
	YouTubeTuning = SiteTuning{
		Name:             "youtube",
		Retries:          10,
		FragmentRetries:  10,
		ExtractorRetries: 5,
		SocketTimeout:    30 * time.Second,
		SleepMin:         1 * time.Second,
		SleepMax:         3 * time.Second,
	}
	ShortFormTuning = SiteTuning{
		Name:             "short-form",
		Retries:          5,
		FragmentRetries:  5,
		ExtractorRetries: 3,
		SocketTimeout:    20 * time.Second,
		SleepMin:         2 * time.Second,
		SleepMax:         5 * time.Second,
	}
)

var siteHosts = []struct {
	suffix string
	tuning SiteTuning
}{
	{"youtube.com", YouTubeTuning},
	{"youtu.be", YouTubeTuning},
	{"tiktok.com", ShortFormTuning},
	{"instagram.com", ShortFormTuning},
	{"twitter.com", ShortFormTuning},
	{"x.com", ShortFormTuning},
}

// TuningFor returns the tuning profile for the host of rawURL
func TuningFor(rawURL string) SiteTuning {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return DefaultTuning
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range siteHosts {
		if host == h.suffix || strings.HasSuffix(host, "."+h.suffix) {
			return h.tuning
		}
	}
	return DefaultTuning
}
