package platform

import (
	"net/url"
	"strings"
)

// URLKind is the playlist shape of a remote URL
type URLKind int

const (
	// PlainItem is a single media item with no playlist reference
	PlainItem URLKind = iota
	// PlaylistPage references a playlist but no particular item
	PlaylistPage
	// ItemWithinPlaylist references one item and the playlist it belongs to
	ItemWithinPlaylist
)

// String returns the kind name
func (k URLKind) String() string {
	switch k {
	case PlaylistPage:
		return "PlaylistPage"
	case ItemWithinPlaylist:
		return "ItemWithinPlaylist"
	default:
		return "PlainItem"
	}
}

// URL parameters
const (
	PlaylistURLParam = "list"
	VideoURLParam    = "v"
	WatchPath        = "/watch"
	ShortHost        = "youtu.be"
	MusicHost        = "music.youtube.com"
)

// Query parameters that tie a watch URL to its playlist
var playlistQueryParams = []string{"list", "index", "start_radio", "pp"}

// SupportedDomains are matched against host+path
var SupportedDomains = []string{
	"youtube.com", "youtu.be",
	"music.youtube.com",
	"twitter.com", "x.com",
	"tiktok.com",
	"dailymotion.com", "dai.ly",
	"vimeo.com",
	"instagram.com/reels", "instagram.com/reel",
}

// SupportedPlatforms is the human-readable list shown when a URL is rejected
var SupportedPlatforms = []string{"YouTube", "YouTube Music", "Twitter", "TikTok", "Dailymotion", "Vimeo", "Instagram Reels"}

// DefaultScheme is assumed for URLs typed without one
const DefaultScheme = "https"

// NormalizeURL trims raw and prepends the default scheme when it has none
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, "://") {
		return raw
	}
	return DefaultScheme + "://" + strings.TrimPrefix(raw, "//")
}

// IsSupportedURL reports whether raw points at a supported site. A missing
// scheme is treated as https.
func IsSupportedURL(raw string) bool {
	u, err := url.Parse(NormalizeURL(raw))
	if err != nil || u.Host == "" {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	target := strings.ToLower(u.Host + u.Path)
	for _, domain := range SupportedDomains {
		if strings.Contains(target, domain) {
			return true
		}
	}
	return false
}

// IsMusicPlatform reports whether raw is a YouTube Music URL
func IsMusicPlatform(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Hostname(), MusicHost)
}

// Classify determines whether raw is a plain item, a playlist page, or an
// item inside a playlist.
func Classify(raw string) URLKind {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return PlainItem
	}
	q := u.Query()
	if q.Get(PlaylistURLParam) == "" {
		return PlainItem
	}
	if hasItemReference(u) {
		return ItemWithinPlaylist
	}
	return PlaylistPage
}

// hasItemReference checks for watch?v=<id> or youtu.be/<id>
func hasItemReference(u *url.URL) bool {
	if strings.EqualFold(u.Hostname(), ShortHost) {
		return strings.Trim(u.Path, "/") != ""
	}
	return strings.HasPrefix(u.Path, WatchPath) && u.Query().Get(VideoURLParam) != ""
}

// PlaylistID extracts the playlist identifier from raw
func PlaylistID(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return u.Query().Get(PlaylistURLParam)
}

// SingleItemURL strips the playlist reference so only the item is fetched
func SingleItemURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	q := u.Query()
	for _, p := range playlistQueryParams {
		q.Del(p)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
