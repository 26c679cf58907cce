// Package download implements the remote fetch pipeline built on top of yt-dlp
// (via github.com/lrstanley/go-ytdlp): extractor option building, per-site
// tuning, per-item playlist runs, progress forwarding and error mapping.
package download
