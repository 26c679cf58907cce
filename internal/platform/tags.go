package platform

import (
	"os"
	"strings"

	"github.com/dhowden/tag"
)

// AudioTags is the subset of embedded metadata shown after a job
type AudioTags struct {
	Title  string
	Artist string
	Album  string
	Format string
}

// ReadAudioTags reads ID3/MP4/FLAC/Vorbis tags from path
func ReadAudioTags(path string) (AudioTags, error) {
	f, err := os.Open(path)
	if err != nil {
		return AudioTags{}, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return AudioTags{}, err
	}
	return AudioTags{
		Title:  strings.TrimSpace(m.Title()),
		Artist: strings.TrimSpace(m.Artist()),
		Album:  strings.TrimSpace(m.Album()),
		Format: string(m.Format()),
	}, nil
}

// Summary renders the tags as "Artist - Title (Album)", skipping empty parts
func (t AudioTags) Summary() string {
	var b strings.Builder
	if t.Artist != "" {
		b.WriteString(t.Artist)
	}
	if t.Title != "" {
		if b.Len() > 0 {
			b.WriteString(" - ")
		}
		b.WriteString(t.Title)
	}
	if t.Album != "" && b.Len() > 0 {
		b.WriteString(" (" + t.Album + ")")
	}
	return b.String()
}

// DescribeAudioFile returns a one-line tag summary of path, or "" when the
// file carries no readable tags.
func DescribeAudioFile(path string) string {
	tags, err := ReadAudioTags(path)
	if err != nil {
		return ""
	}
	return tags.Summary()
}
