package library

import (
	"math/rand"
	"path"
	"sort"
	"strings"
	"time"
)

// Format identifies the container format of a track.
type Format string

const (
	// FormatWAV represents a PCM WAV file.
	FormatWAV Format = "wav"
	// FormatMP3 represents a compressed MP3 file.
	FormatMP3 Format = "mp3"
	// FormatUnknown represents an unsupported file.
	FormatUnknown Format = ""
)

// FormatFromPath derives the format from a file path by extension,
// case-insensitively. The second return value reports whether the path
// names a playable format. Content is never sniffed; a mislabeled file
// surfaces later as a decode error.
func FormatFromPath(p string) (Format, bool) {
	switch strings.ToLower(path.Ext(p)) {
	case ".wav":
		return FormatWAV, true
	case ".mp3":
		return FormatMP3, true
	}
	return FormatUnknown, false
}

// Track is one playable audio file on the mounted volume.
// Immutable once constructed.
type Track struct {
	Path        string
	DisplayName string
	Format      Format
	Size        int64
	ModTime     time.Time
}

// NewTrack builds a Track from a volume path. It returns false when the
// path does not name a playable format.
func NewTrack(p string, size int64, modTime time.Time) (Track, bool) {
	format, ok := FormatFromPath(p)
	if !ok {
		return Track{}, false
	}
	return Track{
		Path:        p,
		DisplayName: path.Base(p),
		Format:      format,
		Size:        size,
		ModTime:     modTime,
	}, true
}

// Playlist is an ordered collection of tracks produced by one scan.
// Construction deduplicates by path and sorts by full path using
// byte-wise lexicographic ordering, which is the canonical track order.
// Playlists are rebuilt per scan, never mutated in place.
type Playlist struct {
	tracks []Track
}

// NewPlaylist constructs a playlist from the given tracks.
func NewPlaylist(tracks []Track) *Playlist {
	seen := make(map[string]bool, len(tracks))
	deduped := make([]Track, 0, len(tracks))
	for _, t := range tracks {
		if seen[t.Path] {
			continue
		}
		seen[t.Path] = true
		deduped = append(deduped, t)
	}

	sort.Slice(deduped, func(i, j int) bool {
		return deduped[i].Path < deduped[j].Path
	})

	return &Playlist{tracks: deduped}
}

// Len returns the number of tracks.
func (p *Playlist) Len() int { return len(p.tracks) }

// At returns the track at the given zero-based position.
func (p *Playlist) At(i int) Track { return p.tracks[i] }

// Tracks returns a copy of the track list in playlist order.
func (p *Playlist) Tracks() []Track {
	out := make([]Track, len(p.tracks))
	copy(out, p.tracks)
	return out
}

// Shuffled returns a new playlist holding a uniform random permutation of
// this playlist's tracks. The receiver is left untouched.
func (p *Playlist) Shuffled(r *rand.Rand) *Playlist {
	perm := make([]Track, len(p.tracks))
	copy(perm, p.tracks)
	r.Shuffle(len(perm), func(i, j int) {
		perm[i], perm[j] = perm[j], perm[i]
	})
	// Bypass NewPlaylist: the permutation must not be re-sorted.
	return &Playlist{tracks: perm}
}
