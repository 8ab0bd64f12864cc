package library

import (
	"path"
	"strings"
	"time"

	"music-player/internal/logging"
	"music-player/internal/metrics"
	"music-player/internal/storage"
)

// Scanner enumerates playable files on a mounted volume.
type Scanner struct {
	vol *storage.Volume
}

// NewScanner creates a new Scanner reading from the given volume.
func NewScanner(vol *storage.Volume) *Scanner {
	return &Scanner{vol: vol}
}

// Scan lists the given directory and returns the playlist of playable
// entries, sorted by path. Subdirectories are not entered and dot-prefixed
// entries are skipped. An unreadable directory is non-fatal: Scan returns
// an empty playlist together with the *storage.AccessError so the caller
// can log it and proceed with "no tracks" behavior.
func (s *Scanner) Scan(dir string) (*Playlist, error) {
	start := time.Now()

	dir = path.Join("/", dir)

	entries, err := s.vol.List(dir)
	if err != nil {
		logging.Error("error reading directory %s: %v", dir, err)
		metrics.ScannerScansTotal.WithLabelValues("error").Inc()
		return NewPlaylist(nil), err
	}

	var tracks []Track
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		track, ok := NewTrack(path.Join(dir, entry.Name()), entry.Size(), entry.ModTime())
		if !ok {
			continue
		}
		tracks = append(tracks, track)
	}

	playlist := NewPlaylist(tracks)

	metrics.ScannerScansTotal.WithLabelValues("success").Inc()
	metrics.ScannerScanDuration.Observe(time.Since(start).Seconds())
	metrics.ScannerTracksFound.Set(float64(playlist.Len()))

	logging.Debug("scanned %s: %d playable track(s)", dir, playlist.Len())
	return playlist, nil
}
