package indexer

import (
	"context"
	"strings"
	"sync"
	"time"

	"music-player/internal/database"
	"music-player/internal/library"
	"music-player/internal/logging"
	"music-player/internal/metrics"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces bursts of filesystem events (a file copy emits
// many writes) into a single rescan.
const debounceDelay = 500 * time.Millisecond

// Indexer keeps the library index in sync with the music volume: an
// initial scan at startup, a periodic full rescan, and a filesystem watch
// that triggers a rescan shortly after the directory changes.
type Indexer struct {
	db       *database.Database
	scanner  *library.Scanner
	watchDir string // host path of the music directory
	interval time.Duration
	stopChan chan struct{}
	stopOnce sync.Once

	mu          sync.Mutex
	lastIndexed time.Time
	trackCount  int
}

// New creates an Indexer. watchDir is the host path of the mounted music
// directory, used for the filesystem watch.
func New(db *database.Database, scanner *library.Scanner, watchDir string, interval time.Duration) *Indexer {
	return &Indexer{
		db:       db,
		scanner:  scanner,
		watchDir: watchDir,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start runs the initial index and launches the periodic rescan and the
// filesystem watch in the background.
func (idx *Indexer) Start() error {
	if err := idx.Index(); err != nil {
		logging.Warn("Initial index failed: %v", err)
	}

	go idx.periodicIndex()
	go idx.watch()

	return nil
}

// Stop halts the background loops. Safe to call more than once.
func (idx *Indexer) Stop() {
	idx.stopOnce.Do(func() { close(idx.stopChan) })
}

// Index scans the volume root and replaces the library index with the
// result. A scan failure leaves the previous index in place.
func (idx *Indexer) Index() error {
	playlist, err := idx.scanner.Scan("/")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := idx.db.ReplaceTracks(ctx, playlist.Tracks()); err != nil {
		return err
	}

	idx.mu.Lock()
	idx.lastIndexed = time.Now()
	idx.trackCount = playlist.Len()
	idx.mu.Unlock()

	metrics.IndexerRunsTotal.Inc()
	metrics.IndexerLastRunTimestamp.SetToCurrentTime()
	metrics.IndexerTracksIndexed.Set(float64(playlist.Len()))

	logging.Debug("Index run complete: %d track(s)", playlist.Len())
	return nil
}

// TrackCount returns the number of tracks in the index.
func (idx *Indexer) TrackCount() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.trackCount
}

// LastIndexed returns the completion time of the most recent index run.
func (idx *Indexer) LastIndexed() time.Time {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.lastIndexed
}

func (idx *Indexer) periodicIndex() {
	ticker := time.NewTicker(idx.interval)
	defer ticker.Stop()

	for {
		select {
		case <-idx.stopChan:
			return
		case <-ticker.C:
			if err := idx.Index(); err != nil {
				logging.Error("Periodic index failed: %v", err)
			}
		}
	}
}

// watch monitors the music directory and schedules a rescan when its
// contents change.
func (idx *Indexer) watch() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logging.Error("Failed to create file watcher: %v", err)
		metrics.WatcherErrors.Inc()
		return
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logging.Error("failed to close file watcher: %v", err)
		}
	}()

	if err := watcher.Add(idx.watchDir); err != nil {
		logging.Warn("failed to watch %s: %v", idx.watchDir, err)
		metrics.WatcherErrors.Inc()
		return
	}
	logging.Debug("Watching %s for changes", idx.watchDir)

	var debounce *time.Timer
	rescan := make(chan struct{}, 1)

	for {
		select {
		case <-idx.stopChan:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			// Skip hidden files
			if strings.Contains(event.Name, "/.") {
				continue
			}
			metrics.WatcherEventsTotal.WithLabelValues(eventType(event.Op)).Inc()

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, func() {
				select {
				case rescan <- struct{}{}:
				default:
				}
			})

		case <-rescan:
			logging.Debug("Music directory changed, re-indexing")
			if err := idx.Index(); err != nil {
				logging.Error("Watch-triggered index failed: %v", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logging.Error("Watcher error: %v", err)
			metrics.WatcherErrors.Inc()
		}
	}
}

func eventType(op fsnotify.Op) string {
	switch {
	case op&fsnotify.Create != 0:
		return "create"
	case op&fsnotify.Write != 0:
		return "write"
	case op&fsnotify.Remove != 0:
		return "remove"
	case op&fsnotify.Rename != 0:
		return "rename"
	case op&fsnotify.Chmod != 0:
		return "chmod"
	default:
		return "unknown"
	}
}
