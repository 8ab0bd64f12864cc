package indexer

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"music-player/internal/database"
	"music-player/internal/library"
	"music-player/internal/storage"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
)

func newTestIndexer(t *testing.T, files ...string) (*Indexer, *database.Database, afero.Fs) {
	t.Helper()

	fs := afero.NewMemMapFs()
	for _, f := range files {
		if err := afero.WriteFile(fs, f, []byte("audio"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	scanner := library.NewScanner(storage.NewVolume(fs, "/music"))

	db, err := database.New(context.Background(), filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("database.New() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return New(db, scanner, "/music", time.Hour), db, fs
}

func TestIndexPopulatesDatabase(t *testing.T) {
	idx, db, _ := newTestIndexer(t, "/b.mp3", "/a.wav", "/ignore.txt")

	if err := idx.Index(); err != nil {
		t.Fatalf("Index() error: %v", err)
	}

	if got := idx.TrackCount(); got != 2 {
		t.Errorf("TrackCount() = %d, want 2", got)
	}
	if idx.LastIndexed().IsZero() {
		t.Error("LastIndexed() is zero after a successful index run")
	}

	tracks, err := db.Tracks(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 2 || tracks[0].Path != "/a.wav" || tracks[1].Path != "/b.mp3" {
		t.Errorf("indexed tracks = %v, want [/a.wav /b.mp3]", tracks)
	}
}

func TestIndexReflectsVolumeChanges(t *testing.T) {
	idx, db, fs := newTestIndexer(t, "/a.wav")

	if err := idx.Index(); err != nil {
		t.Fatal(err)
	}

	if err := afero.WriteFile(fs, "/b.mp3", []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := fs.Remove("/a.wav"); err != nil {
		t.Fatal(err)
	}

	if err := idx.Index(); err != nil {
		t.Fatal(err)
	}

	tracks, err := db.Tracks(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 1 || tracks[0].Path != "/b.mp3" {
		t.Errorf("re-indexed tracks = %v, want [/b.mp3]", tracks)
	}
	if got := idx.TrackCount(); got != 1 {
		t.Errorf("TrackCount() = %d, want 1", got)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	idx, _, _ := newTestIndexer(t, "/a.wav")

	idx.Stop()
	idx.Stop() // must not panic on double close
}

func TestEventType(t *testing.T) {
	tests := []struct {
		op   fsnotify.Op
		want string
	}{
		{fsnotify.Create, "create"},
		{fsnotify.Write, "write"},
		{fsnotify.Remove, "remove"},
		{fsnotify.Rename, "rename"},
		{fsnotify.Chmod, "chmod"},
		{fsnotify.Create | fsnotify.Write, "create"},
		{0, "unknown"},
	}

	for _, tt := range tests {
		if got := eventType(tt.op); got != tt.want {
			t.Errorf("eventType(%v) = %q, want %q", tt.op, got, tt.want)
		}
	}
}
