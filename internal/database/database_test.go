package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"music-player/internal/library"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := New(context.Background(), filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error: %v", err)
		}
	})
	return db
}

func testTracks(t *testing.T, paths ...string) []library.Track {
	t.Helper()
	mod := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	tracks := make([]library.Track, 0, len(paths))
	for _, p := range paths {
		track, ok := library.NewTrack(p, 1024, mod)
		if !ok {
			t.Fatalf("NewTrack(%q) rejected the path", p)
		}
		tracks = append(tracks, track)
	}
	return tracks
}

func TestReplaceAndQueryTracks(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	in := testTracks(t, "/c.wav", "/a.mp3", "/b.wav")
	if err := db.ReplaceTracks(ctx, in); err != nil {
		t.Fatalf("ReplaceTracks() error: %v", err)
	}

	out, err := db.Tracks(ctx)
	if err != nil {
		t.Fatalf("Tracks() error: %v", err)
	}

	want := []string{"/a.mp3", "/b.wav", "/c.wav"}
	if len(out) != len(want) {
		t.Fatalf("Tracks() returned %d rows, want %d", len(out), len(want))
	}
	for i, p := range want {
		if out[i].Path != p {
			t.Errorf("Tracks()[%d].Path = %q, want %q", i, out[i].Path, p)
		}
	}

	if out[0].Format != library.FormatMP3 {
		t.Errorf("Tracks()[0].Format = %q, want %q", out[0].Format, library.FormatMP3)
	}
	if out[0].DisplayName != "a.mp3" {
		t.Errorf("Tracks()[0].DisplayName = %q, want a.mp3", out[0].DisplayName)
	}
	if out[0].Size != 1024 {
		t.Errorf("Tracks()[0].Size = %d, want 1024", out[0].Size)
	}
}

func TestReplaceTracksIsWholesale(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	if err := db.ReplaceTracks(ctx, testTracks(t, "/old1.mp3", "/old2.wav")); err != nil {
		t.Fatal(err)
	}
	if err := db.ReplaceTracks(ctx, testTracks(t, "/new.wav")); err != nil {
		t.Fatal(err)
	}

	out, err := db.Tracks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].Path != "/new.wav" {
		t.Errorf("Tracks() after replace = %v, want just /new.wav", out)
	}
}

func TestReplaceTracksEmpty(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	if err := db.ReplaceTracks(ctx, testTracks(t, "/a.mp3")); err != nil {
		t.Fatal(err)
	}
	if err := db.ReplaceTracks(ctx, nil); err != nil {
		t.Fatalf("ReplaceTracks(nil) error: %v", err)
	}

	out, err := db.Tracks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Errorf("Tracks() after empty replace = %v, want none", out)
	}
}

func TestGetStats(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	stats, err := db.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats() on empty index error: %v", err)
	}
	if stats.Tracks != 0 || !stats.LastIndexed.IsZero() {
		t.Errorf("empty index stats = %+v, want zero values", stats)
	}

	if err := db.ReplaceTracks(ctx, testTracks(t, "/a.wav", "/b.wav", "/c.mp3")); err != nil {
		t.Fatal(err)
	}

	stats, err = db.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats() error: %v", err)
	}
	if stats.Tracks != 3 {
		t.Errorf("Stats.Tracks = %d, want 3", stats.Tracks)
	}
	if stats.WAVTracks != 2 {
		t.Errorf("Stats.WAVTracks = %d, want 2", stats.WAVTracks)
	}
	if stats.MP3Tracks != 1 {
		t.Errorf("Stats.MP3Tracks = %d, want 1", stats.MP3Tracks)
	}
	if stats.LastIndexed.IsZero() {
		t.Error("Stats.LastIndexed is zero after indexing")
	}
}

func TestNewRejectsMissingParent(t *testing.T) {
	_, err := New(context.Background(), filepath.Join(t.TempDir(), "missing", "index.db"))
	if err == nil {
		t.Fatal("New() in a missing directory returned nil error")
	}
}
