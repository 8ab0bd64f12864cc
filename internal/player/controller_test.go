package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"testing"
	"time"

	"music-player/internal/audio"
	"music-player/internal/library"
	"music-player/internal/storage"

	"github.com/spf13/afero"
)

// fakeOutput simulates the audio device. Each Play arms pollsPerTrack
// IsPlaying ticks, so a track "finishes" after a fixed number of polls.
type fakeOutput struct {
	pollsPerTrack int
	playCalls     int
	stopCalls     int
	remaining     int
}

func (o *fakeOutput) Play(*audio.Stream) error {
	o.playCalls++
	o.remaining = o.pollsPerTrack
	return nil
}

func (o *fakeOutput) Stop() {
	o.stopCalls++
	o.remaining = 0
}

func (o *fakeOutput) IsPlaying() bool {
	if o.remaining > 0 {
		o.remaining--
		return true
	}
	return false
}

type fakeDecoder struct {
	err error
}

func (d *fakeDecoder) Decode(format library.Format, r io.ReadCloser) (*audio.Stream, error) {
	if d.err != nil {
		return nil, d.err
	}
	return &audio.Stream{
		Info: audio.StreamInfo{SampleRate: 44100, Channels: 2, BitDepth: 16},
	}, nil
}

func newPlayerVolume(t *testing.T, paths ...string) *storage.Volume {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, p := range paths {
		if err := afero.WriteFile(fs, p, []byte("audio"), 0o644); err != nil {
			t.Fatalf("WriteFile(%q): %v", p, err)
		}
	}
	return storage.NewVolume(fs, "/music")
}

func makePlaylist(t *testing.T, paths ...string) *library.Playlist {
	t.Helper()
	tracks := make([]library.Track, 0, len(paths))
	for _, p := range paths {
		track, ok := library.NewTrack(p, 4, time.Now())
		if !ok {
			t.Fatalf("NewTrack(%q) rejected the path", p)
		}
		tracks = append(tracks, track)
	}
	return library.NewPlaylist(tracks)
}

func testConfig(progress ProgressFunc) Config {
	return Config{
		TrackPause:   time.Millisecond,
		PollInterval: time.Millisecond,
		ShuffleSeed:  42,
		Progress:     progress,
	}
}

func TestPlayAllEmptyPlaylist(t *testing.T) {
	output := &fakeOutput{pollsPerTrack: 1}
	c := New(newPlayerVolume(t), output, &fakeDecoder{}, testConfig(nil))

	result := c.PlayAll(context.Background(), library.NewPlaylist(nil), Options{})

	if result.Outcome != OutcomeNoTracks {
		t.Errorf("PlayAll() outcome = %v, want %v", result.Outcome, OutcomeNoTracks)
	}
	if output.playCalls != 0 || output.stopCalls != 0 {
		t.Errorf("empty playlist touched the output: %d plays, %d stops", output.playCalls, output.stopCalls)
	}
}

func TestPlayAllSequentialOrder(t *testing.T) {
	paths := []string{"/a.wav", "/b.mp3", "/c.wav"}
	output := &fakeOutput{pollsPerTrack: 1}

	var order []string
	progress := func(track library.Track, elapsed time.Duration) {
		order = append(order, track.Path)
	}

	c := New(newPlayerVolume(t, paths...), output, &fakeDecoder{}, testConfig(progress))
	result := c.PlayAll(context.Background(), makePlaylist(t, paths...), Options{})

	if result.Outcome != OutcomeCompleted {
		t.Fatalf("PlayAll() outcome = %v, want %v", result.Outcome, OutcomeCompleted)
	}
	if result.Played != 3 || result.Failed != 0 {
		t.Errorf("PlayAll() played %d / failed %d, want 3 / 0", result.Played, result.Failed)
	}
	if result.Passes != 1 {
		t.Errorf("PlayAll() passes = %d, want 1", result.Passes)
	}
	if len(order) != 3 {
		t.Fatalf("observed %d tracks, want 3: %v", len(order), order)
	}
	for i, p := range paths {
		if order[i] != p {
			t.Errorf("order[%d] = %q, want %q", i, order[i], p)
		}
	}
	if got := c.Session().State; got != StateDone {
		t.Errorf("Session().State = %v, want %v", got, StateDone)
	}
}

func TestPlayAllContinuesAfterTrackFailure(t *testing.T) {
	// /b.mp3 is in the playlist but absent from the volume, so it fails
	// to open; the session keeps going.
	output := &fakeOutput{pollsPerTrack: 1}
	vol := newPlayerVolume(t, "/a.wav", "/c.wav")
	c := New(vol, output, &fakeDecoder{}, testConfig(nil))

	result := c.PlayAll(context.Background(), makePlaylist(t, "/a.wav", "/b.mp3", "/c.wav"), Options{})

	if result.Outcome != OutcomeCompleted {
		t.Fatalf("PlayAll() outcome = %v, want %v", result.Outcome, OutcomeCompleted)
	}
	if result.Played != 2 || result.Failed != 1 {
		t.Errorf("PlayAll() played %d / failed %d, want 2 / 1", result.Played, result.Failed)
	}
	if output.playCalls != 2 {
		t.Errorf("output.Play called %d times, want 2", output.playCalls)
	}
}

func TestPlayAllShuffleIsPermutation(t *testing.T) {
	paths := []string{"/a.wav", "/b.mp3", "/c.wav", "/d.mp3", "/e.wav"}
	output := &fakeOutput{pollsPerTrack: 1}

	var order []string
	progress := func(track library.Track, elapsed time.Duration) {
		order = append(order, track.Path)
	}

	c := New(newPlayerVolume(t, paths...), output, &fakeDecoder{}, testConfig(progress))
	result := c.PlayAll(context.Background(), makePlaylist(t, paths...), Options{Shuffle: true})

	if result.Played != len(paths) {
		t.Fatalf("PlayAll() played %d, want %d", result.Played, len(paths))
	}

	sorted := append([]string(nil), order...)
	sort.Strings(sorted)
	for i, p := range paths {
		if sorted[i] != p {
			t.Fatalf("shuffled order %v is not a permutation of %v", order, paths)
		}
	}
}

func TestPlayAllRepeatReusesShuffleOrder(t *testing.T) {
	paths := []string{"/a.wav", "/b.mp3", "/c.wav"}
	output := &fakeOutput{pollsPerTrack: 1}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cancel partway through the second pass; the prefix of that pass
	// must repeat the first pass exactly.
	var order []string
	progress := func(track library.Track, elapsed time.Duration) {
		order = append(order, track.Path)
		if len(order) == 5 {
			cancel()
		}
	}

	c := New(newPlayerVolume(t, paths...), output, &fakeDecoder{}, testConfig(progress))
	result := c.PlayAll(ctx, makePlaylist(t, paths...), Options{Shuffle: true, Repeat: true})

	if result.Outcome != OutcomeCancelled {
		t.Fatalf("PlayAll() outcome = %v, want %v", result.Outcome, OutcomeCancelled)
	}
	if result.Passes != 1 {
		t.Errorf("PlayAll() passes = %d, want 1 completed pass", result.Passes)
	}
	if len(order) != 5 {
		t.Fatalf("observed %d tracks, want 5: %v", len(order), order)
	}
	for i := 0; i < 2; i++ {
		if order[3+i] != order[i] {
			t.Errorf("second pass reshuffled: pass 1 = %v, pass 2 prefix = %v", order[:3], order[3:])
			break
		}
	}
	if output.stopCalls != 1 {
		t.Errorf("output.Stop called %d times, want exactly 1", output.stopCalls)
	}
	if got := c.Session().State; got != StateCancelled {
		t.Errorf("Session().State = %v, want %v", got, StateCancelled)
	}
}

func TestPlayTrackOutOfRange(t *testing.T) {
	output := &fakeOutput{pollsPerTrack: 1}
	c := New(newPlayerVolume(t, "/a.wav"), output, &fakeDecoder{}, testConfig(nil))
	playlist := makePlaylist(t, "/a.wav", "/b.mp3", "/c.wav")

	for _, n := range []int{0, -1, 4} {
		t.Run(fmt.Sprintf("index_%d", n), func(t *testing.T) {
			result := c.PlayTrack(context.Background(), playlist, n)

			if result.Outcome != OutcomeError {
				t.Errorf("PlayTrack(%d) outcome = %v, want %v", n, result.Outcome, OutcomeError)
			}
			var rangeErr *IndexOutOfRangeError
			if !errors.As(result.Err, &rangeErr) {
				t.Fatalf("PlayTrack(%d) error = %T, want *IndexOutOfRangeError", n, result.Err)
			}
			if rangeErr.Requested != n || rangeErr.Available != 3 {
				t.Errorf("error = %+v, want requested %d of 3", rangeErr, n)
			}
		})
	}

	if output.playCalls != 0 || output.stopCalls != 0 {
		t.Errorf("out-of-range requests touched the output: %d plays, %d stops", output.playCalls, output.stopCalls)
	}
}

func TestPlayTrackOutOfRangeMessage(t *testing.T) {
	err := &IndexOutOfRangeError{Requested: 5, Available: 3}
	want := "track 5 not found, available: 1-3"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestPlayTrackSelectsRequestedEntry(t *testing.T) {
	paths := []string{"/a.wav", "/b.mp3", "/c.wav"}
	output := &fakeOutput{pollsPerTrack: 1}

	var played []string
	progress := func(track library.Track, elapsed time.Duration) {
		played = append(played, track.Path)
	}

	c := New(newPlayerVolume(t, paths...), output, &fakeDecoder{}, testConfig(progress))
	result := c.PlayTrack(context.Background(), makePlaylist(t, paths...), 2)

	if result.Outcome != OutcomeCompleted || result.Played != 1 {
		t.Fatalf("PlayTrack(2) = %+v, want one completed track", result)
	}
	if len(played) != 1 || played[0] != "/b.mp3" {
		t.Errorf("PlayTrack(2) played %v, want [/b.mp3]", played)
	}
}

func TestPlayTrackEmptyPlaylist(t *testing.T) {
	output := &fakeOutput{pollsPerTrack: 1}
	c := New(newPlayerVolume(t), output, &fakeDecoder{}, testConfig(nil))

	result := c.PlayTrack(context.Background(), library.NewPlaylist(nil), 1)

	if result.Outcome != OutcomeNoTracks {
		t.Errorf("PlayTrack() outcome = %v, want %v", result.Outcome, OutcomeNoTracks)
	}
	if output.playCalls != 0 {
		t.Errorf("empty playlist touched the output: %d plays", output.playCalls)
	}
}

func TestPlayTrackCancelledMidTrack(t *testing.T) {
	output := &fakeOutput{pollsPerTrack: 1 << 20}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	progress := func(track library.Track, elapsed time.Duration) {
		cancel()
	}

	c := New(newPlayerVolume(t, "/a.wav"), output, &fakeDecoder{}, testConfig(progress))
	result := c.PlayTrack(ctx, makePlaylist(t, "/a.wav"), 1)

	if result.Outcome != OutcomeCancelled {
		t.Errorf("PlayTrack() outcome = %v, want %v", result.Outcome, OutcomeCancelled)
	}
	if output.stopCalls != 1 {
		t.Errorf("output.Stop called %d times, want exactly 1", output.stopCalls)
	}
}

func TestPlayOneDecodeFailure(t *testing.T) {
	decodeErr := errors.New("bad header")
	output := &fakeOutput{pollsPerTrack: 1}
	c := New(newPlayerVolume(t, "/a.wav"), output, &fakeDecoder{err: decodeErr}, testConfig(nil))

	track, _ := library.NewTrack("/a.wav", 4, time.Now())
	tr := c.PlayOne(context.Background(), track)

	var perr *PlaybackError
	if !errors.As(tr.Err, &perr) {
		t.Fatalf("PlayOne() error = %T, want *PlaybackError", tr.Err)
	}
	if !errors.Is(tr.Err, decodeErr) {
		t.Errorf("PlayOne() error does not wrap the decode error: %v", tr.Err)
	}
	if output.playCalls != 0 {
		t.Errorf("failed decode still reached the output: %d plays", output.playCalls)
	}
}
