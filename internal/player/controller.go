package player

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"music-player/internal/audio"
	"music-player/internal/library"
	"music-player/internal/logging"
	"music-player/internal/metrics"
	"music-player/internal/storage"
)

const (
	// defaultTrackPause is the fixed pause between consecutive tracks.
	defaultTrackPause = 500 * time.Millisecond

	// defaultPollInterval bounds the playback-wait loop so it neither
	// spins nor starves other bounded-time work.
	defaultPollInterval = 100 * time.Millisecond
)

// ProgressFunc receives elapsed-time updates while a track plays,
// once per poll tick.
type ProgressFunc func(track library.Track, elapsed time.Duration)

// Config tunes a Controller. Zero values select the defaults.
type Config struct {
	TrackPause   time.Duration
	PollInterval time.Duration
	ShuffleSeed  int64 // 0 seeds from the clock
	Progress     ProgressFunc
}

// Controller drives a playlist through the audio output sequentially.
// It is single-threaded: one invocation owns the output device for its
// whole duration, and there are no concurrent submissions.
type Controller struct {
	vol      *storage.Volume
	output   audio.Output
	decoder  audio.Decoder
	pause    time.Duration
	poll     time.Duration
	rand     *rand.Rand
	progress ProgressFunc

	session Session
}

// New creates a Controller playing from vol through output.
func New(vol *storage.Volume, output audio.Output, decoder audio.Decoder, config Config) *Controller {
	if config.TrackPause <= 0 {
		config.TrackPause = defaultTrackPause
	}
	if config.PollInterval <= 0 {
		config.PollInterval = defaultPollInterval
	}
	seed := config.ShuffleSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Controller{
		vol:      vol,
		output:   output,
		decoder:  decoder,
		pause:    config.TrackPause,
		poll:     config.PollInterval,
		rand:     rand.New(rand.NewSource(seed)),
		progress: config.Progress,
		session:  Session{State: StateIdle},
	}
}

// Session returns the traversal state of the in-flight invocation.
// Only valid from the invoking goroutine.
func (c *Controller) Session() Session {
	return c.session
}

// PlayOne plays a single track to completion, blocking in a cooperative
// polling loop until the output device reports not-playing. Every failure
// to open, decode or play converts into a *PlaybackError carried in the
// result; it never aborts the surrounding session.
func (c *Controller) PlayOne(ctx context.Context, track library.Track) TrackResult {
	logging.Info("Playing: %s", track.DisplayName)

	f, err := c.vol.Open(track.Path)
	if err != nil {
		return c.trackError(track, err)
	}

	stream, err := c.decoder.Decode(track.Format, f)
	if err != nil {
		if closeErr := f.Close(); closeErr != nil {
			logging.Debug("close after decode failure: %v", closeErr)
		}
		return c.trackError(track, err)
	}
	defer func() {
		if err := stream.Close(); err != nil {
			logging.Debug("stream close: %v", err)
		}
		// The decoder may or may not close its source; a double close of
		// the file handle is harmless.
		if err := f.Close(); err != nil {
			logging.Debug("file close: %v", err)
		}
	}()

	logging.Info("  Format: %s, %s", strings.ToUpper(string(track.Format)), stream.Info)

	if err := c.output.Play(stream); err != nil {
		return c.trackError(track, err)
	}

	start := time.Now()
	ticker := time.NewTicker(c.poll)
	defer ticker.Stop()

	for c.output.IsPlaying() {
		select {
		case <-ctx.Done():
			c.output.Stop()
			metrics.PlaybackTracksTotal.WithLabelValues(string(track.Format), "cancelled").Inc()
			return TrackResult{Track: track, Elapsed: time.Since(start), Cancelled: true}
		case <-ticker.C:
			if c.progress != nil {
				c.progress(track, time.Since(start))
			}
		}
	}

	elapsed := time.Since(start)
	metrics.PlaybackTracksTotal.WithLabelValues(string(track.Format), "success").Inc()
	metrics.PlaybackDuration.WithLabelValues(string(track.Format)).Observe(elapsed.Seconds())
	logging.Info("  Finished: %s (%ds)", track.DisplayName, int(elapsed.Seconds()))

	return TrackResult{Track: track, Elapsed: elapsed}
}

// PlayAll plays every playlist entry in order, once per pass. Shuffle
// applies a seeded uniform permutation before the first pass; repeat
// passes reuse that order rather than reshuffling. The session ends when
// the playlist is empty, a non-repeating pass completes, or the context
// is cancelled.
func (c *Controller) PlayAll(ctx context.Context, playlist *library.Playlist, opts Options) Result {
	start := time.Now()
	c.session = Session{State: StateIdle, Started: start}

	if playlist.Len() == 0 {
		logging.Warn("No audio files found (supported formats: .wav, .mp3)")
		return Result{Outcome: OutcomeNoTracks}
	}

	if opts.Shuffle {
		playlist = playlist.Shuffled(c.rand)
		logging.Info("Shuffle mode enabled")
	}
	if opts.Repeat {
		logging.Info("Repeat mode enabled")
	}

	var result Result
	for pass := 1; ; pass++ {
		c.session.Pass = pass

		for i := 0; i < playlist.Len(); i++ {
			c.session.State = StatePlaying
			c.session.Index = i

			tr := c.PlayOne(ctx, playlist.At(i))
			switch {
			case tr.Cancelled:
				return c.cancelled(result, start)
			case tr.Err != nil:
				result.Failed++
			default:
				result.Played++
			}

			c.session.State = StatePausing
			select {
			case <-ctx.Done():
				// Nothing is playing during the pause, but the device is
				// stopped explicitly before reporting cancellation.
				c.output.Stop()
				return c.cancelled(result, start)
			case <-time.After(c.pause):
			}
		}

		result.Passes++
		metrics.PlaybackPassesTotal.Inc()

		if !opts.Repeat {
			break
		}
		logging.Info("Repeating playlist (pass %d complete)", pass)
	}

	c.session.State = StateDone
	result.Outcome = OutcomeCompleted
	result.Elapsed = time.Since(start)
	return result
}

// PlayTrack plays the n-th playlist entry, 1-based. An out-of-range index
// is reported in the result, and the output device is never touched.
func (c *Controller) PlayTrack(ctx context.Context, playlist *library.Playlist, n int) Result {
	start := time.Now()

	if playlist.Len() == 0 {
		logging.Warn("No audio files found (supported formats: .wav, .mp3)")
		return Result{Outcome: OutcomeNoTracks}
	}

	if n < 1 || n > playlist.Len() {
		err := &IndexOutOfRangeError{Requested: n, Available: playlist.Len()}
		logging.Warn("%v", err)
		return Result{Outcome: OutcomeError, Err: err}
	}

	tr := c.PlayOne(ctx, playlist.At(n-1))
	result := Result{Elapsed: time.Since(start)}
	switch {
	case tr.Cancelled:
		metrics.PlaybackCancellationsTotal.Inc()
		result.Outcome = OutcomeCancelled
	case tr.Err != nil:
		result.Outcome = OutcomeCompleted
		result.Failed = 1
	default:
		result.Outcome = OutcomeCompleted
		result.Played = 1
	}
	return result
}

func (c *Controller) trackError(track library.Track, cause error) TrackResult {
	perr := &PlaybackError{Path: track.Path, Err: cause}
	logging.Error("  %v", perr)
	metrics.PlaybackTracksTotal.WithLabelValues(string(track.Format), "error").Inc()
	return TrackResult{Track: track, Err: perr}
}

func (c *Controller) cancelled(result Result, start time.Time) Result {
	c.session.State = StateCancelled
	metrics.PlaybackCancellationsTotal.Inc()
	logging.Info("Playback stopped")

	result.Outcome = OutcomeCancelled
	result.Elapsed = time.Since(start)
	return result
}
