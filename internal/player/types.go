package player

import (
	"fmt"
	"time"

	"music-player/internal/library"
)

// PlaybackError reports a recoverable per-track failure: the offending
// track is logged and skipped, and the session continues.
type PlaybackError struct {
	Path string
	Err  error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("playback of %s failed: %v", e.Path, e.Err)
}

func (e *PlaybackError) Unwrap() error { return e.Err }

// IndexOutOfRangeError reports a track request outside the playlist.
// Reported, never propagated as a failure.
type IndexOutOfRangeError struct {
	Requested int
	Available int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("track %d not found, available: 1-%d", e.Requested, e.Available)
}

// State represents the controller state during one session.
type State string

const (
	// StateIdle means no session is in flight.
	StateIdle State = "Idle"
	// StatePlaying means a track is being played.
	StatePlaying State = "Playing"
	// StatePausing means the session is in the inter-track pause.
	StatePausing State = "Pausing"
	// StateDone means the session completed all passes.
	StateDone State = "Done"
	// StateCancelled means the session was cancelled externally.
	StateCancelled State = "Cancelled"
)

// String returns the string representation of a State.
func (s State) String() string {
	return string(s)
}

// IsTerminal returns true if the session has ended.
func (s State) IsTerminal() bool {
	return s == StateDone || s == StateCancelled
}

// Session is the ephemeral traversal state of one PlayAll invocation.
// It lives only for the duration of the call.
type Session struct {
	State   State
	Index   int // zero-based position within the current pass
	Pass    int // pass counter, starting at 1
	Started time.Time
}

// Outcome classifies how a playback call ended.
type Outcome string

const (
	// OutcomeCompleted means the requested playback finished.
	OutcomeCompleted Outcome = "completed"
	// OutcomeNoTracks means the playlist was empty and nothing was played.
	OutcomeNoTracks Outcome = "no-tracks"
	// OutcomeCancelled means an external cancellation ended the session.
	OutcomeCancelled Outcome = "cancelled"
	// OutcomeError means the request itself was invalid.
	OutcomeError Outcome = "error"
)

// TrackResult reports the outcome of playing a single track.
type TrackResult struct {
	Track     library.Track
	Elapsed   time.Duration
	Cancelled bool
	Err       error // *PlaybackError when playback failed
}

// Result reports the outcome of a PlayAll or PlayTrack invocation.
type Result struct {
	Outcome Outcome
	Played  int // tracks that completed
	Failed  int // tracks skipped after a per-track failure
	Passes  int // completed playlist passes
	Elapsed time.Duration
	Err     error // *IndexOutOfRangeError for invalid requests, else nil
}

// Options selects the traversal mode for PlayAll.
type Options struct {
	Shuffle bool
	Repeat  bool
}
