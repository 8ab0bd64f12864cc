// Package player implements the playback controller: sequential traversal
// of a playlist through the audio output peripheral.
//
// The controller is deliberately single-threaded. The only suspension
// point is the playback-wait loop, which polls the output device at a
// bounded interval instead of blocking or spinning. Per-track failures
// are recoverable: they are logged, counted and skipped, and only
// external cancellation or the end of a non-repeating pass ends a
// session.
package player
