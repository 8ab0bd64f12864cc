// music-player is a directory-driven audio playlist player.
//
// It mounts a music directory, enumerates the playable files in it
// (.wav and .mp3, by extension), and streams each one to the audio
// output device in deterministic path order, with optional shuffle and
// repeat modes.
//
// # Application Lifecycle
//
// Every command runs the same structured initialization sequence:
//
//  1. Configuration loading: environment variables, validated directories
//  2. Storage mount: the music directory, fatal on failure with a
//     diagnostics printout
//  3. Audio device: the output peripheral, fatal on failure
//  4. Library index (optional): SQLite catalog refreshed in the
//     background, with a filesystem watch on the music directory
//  5. Metrics server (optional): Prometheus /metrics and /healthz
//
// Playback itself is single-threaded: one cooperative polling loop per
// track, a fixed pause between tracks, and per-track failures logged and
// skipped. SIGINT/SIGTERM stop the output device and end the session
// cleanly.
//
// # Commands
//
//   - play (default): play every track, with --shuffle, --repeat, --seed
//   - track <n>: play the n-th playlist entry
//   - list: print the playlist without playing
//
// # Environment Variables
//
//   - MUSIC_DIR: directory containing the audio files (default /music)
//   - DATABASE_DIR: directory for the library index (default /database)
//   - METRICS_PORT / METRICS_ENABLED: observability server
//   - INDEX_INTERVAL: background rescan interval (default 30m)
//   - TRACK_PAUSE: pause between tracks (default 500ms)
//   - POLL_INTERVAL: playback poll interval (default 100ms)
//   - SHUFFLE_SEED: fixed shuffle seed, 0 for time-seeded
//   - LOG_LEVEL / DEBUG: logging verbosity
package main
