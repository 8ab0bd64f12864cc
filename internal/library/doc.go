// Package library holds the music library data model (Track, Playlist)
// and the directory scanner that builds playlists from a mounted volume.
//
// A scan is a single, non-recursive directory listing: entries qualify as
// tracks when their name ends case-insensitively in .wav or .mp3, and the
// resulting playlist is deduplicated and byte-wise sorted by path so the
// track order is reproducible across scans.
package library
