// Package database stores the library index in SQLite: the track catalog
// produced by the most recent scan. The catalog is replaced wholesale on
// every index run, so it is a cache of the volume contents rather than a
// source of truth, and it deliberately carries no playback state.
package database
