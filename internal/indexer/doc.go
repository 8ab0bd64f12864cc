// Package indexer maintains the library index in the background: an
// initial scan at startup, periodic full rescans, and a filesystem watch
// on the music directory that triggers a debounced rescan on change.
//
// Indexing is best-effort maintenance of a cache. A failed run logs and
// leaves the previous index intact; playback never depends on it.
package indexer
