// Package storage mounts the music volume and provides the directory
// listing and file open primitives the rest of the player builds on.
//
// A Volume wraps an afero filesystem rooted at the music directory, so
// production code reads the host filesystem while tests run against an
// in-memory one. Reads retry briefly on transient media errors, which are
// common on removable storage.
package storage
