package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// MountError reports a failure to mount the music volume.
// Mount failures are fatal: without storage there is nothing to play.
type MountError struct {
	Dir string
	Err error
}

func (e *MountError) Error() string {
	return fmt.Sprintf("failed to mount %s: %v", e.Dir, e.Err)
}

func (e *MountError) Unwrap() error { return e.Err }

// AccessError reports a failed read on an already-mounted volume.
// Access failures are non-fatal: callers degrade to "no tracks" behavior.
type AccessError struct {
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("failed to access %s: %v", e.Path, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

// Volume is a handle to a mounted music volume. Paths passed to List and
// Open are absolute within the volume ("/" is the mount root).
type Volume struct {
	fs    afero.Fs
	root  string
	retry RetryConfig
}

// Mount validates the music directory and returns a Volume rooted at it.
func Mount(dir string) (*Volume, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, &MountError{Dir: dir, Err: err}
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, &MountError{Dir: abs, Err: err}
	}
	if !info.IsDir() {
		return nil, &MountError{Dir: abs, Err: fmt.Errorf("not a directory")}
	}

	vol := NewVolume(afero.NewBasePathFs(afero.NewOsFs(), abs), abs)

	// Probe read so an unreadable volume fails at mount time, not mid-scan.
	if _, err := afero.ReadDir(vol.fs, "/"); err != nil {
		return nil, &MountError{Dir: abs, Err: err}
	}

	return vol, nil
}

// NewVolume wraps an existing filesystem as a mounted volume.
// Tests use this with an in-memory filesystem.
func NewVolume(fsys afero.Fs, root string) *Volume {
	return &Volume{
		fs:    fsys,
		root:  root,
		retry: DefaultRetryConfig(),
	}
}

// Root returns the host path the volume is mounted from.
func (v *Volume) Root() string { return v.root }

// SetRetryConfig overrides the transient-error retry behavior.
func (v *Volume) SetRetryConfig(config RetryConfig) { v.retry = config }

// List returns the entries of a directory on the volume.
func (v *Volume) List(dir string) ([]os.FileInfo, error) {
	entries, err := v.listWithRetry(dir)
	if err != nil {
		return nil, &AccessError{Path: dir, Err: err}
	}
	return entries, nil
}

// Open opens a file on the volume for reading.
func (v *Volume) Open(path string) (afero.File, error) {
	f, err := v.openWithRetry(path)
	if err != nil {
		return nil, &AccessError{Path: path, Err: err}
	}
	return f, nil
}
