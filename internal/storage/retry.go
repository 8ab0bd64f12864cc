package storage

import (
	"errors"
	"os"
	"syscall"
	"time"

	"music-player/internal/logging"
	"music-player/internal/metrics"

	"github.com/spf13/afero"
)

// RetryConfig configures retry behavior for volume reads
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig returns sensible defaults for removable-media retry behavior
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     500 * time.Millisecond,
	}
}

// isTransientError checks if an error is a transient media read error
// worth retrying (bus hiccups on removable storage, stale handles on
// network mounts).
func isTransientError(err error) bool {
	if err == nil {
		return false
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EIO || errno == syscall.EAGAIN || errno == syscall.ESTALE
	}

	return false
}

// listWithRetry performs a directory read with retry logic for transient media errors
func (v *Volume) listWithRetry(dir string) ([]os.FileInfo, error) {
	start := time.Now()
	var lastErr error
	backoff := v.retry.InitialBackoff

	for attempt := 0; attempt <= v.retry.MaxRetries; attempt++ {
		entries, err := afero.ReadDir(v.fs, dir)
		if err == nil {
			if attempt > 0 {
				logging.Info("volume list succeeded on retry %d for %s", attempt, dir)
				metrics.StorageRetrySuccess.WithLabelValues("list").Inc()
			}
			metrics.StorageOperationDuration.WithLabelValues("list").Observe(time.Since(start).Seconds())
			return entries, nil
		}

		lastErr = err

		if !isTransientError(err) {
			metrics.StorageOperationDuration.WithLabelValues("list").Observe(time.Since(start).Seconds())
			return nil, err
		}

		// Don't sleep after the last attempt
		if attempt < v.retry.MaxRetries {
			metrics.StorageRetryAttempts.WithLabelValues("list").Inc()
			logging.Debug("transient error listing %s, retrying in %v (attempt %d/%d)",
				dir, backoff, attempt+1, v.retry.MaxRetries)
			time.Sleep(backoff)

			backoff *= 2
			if backoff > v.retry.MaxBackoff {
				backoff = v.retry.MaxBackoff
			}
		}
	}

	logging.Warn("volume list failed after %d retries for %s: %v", v.retry.MaxRetries, dir, lastErr)
	metrics.StorageRetryFailures.WithLabelValues("list").Inc()
	metrics.StorageOperationDuration.WithLabelValues("list").Observe(time.Since(start).Seconds())
	return nil, lastErr
}

// openWithRetry performs a file open with retry logic for transient media errors
func (v *Volume) openWithRetry(path string) (afero.File, error) {
	start := time.Now()
	var lastErr error
	backoff := v.retry.InitialBackoff

	for attempt := 0; attempt <= v.retry.MaxRetries; attempt++ {
		f, err := v.fs.Open(path)
		if err == nil {
			if attempt > 0 {
				logging.Info("volume open succeeded on retry %d for %s", attempt, path)
				metrics.StorageRetrySuccess.WithLabelValues("open").Inc()
			}
			metrics.StorageOperationDuration.WithLabelValues("open").Observe(time.Since(start).Seconds())
			return f, nil
		}

		lastErr = err

		if !isTransientError(err) {
			metrics.StorageOperationDuration.WithLabelValues("open").Observe(time.Since(start).Seconds())
			return nil, err
		}

		// Don't sleep after the last attempt
		if attempt < v.retry.MaxRetries {
			metrics.StorageRetryAttempts.WithLabelValues("open").Inc()
			logging.Debug("transient error opening %s, retrying in %v (attempt %d/%d)",
				path, backoff, attempt+1, v.retry.MaxRetries)
			time.Sleep(backoff)

			backoff *= 2
			if backoff > v.retry.MaxBackoff {
				backoff = v.retry.MaxBackoff
			}
		}
	}

	logging.Warn("volume open failed after %d retries for %s: %v", v.retry.MaxRetries, path, lastErr)
	metrics.StorageRetryFailures.WithLabelValues("open").Inc()
	metrics.StorageOperationDuration.WithLabelValues("open").Observe(time.Since(start).Seconds())
	return nil, lastErr
}
