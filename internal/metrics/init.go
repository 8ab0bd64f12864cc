package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	// --- Scanner ---
	for _, status := range []string{"success", "error"} {
		ScannerScansTotal.WithLabelValues(status)
	}

	// --- Playback (per format × result) ---
	for _, format := range []string{"wav", "mp3"} {
		for _, status := range []string{"success", "error", "cancelled"} {
			PlaybackTracksTotal.WithLabelValues(format, status)
		}
		PlaybackDuration.WithLabelValues(format)
	}

	// --- Storage operations ---
	for _, op := range []string{"list", "open"} {
		StorageOperationDuration.WithLabelValues(op)
		StorageRetryAttempts.WithLabelValues(op)
		StorageRetrySuccess.WithLabelValues(op)
		StorageRetryFailures.WithLabelValues(op)
	}

	// --- DB query operations ---
	for _, op := range []string{"initialize_schema", "replace_tracks", "get_tracks", "get_stats"} {
		DBQueryTotal.WithLabelValues(op, "success")
		DBQueryTotal.WithLabelValues(op, "error")
		DBQueryDuration.WithLabelValues(op)
	}

	// --- Watcher events ---
	for _, event := range []string{"create", "write", "remove", "rename", "chmod", "unknown"} {
		WatcherEventsTotal.WithLabelValues(event)
	}
}
