package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scanner metrics
var (
	ScannerScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "music_player_scanner_scans_total",
			Help: "Total number of library scans",
		},
		[]string{"status"},
	)

	ScannerScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "music_player_scanner_scan_duration_seconds",
			Help:    "Library scan duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	ScannerTracksFound = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "music_player_scanner_tracks_found",
			Help: "Number of tracks found by the most recent scan",
		},
	)
)

// Playback metrics
var (
	PlaybackTracksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "music_player_playback_tracks_total",
			Help: "Total number of tracks played, by format and result",
		},
		[]string{"format", "status"},
	)

	PlaybackDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "music_player_playback_duration_seconds",
			Help:    "Per-track playback duration in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		},
		[]string{"format"},
	)

	PlaybackPassesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "music_player_playback_passes_total",
			Help: "Total number of completed playlist passes",
		},
	)

	PlaybackCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "music_player_playback_cancellations_total",
			Help: "Total number of cancelled playback sessions",
		},
	)
)

// Storage metrics
var (
	StorageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "music_player_storage_operation_duration_seconds",
			Help:    "Storage operation duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"operation"},
	)

	StorageRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "music_player_storage_retry_attempts_total",
			Help: "Total number of storage operation retries",
		},
		[]string{"operation"},
	)

	StorageRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "music_player_storage_retry_success_total",
			Help: "Total number of storage operations that succeeded after retry",
		},
		[]string{"operation"},
	)

	StorageRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "music_player_storage_retry_failures_total",
			Help: "Total number of storage operations that failed after all retries",
		},
		[]string{"operation"},
	)
)

// Database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "music_player_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "music_player_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)
)

// Indexer metrics
var (
	IndexerRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "music_player_indexer_runs_total",
			Help: "Total number of index runs",
		},
	)

	IndexerLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "music_player_indexer_last_run_timestamp_seconds",
			Help: "Unix timestamp of the last completed index run",
		},
	)

	IndexerTracksIndexed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "music_player_indexer_tracks_indexed",
			Help: "Number of tracks in the library index",
		},
	)

	WatcherEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "music_player_watcher_events_total",
			Help: "Total number of filesystem watcher events",
		},
		[]string{"event"},
	)

	WatcherErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "music_player_watcher_errors_total",
			Help: "Total number of filesystem watcher errors",
		},
	)
)
