package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"music-player/internal/logging"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// Config holds all application configuration
type Config struct {
	MusicDir       string
	DatabaseDir    string
	MetricsPort    string
	MetricsEnabled bool
	IndexInterval  time.Duration
	TrackPause     time.Duration
	PollInterval   time.Duration
	ShuffleSeed    int64

	// Derived paths
	DatabasePath string

	// Feature flags based on directory availability
	IndexEnabled bool
}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	musicDir := getEnv("MUSIC_DIR", "/music")
	databaseDir := getEnv("DATABASE_DIR", "/database")
	metricsPort := getEnv("METRICS_PORT", "9090")
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)
	indexInterval := getEnvDuration("INDEX_INTERVAL", 30*time.Minute)
	trackPause := getEnvDuration("TRACK_PAUSE", 500*time.Millisecond)
	pollInterval := getEnvDuration("POLL_INTERVAL", 100*time.Millisecond)
	shuffleSeed := getEnvInt64("SHUFFLE_SEED", 0)

	logging.Info("  MUSIC_DIR:        %s", musicDir)
	logging.Info("  DATABASE_DIR:     %s", databaseDir)
	logging.Info("  METRICS_PORT:     %s", metricsPort)
	logging.Info("  METRICS_ENABLED:  %v", metricsEnabled)
	logging.Info("  INDEX_INTERVAL:   %s", indexInterval)
	logging.Info("  TRACK_PAUSE:      %s", trackPause)
	logging.Info("  POLL_INTERVAL:    %s", pollInterval)
	if shuffleSeed != 0 {
		logging.Info("  SHUFFLE_SEED:     %d", shuffleSeed)
	} else {
		logging.Info("  SHUFFLE_SEED:     (time-seeded)")
	}
	logging.Info("  LOG_LEVEL:        %s", logging.GetLevel())

	musicDir, err := filepath.Abs(musicDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve music directory path: %w", err)
	}

	databaseDir, err = filepath.Abs(databaseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database directory path: %w", err)
	}

	config := &Config{
		MusicDir:       musicDir,
		DatabaseDir:    databaseDir,
		MetricsPort:    metricsPort,
		MetricsEnabled: metricsEnabled,
		IndexInterval:  indexInterval,
		TrackPause:     trackPause,
		PollInterval:   pollInterval,
		ShuffleSeed:    shuffleSeed,
		DatabasePath:   filepath.Join(databaseDir, "library.db"),
	}

	// The library index is optional: an unusable database directory
	// disables it rather than aborting startup.
	config.IndexEnabled = setupOptionalDir(databaseDir, "database")

	logging.Info("")
	logging.Info("  Feature availability:")
	logging.Info("    Library index: %s", enabledString(config.IndexEnabled))
	logging.Info("    Metrics:       %s", enabledString(config.MetricsEnabled))
	logging.Info("")

	return config, nil
}

func setupOptionalDir(path, name string) bool {
	logging.Debug("  Setting up %s directory: %s", name, path)

	if err := os.MkdirAll(path, 0o755); err != nil {
		logging.Warn("    Failed to create %s directory: %v", name, err)
		logging.Warn("    %s will be disabled", name)
		return false
	}

	testFile := filepath.Join(path, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		logging.Warn("    %s directory is not writable: %v", name, err)
		logging.Warn("    %s will be disabled", name)
		return false
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("    failed to remove test file %s: %v", testFile, err)
		// Still return true since write succeeded
	}

	logging.Debug("    [OK] %s directory ready", name)
	return true
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

// LogMountPhase logs the start of storage initialization
func LogMountPhase() {
	logging.Info("------------------------------------------------------------")
	logging.Info("[1/3] MOUNTING STORAGE")
	logging.Info("------------------------------------------------------------")
}

// LogMountOK logs a successful mount
func LogMountOK(dir string) {
	logging.Info("  [OK] Music volume mounted at %s", dir)
}

// LogMountDiagnostics prints troubleshooting information after a failed
// mount, in place of aborting silently.
func LogMountDiagnostics(dir string, mountErr error) {
	logging.Error("  Mount failed: %v", mountErr)
	logging.Error("")
	logging.Error("  Storage check:")
	logging.Error("    Path:      %s", dir)

	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		logging.Error("    Exists:    NO")
		logging.Error("    Hint:      create the directory or set MUSIC_DIR")
	case err != nil:
		logging.Error("    Exists:    unknown (%v)", err)
	case !info.IsDir():
		logging.Error("    Exists:    yes, but not a directory")
	default:
		logging.Error("    Exists:    yes")
		logging.Error("    Mode:      %s", info.Mode())
		if _, readErr := os.ReadDir(dir); readErr != nil {
			logging.Error("    Readable:  NO (%v)", readErr)
			logging.Error("    Hint:      check directory permissions")
		} else {
			logging.Error("    Readable:  yes")
		}
	}
}

// LogAudioPhase logs the start of audio initialization
func LogAudioPhase() {
	logging.Info("------------------------------------------------------------")
	logging.Info("[2/3] INITIALIZING AUDIO")
	logging.Info("------------------------------------------------------------")
}

// LogAudioOK logs successful audio device initialization
func LogAudioOK(sampleRate int) {
	logging.Info("  [OK] Audio output ready (%dHz device rate)", sampleRate)
}

// LogScanPhase logs the start of the library scan
func LogScanPhase() {
	logging.Info("------------------------------------------------------------")
	logging.Info("[3/3] SCANNING MUSIC LIBRARY")
	logging.Info("------------------------------------------------------------")
}

// LogScanResult logs the scan outcome
func LogScanResult(tracks int) {
	if tracks == 0 {
		logging.Warn("  No audio files found (supported formats: .wav, .mp3)")
		return
	}
	logging.Info("  [OK] Found %d audio file(s)", tracks)
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// Helper functions

func printBanner() {
	banner := `
------------------------------------------------------------
    __  ___           _        ____  __
   /  |/  /_  _______(_)____  / __ \/ /___ ___  _____  _____
  / /|_/ / / / / ___/ / ___/ / /_/ / / __ '/ / / / _ \/ ___/
 / /  / / /_/ (__  ) / /__  / ____/ / /_/ / /_/ /  __/ /
/_/  /_/\__,_/____/_/\___/ /_/   /_/\__,_/\__, /\___/_/
                                         /____/
------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())

	if logging.IsDebugEnabled() {
		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}
		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		logging.Warn("Invalid duration value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
