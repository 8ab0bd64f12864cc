package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"music-player/internal/audio"
	"music-player/internal/database"
	"music-player/internal/indexer"
	"music-player/internal/library"
	"music-player/internal/logging"
	"music-player/internal/metrics"
	"music-player/internal/player"
	"music-player/internal/startup"
	"music-player/internal/storage"

	"github.com/urfave/cli/v2"
)

func main() {
	playFlags := []cli.Flag{
		&cli.BoolFlag{Name: "shuffle", Usage: "play tracks in random order"},
		&cli.BoolFlag{Name: "repeat", Usage: "repeat the playlist until interrupted"},
		&cli.Int64Flag{Name: "seed", Usage: "shuffle seed (0 = time-seeded)"},
	}

	app := &cli.App{
		Name:  "music-player",
		Usage: "play the audio files of a music directory in order",
		// Bare invocation plays everything, like the original device.
		Flags:  playFlags,
		Action: runPlayAll,
		Commands: []*cli.Command{
			{
				Name:   "play",
				Usage:  "Play every track in playlist order",
				Flags:  playFlags,
				Action: runPlayAll,
			},
			{
				Name:      "track",
				Usage:     "Play a single track by its playlist number",
				ArgsUsage: "<number>",
				Action:    runPlayTrack,
			},
			{
				Name:   "list",
				Usage:  "List the playlist without playing",
				Action: runList,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// playerContext holds the owned handles a command operates on. Handles
// are passed explicitly; nothing hangs off package-level globals.
type playerContext struct {
	config        *startup.Config
	volume        *storage.Volume
	output        audio.Output
	scanner       *library.Scanner
	db            *database.Database
	idx           *indexer.Indexer
	metricsServer *http.Server
}

// initPlayer runs the startup sequence: configuration, storage mount,
// audio device, then the optional library index and metrics server.
// Mount and audio failures are fatal; everything else degrades.
func initPlayer(needAudio bool) *playerContext {
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}
	metrics.InitializeMetrics()

	pc := &playerContext{config: config}

	startup.LogMountPhase()
	vol, err := storage.Mount(config.MusicDir)
	if err != nil {
		startup.LogMountDiagnostics(config.MusicDir, err)
		startup.LogFatal("Cannot continue without storage: %v", err)
	}
	pc.volume = vol
	pc.scanner = library.NewScanner(vol)
	startup.LogMountOK(config.MusicDir)

	startup.LogAudioPhase()
	if needAudio {
		speaker, err := audio.NewSpeaker()
		if err != nil {
			startup.LogFatal("Audio initialization failed: %v", err)
		}
		pc.output = speaker
		startup.LogAudioOK(int(audio.DeviceSampleRate))
	} else {
		logging.Info("  Skipped (not needed for this command)")
	}

	if config.IndexEnabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		db, err := database.New(ctx, config.DatabasePath)
		cancel()
		if err != nil {
			logging.Warn("Library index disabled: %v", err)
		} else {
			pc.db = db
			pc.idx = indexer.New(db, pc.scanner, config.MusicDir, config.IndexInterval)
			if err := pc.idx.Start(); err != nil {
				logging.Warn("Failed to start indexer: %v", err)
			}
		}
	}

	if config.MetricsEnabled {
		pc.metricsServer = metrics.NewServer(config.MetricsPort, pc.health)
		go func() {
			if err := pc.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logging.Error("Metrics server error: %v", err)
			}
		}()
		logging.Info("  Metrics: http://localhost:%s/metrics", config.MetricsPort)
	}

	return pc
}

func (pc *playerContext) health() metrics.Health {
	h := metrics.Health{Status: "healthy"}

	if pc.db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		stats, err := pc.db.GetStats(ctx)
		if err == nil {
			h.Tracks = stats.Tracks
			if !stats.LastIndexed.IsZero() {
				h.Uptime = time.Since(stats.LastIndexed).Round(time.Second).String()
			}
			return h
		}
		logging.Debug("health stats query failed: %v", err)
	}

	if pc.idx != nil {
		h.Tracks = pc.idx.TrackCount()
		if last := pc.idx.LastIndexed(); !last.IsZero() {
			h.Uptime = time.Since(last).Round(time.Second).String()
		}
	}
	return h
}

func (pc *playerContext) shutdown() {
	if pc.idx != nil {
		pc.idx.Stop()
	}
	if pc.db != nil {
		if err := pc.db.Close(); err != nil {
			logging.Warn("Database close error: %v", err)
		}
	}
	if pc.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := pc.metricsServer.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		}
	}
	startup.LogShutdownComplete()
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func (pc *playerContext) newController(seed int64) *player.Controller {
	if seed == 0 {
		seed = pc.config.ShuffleSeed
	}
	return player.New(pc.volume, pc.output, audio.BeepDecoder{}, player.Config{
		TrackPause:   pc.config.TrackPause,
		PollInterval: pc.config.PollInterval,
		ShuffleSeed:  seed,
		Progress:     printProgress,
	})
}

func (pc *playerContext) scan() *library.Playlist {
	startup.LogScanPhase()
	playlist, err := pc.scanner.Scan("/")
	if err != nil {
		// Non-fatal: proceed with an empty playlist.
		logging.Warn("  Library scan failed: %v", err)
	}
	startup.LogScanResult(playlist.Len())
	return playlist
}

// playlist returns the current playlist, read from the library index when
// it is available (the indexer refreshed it during startup) and from a
// direct volume scan otherwise.
func (pc *playerContext) playlist() *library.Playlist {
	if pc.db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		tracks, err := pc.db.Tracks(ctx)
		if err == nil {
			startup.LogScanPhase()
			logging.Info("  Using library index")
			startup.LogScanResult(len(tracks))
			return library.NewPlaylist(tracks)
		}
		logging.Warn("Library index read failed, scanning volume: %v", err)
	}
	return pc.scan()
}

// resultError maps a rejected playback request onto a non-zero exit
// status; everything else exits 0.
func resultError(result player.Result) error {
	if result.Outcome == player.OutcomeError {
		return cli.Exit("", 2)
	}
	return nil
}

func runPlayAll(c *cli.Context) error {
	pc := initPlayer(true)
	defer pc.shutdown()

	playlist := pc.playlist()
	printPlaylist(playlist)

	ctx, stop := signalContext()
	defer stop()

	ctrl := pc.newController(c.Int64("seed"))
	result := ctrl.PlayAll(ctx, playlist, player.Options{
		Shuffle: c.Bool("shuffle"),
		Repeat:  c.Bool("repeat"),
	})
	reportResult(result)
	return nil
}

func runPlayTrack(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: music-player track <number>", 2)
	}
	n, err := strconv.Atoi(c.Args().First())
	if err != nil {
		return cli.Exit(fmt.Sprintf("invalid track number %q", c.Args().First()), 2)
	}

	pc := initPlayer(true)
	defer pc.shutdown()

	playlist := pc.playlist()

	ctx, stop := signalContext()
	defer stop()

	ctrl := pc.newController(0)
	result := ctrl.PlayTrack(ctx, playlist, n)
	reportResult(result)
	return resultError(result)
}

func runList(c *cli.Context) error {
	pc := initPlayer(false)
	defer pc.shutdown()

	playlist := pc.playlist()
	printPlaylist(playlist)
	return nil
}

func printPlaylist(playlist *library.Playlist) {
	if playlist.Len() == 0 {
		return
	}
	fmt.Printf("\nPlaylist (%d tracks):\n", playlist.Len())
	fmt.Println("--------------------------------------------------")
	for i, track := range playlist.Tracks() {
		fmt.Printf("  %d. %s\n", i+1, track.DisplayName)
	}
	fmt.Println("--------------------------------------------------")
}

func printProgress(track library.Track, elapsed time.Duration) {
	fmt.Printf("  Playing... %ds\r", int(elapsed.Seconds()))
}

func reportResult(result player.Result) {
	switch result.Outcome {
	case player.OutcomeCompleted:
		logging.Info("Playback complete: %d played, %d failed in %s",
			result.Played, result.Failed, result.Elapsed.Round(time.Second))
	case player.OutcomeCancelled:
		startup.LogShutdownInitiated("interrupt")
		logging.Info("  Stopped after %d played, %d failed", result.Played, result.Failed)
	case player.OutcomeNoTracks:
		logging.Info("Nothing to play")
	case player.OutcomeError:
		logging.Warn("Playback request rejected: %v", result.Err)
	}
}
