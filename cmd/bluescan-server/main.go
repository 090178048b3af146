// Command bluescan-server runs the canvas-defacement monitor: an HTTP API
// for registering artworks and capturing their references, plus the
// background scheduler that keeps comparing the live canvas against them.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"bluescan/internal/alert"
	"bluescan/internal/api"
	"bluescan/internal/cache"
	"bluescan/internal/config"
	"bluescan/internal/frame"
	"bluescan/internal/scheduler"
	"bluescan/internal/store"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var (
		addr        string
		dbPath      string
		seedPath    string
		canvasURL   string
		viewportW   int
		viewportH   int
		useMemory   bool
		cacheSize   int
		showVersion bool
		verbose     bool
	)

	flag.StringVar(&addr, "addr", ":8080", "HTTP listen address")
	defaultDB := "bluescan.db"
	if v := os.Getenv("BLUE_SCAN_DB"); v != "" {
		defaultDB = v
	}
	flag.StringVar(&dbPath, "db", defaultDB, "path to the SQLite database file (default from BLUE_SCAN_DB if set)")
	flag.StringVar(&seedPath, "seed", os.Getenv("BLUE_SCAN_CONFIG"), "TOML config seed file, applied only on first boot")
	flag.StringVar(&canvasURL, "canvas-url", "", "URL of the canvas page the headless frame source navigates to")
	flag.IntVar(&viewportW, "viewport-w", 1000, "headless browser viewport width")
	flag.IntVar(&viewportH, "viewport-h", 1000, "headless browser viewport height")
	flag.BoolVar(&useMemory, "memory-frame-source", false, "use an in-memory frame source instead of a headless browser (testing only)")
	flag.IntVar(&cacheSize, "raster-cache-size", 256, "max decoded reference rasters held in memory")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.BoolVar(&verbose, "verbose", false, "enable debug-level logging")
	flag.Parse()

	if showVersion {
		fmt.Printf("bluescan-server %s (commit %s)\n", version, commit)
		return
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	if verbose {
		log = log.Level(zerolog.DebugLevel)
	} else {
		log = log.Level(zerolog.InfoLevel)
	}

	if err := run(runArgs{
		addr: addr, dbPath: dbPath, seedPath: seedPath,
		canvasURL: canvasURL, viewportW: viewportW, viewportH: viewportH,
		useMemory: useMemory, cacheSize: cacheSize,
	}, log); err != nil {
		log.Fatal().Err(err).Msg("bluescan-server exiting")
	}
}

type runArgs struct {
	addr, dbPath, seedPath, canvasURL string
	viewportW, viewportH, cacheSize   int
	useMemory                         bool
}

func run(a runArgs, log zerolog.Logger) error {
	st, err := store.Open(a.dbPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	if _, ok, err := st.LoadConfig(ctx); err != nil {
		return fmt.Errorf("loading config: %w", err)
	} else if !ok {
		seed, err := config.LoadSeed(a.seedPath)
		if err != nil {
			return fmt.Errorf("loading config seed: %w", err)
		}
		if err := st.SaveConfig(ctx, seed); err != nil {
			return fmt.Errorf("seeding config: %w", err)
		}
		log.Info().Str("seed", a.seedPath).Msg("seeded initial config")
	}

	var source frame.Source
	if a.useMemory {
		source = &frame.Memory{}
	} else {
		source = frame.NewHeadless(a.canvasURL, a.viewportW, a.viewportH, log.With().Str("component", "frame").Logger())
	}

	ca, err := cache.New(a.cacheSize)
	if err != nil {
		return fmt.Errorf("building raster cache: %w", err)
	}

	sink := alert.NewConsoleSink(log.With().Str("component", "alert").Logger())
	sched := scheduler.New(st, source, ca, sink, log.With().Str("component", "scheduler").Logger())
	sched.Start(context.Background())
	defer sched.Stop()

	handler := api.NewRouter(api.Deps{Store: st, Scheduler: sched, Frame: source, Log: log})
	srv := &http.Server{Addr: a.addr, Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", a.addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
