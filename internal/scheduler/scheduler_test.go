package scheduler

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"bluescan/internal/alert"
	"bluescan/internal/cache"
	"bluescan/internal/config"
	"bluescan/internal/event"
	"bluescan/internal/frame"
	"bluescan/internal/model"
	"bluescan/internal/store"
)

func newTestScheduler(t *testing.T) (*Scheduler, *store.Store, *frame.Memory) {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	ca, err := cache.New(16)
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	mem := &frame.Memory{}
	sched := New(st, mem, ca, alert.NewConsoleSink(zerolog.Nop()), zerolog.Nop())
	return sched, st, mem
}

func solidRaster(w, h int, r, g, b, a byte) *model.Raster {
	pix := make([]byte, w*h*4)
	for i := 0; i < w*h; i++ {
		pix[i*4], pix[i*4+1], pix[i*4+2], pix[i*4+3] = r, g, b, a
	}
	return &model.Raster{W: w, H: h, Pix: pix}
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.TileW, cfg.TileH = 4, 4
	cfg.TilesGlobalPerTick = 10
	cfg.Tolerance = 0
	cfg.SuspicionThreshold = 1
	cfg.DegradationThreshold = 10
	return cfg
}

func TestTick_MatchingFrameStaysQuiet(t *testing.T) {
	ctx := context.Background()
	sched, st, mem := newTestScheduler(t)

	id, err := st.CreateArtwork(ctx, "mural", model.Placement{X: 0, Y: 0, W: 4, H: 4}, model.ModeProtect)
	if err != nil {
		t.Fatalf("CreateArtwork: %v", err)
	}
	tpl := solidRaster(4, 4, 10, 20, 30, 255)
	if err := st.SaveTemplate(ctx, id, tpl); err != nil {
		t.Fatalf("SaveTemplate: %v", err)
	}
	mem.Set(solidRaster(4, 4, 10, 20, 30, 255))

	if err := sched.Tick(ctx, testConfig()); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	key := event.Key{ArtworkID: idKey(id), TileIndex: 0}
	if sched.Tracker.State(key) != event.StateNone {
		t.Fatalf("expected no tracked incident for a matching frame, got state %v", sched.Tracker.State(key))
	}
}

func TestTick_MismatchTriggersSuspicion(t *testing.T) {
	ctx := context.Background()
	sched, st, mem := newTestScheduler(t)

	id, err := st.CreateArtwork(ctx, "mural", model.Placement{X: 0, Y: 0, W: 4, H: 4}, model.ModeProtect)
	if err != nil {
		t.Fatalf("CreateArtwork: %v", err)
	}
	st.SaveTemplate(ctx, id, solidRaster(4, 4, 10, 20, 30, 255))
	mem.Set(solidRaster(4, 4, 200, 200, 200, 255)) // nothing like the template

	if err := sched.Tick(ctx, testConfig()); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	key := event.Key{ArtworkID: idKey(id), TileIndex: 0}
	if sched.Tracker.State(key) == event.StateNone {
		t.Fatalf("expected a tracked incident for a mismatched frame")
	}
}

func TestTick_NoArtworksIsNoop(t *testing.T) {
	ctx := context.Background()
	sched, _, mem := newTestScheduler(t)
	mem.Set(solidRaster(4, 4, 0, 0, 0, 255))
	if err := sched.Tick(ctx, testConfig()); err != nil {
		t.Fatalf("Tick: %v", err)
	}
}

func TestTick_UnavailableFrameSkipsTick(t *testing.T) {
	ctx := context.Background()
	sched, st, _ := newTestScheduler(t)
	st.CreateArtwork(ctx, "mural", model.Placement{W: 4, H: 4}, model.ModeProtect)
	// mem.Frame left nil: FetchFull returns (nil, nil).
	if err := sched.Tick(ctx, testConfig()); err != nil {
		t.Fatalf("Tick: %v", err)
	}
}

func TestStartStop_Idempotent(t *testing.T) {
	sched, _, _ := newTestScheduler(t)
	ctx := context.Background()
	sched.Start(ctx)
	sched.Start(ctx) // no-op, must not panic or deadlock
	if !sched.Running() {
		t.Fatalf("expected scheduler to report running")
	}
	sched.Stop()
	sched.Stop() // no-op
	if sched.Running() {
		t.Fatalf("expected scheduler to report stopped")
	}
}
