// Package scheduler drives the monitoring loop: one tick fetches the
// current canvas frame, advances every artwork's tile cursor by its
// budget share, classifies each visited tile, and dispatches alerts for
// whatever changed.
package scheduler

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/jpillora/backoff"
	"github.com/rs/zerolog"

	"bluescan/internal/alert"
	"bluescan/internal/cache"
	"bluescan/internal/compare"
	"bluescan/internal/config"
	"bluescan/internal/detourage"
	"bluescan/internal/event"
	"bluescan/internal/frame"
	"bluescan/internal/model"
	"bluescan/internal/store"
	"bluescan/internal/tileplan"
)

// Scheduler owns the tick loop and all per-artwork tile state.
type Scheduler struct {
	Store   *store.Store
	Frame   frame.Source
	Cache   *cache.Rasters
	Tracker *event.Tracker
	Refs    *alert.Refs
	Sink    alert.Sink
	Log     zerolog.Logger

	mu      sync.Mutex
	plans   map[int64]*tileplan.Plan
	lastIDs []int64
	cancel  context.CancelFunc
	running bool
}

func New(st *store.Store, fr frame.Source, ca *cache.Rasters, sink alert.Sink, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Store:   st,
		Frame:   fr,
		Cache:   ca,
		Tracker: event.NewTracker(),
		Refs:    alert.NewRefs(),
		Sink:    sink,
		Log:     log,
		plans:   make(map[int64]*tileplan.Plan),
	}
}

// Start launches the tick loop in a goroutine. It is a no-op if the
// scheduler is already running.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true
	go s.loop(loopCtx)
}

// Stop halts the tick loop. It is a no-op if the scheduler is not running.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.cancel()
	s.running = false
}

// Running reports whether the tick loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) loop(ctx context.Context) {
	bo := &backoff.Backoff{Min: 500 * time.Millisecond, Max: 30 * time.Second, Factor: 2}

	for {
		cfg, err := s.loadConfig(ctx)
		if err != nil {
			s.Log.Error().Err(err).Msg("scheduler: loading config failed, retrying after backoff")
			if !sleepCtx(ctx, bo.Duration()) {
				return
			}
			continue
		}
		bo.Reset()

		if err := s.Tick(ctx, cfg); err != nil {
			s.Log.Error().Err(err).Msg("scheduler: tick failed, retrying after backoff")
			if !sleepCtx(ctx, bo.Duration()) {
				return
			}
			continue
		}

		period := time.Duration(cfg.Period() * float64(time.Second))
		if !sleepCtx(ctx, period) {
			return
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (s *Scheduler) loadConfig(ctx context.Context) (config.Config, error) {
	cfg, ok, err := s.Store.LoadConfig(ctx)
	if err != nil {
		return config.Config{}, err
	}
	if !ok {
		cfg = config.Default()
	}
	return cfg, nil
}

// Tick runs exactly one scheduling pass: refresh plans, fetch one frame,
// and spend the tick's tile budget. Exported so tests (and the API's
// manual "scan once" affordance, if ever added) can drive it directly
// without the sleep loop.
func (s *Scheduler) Tick(ctx context.Context, cfg config.Config) error {
	artworks, err := s.Store.ListArtworks(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.refreshPlans(ctx, cfg, artworks)
	order := s.dispatchOrder(artworks)
	s.mu.Unlock()

	if len(order) == 0 {
		return nil
	}

	full, err := s.Frame.FetchFull()
	if err != nil {
		return err
	}
	if full == nil {
		return nil // canvas currently unavailable; skip this tick entirely
	}

	budget := cfg.TilesGlobalPerTick

	if cfg.OneTilePerArtwork {
		for _, a := range order {
			if budget <= 0 {
				break
			}
			if s.visitOne(ctx, cfg, a, full) {
				budget--
			}
		}
	}
	for budget > 0 {
		visited := false
		for _, a := range order {
			if budget <= 0 {
				break
			}
			if s.visitOne(ctx, cfg, a, full) {
				budget--
				visited = true
			}
		}
		if !visited {
			break // no artwork has any tile left to offer this tick
		}
	}
	return nil
}

// refreshPlans rebuilds the tile plan for any artwork whose shape, tile
// size, or inside mask has changed since last tick, and resets the
// round-robin cursor whenever the tracked artwork id set itself changes.
func (s *Scheduler) refreshPlans(ctx context.Context, cfg config.Config, artworks []model.Artwork) {
	ids := make([]int64, len(artworks))
	for i, a := range artworks {
		ids[i] = a.ID
	}
	if !sameIDs(ids, s.lastIDs) {
		for _, p := range s.plans {
			p.ResetCursor()
		}
		s.lastIDs = ids
	}

	live := make(map[int64]bool, len(artworks))
	for _, a := range artworks {
		live[a.ID] = true
		inside := s.insideMask(ctx, a, cfg)
		plan, ok := s.plans[a.ID]
		if !ok || plan.Stale(a.Placement, cfg.TileW, cfg.TileH, cfg.IgnoreOutside, inside) {
			s.plans[a.ID] = tileplan.Build(a.Placement, cfg.TileW, cfg.TileH, cfg.IgnoreOutside, inside)
		}
	}
	for id := range s.plans {
		if !live[id] {
			delete(s.plans, id)
			s.Tracker.Forget(idKey(id))
			s.Refs.ForgetArtwork(idKey(id))
		}
	}
}

func (s *Scheduler) insideMask(ctx context.Context, a model.Artwork, cfg config.Config) []byte {
	tpl, _ := s.Store.LoadTemplate(ctx, a.ID)
	poly, _ := s.Store.LoadMask(ctx, a.ID)
	if tpl == nil && poly == nil {
		return nil
	}
	var alphaRaster, polyRaster *model.Raster
	if tpl != nil {
		alphaRaster = detourage.AlphaMask(tpl)
	}
	if poly != nil {
		polyRaster = detourage.PolyMask(poly)
	}
	return detourage.Inside(cfg.DetourageMode, alphaRaster, polyRaster, a.Placement.W, a.Placement.H)
}

// dispatchOrder sorts artworks so those currently in an active incident
// state are visited first within a tick — a tile actively suspected of
// defacement gets rechecked before a calm one eats into the same budget.
func (s *Scheduler) dispatchOrder(artworks []model.Artwork) []model.Artwork {
	out := make([]model.Artwork, 0, len(artworks))
	for _, a := range artworks {
		if s.plans[a.ID] != nil && s.plans[a.ID].Len() > 0 {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		hi, hj := s.isHot(out[i].ID), s.isHot(out[j].ID)
		if hi != hj {
			return hi
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Scheduler) isHot(artworkID int64) bool {
	for idx := 0; idx < s.plans[artworkID].Len(); idx++ {
		if s.Tracker.State(event.Key{ArtworkID: idKey(artworkID), TileIndex: idx}) != event.StateNone {
			return true
		}
	}
	return false
}

// visitOne advances one artwork's round-robin cursor by a single tile,
// classifies it, and dispatches any resulting alert action. It returns
// false (consuming none of the tick's budget) if the artwork has no tile
// left to offer.
func (s *Scheduler) visitOne(ctx context.Context, cfg config.Config, a model.Artwork, full *model.Raster) bool {
	s.mu.Lock()
	plan := s.plans[a.ID]
	s.mu.Unlock()
	if plan == nil {
		return false
	}
	tile, ok := plan.Next()
	if !ok {
		return false
	}
	tileIdx := tileIndexOf(plan, tile)

	sub := frame.Sub(full, tile.X, tile.Y, tile.W, tile.H)
	defer frame.ReleaseSub(sub)

	lx, ly := tile.X-a.Placement.X, tile.Y-a.Placement.Y
	ground := s.subRaster(ctx, a, cache.KindGround, lx, ly, tile.W, tile.H)
	baseline := s.subRaster(ctx, a, cache.KindBaseline, lx, ly, tile.W, tile.H)
	in := compare.Inputs{
		Frame:         sub,
		Template:      s.subRaster(ctx, a, cache.KindTemplate, lx, ly, tile.W, tile.H),
		Ground:        ground,
		InsideMask:    s.insideMaskTile(ctx, a, cfg, lx, ly, tile.W, tile.H),
		Mode:          a.Mode,
		Tolerance:     cfg.Tolerance,
		IgnoreOutside: cfg.IgnoreOutside,
		Thresholds:    compare.Thresholds{Suspicion: cfg.SuspicionThreshold, Degradation: cfg.DegradationThreshold},
	}

	var outcome compare.Outcome
	var failing int
	if (in.Template == nil || ground == nil) && baseline != nil {
		failing = compare.StridedScan(sub, baseline, cfg.Tolerance, cfg.Stride, cfg.StagedScan, cfg.SuspicionThreshold)
		outcome = classify(failing, cfg)
	} else {
		outcome, failing = compare.Tile(in)
	}

	key := event.Key{ArtworkID: idKey(a.ID), TileIndex: tileIdx}
	action := s.Tracker.Observe(key, outcome)
	if action != event.ActionNone {
		if err := s.Refs.Dispatch(s.Sink, key, action, a.Name, s.Tracker.State(key), failing); err != nil {
			s.Log.Warn().Err(err).Str("artwork", a.Name).Msg("alert dispatch failed")
		}
	}
	return true
}

func classify(failing int, cfg config.Config) compare.Outcome {
	switch {
	case failing >= cfg.DegradationThreshold:
		return compare.OutcomeDegradation
	case failing >= cfg.SuspicionThreshold:
		return compare.OutcomeSuspicion
	default:
		return compare.OutcomeOK
	}
}

// subRaster loads a cached reference raster for an artwork and slices out
// the tile-local rectangle, or returns nil if that reference doesn't exist.
func (s *Scheduler) subRaster(ctx context.Context, a model.Artwork, kind cache.Kind, x, y, w, h int) *model.Raster {
	full := s.loadCached(ctx, a, kind)
	if full == nil || x+w > full.W || y+h > full.H {
		return nil
	}
	return frame.Sub(full, x, y, w, h)
}

func (s *Scheduler) insideMaskTile(ctx context.Context, a model.Artwork, cfg config.Config, x, y, w, h int) []byte {
	full := s.insideMask(ctx, a, cfg)
	if full == nil {
		return nil
	}
	out := make([]byte, w*h)
	for row := 0; row < h; row++ {
		copy(out[row*w:row*w+w], full[(y+row)*a.Placement.W+x:(y+row)*a.Placement.W+x+w])
	}
	return out
}

func (s *Scheduler) loadCached(ctx context.Context, a model.Artwork, kind cache.Kind) *model.Raster {
	var load func() (*model.Raster, error)
	switch kind {
	case cache.KindTemplate:
		load = func() (*model.Raster, error) { return s.Store.LoadTemplate(ctx, a.ID) }
	case cache.KindGround:
		load = func() (*model.Raster, error) { return s.Store.LoadGround(ctx, a.ID) }
	case cache.KindBaseline:
		load = func() (*model.Raster, error) { return s.Store.LoadBaseline(ctx, a.ID) }
	default:
		return nil
	}
	r, err := load()
	if err != nil || r == nil {
		return nil
	}
	fp := model.FingerprintOf(r)
	if cached, ok := s.Cache.Get(a.ID, kind, fp); ok {
		return cached
	}
	s.Cache.Put(a.ID, kind, fp, r)
	return r
}

func tileIndexOf(p *tileplan.Plan, t tileplan.Tile) int {
	for i, candidate := range p.Tiles {
		if candidate == t {
			return i
		}
	}
	return -1
}

func sameIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func idKey(id int64) string {
	return "artwork-" + strconv.FormatInt(id, 10)
}

// ArtworkKey returns the event/alert tracking key for an artwork id, for
// callers outside the package (the API, on delete) that need to clear
// tracked state without reaching into scheduler internals.
func ArtworkKey(id int64) string { return idKey(id) }

// ArtworkState reports the worst tile state currently tracked for an
// artwork, for surfacing in artwork listings.
func (s *Scheduler) ArtworkState(id int64) event.State {
	s.mu.Lock()
	plan := s.plans[id]
	s.mu.Unlock()
	if plan == nil {
		return event.StateNone
	}
	worst := event.StateNone
	key := ArtworkKey(id)
	for i := 0; i < plan.Len(); i++ {
		if st := s.Tracker.State(event.Key{ArtworkID: key, TileIndex: i}); st > worst {
			worst = st
		}
	}
	return worst
}
