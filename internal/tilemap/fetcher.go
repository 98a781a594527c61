package tilemap

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/paulmach/orb"

	"github.com/mouton0815/tile-explorer/internal/tile"
)

// DefaultBoundsInset is the number of grid cells the request bounds are
// shrunk by on each edge. Tiles right at the viewport border are rarely
// visible, so the inset reduces over-fetching; it has no effect on
// correctness.
const DefaultBoundsInset = 2

// TileLister fetches the list of tiles the server has confirmed within the
// given bounds. Implementations must honor context cancellation and return
// an error wrapping context.Canceled when aborted.
type TileLister interface {
	ListTiles(ctx context.Context, zoom int, bounds tile.Bounds) ([]tile.Coord, error)
}

// Snapshot is the read-only state published after a fetch round that changed
// anything: the confirmed tiles per zoom level and the bounds they cover.
// Snapshots are copy-on-write views; consumers must not mutate them.
type Snapshot struct {
	Fetched   *TileStore
	MaxBounds *MultiZoomBounds
}

// FetcherConfig configures a Fetcher.
type FetcherConfig struct {
	Client      TileLister
	ZoomLevels  []int
	BoundsInset int              // defaults to DefaultBoundsInset when negative
	OnUpdate    func(Snapshot)   // called at most once per viewport event
	Logger      *slog.Logger
}

// Fetcher coordinates tile fetching across viewport changes. For every
// viewport event it determines per configured zoom level whether the last
// fetched bounds still contain the new viewport; stale zoom levels are
// refetched, results merged into the tile store, and one snapshot is
// published per event.
//
// Viewport events may arrive faster than responses return. Each event starts
// a new generation and cancels the in-flight round; merges are guarded by a
// generation check, so a superseded round can never touch the store.
type Fetcher struct {
	client   TileLister
	zooms    []int
	inset    int
	onUpdate func(Snapshot)
	log      *slog.Logger

	mu        sync.Mutex
	gen       uint64
	cancel    context.CancelFunc
	store     *TileStore       // working copy, single writer
	maxBounds *MultiZoomBounds // bounds covered by store, per zoom
	rounds    sync.WaitGroup
}

// NewFetcher creates a fetch coordinator. The store starts empty, so the
// first viewport event fetches every configured zoom level.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	if cfg.Client == nil {
		panic("tilemap: FetcherConfig.Client must not be nil")
	}
	inset := cfg.BoundsInset
	if inset < 0 {
		inset = DefaultBoundsInset
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Fetcher{
		client:    cfg.Client,
		zooms:     append([]int(nil), cfg.ZoomLevels...),
		inset:     inset,
		onUpdate:  cfg.OnUpdate,
		log:       log,
		store:     NewTileStore(),
		maxBounds: NewMultiZoomBounds(),
	}
}

// OnMapReady implements MapListener.
func (f *Fetcher) OnMapReady(view orb.Bound) { f.ViewportChanged(view) }

// OnMoveEnd implements MapListener.
func (f *Fetcher) OnMoveEnd(view orb.Bound) { f.ViewportChanged(view) }

// OnZoomEnd implements MapListener.
func (f *Fetcher) OnZoomEnd(view orb.Bound) { f.ViewportChanged(view) }

// ViewportChanged starts a fetch round for the new viewport, superseding and
// cancelling any round still in flight. It returns immediately; results are
// published through the OnUpdate callback.
func (f *Fetcher) ViewportChanged(view orb.Bound) {
	candidate := MultiZoomBoundsFromViewport(view, f.zooms)

	f.mu.Lock()
	if f.cancel != nil {
		f.cancel()
	}
	f.gen++
	gen := f.gen
	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	f.rounds.Add(1)
	f.mu.Unlock()

	go func() {
		defer f.rounds.Done()
		f.fetchRound(ctx, gen, candidate)
	}()
}

// fetchRound fetches all stale zoom levels for one viewport event.
func (f *Fetcher) fetchRound(ctx context.Context, gen uint64, candidate *MultiZoomBounds) {
	changed := false
	for _, zoom := range f.zooms {
		bounds := candidate.Get(zoom)

		f.mu.Lock()
		covered := f.maxBounds.Contains(zoom, bounds)
		f.mu.Unlock()
		if covered {
			continue
		}

		coords, err := f.client.ListTiles(ctx, zoom, bounds.Inset(f.inset))
		if err != nil {
			if errors.Is(err, context.Canceled) {
				f.log.Debug("tile fetch superseded", "zoom", zoom, "bounds", bounds)
				return
			}
			// Leave the zoom level untouched; the bounds stay stale, so the
			// next viewport event retries.
			f.log.Warn("cannot fetch tiles from server", "zoom", zoom, "bounds", bounds, "error", err)
			continue
		}

		set := NewTileSet(zoom)
		for _, c := range coords {
			set.Add(c)
		}

		f.mu.Lock()
		if gen != f.gen {
			f.mu.Unlock()
			return // a newer viewport event owns the store now
		}
		f.store.Set(zoom, set)
		f.maxBounds.Set(zoom, bounds) // the unpadded candidate bounds, replacing, not unioning
		changed = true
		f.mu.Unlock()
	}

	if !changed {
		return
	}

	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		return
	}
	snapshot := Snapshot{
		Fetched:   f.store.ShallowCopy(),
		MaxBounds: f.maxBounds.ShallowCopy(),
	}
	f.mu.Unlock()

	if f.onUpdate != nil {
		f.onUpdate(snapshot)
	}
}

// Snapshot returns the current copy-on-write view of the fetched tiles.
func (f *Fetcher) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot{
		Fetched:   f.store.ShallowCopy(),
		MaxBounds: f.maxBounds.ShallowCopy(),
	}
}

// Wait blocks until all started fetch rounds have finished. Superseded rounds
// finish as soon as their cancellation is observed.
func (f *Fetcher) Wait() {
	f.rounds.Wait()
}

// Close cancels any in-flight round and waits for it to finish.
func (f *Fetcher) Close() {
	f.mu.Lock()
	if f.cancel != nil {
		f.cancel()
	}
	f.gen++ // block late merges even if the client ignores cancellation
	f.mu.Unlock()
	f.rounds.Wait()
}
