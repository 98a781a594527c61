package tilemap

import (
	"log/slog"
	"sync"

	"github.com/mouton0815/tile-explorer/internal/tile"
)

// Detector tracks candidate tiles: the tile under the current GPS position
// is a candidate as long as the server has not confirmed it. Candidates are
// kept per configured zoom level and dropped as soon as a fetched set gains
// the same tile, which can happen when a server fetch completes after the
// position update that discovered the tile.
type Detector struct {
	zooms    []int
	onUpdate func(*TileStore) // called only when a candidate set changed
	log      *slog.Logger

	mu         sync.Mutex
	fetched    *TileStore
	candidates *TileStore
	lastPos    *Position
}

// DetectorConfig configures a Detector.
type DetectorConfig struct {
	ZoomLevels []int
	OnUpdate   func(*TileStore)
	Logger     *slog.Logger
}

// NewDetector creates a detector with empty candidate sets.
func NewDetector(cfg DetectorConfig) *Detector {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Detector{
		zooms:      append([]int(nil), cfg.ZoomLevels...),
		onUpdate:   cfg.OnUpdate,
		log:        log,
		fetched:    NewTileStore(),
		candidates: NewTileStore(),
	}
}

// OnLocationFound implements LocationListener: every GPS fix re-evaluates the
// candidate sets.
func (d *Detector) OnLocationFound(pos Position) {
	d.mu.Lock()
	d.lastPos = &pos
	snapshot := d.evaluateLocked()
	d.mu.Unlock()
	d.publish(snapshot)
}

// OnLocationError implements LocationListener. GPS failures are non-fatal;
// the watcher keeps listening for future fixes.
func (d *Detector) OnLocationError(message string) {
	d.log.Warn("location unavailable", "reason", message)
}

// StoreUpdated re-evaluates the candidates against a new fetched-tile
// snapshot. The detector keeps the snapshot, so callers must hand over a
// copy they do not share with other consumers.
func (d *Detector) StoreUpdated(fetched *TileStore) {
	d.mu.Lock()
	d.fetched = fetched
	snapshot := d.evaluateLocked()
	d.mu.Unlock()
	d.publish(snapshot)
}

// Candidates returns a copy-on-write view of the candidate sets.
func (d *Detector) Candidates() *TileStore {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.candidates.ShallowCopy()
}

// evaluateLocked recomputes all candidate sets and returns a snapshot to
// publish, or nil if nothing changed.
func (d *Detector) evaluateLocked() *TileStore {
	if d.lastPos == nil {
		return nil
	}
	changed := false
	for _, zoom := range d.zooms {
		fetchedSet := d.fetched.Get(zoom)
		working := d.candidates.Get(zoom).Clone()
		zoomChanged := false

		// Drop candidates the server has confirmed in the meantime.
		for _, c := range working.Coords() {
			if fetchedSet.Has(c) {
				working.Remove(c)
				zoomChanged = true
			}
		}

		// The tile under the current position becomes a candidate unless the
		// server already knows it.
		c := tile.CoordAt(d.lastPos.Lat, d.lastPos.Lon, zoom)
		if !working.Has(c) && !fetchedSet.Has(c) {
			working.Add(c)
			zoomChanged = true
		}

		if zoomChanged {
			d.candidates.Set(zoom, working)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return d.candidates.ShallowCopy()
}

func (d *Detector) publish(snapshot *TileStore) {
	if snapshot != nil && d.onUpdate != nil {
		d.onUpdate(snapshot)
	}
}
