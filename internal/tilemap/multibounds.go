package tilemap

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/mouton0815/tile-explorer/internal/tile"
)

// MultiZoomBounds holds one tile bounds rectangle per configured zoom level,
// all derived from the same viewport snapshot so every zoom level is judged
// against the same instant of pan/zoom state.
type MultiZoomBounds struct {
	bounds map[int]tile.Bounds
}

// NewMultiZoomBounds creates an empty bounds map.
func NewMultiZoomBounds() *MultiZoomBounds {
	return &MultiZoomBounds{bounds: make(map[int]tile.Bounds)}
}

// MultiZoomBoundsFromViewport computes the tile bounds of the viewport for
// every given zoom level.
func MultiZoomBoundsFromViewport(view orb.Bound, zoomLevels []int) *MultiZoomBounds {
	m := NewMultiZoomBounds()
	for _, zoom := range zoomLevels {
		m.bounds[zoom] = tile.BoundsFromViewport(view, zoom)
	}
	return m
}

// Get returns the bounds for the zoom level. Looking up a zoom level that was
// never set is a configuration mismatch between the zoom lists used to build
// and to query the map; it panics rather than returning a recoverable error.
func (m *MultiZoomBounds) Get(zoom int) tile.Bounds {
	b, ok := m.bounds[zoom]
	if !ok {
		panic(fmt.Sprintf("tilemap: zoom level %d not configured", zoom))
	}
	return b
}

// Set stores the bounds for the zoom level.
func (m *MultiZoomBounds) Set(zoom int, b tile.Bounds) {
	m.bounds[zoom] = b
}

// Contains reports whether the stored bounds for the zoom level fully enclose
// b. A zoom level without stored bounds contains nothing.
func (m *MultiZoomBounds) Contains(zoom int, b tile.Bounds) bool {
	stored, ok := m.bounds[zoom]
	return ok && stored.Contains(b)
}

// ShallowCopy returns a new wrapper over the same entries, published to
// observers after in-place mutation of the working copy.
func (m *MultiZoomBounds) ShallowCopy() *MultiZoomBounds {
	c := NewMultiZoomBounds()
	for z, b := range m.bounds {
		c.bounds[z] = b
	}
	return c
}
