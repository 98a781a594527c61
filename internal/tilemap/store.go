package tilemap

import (
	"sort"
)

// TileStore maps zoom levels to tile sets. It is the authoritative record of
// the tiles the server confirmed for the last fetched bounds of each zoom
// level.
//
// A store has exactly one writing owner. Consumers receive snapshots made
// with ShallowCopy: the copy has its own zoom map but shares the TileSet
// values, so the owner may replace entries in the working store without
// tearing a snapshot a renderer is iterating. Owners replace sets wholesale
// (or via Clone-then-Set), they do not mutate a set that has been published.
type TileStore struct {
	sets map[int]*TileSet
}

// NewTileStore creates an empty store.
func NewTileStore() *TileStore {
	return &TileStore{sets: make(map[int]*TileSet)}
}

// Get returns the set for the zoom level, creating an empty one on first
// access. It never fails.
func (t *TileStore) Get(zoom int) *TileSet {
	s, ok := t.sets[zoom]
	if !ok {
		s = NewTileSet(zoom)
		t.sets[zoom] = s
	}
	return s
}

// Set replaces the set for the zoom level.
func (t *TileStore) Set(zoom int, s *TileSet) {
	t.sets[zoom] = s
}

// Zooms returns the zoom levels present in the store, in ascending order.
func (t *TileStore) Zooms() []int {
	zooms := make([]int, 0, len(t.sets))
	for z := range t.sets {
		zooms = append(zooms, z)
	}
	sort.Ints(zooms)
	return zooms
}

// ShallowCopy returns a new store sharing the same tile sets.
func (t *TileStore) ShallowCopy() *TileStore {
	c := NewTileStore()
	for z, s := range t.sets {
		c.sets[z] = s
	}
	return c
}
