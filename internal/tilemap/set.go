// Package tilemap tracks which map tiles are known for the visible viewport.
// It contains the tile cache keyed by zoom level, the fetch coordinator that
// reloads stale zoom levels from the tile server, and the detector for
// provisional candidate tiles under the current GPS position.
package tilemap

import (
	"github.com/mouton0815/tile-explorer/internal/tile"
)

// TileSet is a set of tile coordinates sharing one zoom level. Iteration via
// Coords follows insertion order.
type TileSet struct {
	zoom    int
	members map[tile.Coord]struct{}
	order   []tile.Coord
}

// NewTileSet creates an empty set for the given zoom level.
func NewTileSet(zoom int) *TileSet {
	return &TileSet{
		zoom:    zoom,
		members: make(map[tile.Coord]struct{}),
	}
}

// NewTileSetOf creates a set containing the given coordinates.
func NewTileSetOf(zoom int, coords ...tile.Coord) *TileSet {
	s := NewTileSet(zoom)
	for _, c := range coords {
		s.Add(c)
	}
	return s
}

// Zoom returns the zoom level shared by all members.
func (s *TileSet) Zoom() int {
	return s.zoom
}

// Len returns the number of members.
func (s *TileSet) Len() int {
	return len(s.members)
}

// Has reports whether the coordinate is a member.
func (s *TileSet) Has(c tile.Coord) bool {
	_, ok := s.members[c]
	return ok
}

// Add inserts the coordinate; adding an existing member is a no-op.
func (s *TileSet) Add(c tile.Coord) {
	if s.Has(c) {
		return
	}
	s.members[c] = struct{}{}
	s.order = append(s.order, c)
}

// Remove deletes the coordinate; removing a non-member is a no-op.
func (s *TileSet) Remove(c tile.Coord) {
	if !s.Has(c) {
		return
	}
	delete(s.members, c)
	for i, m := range s.order {
		if m == c {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
}

// Coords returns the members in insertion order. The slice is a copy and may
// be retained by the caller.
func (s *TileSet) Coords() []tile.Coord {
	out := make([]tile.Coord, len(s.order))
	copy(out, s.order)
	return out
}

// Clone duplicates the set so one copy can be mutated while the other stays
// published to observers.
func (s *TileSet) Clone() *TileSet {
	c := &TileSet{
		zoom:    s.zoom,
		members: make(map[tile.Coord]struct{}, len(s.members)),
		order:   make([]tile.Coord, len(s.order)),
	}
	for m := range s.members {
		c.members[m] = struct{}{}
	}
	copy(c.order, s.order)
	return c
}
