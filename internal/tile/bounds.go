package tile

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Bounds is an axis-aligned rectangle in tile grid space at a fixed zoom
// level. Invariant: MinX <= MaxX and MinY <= MaxY. Bounds of different zoom
// levels are never comparable.
type Bounds struct {
	Zoom int
	MinX int
	MinY int
	MaxX int
	MaxY int
}

// BoundsFromViewport computes the tile bounds covering a geographic viewport
// at the given zoom level. The north-west viewport corner maps to the
// upper-left tile (MinX, MinY), the south-east corner to the lower-right tile
// (MaxX, MaxY).
func BoundsFromViewport(view orb.Bound, zoom int) Bounds {
	upperLeft := CoordAt(view.Top(), view.Left(), zoom)
	lowerRight := CoordAt(view.Bottom(), view.Right(), zoom)
	return Bounds{
		Zoom: zoom,
		MinX: upperLeft.X,
		MinY: upperLeft.Y,
		MaxX: lowerRight.X,
		MaxY: lowerRight.Y,
	}
}

// Contains reports whether other lies fully inside b. This is the sole
// cache-validity predicate: a previously fetched region stays valid for the
// current viewport only while the viewport's tile bounds are enclosed by it.
func (b Bounds) Contains(other Bounds) bool {
	return b.MinX <= other.MinX && b.MinY <= other.MinY &&
		b.MaxX >= other.MaxX && b.MaxY >= other.MaxY
}

// Inset shrinks the bounds by the given number of grid cells on every edge.
// An axis too small to shrink collapses to its center line, so the invariant
// Min <= Max always holds.
func (b Bounds) Inset(cells int) Bounds {
	minX, maxX := b.MinX+cells, b.MaxX-cells
	if minX > maxX {
		mid := (b.MinX + b.MaxX) / 2
		minX, maxX = mid, mid
	}
	minY, maxY := b.MinY+cells, b.MaxY-cells
	if minY > maxY {
		mid := (b.MinY + b.MaxY) / 2
		minY, maxY = mid, mid
	}
	return Bounds{Zoom: b.Zoom, MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

func (b Bounds) String() string {
	return fmt.Sprintf("z%d[%d,%d..%d,%d]", b.Zoom, b.MinX, b.MinY, b.MaxX, b.MaxY)
}
