// Package tile implements slippy-map tile arithmetic: conversions between
// geographic coordinates and integer tile grid coordinates, and tile-grid
// rectangles derived from map viewports.
// See https://wiki.openstreetmap.org/wiki/Slippy_map_tilenames
package tile

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Coord addresses one tile by column and row. The zoom level is carried
// separately, because the same (x, y) pair means different geography at
// different zoom levels. Valid coordinates satisfy 0 <= x,y < 2^zoom.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// CoordAt returns the tile containing the given position at the given zoom
// level. Fractional tile positions are floored, matching standard tile-server
// addressing.
func CoordAt(lat, lon float64, zoom int) Coord {
	zPow := float64(int(1) << zoom) // 2^zoom
	latRad := (lat * math.Pi) / 180.0
	x := math.Floor(((lon + 180.0) / 360.0) * zPow)
	y := math.Floor(((1.0 - math.Log(math.Tan(latRad)+1.0/math.Cos(latRad))/math.Pi) / 2.0) * zPow)
	return Coord{X: int(x), Y: int(y)}
}

// Lat returns the latitude of the northern edge of tile row y.
func Lat(y, zoom int) float64 {
	n := math.Pi - 2.0*math.Pi*float64(y)/float64(int(1)<<zoom)
	return 180.0 / math.Pi * math.Atan(math.Sinh(n))
}

// Lon returns the longitude of the western edge of tile column x.
func Lon(x, zoom int) float64 {
	return float64(x)/float64(int(1)<<zoom)*360.0 - 180.0
}

// Bound returns the geographic rectangle covered by the tile at the given
// zoom level, in the form consumed by the rendering collaborator.
func (c Coord) Bound(zoom int) orb.Bound {
	return orb.Bound{
		Min: orb.Point{Lon(c.X, zoom), Lat(c.Y+1, zoom)},
		Max: orb.Point{Lon(c.X+1, zoom), Lat(c.Y, zoom)},
	}
}
