package tile

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testZoom = 14

// Jena city center tile, inner coordinate and edge coordinates.
// Collected with help of https://chrishewett.com/blog/slippy-tile-explorer/
const (
	jenaLatN = 50.930738023718185
	jenaLatS = 50.91688748924508
	jenaLonW = 11.57958984375
	jenaLonE = 11.6015624999999
	delta    = 0.000000000001
	jenaX    = 8719
	jenaY    = 5490
)

func TestCoordAt(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     Coord
	}{
		{"jena center", (jenaLatN + jenaLatS) / 2.0, (jenaLonW + jenaLonE) / 2.0, Coord{jenaX, jenaY}},
		{"jena nw corner", jenaLatN, jenaLonW, Coord{jenaX, jenaY}},
		{"jena ne corner", jenaLatN, jenaLonE, Coord{jenaX, jenaY}},
		{"jena sw corner", jenaLatS, jenaLonW, Coord{jenaX, jenaY}},
		{"jena se corner", jenaLatS, jenaLonE, Coord{jenaX, jenaY}},
		{"north neighbor", jenaLatN + delta, jenaLonW, Coord{jenaX, jenaY - 1}},
		{"west neighbor", jenaLatN, jenaLonW - delta, Coord{jenaX - 1, jenaY}},
		{"south neighbor", jenaLatS - delta, jenaLonW, Coord{jenaX, jenaY + 1}},
		{"east neighbor", jenaLatN, jenaLonE + delta, Coord{jenaX + 1, jenaY}},
		{"zero coordinate", 0.0, 0.0, Coord{8192, 8192}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoordAt(tt.lat, tt.lon, testZoom))
		})
	}
}

func TestCoordAtZoomZero(t *testing.T) {
	// The whole world is one tile at zoom 0
	assert.Equal(t, Coord{0, 0}, CoordAt(51.0, 12.0, 0))
	assert.Equal(t, Coord{0, 0}, CoordAt(-51.0, -12.0, 0))
}

func TestLatLonEdges(t *testing.T) {
	assert.InDelta(t, -180.0, Lon(0, testZoom), 1e-9)
	assert.InDelta(t, 180.0, Lon(1<<testZoom, testZoom), 1e-9)
	assert.InDelta(t, 0.0, Lon(1<<(testZoom-1), testZoom), 1e-9)
	assert.InDelta(t, 0.0, Lat(1<<(testZoom-1), testZoom), 1e-9)
	assert.Greater(t, Lat(0, testZoom), 85.0)
	assert.Less(t, Lat(1<<testZoom, testZoom), -85.0)
}

// Converting a latitude to a tile row and back recovers the latitude within
// one tile height. Slippy-map tiles are not exact inverses at sub-tile
// resolution, so the test allows exactly that slack.
func TestLatRoundTrip(t *testing.T) {
	for _, zoom := range []int{0, 2, 8, 14, 17} {
		for lat := -84.0; lat <= 84.0; lat += 7.0 {
			name := fmt.Sprintf("zoom %d lat %.0f", zoom, lat)
			t.Run(name, func(t *testing.T) {
				c := CoordAt(lat, 11.6, zoom)
				north := Lat(c.Y, zoom)
				south := Lat(c.Y+1, zoom)
				assert.InDelta(t, lat, north, north-south+1e-9)
			})
		}
	}
}

func TestLonRoundTrip(t *testing.T) {
	for _, zoom := range []int{0, 2, 8, 14, 17} {
		for lon := -170.0; lon <= 170.0; lon += 17.0 {
			c := CoordAt(51.0, lon, zoom)
			width := Lon(c.X+1, zoom) - Lon(c.X, zoom)
			assert.InDelta(t, lon, Lon(c.X, zoom), width+1e-9)
		}
	}
}

func TestCoordBound(t *testing.T) {
	b := Coord{jenaX, jenaY}.Bound(testZoom)
	assert.Less(t, b.Left(), b.Right())
	assert.Less(t, b.Bottom(), b.Top())
	// The tile computed for the box center must be the tile itself
	center := b.Center()
	assert.Equal(t, Coord{jenaX, jenaY}, CoordAt(center[1], center[0], testZoom))
}
