package tile

import (
	"fmt"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func viewport(west, south, east, north float64) orb.Bound {
	return orb.Bound{Min: orb.Point{west, south}, Max: orb.Point{east, north}}
}

func TestBoundsFromViewport(t *testing.T) {
	b := BoundsFromViewport(viewport(jenaLonW, jenaLatS, jenaLonE, jenaLatN), testZoom)
	assert.Equal(t, Bounds{Zoom: testZoom, MinX: jenaX, MinY: jenaY, MaxX: jenaX, MaxY: jenaY}, b)
}

func TestBoundsFromViewportOrientation(t *testing.T) {
	b := BoundsFromViewport(viewport(11.0, 50.0, 12.0, 51.0), testZoom)
	assert.Equal(t, testZoom, b.Zoom)
	assert.LessOrEqual(t, b.MinX, b.MaxX)
	assert.LessOrEqual(t, b.MinY, b.MaxY) // south corner has the larger row index
}

func TestContains(t *testing.T) {
	outer := Bounds{Zoom: testZoom, MinX: 10, MinY: 20, MaxX: 30, MaxY: 40}
	tests := []struct {
		name  string
		other Bounds
		want  bool
	}{
		{"itself", outer, true},
		{"strictly inside", Bounds{Zoom: testZoom, MinX: 11, MinY: 21, MaxX: 29, MaxY: 39}, true},
		{"single cell", Bounds{Zoom: testZoom, MinX: 15, MinY: 25, MaxX: 15, MaxY: 25}, true},
		{"sticks out west", Bounds{Zoom: testZoom, MinX: 9, MinY: 21, MaxX: 29, MaxY: 39}, false},
		{"sticks out north", Bounds{Zoom: testZoom, MinX: 11, MinY: 19, MaxX: 29, MaxY: 39}, false},
		{"sticks out east", Bounds{Zoom: testZoom, MinX: 11, MinY: 21, MaxX: 31, MaxY: 39}, false},
		{"sticks out south", Bounds{Zoom: testZoom, MinX: 11, MinY: 21, MaxX: 29, MaxY: 41}, false},
		{"disjoint", Bounds{Zoom: testZoom, MinX: 50, MinY: 50, MaxX: 60, MaxY: 60}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, outer.Contains(tt.other))
		})
	}
}

// Containment of tile bounds is monotonic with geographic containment:
// for viewports v1 inside v2, the tile bounds of v2 contain those of v1,
// at every zoom level.
func TestContainsMonotonic(t *testing.T) {
	outerView := viewport(11.0, 50.0, 13.0, 52.0)
	innerViews := []orb.Bound{
		viewport(11.0, 50.0, 13.0, 52.0), // equal
		viewport(11.5, 50.5, 12.5, 51.5),
		viewport(11.0, 50.0, 11.1, 50.1), // corner sliver
		viewport(12.9, 51.9, 13.0, 52.0),
	}
	for _, zoom := range []int{0, 5, 14, 17} {
		outer := BoundsFromViewport(outerView, zoom)
		for i, inner := range innerViews {
			t.Run(fmt.Sprintf("zoom %d view %d", zoom, i), func(t *testing.T) {
				assert.True(t, outer.Contains(BoundsFromViewport(inner, zoom)))
			})
		}
	}
}

func TestInset(t *testing.T) {
	b := Bounds{Zoom: testZoom, MinX: 10, MinY: 20, MaxX: 30, MaxY: 40}
	assert.Equal(t, Bounds{Zoom: testZoom, MinX: 12, MinY: 22, MaxX: 28, MaxY: 38}, b.Inset(2))
	assert.Equal(t, b, b.Inset(0))
}

func TestInsetCollapses(t *testing.T) {
	b := Bounds{Zoom: testZoom, MinX: 10, MinY: 20, MaxX: 12, MaxY: 21}
	got := b.Inset(2)
	assert.LessOrEqual(t, got.MinX, got.MaxX)
	assert.LessOrEqual(t, got.MinY, got.MaxY)
	assert.Equal(t, 11, got.MinX)
	assert.Equal(t, 11, got.MaxX)
}
