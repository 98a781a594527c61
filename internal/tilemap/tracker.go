package tilemap

import (
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// DefaultMinTrackDistance is the minimum distance in meters between two
// consecutive recorded track positions. GPS jitter at a standstill stays
// below this threshold.
const DefaultMinTrackDistance = 10.0

// PositionTracker records the GPS track as a polyline for the rendering
// collaborator. Fixes closer than the minimum distance to the last recorded
// position are skipped.
type PositionTracker struct {
	minDistance float64

	mu   sync.Mutex
	path orb.LineString
}

// NewPositionTracker creates a tracker with the given distance threshold in
// meters; values <= 0 select DefaultMinTrackDistance.
func NewPositionTracker(minDistance float64) *PositionTracker {
	if minDistance <= 0 {
		minDistance = DefaultMinTrackDistance
	}
	return &PositionTracker{minDistance: minDistance}
}

// OnLocationFound implements LocationListener.
func (t *PositionTracker) OnLocationFound(pos Position) {
	pt := pos.Point()
	t.mu.Lock()
	defer t.mu.Unlock()
	if n := len(t.path); n > 0 && geo.Distance(t.path[n-1], pt) < t.minDistance {
		return
	}
	t.path = append(t.path, pt)
}

// OnLocationError implements LocationListener; a missed fix records nothing.
func (t *PositionTracker) OnLocationError(string) {}

// Path returns a copy of the recorded track.
func (t *PositionTracker) Path() orb.LineString {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append(orb.LineString(nil), t.path...)
}
