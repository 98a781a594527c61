package tilemap

import (
	"sync"

	"github.com/paulmach/orb"
)

// Position is a GPS fix in degrees.
type Position struct {
	Lat float64
	Lon float64
}

// Point returns the position in orb's (lon, lat) order.
func (p Position) Point() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// MapListener receives viewport lifecycle events from the map widget.
// Viewports are geographic rectangles: Min is the south-west corner,
// Max the north-east corner.
type MapListener interface {
	OnMapReady(view orb.Bound)
	OnMoveEnd(view orb.Bound)
	OnZoomEnd(view orb.Bound)
}

// LocationListener receives GPS events from the location watcher.
type LocationListener interface {
	OnLocationFound(pos Position)
	OnLocationError(message string)
}

// Dispatcher fans viewport and GPS events out to registered listeners.
// The map widget and the location watcher call the event methods; components
// register and deregister symmetrically on setup and teardown.
type Dispatcher struct {
	mu           sync.Mutex
	mapListeners []MapListener
	locListeners []LocationListener
}

// NewDispatcher creates a dispatcher without listeners.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// AddMapListener registers a viewport listener.
func (d *Dispatcher) AddMapListener(l MapListener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mapListeners = append(d.mapListeners, l)
}

// RemoveMapListener deregisters a viewport listener.
func (d *Dispatcher) RemoveMapListener(l MapListener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, reg := range d.mapListeners {
		if reg == l {
			d.mapListeners = append(d.mapListeners[:i:i], d.mapListeners[i+1:]...)
			return
		}
	}
}

// AddLocationListener registers a GPS listener.
func (d *Dispatcher) AddLocationListener(l LocationListener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.locListeners = append(d.locListeners, l)
}

// RemoveLocationListener deregisters a GPS listener.
func (d *Dispatcher) RemoveLocationListener(l LocationListener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, reg := range d.locListeners {
		if reg == l {
			d.locListeners = append(d.locListeners[:i:i], d.locListeners[i+1:]...)
			return
		}
	}
}

func (d *Dispatcher) snapshotMapListeners() []MapListener {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]MapListener(nil), d.mapListeners...)
}

func (d *Dispatcher) snapshotLocListeners() []LocationListener {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]LocationListener(nil), d.locListeners...)
}

// MapReady delivers the initial-ready event.
func (d *Dispatcher) MapReady(view orb.Bound) {
	for _, l := range d.snapshotMapListeners() {
		l.OnMapReady(view)
	}
}

// MoveEnd delivers a pan-finished event.
func (d *Dispatcher) MoveEnd(view orb.Bound) {
	for _, l := range d.snapshotMapListeners() {
		l.OnMoveEnd(view)
	}
}

// ZoomEnd delivers a zoom-finished event.
func (d *Dispatcher) ZoomEnd(view orb.Bound) {
	for _, l := range d.snapshotMapListeners() {
		l.OnZoomEnd(view)
	}
}

// LocationFound delivers a GPS fix.
func (d *Dispatcher) LocationFound(pos Position) {
	for _, l := range d.snapshotLocListeners() {
		l.OnLocationFound(pos)
	}
}

// LocationError delivers a GPS failure. The watcher keeps running, so this is
// informational only.
func (d *Dispatcher) LocationError(message string) {
	for _, l := range d.snapshotLocListeners() {
		l.OnLocationError(message)
	}
}
