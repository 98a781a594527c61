package tilemap

import (
	"log/slog"
)

// ExplorerConfig configures an Explorer.
type ExplorerConfig struct {
	Client           TileLister
	ZoomLevels       []int
	Colors           []string
	BoundsInset      int
	MinTrackDistance float64
	OnUpdate         func() // fired after any fetched or candidate change
	Logger           *slog.Logger
}

// Explorer bundles the fetch coordinator, the candidate detector and the
// position tracker behind the listener interfaces of a map widget. It owns
// the event wiring: construction registers the components with the
// dispatcher, Close deregisters them again and stops in-flight fetches.
type Explorer struct {
	Dispatcher *Dispatcher

	cfg      ExplorerConfig
	fetcher  *Fetcher
	detector *Detector
	tracker  *PositionTracker
}

// NewExplorer wires the tile exploration components together.
func NewExplorer(cfg ExplorerConfig) *Explorer {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	notify := func() {
		if cfg.OnUpdate != nil {
			cfg.OnUpdate()
		}
	}

	detector := NewDetector(DetectorConfig{
		ZoomLevels: cfg.ZoomLevels,
		OnUpdate:   func(*TileStore) { notify() },
		Logger:     log,
	})

	fetcher := NewFetcher(FetcherConfig{
		Client:      cfg.Client,
		ZoomLevels:  cfg.ZoomLevels,
		BoundsInset: cfg.BoundsInset,
		Logger:      log,
		OnUpdate: func(s Snapshot) {
			// The detector keeps its argument, so it gets its own copy.
			detector.StoreUpdated(s.Fetched.ShallowCopy())
			notify()
		},
	})

	tracker := NewPositionTracker(cfg.MinTrackDistance)

	e := &Explorer{
		Dispatcher: NewDispatcher(),
		cfg:        cfg,
		fetcher:    fetcher,
		detector:   detector,
		tracker:    tracker,
	}
	e.Dispatcher.AddMapListener(fetcher)
	e.Dispatcher.AddLocationListener(detector)
	e.Dispatcher.AddLocationListener(tracker)
	return e
}

// Layers returns the current render layers, one per configured zoom level.
func (e *Explorer) Layers() []Layer {
	return Layers(e.fetcher.Snapshot().Fetched, e.detector.Candidates(), e.cfg.ZoomLevels, e.cfg.Colors)
}

// Fetcher exposes the fetch coordinator, e.g. for snapshot access.
func (e *Explorer) Fetcher() *Fetcher { return e.fetcher }

// Detector exposes the candidate detector.
func (e *Explorer) Detector() *Detector { return e.detector }

// Tracker exposes the position tracker.
func (e *Explorer) Tracker() *PositionTracker { return e.tracker }

// Close deregisters all listeners and cancels in-flight fetches.
func (e *Explorer) Close() {
	e.Dispatcher.RemoveMapListener(e.fetcher)
	e.Dispatcher.RemoveLocationListener(e.detector)
	e.Dispatcher.RemoveLocationListener(e.tracker)
	e.fetcher.Close()
}
