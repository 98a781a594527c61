// Package server exposes the tile listing and status dashboard HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/mouton0815/tile-explorer/internal/scheduler"
	"github.com/mouton0815/tile-explorer/internal/status"
	"github.com/mouton0815/tile-explorer/internal/tile"
)

// TileSource lists stored tiles per zoom level, optionally restricted to a
// bounding box. Implemented by store.TileTable.
type TileSource interface {
	Select(ctx context.Context, zoom int, bounds *tile.Bounds) ([]tile.Coord, error)
	Zooms() []int
}

// Config holds the server configuration.
type Config struct {
	Host         string
	Port         int
	ConsoleDir   string // built console front end, optional
	TilemapDir   string // built tilemap front end, optional
	AuthorizeURL string // external authorization endpoint, optional
	Logger       *slog.Logger
}

// Server is the tile-explorer HTTP server.
type Server struct {
	config    Config
	mux       *http.ServeMux
	humaAPI   huma.API
	tiles     TileSource
	scheduler *scheduler.Scheduler
	bus       *status.Bus
	log       *slog.Logger
}

// New creates the server and registers all routes.
func New(cfg Config, tiles TileSource, sched *scheduler.Scheduler, bus *status.Bus) *Server {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	mux := http.NewServeMux()

	humaConfig := huma.DefaultConfig("tile-explorer API", "1.0.0")
	humaConfig.Info.Description = "Tile exploration API serving visited map tiles and the download status dashboard."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://%s:%d", cfg.Host, cfg.Port), Description: "Local server"},
	}
	humaConfig.CreateHooks = []func(huma.Config) huma.Config{}

	humaAPI := humago.New(mux, humaConfig)

	s := &Server{
		config:    cfg,
		mux:       mux,
		humaAPI:   humaAPI,
		tiles:     tiles,
		scheduler: sched,
		bus:       bus,
		log:       log,
	}
	s.routes()
	return s
}

// API returns the Huma API, used by tests to register against a test adapter.
func (s *Server) API() huma.API {
	return s.humaAPI
}

// OpenAPI returns the OpenAPI description of the REST routes.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.Register(s.humaAPI)

	// Front ends and the authorization redirect stay outside the OpenAPI
	// surface, so they go on the plain mux.
	s.mux.HandleFunc("/authorize", s.handleAuthorize)
	if s.config.ConsoleDir != "" {
		s.mux.Handle("/console/", http.StripPrefix("/console/", http.FileServer(http.Dir(s.config.ConsoleDir))))
	}
	if s.config.TilemapDir != "" {
		s.mux.Handle("/tilemap/", http.StripPrefix("/tilemap/", http.FileServer(http.Dir(s.config.TilemapDir))))
	}
	s.mux.HandleFunc("/", s.handleRoot)
}

// Register registers the REST routes on the given API.
func (s *Server) Register(api huma.API) {
	huma.Get(api, "/health", s.GetHealth, huma.OperationTags("health"))
	huma.Get(api, "/tiles/{zoom}", s.GetTiles, huma.OperationTags("tiles"))
	huma.Get(api, "/status", s.GetStatus, huma.OperationTags("status"))
	huma.Get(api, "/status/events", s.StatusEvents, huma.OperationTags("status"))
	huma.Get(api, "/toggle", s.Toggle, huma.OperationTags("status"))
}

// Types

type HealthBody struct {
	Status  string `json:"status" doc:"Health status" example:"ok"`
	Version string `json:"version" doc:"API version" example:"1.0.0"`
}

type TilesInput struct {
	Zoom   int    `path:"zoom" doc:"Slippy-map zoom level" example:"14"`
	Bounds string `query:"bounds" doc:"Tile bounding box as minX,minY,maxX,maxY" example:"8710,5480,8730,5500"`
}

// TilePair is a tile coordinate serialized as a two-element [x, y] array.
type TilePair [2]int

type TilesOutput struct {
	Body []TilePair
}

type StatusOutput struct {
	Body status.ServerStatus
}

// Handlers

func (s *Server) GetHealth(ctx context.Context, input *struct{}) (*struct{ Body HealthBody }, error) {
	return &struct{ Body HealthBody }{Body: HealthBody{Status: "ok", Version: "1.0.0"}}, nil
}

func (s *Server) GetTiles(ctx context.Context, input *TilesInput) (*TilesOutput, error) {
	if !s.zoomConfigured(input.Zoom) {
		return nil, huma.Error400BadRequest(fmt.Sprintf("zoom level %d not configured", input.Zoom))
	}
	bounds, err := parseBounds(input.Zoom, input.Bounds)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	coords, err := s.tiles.Select(ctx, input.Zoom, bounds)
	if err != nil {
		s.log.Error("tile selection failed", "zoom", input.Zoom, "error", err)
		return nil, huma.Error500InternalServerError("tile selection failed")
	}
	pairs := make([]TilePair, len(coords))
	for i, c := range coords {
		pairs[i] = TilePair{c.X, c.Y}
	}
	return &TilesOutput{Body: pairs}, nil
}

func (s *Server) GetStatus(ctx context.Context, input *struct{}) (*StatusOutput, error) {
	return &StatusOutput{Body: s.scheduler.Status()}, nil
}

func (s *Server) Toggle(ctx context.Context, input *struct{}) (*StatusOutput, error) {
	if _, err := s.scheduler.Toggle(); err != nil {
		if errors.Is(err, scheduler.ErrUnauthorized) {
			return nil, huma.Error401Unauthorized("not authorized")
		}
		return nil, huma.Error500InternalServerError(err.Error())
	}
	return &StatusOutput{Body: s.scheduler.Status()}, nil
}

// StatusEvents streams status changes to the console dashboard via SSE.
// The current status is sent right away, then every bus update follows.
func (s *Server) StatusEvents(ctx context.Context, input *struct{}) (*huma.StreamResponse, error) {
	return &huma.StreamResponse{
		Body: func(humaCtx huma.Context) {
			r, w := humago.Unwrap(humaCtx)
			sse := datastar.NewSSE(w, r)

			ch := s.bus.Subscribe()
			defer s.bus.Unsubscribe(ch)

			if err := sse.MarshalAndPatchSignals(s.scheduler.Status()); err != nil {
				return
			}
			for {
				select {
				case <-r.Context().Done():
					return
				case st, ok := <-ch:
					if !ok {
						return
					}
					if err := sse.MarshalAndPatchSignals(st); err != nil {
						return
					}
				}
			}
		},
	}, nil
}

func (s *Server) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	if s.config.AuthorizeURL != "" {
		http.Redirect(w, r, s.config.AuthorizeURL, http.StatusFound)
		return
	}
	// No external authorization endpoint configured, grant locally.
	s.scheduler.SetAuthorized(true)
	http.Redirect(w, r, "/console/", http.StatusFound)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.config.ConsoleDir != "" {
		http.Redirect(w, r, "/console/", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/docs", http.StatusFound)
}

func (s *Server) zoomConfigured(zoom int) bool {
	for _, z := range s.tiles.Zooms() {
		if z == zoom {
			return true
		}
	}
	return false
}

// parseBounds parses "minX,minY,maxX,maxY". An empty value means unbounded.
func parseBounds(zoom int, value string) (*tile.Bounds, error) {
	if value == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("bounds must have four components, got %d", len(parts))
	}
	nums := make([]int, 4)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid bounds component %q", p)
		}
		nums[i] = n
	}
	b := &tile.Bounds{Zoom: zoom, MinX: nums[0], MinY: nums[1], MaxX: nums[2], MaxY: nums[3]}
	if b.MinX > b.MaxX || b.MinY > b.MaxY {
		return nil, fmt.Errorf("bounds minimum exceeds maximum")
	}
	return b, nil
}
