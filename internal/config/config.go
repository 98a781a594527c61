// Package config loads the tile-explorer YAML configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	ConsoleDir string `yaml:"consoleDir"` // built console front end, served under /console
	TilemapDir string `yaml:"tilemapDir"` // built tilemap front end, served under /tilemap
}

// TilesConfig holds the tile grid settings shared by client and server.
type TilesConfig struct {
	// ZoomLevels are the slippy-map zoom levels tracked by the tile cache
	// and persisted by the server. The tile algorithms work with any zoom
	// level, but the database is restricted to this list.
	ZoomLevels []int `yaml:"zoomLevels"`
	// Colors are the display colors per zoom level, in zoom list order.
	Colors []string `yaml:"colors"`
	// BaseURL is the tile listing endpoint used by the fetch coordinator.
	BaseURL string `yaml:"baseUrl"`
	// BoundsInset shrinks fetch request bounds by this many grid cells per edge.
	BoundsInset int `yaml:"boundsInset"`
}

// SchedulerConfig holds the download scheduler settings.
type SchedulerConfig struct {
	Enabled         bool `yaml:"enabled"`
	IntervalSeconds int  `yaml:"intervalSeconds"`
}

// AuthConfig holds the authorization boundary settings.
type AuthConfig struct {
	// AuthorizeURL is the external authorization endpoint /authorize
	// redirects to. Authorization itself happens outside this server.
	AuthorizeURL string `yaml:"authorizeUrl"`
}

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Tiles     TilesConfig     `yaml:"tiles"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Auth      AuthConfig      `yaml:"auth"`
	DataDir   string          `yaml:"dataDir"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 2525,
		},
		Tiles: TilesConfig{
			ZoomLevels:  []int{14, 17},
			Colors:      []string{"blue", "green"},
			BaseURL:     "http://localhost:2525/tiles",
			BoundsInset: 2,
		},
		Scheduler: SchedulerConfig{
			Enabled:         true,
			IntervalSeconds: 10,
		},
		DataDir: ".data",
	}
}

// Load reads the YAML file at path on top of the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks invariants that would otherwise surface as runtime defects.
func (c *Config) Validate() error {
	if len(c.Tiles.ZoomLevels) == 0 {
		return fmt.Errorf("config: tiles.zoomLevels must not be empty")
	}
	seen := make(map[int]struct{}, len(c.Tiles.ZoomLevels))
	for _, z := range c.Tiles.ZoomLevels {
		if z < 0 || z > 22 {
			return fmt.Errorf("config: zoom level %d out of range 0..22", z)
		}
		if _, dup := seen[z]; dup {
			return fmt.Errorf("config: duplicate zoom level %d", z)
		}
		seen[z] = struct{}{}
	}
	if c.Tiles.BoundsInset < 0 {
		return fmt.Errorf("config: tiles.boundsInset must not be negative")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server port %d", c.Server.Port)
	}
	if c.Scheduler.IntervalSeconds <= 0 {
		return fmt.Errorf("config: scheduler.intervalSeconds must be positive")
	}
	return nil
}
