package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mouton0815/tile-explorer/internal/config"
	"github.com/mouton0815/tile-explorer/internal/db"
	"github.com/mouton0815/tile-explorer/internal/scheduler"
	"github.com/mouton0815/tile-explorer/internal/server"
	"github.com/mouton0815/tile-explorer/internal/status"
	"github.com/mouton0815/tile-explorer/internal/store"
)

// Options defines all CLI flags and env vars for the tile-explorer server.
// Flags: --host, --port, --config, --data-dir, --log-level
// Env vars: SERVICE_HOST, SERVICE_PORT, SERVICE_CONFIG, SERVICE_DATA_DIR, SERVICE_LOG_LEVEL
type Options struct {
	Host     string `doc:"Host to bind to" default:""`
	Port     int    `doc:"Port to listen on" short:"p" default:"0"`
	Config   string `doc:"Path to YAML configuration file" short:"c" default:""`
	DataDir  string `doc:"Directory for the tile database" default:""`
	LogLevel string `doc:"Log level (debug, info, warn, error)" default:"info"`
}

func loadConfig(opts *Options) (config.Config, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return cfg, err
	}
	// Flags override the file.
	if opts.Host != "" {
		cfg.Server.Host = opts.Host
	}
	if opts.Port != 0 {
		cfg.Server.Port = opts.Port
	}
	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}
	return cfg, cfg.Validate()
}

func setupLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(log)
	return log
}

func newServer(cfg config.Config, tiles server.TileSource, sched *scheduler.Scheduler, bus *status.Bus, log *slog.Logger) *server.Server {
	return server.New(server.Config{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ConsoleDir:   cfg.Server.ConsoleDir,
		TilemapDir:   cfg.Server.TilemapDir,
		AuthorizeURL: cfg.Auth.AuthorizeURL,
		Logger:       log,
	}, tiles, sched, bus)
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		log := setupLogger(opts.LogLevel)

		cfg, err := loadConfig(opts)
		if err != nil {
			log.Error("invalid configuration", "error", err)
			os.Exit(1)
		}

		conn, err := db.Open(db.Config{DataDir: cfg.DataDir, DBName: "tiles"})
		if err != nil {
			log.Error("cannot open database", "error", err)
			os.Exit(1)
		}

		tiles := store.NewTileTable(conn, cfg.Tiles.ZoomLevels)
		if err := tiles.CreateTables(context.Background()); err != nil {
			log.Error("cannot create tile tables", "error", err)
			os.Exit(1)
		}

		bus := status.NewBus()
		sched := scheduler.New(scheduler.Config{
			Interval: time.Duration(cfg.Scheduler.IntervalSeconds) * time.Second,
			Bus:      bus,
			Logger:   log,
		})

		srv := newServer(cfg, tiles, sched, bus, log)
		httpServer := &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: srv,
		}

		schedCtx, stopScheduler := context.WithCancel(context.Background())

		hooks.OnStart(func() {
			if cfg.Scheduler.Enabled {
				go sched.Run(schedCtx)
			}

			displayHost := cfg.Server.Host
			if displayHost == "0.0.0.0" || displayHost == "" {
				displayHost = "localhost"
			}
			log.Info("tile-explorer server starting",
				"url", fmt.Sprintf("http://%s:%d", displayHost, cfg.Server.Port),
				"zoomLevels", cfg.Tiles.ZoomLevels,
				"dataDir", cfg.DataDir)

			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("server error", "error", err)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			stopScheduler()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(ctx); err != nil {
				log.Warn("server shutdown failed", "error", err)
			}
			if err := conn.Close(); err != nil {
				log.Warn("database close failed", "error", err)
			}
		})
	})

	cli.Root().Use = "explorer"
	cli.Root().Short = "Tile exploration server for visited map tiles"
	cli.Root().Version = "0.1.0"

	// spec subcommand: export OpenAPI spec
	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Export OpenAPI spec (JSON by default, --yaml for YAML)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			log := setupLogger(opts.LogLevel)
			cfg, err := loadConfig(opts)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
				os.Exit(1)
			}

			bus := status.NewBus()
			sched := scheduler.New(scheduler.Config{Bus: bus, Logger: log})
			tiles := store.NewTileTable(nil, cfg.Tiles.ZoomLevels)
			srv := newServer(cfg, tiles, sched, bus, log)

			useYAML, _ := cmd.Flags().GetBool("yaml")

			var output []byte
			if useYAML {
				output, err = yaml.Marshal(srv.OpenAPI())
			} else {
				output, err = json.MarshalIndent(srv.OpenAPI(), "", "  ")
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error marshaling spec: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(output))
		}),
	}
	specCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	cli.Root().AddCommand(specCmd)

	cli.Run()
}
