// Package store persists visited tiles in DuckDB, one table per zoom level.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mouton0815/tile-explorer/internal/tile"
)

// TileTable reads and writes the per-zoom maptile tables. A table maptile14
// holds all visited tiles of zoom level 14 with their activity counts.
type TileTable struct {
	db    *sql.DB
	zooms []int
}

// NewTileTable creates a TileTable for the configured zoom levels.
func NewTileTable(db *sql.DB, zooms []int) *TileTable {
	return &TileTable{db: db, zooms: append([]int(nil), zooms...)}
}

// Zooms returns the zoom levels this table set serves.
func (t *TileTable) Zooms() []int {
	return append([]int(nil), t.zooms...)
}

func (t *TileTable) table(zoom int) (string, error) {
	for _, z := range t.zooms {
		if z == zoom {
			return fmt.Sprintf("maptile%d", zoom), nil
		}
	}
	return "", fmt.Errorf("store: zoom level %d not configured", zoom)
}

// CreateTables creates the maptile table for every configured zoom level.
func (t *TileTable) CreateTables(ctx context.Context) error {
	for _, zoom := range t.zooms {
		stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS maptile%d (
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			activity_count INTEGER NOT NULL,
			PRIMARY KEY (x, y)
		)`, zoom)
		if _, err := t.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating maptile%d: %w", zoom, err)
		}
	}
	return nil
}

// Upsert inserts a tile or increments its activity count when it exists.
func (t *TileTable) Upsert(ctx context.Context, zoom int, coord tile.Coord) error {
	table, err := t.table(zoom)
	if err != nil {
		return err
	}
	stmt := fmt.Sprintf(`INSERT INTO %s (x, y, activity_count) VALUES (?, ?, 1)
		ON CONFLICT (x, y) DO UPDATE SET activity_count = activity_count + 1`, table)
	if _, err := t.db.ExecContext(ctx, stmt, coord.X, coord.Y); err != nil {
		return fmt.Errorf("upserting tile %v into %s: %w", coord, table, err)
	}
	return nil
}

// UpsertAll upserts a batch of tiles in one transaction.
func (t *TileTable) UpsertAll(ctx context.Context, zoom int, coords []tile.Coord) error {
	table, err := t.table(zoom)
	if err != nil {
		return err
	}
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt := fmt.Sprintf(`INSERT INTO %s (x, y, activity_count) VALUES (?, ?, 1)
		ON CONFLICT (x, y) DO UPDATE SET activity_count = activity_count + 1`, table)
	for _, c := range coords {
		if _, err := tx.ExecContext(ctx, stmt, c.X, c.Y); err != nil {
			return fmt.Errorf("upserting tile %v into %s: %w", c, table, err)
		}
	}
	return tx.Commit()
}

// Select returns all tiles of the zoom level, or only those inside bounds
// when bounds is non-nil. Tiles are ordered by x, then y.
func (t *TileTable) Select(ctx context.Context, zoom int, bounds *tile.Bounds) ([]tile.Coord, error) {
	table, err := t.table(zoom)
	if err != nil {
		return nil, err
	}

	var rows *sql.Rows
	if bounds != nil {
		stmt := fmt.Sprintf(`SELECT x, y FROM %s
			WHERE x BETWEEN ? AND ? AND y BETWEEN ? AND ?
			ORDER BY x, y`, table)
		rows, err = t.db.QueryContext(ctx, stmt, bounds.MinX, bounds.MaxX, bounds.MinY, bounds.MaxY)
	} else {
		stmt := fmt.Sprintf("SELECT x, y FROM %s ORDER BY x, y", table)
		rows, err = t.db.QueryContext(ctx, stmt)
	}
	if err != nil {
		return nil, fmt.Errorf("selecting tiles from %s: %w", table, err)
	}
	defer rows.Close()

	coords := []tile.Coord{}
	for rows.Next() {
		var c tile.Coord
		if err := rows.Scan(&c.X, &c.Y); err != nil {
			return nil, fmt.Errorf("scanning tile row: %w", err)
		}
		coords = append(coords, c)
	}
	return coords, rows.Err()
}

// Count returns the number of stored tiles for the zoom level.
func (t *TileTable) Count(ctx context.Context, zoom int) (int, error) {
	table, err := t.table(zoom)
	if err != nil {
		return 0, err
	}
	var n int
	if err := t.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting tiles in %s: %w", table, err)
	}
	return n, nil
}

// DeleteAll removes all tiles of all configured zoom levels.
func (t *TileTable) DeleteAll(ctx context.Context) error {
	for _, zoom := range t.zooms {
		table, _ := t.table(zoom)
		if _, err := t.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}
