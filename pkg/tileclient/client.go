// Package tileclient is the HTTP client for the tile listing endpoint.
// The endpoint returns the tiles confirmed to exist at a zoom level within
// requested tile bounds as a JSON array of [x, y] pairs.
package tileclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mouton0815/tile-explorer/internal/tile"
)

const defaultTimeout = 30 * time.Second

// Client fetches tile lists from a tile server. It implements
// tilemap.TileLister.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the given base URL, e.g. "http://localhost:2525/tiles".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// NewWithHTTPClient creates a client using a caller-supplied HTTP client.
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	c := New(baseURL)
	c.http = httpClient
	return c
}

// ListTiles requests the tiles within bounds at the given zoom level.
// Cancelling the context aborts the underlying request; the returned error
// then wraps context.Canceled.
func (c *Client) ListTiles(ctx context.Context, zoom int, bounds tile.Bounds) ([]tile.Coord, error) {
	url := fmt.Sprintf("%s/%d?bounds=%d,%d,%d,%d",
		c.baseURL, zoom, bounds.MinX, bounds.MinY, bounds.MaxX, bounds.MaxY)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building tile request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching tiles: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tile server returned %s for %s", resp.Status, url)
	}

	var pairs [][2]int
	if err := json.NewDecoder(resp.Body).Decode(&pairs); err != nil {
		return nil, fmt.Errorf("decoding tile list: %w", err)
	}

	coords := make([]tile.Coord, len(pairs))
	for i, p := range pairs {
		coords[i] = tile.Coord{X: p[0], Y: p[1]}
	}
	return coords, nil
}
