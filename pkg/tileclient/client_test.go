package tileclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouton0815/tile-explorer/internal/tile"
)

var testBounds = tile.Bounds{Zoom: 14, MinX: 100, MinY: 200, MaxX: 110, MaxY: 210}

func TestListTiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tiles/14", r.URL.Path)
		assert.Equal(t, "100,200,110,210", r.URL.Query().Get("bounds"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[[100,200],[100,201],[101,200]]`))
	}))
	defer srv.Close()

	c := New(srv.URL + "/tiles")
	coords, err := c.ListTiles(context.Background(), 14, testBounds)
	require.NoError(t, err)
	assert.Equal(t, []tile.Coord{{X: 100, Y: 200}, {X: 100, Y: 201}, {X: 101, Y: 200}}, coords)
}

func TestListTilesEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	coords, err := New(srv.URL).ListTiles(context.Background(), 14, testBounds)
	require.NoError(t, err)
	assert.Empty(t, coords)
}

func TestListTilesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListTiles(context.Background(), 14, testBounds)
	require.Error(t, err)
	assert.NotErrorIs(t, err, context.Canceled)
}

func TestListTilesMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListTiles(context.Background(), 14, testBounds)
	assert.Error(t, err)
}

func TestListTilesCancellation(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done() // hold the response until the client aborts
		close(blocked)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := New(srv.URL).ListTiles(ctx, 14, testBounds)
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(5 * time.Second):
		t.Fatal("request was not aborted")
	}
	<-blocked
}
