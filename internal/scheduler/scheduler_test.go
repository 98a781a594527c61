package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouton0815/tile-explorer/internal/status"
)

func TestToggleTransitions(t *testing.T) {
	assert.Equal(t, StateActivities, StateInactive.Toggle())
	assert.Equal(t, StateInactive, StateActivities.Toggle())
	assert.Equal(t, StateInactive, StateTracks.Toggle())
}

func TestSchedulerToggleRequiresAuthorization(t *testing.T) {
	s := New(Config{})
	_, err := s.Toggle()
	assert.ErrorIs(t, err, ErrUnauthorized)

	s.SetAuthorized(true)
	state, err := s.Toggle()
	require.NoError(t, err)
	assert.Equal(t, StateActivities, state)
	assert.Equal(t, "Activities", s.Status().DownloadState)
}

func TestSchedulerPublishesOnToggle(t *testing.T) {
	bus := status.NewBus()
	ch := bus.Subscribe()
	defer bus.Unsubscribe(ch)

	s := New(Config{Bus: bus})
	s.SetAuthorized(true)
	<-ch // the authorization change itself is published

	_, err := s.Toggle()
	require.NoError(t, err)
	got := <-ch
	assert.Equal(t, "Activities", got.DownloadState)
	assert.True(t, got.Authorized)
}

func TestSchedulerTickAdvancesState(t *testing.T) {
	var seen []DownloadState
	s := New(Config{
		Task: func(_ context.Context, current DownloadState) (DownloadState, error) {
			seen = append(seen, current)
			switch current {
			case StateActivities:
				return StateTracks, nil
			default:
				return StateInactive, nil
			}
		},
	})
	s.SetAuthorized(true)
	_, err := s.Toggle()
	require.NoError(t, err)

	ctx := context.Background()
	s.tick(ctx)
	assert.Equal(t, "Tracks", s.Status().DownloadState)
	s.tick(ctx)
	assert.Equal(t, "Inactive", s.Status().DownloadState)
	s.tick(ctx) // inactive: task not called again
	assert.Equal(t, []DownloadState{StateActivities, StateTracks}, seen)
}

func TestSchedulerTaskFailureDeactivates(t *testing.T) {
	s := New(Config{
		Task: func(context.Context, DownloadState) (DownloadState, error) {
			return StateActivities, errors.New("rate limited")
		},
	})
	s.SetAuthorized(true)
	_, err := s.Toggle()
	require.NoError(t, err)

	s.tick(context.Background())
	assert.Equal(t, "Inactive", s.Status().DownloadState)
}

func TestSchedulerMergeStats(t *testing.T) {
	s := New(Config{})
	ts := "2024-01-01T10:00:00Z"
	s.MergeStats(status.ActivityStats{ActCount: 2, ActMinTime: &ts, ActMaxTime: &ts})
	s.MergeStats(status.ActivityStats{ActCount: 1, TrkCount: 1, TrkMaxTime: &ts})

	stats := s.Status().ActivityStats
	assert.Equal(t, 3, stats.ActCount)
	assert.Equal(t, 1, stats.TrkCount)
	assert.Equal(t, ts, *stats.TrkMaxTime)
}
