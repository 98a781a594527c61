package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusPublishSubscribe(t *testing.T) {
	b := NewBus()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(ServerStatus{DownloadState: "Activities"})
	got := <-ch
	assert.Equal(t, "Activities", got.DownloadState)
}

func TestBusUnsubscribeClosesChannel(t *testing.T) {
	b := NewBus()
	ch := b.Subscribe()
	b.Unsubscribe(ch)

	_, open := <-ch
	assert.False(t, open)

	b.Publish(ServerStatus{}) // must not panic on closed channel
}

func TestBusDropsWhenSubscriberSlow(t *testing.T) {
	b := NewBus()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	for i := 0; i < 100; i++ { // more than the channel buffers
		b.Publish(ServerStatus{})
	}
	require.Len(t, ch, cap(ch))
}

func TestActivityStatsMerge(t *testing.T) {
	early := "2023-01-01T00:00:00Z"
	late := "2024-06-01T00:00:00Z"

	s := ActivityStats{ActCount: 2, ActMinTime: &late, ActMaxTime: &late}
	s.Merge(ActivityStats{ActCount: 3, ActMinTime: &early, ActMaxTime: &early, TrkCount: 1, TrkMaxTime: &early})

	assert.Equal(t, 5, s.ActCount)
	assert.Equal(t, 1, s.TrkCount)
	assert.Equal(t, early, *s.ActMinTime)
	assert.Equal(t, late, *s.ActMaxTime)
	assert.Equal(t, early, *s.TrkMaxTime)
}
