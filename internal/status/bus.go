package status

import "sync"

// Bus is a simple fan-out pub/sub for server status updates, feeding the SSE
// stream of the dashboards. The scheduler is the only publisher; each SSE
// connection subscribes for its lifetime.
type Bus struct {
	mu   sync.RWMutex
	subs map[chan ServerStatus]struct{}
}

// NewBus creates a new status bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[chan ServerStatus]struct{})}
}

// Publish sends a status to all subscribers (non-blocking).
func (b *Bus) Publish(s ServerStatus) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- s:
		default:
			// subscriber too slow, skip
		}
	}
}

// Subscribe returns a buffered channel that receives status updates.
func (b *Bus) Subscribe() chan ServerStatus {
	ch := make(chan ServerStatus, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Bus) Unsubscribe(ch chan ServerStatus) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
	close(ch)
}
