package broadcastsvc

import (
	"sync"

	"github.com/progress-uz/backend/core"
)

// Delivery is one published event as observed by a subscriber.
type Delivery struct {
	Room    string // empty for broadcasts
	Event   string
	Payload interface{}
}

// MemoryBroadcaster is an in-process core.Broadcaster. It fans published
// events out to channel subscribers; the production transport (a socket
// gateway in front of the API) plugs in behind the same interface.
type MemoryBroadcaster struct {
	mu   sync.RWMutex
	subs map[chan Delivery]string // subscriber -> room filter ("" = all)
}

var _ core.Broadcaster = (*MemoryBroadcaster)(nil)

func NewMemoryBroadcaster() *MemoryBroadcaster {
	return &MemoryBroadcaster{subs: make(map[chan Delivery]string)}
}

// Subscribe registers a buffered channel receiving events for room, or every
// event when room is empty. The returned cancel func must be called when done.
func (b *MemoryBroadcaster) Subscribe(room string) (<-chan Delivery, func()) {
	ch := make(chan Delivery, 16)
	b.mu.Lock()
	b.subs[ch] = room
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

func (b *MemoryBroadcaster) Publish(event string, payload interface{}) {
	b.deliver(Delivery{Event: event, Payload: payload}, "")
}

func (b *MemoryBroadcaster) PublishTo(room, event string, payload interface{}) {
	b.deliver(Delivery{Room: room, Event: event, Payload: payload}, room)
}

func (b *MemoryBroadcaster) deliver(d Delivery, room string) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch, filter := range b.subs {
		if filter != "" && filter != room {
			continue
		}
		select {
		case ch <- d:
		default: // slow subscriber; drop rather than block publishers
		}
	}
}
