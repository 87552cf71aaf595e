package session

import (
	"sync"

	"github.com/pkordes/numberfinder/backend/internal/domain"
)

// EventKind names a session change notification.
type EventKind string

const (
	EventProgress EventKind = "progress"
	EventSearch   EventKind = "search"
)

// Event is one change notification. Exactly one payload field is set,
// matching Kind.
type Event struct {
	Kind     EventKind
	Progress *domain.UploadProgress
	Search   *SearchSummary
}

// DefaultBuffer is the per-subscriber channel size used by NewBroker when
// given a non-positive size.
const DefaultBuffer = 32

// Broker fans events out to any number of subscribers.
// Publish never blocks: a subscriber whose buffer is full misses the event.
type Broker struct {
	mu     sync.Mutex
	subs   map[uint64]chan Event
	next   uint64
	buffer int
}

// NewBroker returns a Broker whose subscriber channels hold buffer events.
func NewBroker(buffer int) *Broker {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Broker{subs: make(map[uint64]chan Event), buffer: buffer}
}

// Subscribe registers a new subscriber. The returned cancel func unregisters
// it and closes the channel; calling it more than once is safe.
func (b *Broker) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, b.buffer)
	b.subs[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
}

// Publish delivers ev to every subscriber with room for it.
func (b *Broker) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// PublishProgress wraps p in an EventProgress. It has the shape of
// service.ProgressObserver so a pipeline can report straight into the broker.
func (b *Broker) PublishProgress(p domain.UploadProgress) {
	b.Publish(Event{Kind: EventProgress, Progress: &p})
}

// Subscribers returns the number of active subscribers.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
