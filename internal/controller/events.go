package controller

import (
	"log"
	"sync"
)

// EventKind names a change the controller publishes.
type EventKind string

const (
	EventCurrentUpdated    EventKind = "current_updated"
	EventLocationAdded     EventKind = "location_added"
	EventLocationUpdated   EventKind = "location_updated"
	EventLocationRemoved   EventKind = "location_removed"
	EventPageChanged       EventKind = "page_changed"
	EventPreviewUpdated    EventKind = "preview_updated"
	EventCandidatesUpdated EventKind = "candidates_updated"
	EventNavigate          EventKind = "navigate"
	EventOpenURL           EventKind = "open_url"
	EventDiagnostic        EventKind = "diagnostic"
)

type Event struct {
	Kind       EventKind `json:"kind"`
	LocationID string    `json:"locationId,omitempty"`
	Name       string    `json:"name,omitempty"`
	Detail     string    `json:"detail,omitempty"`
}

const subscriberBuffer = 32

// broker fans events out to subscribers. A subscriber whose buffer is full
// misses the event.
type broker struct {
	mu   sync.Mutex
	next int
	subs map[int]chan Event
}

func newBroker() *broker {
	return &broker{subs: make(map[int]chan Event)}
}

func (b *broker) subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

func (b *broker) publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			log.Printf("DEBUG: controller: subscriber %d dropped %s event", id, e.Kind)
		}
	}
}
