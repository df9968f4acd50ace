package permission

import (
	"log"
	"sync"
)

// DeviceService is the command side of the device location service.
type DeviceService interface {
	RequestAuthorization()
	StartUpdates()
	StopUpdates()
}

// Effects receives the fetch decisions. Implementations must not block;
// they are expected to start the work asynchronously.
type Effects interface {
	FetchFallback()
	FetchPosition(c FetchPosition)
	ResolvePlaceName(c ResolvePlaceName)
}

// Tracker serializes device events through Transition and carries out effects.
type Tracker struct {
	mu      sync.Mutex
	state   State
	device  DeviceService
	effects Effects
}

func NewTracker(device DeviceService, effects Effects) *Tracker {
	return &Tracker{device: device, effects: effects}
}

// Handle applies one event. Effects run in order while the lock is held so
// that a StopUpdates is never reordered after a later StartUpdates.
func (t *Tracker) Handle(e Event) State {
	t.mu.Lock()
	defer t.mu.Unlock()

	next, effects := Transition(t.state, e)
	if next != t.state {
		log.Printf("permission: %s/%s -> %s/%s", t.state.Authorization, t.state.Phase, next.Authorization, next.Phase)
	}
	t.state = next

	for _, eff := range effects {
		switch e := eff.(type) {
		case RequestAuthorization:
			t.device.RequestAuthorization()
		case StartUpdates:
			t.device.StartUpdates()
		case StopUpdates:
			t.device.StopUpdates()
		case FetchFallback:
			t.effects.FetchFallback()
		case FetchPosition:
			t.effects.FetchPosition(e)
		case ResolvePlaceName:
			t.effects.ResolvePlaceName(e)
		}
	}
	return next
}

// State returns the current state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}
