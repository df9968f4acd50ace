package store

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/i474232898/dailyweather/internal/weather"
)

// DefaultLocationsKey is the key the tracked names are persisted under.
const DefaultLocationsKey = "savedLocations"

// Tracked is the ordered list of tracked locations. The persisted form is the
// name sequence; the live form is a parallel sequence of LocationState. Both
// change together under mu, and the page index is clamped in the same step.
type Tracked struct {
	mu     sync.RWMutex
	states []weather.LocationState
	page   int

	// saveMu orders writes to kv; each save reads the latest names under it.
	saveMu sync.Mutex
	kv     KeyValue
	key    string
	report func(error)
}

// NewTracked creates an empty store persisting under key.
func NewTracked(kv KeyValue, key string) *Tracked {
	if key == "" {
		key = DefaultLocationsKey
	}
	return &Tracked{
		kv:  kv,
		key: key,
		report: func(err error) {
			log.Printf("ERROR: store: %v", err)
		},
	}
}

// OnError sets where swallowed persistence failures are reported.
func (t *Tracked) OnError(fn func(error)) {
	if fn != nil {
		t.report = fn
	}
}

func newState(name string) weather.LocationState {
	return weather.LocationState{ID: uuid.NewString(), Name: name}
}

// Restore replaces the list with empty entries for every persisted name and
// returns them so the caller can launch one fetch unit per entry. A load
// failure is reported and yields an empty list.
func (t *Tracked) Restore(ctx context.Context) []weather.LocationState {
	names, err := t.kv.Load(ctx, t.key)
	if err != nil {
		t.report(fmt.Errorf("restore %q: %w", t.key, err))
		names = nil
	}

	states := make([]weather.LocationState, 0, len(names))
	for _, name := range names {
		states = append(states, newState(name))
	}

	t.mu.Lock()
	t.states = states
	t.page = 0
	out := cloneAll(t.states)
	t.mu.Unlock()

	log.Printf("store: restored %d tracked locations", len(out))
	return out
}

// Add appends an empty entry and persists the names before returning, so a
// later fetch failure never loses membership. Save failures are reported, not returned.
func (t *Tracked) Add(ctx context.Context, name string) weather.LocationState {
	st := newState(name)

	t.mu.Lock()
	t.states = append(t.states, st)
	t.mu.Unlock()

	t.persist(ctx)
	return st.Clone()
}

// Remove deletes the entry at index and clamps the page index into range.
func (t *Tracked) Remove(ctx context.Context, index int) (weather.LocationState, error) {
	t.mu.Lock()
	if index < 0 || index >= len(t.states) {
		n := len(t.states)
		t.mu.Unlock()
		return weather.LocationState{}, fmt.Errorf("%w: remove %d from %d locations", weather.ErrIndexOutOfRange, index, n)
	}

	removed := t.states[index]
	t.states = append(t.states[:index:index], t.states[index+1:]...)
	if t.page >= len(t.states) {
		t.page = max(0, len(t.states)-1)
	}
	t.mu.Unlock()

	t.persist(ctx)
	return removed, nil
}

// Apply overwrites the current and hourly fields of the entry with the given
// id. It reports false when the entry is gone (removed while its fetch was in
// flight); the result is then dropped and nothing is recreated.
func (t *Tracked) Apply(id string, snap weather.Snapshot) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.states {
		if t.states[i].ID != id {
			continue
		}
		next := weather.LocationState{ID: id, Name: t.states[i].Name, Current: snap.Current, Hourly: snap.Hourly}
		t.states[i] = next.Clone()
		return true
	}
	return false
}

// SetPage moves the visible page.
func (t *Tracked) SetPage(index int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if index < 0 || index >= len(t.states) {
		return fmt.Errorf("%w: page %d of %d", weather.ErrIndexOutOfRange, index, len(t.states))
	}
	t.page = index
	return nil
}

func (t *Tracked) Page() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.page
}

func (t *Tracked) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.states)
}

// List returns deep copies of all entries in order.
func (t *Tracked) List() []weather.LocationState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return cloneAll(t.states)
}

// Get returns a copy of the entry with the given id.
func (t *Tracked) Get(id string) (weather.LocationState, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, st := range t.states {
		if st.ID == id {
			return st.Clone(), true
		}
	}
	return weather.LocationState{}, false
}

// Names returns the persisted form of the list.
func (t *Tracked) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return namesOf(t.states)
}

func (t *Tracked) persist(ctx context.Context) {
	t.saveMu.Lock()
	defer t.saveMu.Unlock()

	names := t.Names()
	if err := t.kv.Save(ctx, t.key, names); err != nil {
		t.report(fmt.Errorf("persist %d names: %w", len(names), err))
	}
}

func namesOf(states []weather.LocationState) []string {
	names := make([]string, len(states))
	for i, st := range states {
		names[i] = st.Name
	}
	return names
}

func cloneAll(states []weather.LocationState) []weather.LocationState {
	out := make([]weather.LocationState, len(states))
	for i, st := range states {
		out[i] = st.Clone()
	}
	return out
}
