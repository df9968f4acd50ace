// Package controller owns the tracked locations, the device's own "current"
// location and the search session, and launches fetch units for them.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/i474232898/dailyweather/internal/permission"
	"github.com/i474232898/dailyweather/internal/search"
	"github.com/i474232898/dailyweather/internal/store"
	"github.com/i474232898/dailyweather/internal/ui"
	"github.com/i474232898/dailyweather/internal/weather"
)

// CurrentID identifies the device's own location in views and events.
const CurrentID = "current"

type Config struct {
	// DefaultName and DefaultCoordinate are used when the device position is
	// unavailable.
	DefaultName       string
	DefaultCoordinate weather.Coordinate
	SearchDebounce    time.Duration
}

// Deps are the collaborators a Controller needs. Geocoder and Completer may
// be nil; the related features then report failures.
type Deps struct {
	Service   *weather.Service
	Geocoder  weather.Geocoder
	Completer weather.Completer
	Store     *store.Tracked
	Templates ui.Templates
}

type Controller struct {
	cfg       Config
	service   *weather.Service
	geocoder  weather.Geocoder
	tracked   *store.Tracked
	templates ui.Templates

	device  *permission.RemoteDevice
	tracker *permission.Tracker
	search  *search.Session
	events  *broker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	closeMu sync.RWMutex
	closed  bool

	mu      sync.RWMutex
	current weather.LocationState
	lastFix *weather.Coordinate
	coords  map[string]weather.Coordinate

	// fix counts device location sources (fallback or position); results
	// and names from an older fix are dropped. nameFix is the fix the shown
	// location_name belongs to.
	fix     uint64
	nameFix uint64
}

func New(deps Deps, cfg Config) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		cfg:       cfg,
		service:   deps.Service,
		geocoder:  deps.Geocoder,
		tracked:   deps.Store,
		templates: deps.Templates,
		device:    permission.NewRemoteDevice(),
		events:    newBroker(),
		ctx:       ctx,
		cancel:    cancel,
		current:   weather.LocationState{ID: CurrentID},
		coords:    make(map[string]weather.Coordinate),
	}
	c.tracker = permission.NewTracker(c.device, c)
	c.search = search.NewSession(search.Config{
		Completer: deps.Completer,
		Service:   deps.Service,
		Debounce:  cfg.SearchDebounce,
		Add:       c.AddPlace,
		OnCandidates: func(cs []weather.Candidate) {
			c.events.publish(Event{Kind: EventCandidatesUpdated, Detail: fmt.Sprintf("%d candidates", len(cs))})
		},
		OnPreview: func(p *search.Preview) {
			e := Event{Kind: EventPreviewUpdated}
			if p != nil {
				e.LocationID, e.Name = p.State.ID, p.State.Name
			}
			c.events.publish(e)
		},
		OnError: c.report,
	})
	c.tracked.OnError(c.report)
	return c
}

// Start restores the tracked list and launches one fetch unit per entry.
func (c *Controller) Start(ctx context.Context) {
	states := c.tracked.Restore(ctx)
	for _, st := range states {
		c.launchTracked(st, nil)
	}
}

// Close cancels in-flight fetch units and waits for them. Launches after
// Close are ignored. Close may be called more than once.
func (c *Controller) Close() {
	c.closeMu.Lock()
	c.closed = true
	c.closeMu.Unlock()

	c.search.Close()
	c.cancel()
	c.wg.Wait()
}

// Wait blocks until every launched fetch unit has finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) Subscribe() (<-chan Event, func()) {
	return c.events.subscribe()
}

func (c *Controller) Search() *search.Session {
	return c.search
}

// Locations returns the tracked entries and the visible page.
func (c *Controller) Locations() ([]weather.LocationState, int) {
	return c.tracked.List(), c.tracked.Page()
}

// Current returns the device location's display state.
func (c *Controller) Current() weather.LocationState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current.Clone()
}

// Add tracks name. With a nil coord the name is forward geocoded before the
// fetch; if that fails the entry stays empty.
func (c *Controller) Add(ctx context.Context, name string, coord *weather.Coordinate) weather.LocationState {
	st := c.tracked.Add(ctx, name)
	c.events.publish(Event{Kind: EventLocationAdded, LocationID: st.ID, Name: st.Name})
	c.launchTracked(st, coord)
	return st
}

// AddPlace tracks an already resolved place.
func (c *Controller) AddPlace(ctx context.Context, p weather.Place) weather.LocationState {
	coord := p.Coordinate
	return c.Add(ctx, p.Name, &coord)
}

func (c *Controller) Remove(ctx context.Context, index int) (weather.LocationState, error) {
	st, err := c.tracked.Remove(ctx, index)
	if err != nil {
		return st, err
	}

	c.mu.Lock()
	delete(c.coords, st.ID)
	c.mu.Unlock()

	c.events.publish(Event{Kind: EventLocationRemoved, LocationID: st.ID, Name: st.Name})
	return st, nil
}

func (c *Controller) SetPage(index int) error {
	if err := c.tracked.SetPage(index); err != nil {
		return err
	}
	c.events.publish(Event{Kind: EventPageChanged, Detail: fmt.Sprint(index)})
	return nil
}

// View renders the component trees for a tracked location or CurrentID.
func (c *Controller) View(id string) (ui.View, bool) {
	if id == CurrentID {
		return c.templates.Render(c.Current()), true
	}
	st, ok := c.tracked.Get(id)
	if !ok {
		return ui.View{}, false
	}
	return c.templates.Render(st), true
}

// Refresh refetches the device location (last fix, else the default) and
// every tracked location.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.RLock()
	fix, gen := c.lastFix, c.fix
	c.mu.RUnlock()

	if fix != nil {
		c.launchCurrent(gen, *fix, "")
	} else {
		c.FetchFallback()
	}

	for _, st := range c.tracked.List() {
		c.launchTracked(st, nil)
	}
	log.Printf("controller: refresh launched for %d tracked locations", c.tracked.Len())
}

func (c *Controller) launch(fn func(ctx context.Context)) {
	c.closeMu.RLock()
	defer c.closeMu.RUnlock()
	if c.closed {
		log.Printf("DEBUG: controller: closed, fetch unit not started")
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn(c.ctx)
	}()
}

// launchTracked runs one fetch unit for a tracked entry. The result is
// applied by id; if the entry was removed meanwhile it is dropped.
func (c *Controller) launchTracked(st weather.LocationState, coord *weather.Coordinate) {
	c.launch(func(ctx context.Context) {
		at, err := c.coordinateFor(ctx, st, coord)
		if err != nil {
			c.report(fmt.Errorf("locate %q: %w", st.Name, err))
			return
		}

		snap, err := c.service.Fetch(ctx, st.Name, at)
		if err != nil {
			c.report(err)
			return
		}

		if !c.tracked.Apply(st.ID, snap) {
			log.Printf("DEBUG: controller: %v: %q (%s)", weather.ErrStaleResult, st.Name, st.ID)
			return
		}
		c.events.publish(Event{Kind: EventLocationUpdated, LocationID: st.ID, Name: st.Name})
	})
}

func (c *Controller) coordinateFor(ctx context.Context, st weather.LocationState, coord *weather.Coordinate) (weather.Coordinate, error) {
	if coord != nil {
		c.remember(st.ID, *coord)
		return *coord, nil
	}

	c.mu.RLock()
	known, ok := c.coords[st.ID]
	c.mu.RUnlock()
	if ok {
		return known, nil
	}

	if c.geocoder == nil {
		return weather.Coordinate{}, fmt.Errorf("%w: no geocoder configured", weather.ErrGeocodingFailed)
	}
	found, err := c.geocoder.Forward(ctx, st.Name)
	if err != nil {
		return weather.Coordinate{}, err
	}
	c.remember(st.ID, found)
	return found, nil
}

func (c *Controller) remember(id string, coord weather.Coordinate) {
	if _, ok := c.tracked.Get(id); !ok {
		return
	}
	c.mu.Lock()
	c.coords[id] = coord
	c.mu.Unlock()
}

// beginFix starts a new device location source and returns its number.
func (c *Controller) beginFix() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fix++
	return c.fix
}

// launchCurrent fetches weather for the device location of fix gen. An empty
// name keeps the shown location_name only when it was resolved for the same
// fix.
func (c *Controller) launchCurrent(gen uint64, coord weather.Coordinate, name string) {
	c.launch(func(ctx context.Context) {
		snap, err := c.service.Fetch(ctx, name, coord)
		if err != nil {
			c.report(err)
			return
		}

		c.mu.Lock()
		if latest := c.fix; gen != latest {
			c.mu.Unlock()
			log.Printf("DEBUG: controller: %v: device fix %d superseded by %d", weather.ErrStaleResult, gen, latest)
			return
		}
		prev := c.current.Current[weather.SlotLocationName]
		next := weather.LocationState{ID: CurrentID, Current: snap.Current, Hourly: snap.Hourly}
		if next.Current[weather.SlotLocationName] != "" {
			c.nameFix = gen
		} else if prev != "" && c.nameFix == gen {
			next.Current[weather.SlotLocationName] = prev
		}
		next.Name = next.Current[weather.SlotLocationName]
		c.current = next.Clone()
		c.mu.Unlock()

		c.events.publish(Event{Kind: EventCurrentUpdated, LocationID: CurrentID, Name: next.Name})
	})
}

func (c *Controller) setCurrentName(gen uint64, name string) {
	c.mu.Lock()
	if gen != c.fix {
		c.mu.Unlock()
		log.Printf("DEBUG: controller: %v: place name %q for device fix %d", weather.ErrStaleResult, name, gen)
		return
	}
	c.nameFix = gen
	next := c.current.Clone()
	if next.Current == nil {
		next.Current = make(map[string]string)
	}
	next.Current[weather.SlotLocationName] = name
	next.Name = name
	c.current = next
	c.mu.Unlock()

	c.events.publish(Event{Kind: EventCurrentUpdated, LocationID: CurrentID, Name: name})
}

func (c *Controller) report(err error) {
	if err == nil {
		return
	}
	log.Printf("ERROR: controller: %v", err)
	c.events.publish(Event{Kind: EventDiagnostic, Detail: err.Error()})
}

// Device returns the command side the remote client polls.
func (c *Controller) Device() permission.DeviceStatus {
	return c.device.Status()
}

// DeviceState returns the permission machine's state.
func (c *Controller) DeviceState() permission.State {
	return c.tracker.State()
}

// AuthorizationChanged feeds an authorization report from the device.
func (c *Controller) AuthorizationChanged(state permission.AuthorizationState) permission.State {
	if state != permission.Undetermined {
		c.device.AuthorizationAnswered()
	}
	if state == permission.Denied || state == permission.Restricted {
		c.report(fmt.Errorf("%w: using %s", weather.ErrPermissionDenied, c.cfg.DefaultName))
	}
	return c.tracker.Handle(permission.AuthorizationChanged{State: state})
}

// PositionReceived feeds one position update from the device.
func (c *Controller) PositionReceived(coord weather.Coordinate) permission.State {
	return c.tracker.Handle(permission.PositionReceived{Coordinate: coord})
}

// LocationFailed feeds a device location error.
func (c *Controller) LocationFailed(err error) permission.State {
	if err == nil {
		err = errors.New("location unavailable")
	}
	log.Printf("ERROR: controller: device location failed: %v", err)
	return c.tracker.Handle(permission.LocationFailed{Err: err})
}

// FetchFallback implements permission.Effects.
func (c *Controller) FetchFallback() {
	gen := c.beginFix()
	c.mu.Lock()
	c.lastFix = nil
	c.mu.Unlock()
	c.launchCurrent(gen, c.cfg.DefaultCoordinate, c.cfg.DefaultName)
}

// FetchPosition implements permission.Effects.
func (c *Controller) FetchPosition(e permission.FetchPosition) {
	coord := e.Coordinate
	gen := c.beginFix()
	c.mu.Lock()
	c.lastFix = &coord
	c.mu.Unlock()
	c.launchCurrent(gen, coord, "")
}

// ResolvePlaceName implements permission.Effects.
func (c *Controller) ResolvePlaceName(e permission.ResolvePlaceName) {
	c.mu.RLock()
	gen := c.fix
	c.mu.RUnlock()

	c.launch(func(ctx context.Context) {
		if c.geocoder == nil {
			c.report(fmt.Errorf("%w: no geocoder configured", weather.ErrGeocodingFailed))
			return
		}
		name, err := c.geocoder.Reverse(ctx, e.Coordinate)
		if err != nil {
			c.report(fmt.Errorf("reverse geocode %s: %w", e.Coordinate, err))
			return
		}
		c.setCurrentName(gen, name)
	})
}

var _ permission.Effects = (*Controller)(nil)
