// Package search runs the address search flow: debounced completion queries,
// candidate selection with a weather preview, and confirmation.
package search

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/dailyweather/internal/weather"
)

// DefaultDebounce is used when Config.Debounce is zero.
const DefaultDebounce = 300 * time.Millisecond

// Preview is the ephemeral location shown for a selected candidate.
type Preview struct {
	Place weather.Place         `json:"place"`
	State weather.LocationState `json:"state"`
}

// AddFunc adds a confirmed place to the tracked list.
type AddFunc func(ctx context.Context, place weather.Place) weather.LocationState

type Config struct {
	Completer weather.Completer
	Service   *weather.Service
	Add       AddFunc
	Debounce  time.Duration

	// OnCandidates is called after the candidate list is replaced.
	OnCandidates func([]weather.Candidate)
	// OnPreview is called after a preview is set or cleared.
	OnPreview func(*Preview)
	// OnError receives completion and preview failures.
	OnError func(error)
}

// Session holds the state of one search UI. All methods are safe for
// concurrent use.
type Session struct {
	cfg Config

	mu         sync.Mutex
	queryGen   uint64
	cancel     context.CancelFunc
	timer      *time.Timer
	query      string
	candidates []weather.Candidate

	selectGen uint64
	preview   *Preview
}

func NewSession(cfg Config) *Session {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.OnCandidates == nil {
		cfg.OnCandidates = func([]weather.Candidate) {}
	}
	if cfg.OnPreview == nil {
		cfg.OnPreview = func(*Preview) {}
	}
	if cfg.OnError == nil {
		cfg.OnError = func(err error) { log.Printf("ERROR: search: %v", err) }
	}
	return &Session{cfg: cfg}
}

// Query schedules a completion request for fragment after the debounce
// delay. Any pending or in-flight request for an older fragment is
// cancelled, and its results are never applied.
func (s *Session) Query(fragment string) {
	fragment = strings.TrimSpace(fragment)

	s.mu.Lock()
	s.queryGen++
	gen := s.queryGen
	s.stopPendingLocked()
	s.query = fragment

	if fragment == "" {
		s.candidates = nil
		s.mu.Unlock()
		s.cfg.OnCandidates(nil)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.timer = time.AfterFunc(s.cfg.Debounce, func() {
		s.complete(ctx, gen, fragment)
	})
	s.mu.Unlock()
}

func (s *Session) stopPendingLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Session) complete(ctx context.Context, gen uint64, fragment string) {
	if s.cfg.Completer == nil {
		s.cfg.OnError(errors.New("no address completer configured"))
		return
	}

	results, err := s.cfg.Completer.Complete(ctx, fragment)

	s.mu.Lock()
	if gen != s.queryGen {
		s.mu.Unlock()
		log.Printf("DEBUG: search: dropping results for superseded query %q", fragment)
		return
	}
	if err != nil {
		s.mu.Unlock()
		if !errors.Is(err, context.Canceled) {
			s.cfg.OnError(fmt.Errorf("complete %q: %w", fragment, err))
		}
		return
	}
	s.candidates = append([]weather.Candidate(nil), results...)
	out := append([]weather.Candidate(nil), s.candidates...)
	s.mu.Unlock()

	s.cfg.OnCandidates(out)
}

// Candidates returns the last applied candidate list.
func (s *Session) Candidates() []weather.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]weather.Candidate(nil), s.candidates...)
}

// LastQuery returns the most recently issued fragment.
func (s *Session) LastQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Select resolves a candidate handle and fetches a preview for it. A
// preview fetch failure still yields a preview with empty slots. If a newer
// Select finished first, ErrStaleResult is returned and the newer preview
// is kept.
func (s *Session) Select(ctx context.Context, handle string) (Preview, error) {
	s.mu.Lock()
	s.selectGen++
	gen := s.selectGen
	s.mu.Unlock()

	if s.cfg.Completer == nil {
		return Preview{}, errors.New("no address completer configured")
	}
	place, err := s.cfg.Completer.Resolve(ctx, handle)
	if err != nil {
		s.cfg.OnError(fmt.Errorf("resolve candidate %q: %w", handle, err))
		return Preview{}, err
	}

	p := Preview{
		Place: place,
		State: weather.LocationState{ID: uuid.NewString(), Name: place.Name},
	}

	if s.cfg.Service != nil {
		snap, err := s.cfg.Service.Fetch(ctx, place.Name, place.Coordinate)
		if err != nil {
			s.cfg.OnError(fmt.Errorf("preview %q: %w", place.Name, err))
		} else {
			p.State.Current = snap.Current
			p.State.Hourly = snap.Hourly
		}
	}

	s.mu.Lock()
	if gen != s.selectGen {
		s.mu.Unlock()
		return Preview{}, fmt.Errorf("%w: preview %q superseded", weather.ErrStaleResult, place.Name)
	}
	s.preview = &p
	out := p
	s.mu.Unlock()

	s.cfg.OnPreview(&out)
	return p, nil
}

// Preview returns the current preview, if any.
func (s *Session) Preview() (Preview, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.preview == nil {
		return Preview{}, false
	}
	return *s.preview, true
}

// Dismiss drops the current preview without adding it.
func (s *Session) Dismiss() {
	s.mu.Lock()
	s.selectGen++
	had := s.preview != nil
	s.preview = nil
	s.mu.Unlock()

	if had {
		s.cfg.OnPreview(nil)
	}
}

// Confirm adds the previewed place and clears the preview.
func (s *Session) Confirm(ctx context.Context) (weather.LocationState, error) {
	s.mu.Lock()
	p := s.preview
	s.preview = nil
	s.selectGen++
	s.mu.Unlock()

	if p == nil {
		return weather.LocationState{}, weather.ErrNoPreview
	}
	s.cfg.OnPreview(nil)

	if s.cfg.Add == nil {
		return weather.LocationState{}, errors.New("no add handler configured")
	}
	return s.cfg.Add(ctx, p.Place), nil
}

// Close cancels any pending query.
func (s *Session) Close() {
	s.mu.Lock()
	s.queryGen++
	s.stopPendingLocked()
	s.mu.Unlock()
}
