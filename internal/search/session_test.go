package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/dailyweather/internal/weather"
)

type stubCompleter struct {
	mu      sync.Mutex
	delays  map[string]time.Duration
	calls   []string
	places  map[string]weather.Place
	results map[string][]weather.Candidate
}

func (c *stubCompleter) Complete(ctx context.Context, fragment string) ([]weather.Candidate, error) {
	c.mu.Lock()
	c.calls = append(c.calls, fragment)
	d := c.delays[fragment]
	res := c.results[fragment]
	c.mu.Unlock()

	select {
	case <-time.After(d):
		return res, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *stubCompleter) Resolve(_ context.Context, handle string) (weather.Place, error) {
	p, ok := c.places[handle]
	if !ok {
		return weather.Place{}, weather.ErrUnknownCandidate
	}
	return p, nil
}

func (c *stubCompleter) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

type stubProvider struct {
	err error
}

func (p stubProvider) Name() string { return "stub" }

func (p stubProvider) Fetch(context.Context, weather.Coordinate) (weather.Observation, error) {
	if p.err != nil {
		return weather.Observation{}, p.err
	}
	return weather.Observation{Current: weather.Current{Temperature: 21.6, Condition: weather.ConditionRain}}, nil
}

var busan = weather.Place{Name: "Busan", Coordinate: weather.Coordinate{Latitude: 35.1796, Longitude: 129.0756}}

func TestQueryDebouncesKeystrokes(t *testing.T) {
	c := &stubCompleter{results: map[string][]weather.Candidate{
		"Bus": {{Title: "Busan", Handle: "1"}},
	}}
	s := NewSession(Config{Completer: c, Debounce: 20 * time.Millisecond})

	s.Query("B")
	s.Query("Bu")
	s.Query("Bus")

	assert.Eventually(t, func() bool { return len(s.Candidates()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"Bus"}, c.Calls())
	assert.Equal(t, "Bus", s.LastQuery())
}

func TestQueryLatestWins(t *testing.T) {
	c := &stubCompleter{
		delays: map[string]time.Duration{"Seo": 200 * time.Millisecond},
		results: map[string][]weather.Candidate{
			"Seo":   {{Title: "Seosan", Handle: "old"}},
			"Seoul": {{Title: "Seoul", Handle: "new"}},
		},
	}
	var mu sync.Mutex
	var updates [][]weather.Candidate
	s := NewSession(Config{
		Completer: c,
		Debounce:  time.Millisecond,
		OnCandidates: func(cs []weather.Candidate) {
			mu.Lock()
			updates = append(updates, cs)
			mu.Unlock()
		},
	})

	s.Query("Seo")
	require.Eventually(t, func() bool { return len(c.Calls()) == 1 }, time.Second, time.Millisecond)
	s.Query("Seoul")

	require.Eventually(t, func() bool { return len(s.Candidates()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(250 * time.Millisecond)

	assert.Equal(t, "new", s.Candidates()[0].Handle)
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, updates, 1)
	assert.Equal(t, "Seoul", updates[0][0].Title)
}

func TestQueryBlankClears(t *testing.T) {
	c := &stubCompleter{results: map[string][]weather.Candidate{"Bus": {{Title: "Busan"}}}}
	s := NewSession(Config{Completer: c, Debounce: time.Millisecond})

	s.Query("Bus")
	require.Eventually(t, func() bool { return len(s.Candidates()) == 1 }, time.Second, time.Millisecond)

	s.Query("   ")
	assert.Empty(t, s.Candidates())
}

func TestSelectAndConfirm(t *testing.T) {
	c := &stubCompleter{places: map[string]weather.Place{"1": busan}}
	var added []weather.Place
	s := NewSession(Config{
		Completer: c,
		Service:   weather.NewService(stubProvider{}),
		Add: func(_ context.Context, p weather.Place) weather.LocationState {
			added = append(added, p)
			return weather.LocationState{ID: "x", Name: p.Name}
		},
	})

	p, err := s.Select(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Busan", p.State.Name)
	assert.NotEmpty(t, p.State.ID)
	assert.Equal(t, "22°", p.State.Current[weather.SlotTemperature])
	assert.Equal(t, "Busan", p.State.Current[weather.SlotLocationName])

	st, err := s.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Busan", st.Name)
	assert.Equal(t, []weather.Place{busan}, added)

	_, ok := s.Preview()
	assert.False(t, ok)

	_, err = s.Confirm(context.Background())
	assert.ErrorIs(t, err, weather.ErrNoPreview)
}

func TestSelectPreviewFetchFailureKeepsEmptyPreview(t *testing.T) {
	c := &stubCompleter{places: map[string]weather.Place{"1": busan}}
	var errs []error
	s := NewSession(Config{
		Completer: c,
		Service:   weather.NewService(stubProvider{err: errors.New("timeout")}),
		OnError:   func(err error) { errs = append(errs, err) },
	})

	p, err := s.Select(context.Background(), "1")
	require.NoError(t, err)
	assert.True(t, p.State.Empty())
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], weather.ErrAcquisitionFailed)
}

func TestSelectUnknownHandle(t *testing.T) {
	s := NewSession(Config{Completer: &stubCompleter{}, OnError: func(error) {}})

	_, err := s.Select(context.Background(), "nope")
	assert.ErrorIs(t, err, weather.ErrUnknownCandidate)
	_, ok := s.Preview()
	assert.False(t, ok)
}

func TestDismissClearsPreview(t *testing.T) {
	c := &stubCompleter{places: map[string]weather.Place{"1": busan}}
	s := NewSession(Config{Completer: c})

	_, err := s.Select(context.Background(), "1")
	require.NoError(t, err)
	s.Dismiss()

	_, err = s.Confirm(context.Background())
	assert.ErrorIs(t, err, weather.ErrNoPreview)
}
