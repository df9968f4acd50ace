package controller

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/dailyweather/internal/store"
	"github.com/i474232898/dailyweather/internal/ui"
	"github.com/i474232898/dailyweather/internal/weather"
)

func drain(events <-chan Event) []Event {
	var out []Event
	for len(events) > 0 {
		out = append(out, <-events)
	}
	return out
}

func TestHandleActionNavigate(t *testing.T) {
	c := newController(t, &fakeProvider{}, store.NewMemoryKeyValue())
	events, cancel := c.Subscribe()
	defer cancel()

	err := c.HandleAction(context.Background(), ui.Action{Type: ActionNavigate, Payload: map[string]string{"screen": "DetailView"}})
	require.NoError(t, err)

	got := drain(events)
	require.Len(t, got, 1)
	assert.Equal(t, Event{Kind: EventNavigate, Detail: "DetailView"}, got[0])
}

func TestHandleActionOpenURL(t *testing.T) {
	c := newController(t, &fakeProvider{}, store.NewMemoryKeyValue())
	events, cancel := c.Subscribe()
	defer cancel()

	require.NoError(t, c.HandleAction(context.Background(), ui.Action{
		Type:    ActionOpenURL,
		Payload: map[string]string{"url": "https://weather.example.com/seoul"},
	}))
	assert.Equal(t, EventOpenURL, drain(events)[0].Kind)

	err := c.HandleAction(context.Background(), ui.Action{Type: ActionOpenURL, Payload: map[string]string{"url": "not a url"}})
	assert.ErrorIs(t, err, ErrInvalidAction)
	assert.Equal(t, EventDiagnostic, drain(events)[0].Kind)
}

func TestHandleActionRefresh(t *testing.T) {
	p := &fakeProvider{}
	c := newController(t, p, store.NewMemoryKeyValue())
	c.Add(context.Background(), "Busan", &busan)
	c.Wait()

	require.NoError(t, c.HandleAction(context.Background(), ui.Action{Type: ActionRefresh}))
	c.Wait()

	// Busan twice, plus the fallback for the device location.
	assert.Equal(t, 3, p.Calls())
	assert.Equal(t, "Seoul", c.Current().Current[weather.SlotLocationName])
}

func TestHandleActionUnknownIsDiagnostic(t *testing.T) {
	c := newController(t, &fakeProvider{}, store.NewMemoryKeyValue())
	events, cancel := c.Subscribe()
	defer cancel()

	require.NoError(t, c.HandleAction(context.Background(), ui.Action{Type: "share"}))

	got := drain(events)
	require.Len(t, got, 1)
	assert.Equal(t, EventDiagnostic, got[0].Kind)
	assert.Contains(t, got[0].Detail, "unknown action type")
}
