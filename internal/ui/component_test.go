package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/dailyweather/internal/weather"
)

func sampleTree() Component {
	return Component{
		Type: "stack",
		ID:   "root",
		Children: []Component{
			{Type: "text", ID: "title", Content: "a"},
			{Type: "stack", ID: "inner", Children: []Component{
				{Type: "text", ID: "leaf", Content: "old"},
			}},
		},
	}
}

func TestSetContentIsCopyOnWrite(t *testing.T) {
	original := sampleTree()

	updated, ok := original.SetContent("leaf", "new")

	require.True(t, ok)
	leaf, _ := updated.Find("leaf")
	assert.Equal(t, "new", leaf.Content)

	oldLeaf, _ := original.Find("leaf")
	assert.Equal(t, "old", oldLeaf.Content, "original tree must not change")
	assert.Equal(t, "a", updated.Children[0].Content)
}

func TestSetContentUnknownID(t *testing.T) {
	original := sampleTree()
	updated, ok := original.SetContent("missing", "x")
	assert.False(t, ok)
	assert.Equal(t, original, updated)
}

func TestSetChildren(t *testing.T) {
	original := sampleTree()
	kids := []Component{{Type: "text", ID: "k"}}

	updated, ok := original.SetChildren("inner", kids)
	require.True(t, ok)
	kids[0].ID = "mutated"

	inner, _ := updated.Find("inner")
	require.Len(t, inner.Children, 1)
	assert.Equal(t, "k", inner.Children[0].ID)

	oldInner, _ := original.Find("inner")
	assert.Equal(t, "leaf", oldInner.Children[0].ID)
}

func TestRenderAppliesSlots(t *testing.T) {
	tpl, err := LoadTemplates()
	require.NoError(t, err)

	view := tpl.Render(weather.LocationState{
		ID:   "x",
		Name: "Seoul",
		Current: map[string]string{
			weather.SlotTemperature:  "22°",
			weather.SlotHumidity:     "63%",
			weather.SlotIcon:         "sun.max.fill",
			weather.SlotLocationName: "Seoul",
		},
		Hourly: []weather.ForecastItem{
			{TimeLabel: "now", IconToken: "sun.max.fill", TemperatureLabel: "22°"},
			{TimeLabel: "13:00", IconToken: "cloud.fill", TemperatureLabel: "21°"},
		},
	})

	temp, ok := view.Current.Find("temperature")
	require.True(t, ok)
	assert.Equal(t, "22°", temp.Content)

	hum, _ := view.Current.Find("humidity_value")
	assert.Equal(t, "63%", hum.Content)

	icon, _ := view.Current.Find("weather_icon")
	assert.Equal(t, "sun.max.fill", icon.Content)

	wind, _ := view.Current.Find("wind_value")
	assert.Equal(t, "--", wind.Content, "unset slots keep template content")

	container, ok := view.Hourly.Find(ForecastContainerID)
	require.True(t, ok)
	require.Len(t, container.Children, 2)
	label, _ := container.Find("time_1")
	assert.Equal(t, "13:00", label.Content)

	// Templates stay pristine for the next location.
	pristine, _ := tpl.Current.Find("temperature")
	assert.Equal(t, "--", pristine.Content)
	empty, _ := tpl.Hourly.Find(ForecastContainerID)
	assert.Empty(t, empty.Children)
}

func TestTemplateActions(t *testing.T) {
	tpl, err := LoadTemplates()
	require.NoError(t, err)

	btn, ok := tpl.Current.Find("detail_button")
	require.True(t, ok)
	require.NotNil(t, btn.Action)
	assert.Equal(t, "navigate", btn.Action.Type)
	assert.Equal(t, "DetailView", btn.Action.Payload["screen"])
}
