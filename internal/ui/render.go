package ui

import (
	"embed"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/i474232898/dailyweather/internal/weather"
)

//go:embed templates/*.yaml
var templateFS embed.FS

// ForecastContainerID is the container slot that receives hourly items.
const ForecastContainerID = "forecast_items_container"

// slotIDs maps location slots to component ids in the currentWeather template.
var slotIDs = map[string]string{
	weather.SlotTemperature:  "temperature",
	weather.SlotFeelsLike:    "feels_like_value",
	weather.SlotHumidity:     "humidity_value",
	weather.SlotWind:         "wind_value",
	weather.SlotPressure:     "pressure_value",
	weather.SlotIcon:         "weather_icon",
	weather.SlotLocationName: "location_name",
}

// Templates are the pristine trees every location view starts from.
type Templates struct {
	Current Component
	Hourly  Component
}

// View is the rendered pair of trees for one location.
type View struct {
	Current Component `json:"currentWeather"`
	Hourly  Component `json:"hourlyForecast"`
}

// LoadTemplates parses the embedded currentWeather and hourlyForecast templates.
func LoadTemplates() (Templates, error) {
	current, err := loadTemplate("templates/currentWeather.yaml")
	if err != nil {
		return Templates{}, err
	}
	hourly, err := loadTemplate("templates/hourlyForecast.yaml")
	if err != nil {
		return Templates{}, err
	}
	return Templates{Current: current, Hourly: hourly}, nil
}

func loadTemplate(path string) (Component, error) {
	raw, err := templateFS.ReadFile(path)
	if err != nil {
		return Component{}, fmt.Errorf("template %s not found: %w", path, err)
	}
	var c Component
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Component{}, fmt.Errorf("parse template %s: %w", path, err)
	}
	return c, nil
}

// Render applies a location's slots and hourly items to fresh copies of the templates.
func (t Templates) Render(state weather.LocationState) View {
	current := t.Current
	for slot, value := range state.Current {
		id, ok := slotIDs[slot]
		if !ok {
			continue
		}
		current, _ = current.SetContent(id, value)
	}

	hourly, _ := t.Hourly.SetChildren(ForecastContainerID, ForecastItems(state.Hourly))
	return View{Current: current, Hourly: hourly}
}

// ForecastItems builds one vertical stack per forecast row.
func ForecastItems(items []weather.ForecastItem) []Component {
	out := make([]Component, 0, len(items))
	for i, item := range items {
		idx := strconv.Itoa(i)
		out = append(out, Component{
			Type:      "stack",
			ID:        "forecast_item_" + idx,
			StackAxis: "vertical",
			Style:     map[string]any{"padding": 8, "spacing": 8},
			Children: []Component{
				{Type: "text", ID: "time_" + idx, Content: item.TimeLabel, Style: map[string]any{"fontSize": 14}},
				{Type: "image", ID: "icon_" + idx, Content: item.IconToken, Style: map[string]any{"width": 30, "height": 30}},
				{Type: "text", ID: "temp_" + idx, Content: item.TemperatureLabel, Style: map[string]any{"fontSize": 16, "fontWeight": 600}},
			},
		})
	}
	return out
}
