package weather

import (
	"fmt"
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown       Condition = "unknown"
	ConditionClear         Condition = "clear"
	ConditionMostlyClear   Condition = "mostlyClear"
	ConditionPartlyCloudy  Condition = "partlyCloudy"
	ConditionMostlyCloudy  Condition = "mostlyCloudy"
	ConditionCloudy        Condition = "cloudy"
	ConditionFoggy         Condition = "foggy"
	ConditionHaze          Condition = "haze"
	ConditionDrizzle       Condition = "drizzle"
	ConditionRain          Condition = "rain"
	ConditionSleet         Condition = "sleet"
	ConditionSnow          Condition = "snow"
	ConditionThunderstorms Condition = "thunderstorms"
	ConditionWindy         Condition = "windy"
)

// Coordinate is a WGS84 position.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Latitude, c.Longitude)
}

// Current is the provider's raw "right now" sample.
// Humidity is a fraction in [0,1].
type Current struct {
	Temperature float64
	FeelsLike   float64
	Humidity    float64
	WindSpeed   float64 // m/s
	Pressure    float64 // hPa
	Condition   Condition
}

// HourlySample is one raw hourly forecast point.
type HourlySample struct {
	Time        time.Time
	Temperature float64
	Condition   Condition
}

// Observation is everything one provider call returns for a coordinate.
// Hourly entries are in the provider's chronological order.
type Observation struct {
	Current Current
	Hourly  []HourlySample
}

// Slot names of a location's display state.
const (
	SlotTemperature  = "temperature"
	SlotFeelsLike    = "feels_like"
	SlotHumidity     = "humidity"
	SlotWind         = "wind"
	SlotPressure     = "pressure"
	SlotIcon         = "icon"
	SlotLocationName = "location_name"
)

// ForecastItem is one display-ready hourly row. Immutable once built.
type ForecastItem struct {
	TimeLabel        string `json:"timeLabel"`
	IconToken        string `json:"iconToken"`
	TemperatureLabel string `json:"temperatureLabel"`
}

// Snapshot is the formatted result of one fetch unit.
type Snapshot struct {
	Current map[string]string `json:"current"`
	Hourly  []ForecastItem    `json:"hourly"`
}

// LocationState is one tracked place as exposed to renderers.
// ID is assigned at creation and never changes; Name is display only.
type LocationState struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Current map[string]string `json:"current"`
	Hourly  []ForecastItem    `json:"hourly"`
}

// Empty reports whether no fetch has been applied yet.
func (l LocationState) Empty() bool {
	return len(l.Current) == 0 && len(l.Hourly) == 0
}

// Clone returns a deep copy safe to hand to other goroutines.
func (l LocationState) Clone() LocationState {
	out := LocationState{ID: l.ID, Name: l.Name}
	if l.Current != nil {
		out.Current = make(map[string]string, len(l.Current))
		for k, v := range l.Current {
			out.Current[k] = v
		}
	}
	if l.Hourly != nil {
		out.Hourly = append([]ForecastItem(nil), l.Hourly...)
	}
	return out
}

// Candidate is one address-completion suggestion. Handle is opaque to callers.
type Candidate struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Handle   string `json:"handle"`
}

// Place is a resolved candidate or geocoding hit.
type Place struct {
	Name       string     `json:"name"`
	Coordinate Coordinate `json:"coordinate"`
}
