package weather

import (
	"math"
	"strconv"
)

// DefaultIcon is used for any condition missing from the icon table.
const DefaultIcon = "cloud.fill"

var iconTable = map[Condition]string{
	ConditionClear:         "sun.max.fill",
	ConditionMostlyClear:   "sun.max.fill",
	ConditionCloudy:        "cloud.fill",
	ConditionMostlyCloudy:  "cloud.sun.fill",
	ConditionPartlyCloudy:  "cloud.sun.fill",
	ConditionRain:          "cloud.rain.fill",
	ConditionSnow:          "cloud.snow.fill",
	ConditionSleet:         "cloud.sleet.fill",
	ConditionWindy:         "wind",
	ConditionDrizzle:       "cloud.drizzle.fill",
	ConditionThunderstorms: "cloud.bolt.rain.fill",
	ConditionHaze:          "sun.haze.fill",
}

// round rounds half away from zero, so 21.5 -> 22 and -21.5 -> -22.
func round(v float64) int {
	return int(math.Round(v))
}

func FormatTemperature(v float64) string {
	return strconv.Itoa(round(v)) + "°"
}

// FormatHumidity takes a fraction (0.634) and renders a percentage ("63%").
func FormatHumidity(fraction float64) string {
	return strconv.Itoa(round(fraction*100)) + "%"
}

func FormatWind(speed float64) string {
	return strconv.Itoa(round(speed)) + "m/s"
}

func FormatPressure(hpa float64) string {
	return strconv.Itoa(round(hpa)) + "hPa"
}

// Icon maps a condition to its icon token, never returning an empty string.
func Icon(c Condition) string {
	if token, ok := iconTable[c]; ok {
		return token
	}
	return DefaultIcon
}

// FormatCurrent builds the current-conditions slots. location_name is left
// to the caller since it does not come from the weather provider.
func FormatCurrent(c Current) map[string]string {
	return map[string]string{
		SlotTemperature: FormatTemperature(c.Temperature),
		SlotFeelsLike:   FormatTemperature(c.FeelsLike),
		SlotHumidity:    FormatHumidity(c.Humidity),
		SlotWind:        FormatWind(c.WindSpeed),
		SlotPressure:    FormatPressure(c.Pressure),
		SlotIcon:        Icon(c.Condition),
	}
}
