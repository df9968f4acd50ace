package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/dailyweather/internal/weather"
)

const weatherAPIBody = `{
  "location": {"name": "Busan", "tz_id": "Asia/Seoul"},
  "current": {
    "temp_c": 12.5, "feelslike_c": 10.1, "humidity": 71,
    "wind_kph": 18, "pressure_mb": 1018,
    "condition": {"text": "Partly cloudy"}
  },
  "forecast": {"forecastday": [
    {"hour": [
      {"time_epoch": 1733356800, "temp_c": 12.5, "condition": {"text": "Patchy light drizzle"}},
      {"time_epoch": 1733360400, "temp_c": 11.9, "condition": {"text": "Moderate or heavy rain with thunder"}}
    ]}
  ]}
}`

func TestWeatherAPIProviderFetch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(weatherAPIBody))
	}))
	defer srv.Close()

	p := NewWeatherAPIProvider(DefaultHTTPConfig(srv.Client(), 0), "secret").WithBaseURL(srv.URL)

	obs, err := p.Fetch(context.Background(), weather.Coordinate{Latitude: 35.1796, Longitude: 129.0756})
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "key=secret")
	assert.Contains(t, gotQuery, "days=2")
	assert.InDelta(t, 0.71, obs.Current.Humidity, 1e-9)
	assert.InDelta(t, 5.0, obs.Current.WindSpeed, 1e-9)
	assert.Equal(t, weather.ConditionPartlyCloudy, obs.Current.Condition)

	require.Len(t, obs.Hourly, 2)
	assert.Equal(t, weather.ConditionDrizzle, obs.Hourly[0].Condition)
	assert.Equal(t, weather.ConditionThunderstorms, obs.Hourly[1].Condition)
	assert.Equal(t, "09:00", obs.Hourly[0].Time.Format("15:04"))
}

func TestWeatherAPIProviderRequiresKey(t *testing.T) {
	p := NewWeatherAPIProvider(DefaultHTTPConfig(http.DefaultClient, 0), "")
	_, err := p.Fetch(context.Background(), weather.Coordinate{})
	assert.Error(t, err)
}

func TestMapWeatherAPICondition(t *testing.T) {
	cases := map[string]weather.Condition{
		"":                          weather.ConditionUnknown,
		"Sunny":                     weather.ConditionClear,
		"Overcast":                  weather.ConditionCloudy,
		"Light sleet showers":       weather.ConditionSleet,
		"Blizzard":                  weather.ConditionSnow,
		"Fog":                       weather.ConditionFoggy,
		"Mist":                      weather.ConditionHaze,
		"Light rain shower":         weather.ConditionRain,
		"Thundery outbreaks nearby": weather.ConditionThunderstorms,
		"Volcanic ash":              weather.ConditionUnknown,
	}
	for text, want := range cases {
		assert.Equal(t, want, mapWeatherAPICondition(text), text)
	}
}
