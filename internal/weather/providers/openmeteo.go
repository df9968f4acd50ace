package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/i474232898/dailyweather/internal/weather"
	"github.com/sony/gobreaker"
)

const openMeteoForecastURL = "https://api.open-meteo.com/v1/forecast"

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
// It returns current conditions plus two days of hourly samples.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(cfg HTTPClientConfig) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: openMeteoForecastURL,
		httpCfg: cfg,
		circuit: newBreaker("openmeteo"),
	}
}

// WithBaseURL points the provider at another endpoint (tests, self-hosted instances).
func (p *OpenMeteoProvider) WithBaseURL(u string) *OpenMeteoProvider {
	p.baseURL = u
	return p
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

type openMeteoPayload struct {
	UTCOffsetSeconds     int    `json:"utc_offset_seconds"`
	TimezoneAbbreviation string `json:"timezone_abbreviation"`
	Current              struct {
		Time                int64   `json:"time"`
		Temperature         float64 `json:"temperature_2m"`
		ApparentTemperature float64 `json:"apparent_temperature"`
		RelativeHumidity    float64 `json:"relative_humidity_2m"`
		WindSpeed           float64 `json:"wind_speed_10m"`
		PressureMSL         float64 `json:"pressure_msl"`
		WeatherCode         int     `json:"weather_code"`
	} `json:"current"`
	Hourly struct {
		Time        []int64   `json:"time"`
		Temperature []float64 `json:"temperature_2m"`
		WeatherCode []int     `json:"weather_code"`
	} `json:"hourly"`
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, coord weather.Coordinate) (weather.Observation, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", coord.Latitude))
		values.Set("longitude", fmt.Sprintf("%f", coord.Longitude))
		values.Set("current", "temperature_2m,apparent_temperature,relative_humidity_2m,wind_speed_10m,pressure_msl,weather_code")
		values.Set("hourly", "temperature_2m,weather_code")
		values.Set("wind_speed_unit", "ms")
		values.Set("timezone", "auto")
		values.Set("timeformat", "unixtime")
		values.Set("forecast_days", "2")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Observation{}, err
	}
	defer resp.Body.Close()

	var payload openMeteoPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Observation{}, fmt.Errorf("decode openmeteo response: %w", err)
	}

	h := payload.Hourly
	if len(h.Temperature) != len(h.Time) || len(h.WeatherCode) != len(h.Time) {
		return weather.Observation{}, fmt.Errorf("openmeteo hourly arrays have mismatched lengths")
	}

	zone := time.FixedZone(payload.TimezoneAbbreviation, payload.UTCOffsetSeconds)

	hourly := make([]weather.HourlySample, 0, len(h.Time))
	for i, ts := range h.Time {
		hourly = append(hourly, weather.HourlySample{
			Time:        time.Unix(ts, 0).In(zone),
			Temperature: h.Temperature[i],
			Condition:   mapOpenMeteoCondition(h.WeatherCode[i]),
		})
	}

	c := payload.Current
	return weather.Observation{
		Current: weather.Current{
			Temperature: c.Temperature,
			FeelsLike:   c.ApparentTemperature,
			// Open-Meteo reports percent; the formatter expects a fraction.
			Humidity:  c.RelativeHumidity / 100,
			WindSpeed: c.WindSpeed,
			Pressure:  c.PressureMSL,
			Condition: mapOpenMeteoCondition(c.WeatherCode),
		},
		Hourly: hourly,
	}, nil
}

// mapOpenMeteoCondition maps WMO weather interpretation codes.
func mapOpenMeteoCondition(code int) weather.Condition {
	switch {
	case code == 0:
		return weather.ConditionClear
	case code == 1:
		return weather.ConditionMostlyClear
	case code == 2:
		return weather.ConditionPartlyCloudy
	case code == 3:
		return weather.ConditionCloudy
	case code == 45 || code == 48:
		return weather.ConditionFoggy
	case code >= 51 && code <= 55:
		return weather.ConditionDrizzle
	case code == 56 || code == 57 || code == 66 || code == 67:
		return weather.ConditionSleet
	case (code >= 61 && code <= 65) || (code >= 80 && code <= 82):
		return weather.ConditionRain
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return weather.ConditionSnow
	case code >= 95 && code <= 99:
		return weather.ConditionThunderstorms
	default:
		return weather.ConditionUnknown
	}
}
