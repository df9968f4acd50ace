package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
	_ "time/tzdata"

	"github.com/sony/gobreaker"

	"github.com/i474232898/dailyweather/internal/common"
	"github.com/i474232898/dailyweather/internal/weather"
)

const weatherAPIForecastURL = "https://api.weatherapi.com/v1/forecast.json"

// WeatherAPIProvider implements weather.Provider for WeatherAPI.com. It needs
// an API key.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(cfg HTTPClientConfig, apiKey string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: weatherAPIForecastURL,
		httpCfg: cfg,
		circuit: newBreaker("weatherapi"),
	}
}

// WithBaseURL points the provider at another endpoint.
func (p *WeatherAPIProvider) WithBaseURL(u string) *WeatherAPIProvider {
	p.baseURL = u
	return p
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

type weatherAPICondition struct {
	Text string `json:"text"`
}

type weatherAPIPayload struct {
	Location struct {
		TzID string `json:"tz_id"`
	} `json:"location"`
	Current struct {
		TempC      float64             `json:"temp_c"`
		FeelsLikeC float64             `json:"feelslike_c"`
		Humidity   float64             `json:"humidity"`
		WindKph    float64             `json:"wind_kph"`
		PressureMb float64             `json:"pressure_mb"`
		Condition  weatherAPICondition `json:"condition"`
	} `json:"current"`
	Forecast struct {
		Forecastday []struct {
			Hour []struct {
				TimeEpoch int64               `json:"time_epoch"`
				TempC     float64             `json:"temp_c"`
				Condition weatherAPICondition `json:"condition"`
			} `json:"hour"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

func (p *WeatherAPIProvider) Fetch(ctx context.Context, coord weather.Coordinate) (weather.Observation, error) {
	if p.apiKey == "" {
		return weather.Observation{}, errors.New("weatherapi api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		values.Set("q", fmt.Sprintf("%f,%f", coord.Latitude, coord.Longitude))
		values.Set("days", "2")
		values.Set("aqi", "no")
		values.Set("alerts", "no")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Observation{}, err
	}
	defer resp.Body.Close()

	var payload weatherAPIPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Observation{}, fmt.Errorf("decode weatherapi response: %w", err)
	}

	zone, err := time.LoadLocation(payload.Location.TzID)
	if err != nil || payload.Location.TzID == "" {
		zone = time.UTC
	}

	var hourly []weather.HourlySample
	for _, day := range payload.Forecast.Forecastday {
		for _, h := range day.Hour {
			hourly = append(hourly, weather.HourlySample{
				Time:        time.Unix(h.TimeEpoch, 0).In(zone),
				Temperature: h.TempC,
				Condition:   mapWeatherAPICondition(h.Condition.Text),
			})
		}
	}

	c := payload.Current
	return weather.Observation{
		Current: weather.Current{
			Temperature: c.TempC,
			FeelsLike:   c.FeelsLikeC,
			Humidity:    c.Humidity / 100,
			WindSpeed:   c.WindKph / 3.6,
			Pressure:    c.PressureMb,
			Condition:   mapWeatherAPICondition(c.Condition.Text),
		},
		Hourly: hourly,
	}, nil
}

// mapWeatherAPICondition maps WeatherAPI's condition text. Order matters:
// "thundery outbreaks" and "light sleet showers" must not fall into rain.
func mapWeatherAPICondition(text string) weather.Condition {
	switch {
	case text == "":
		return weather.ConditionUnknown
	case common.HasAny(text, "thunder"):
		return weather.ConditionThunderstorms
	case common.HasAny(text, "sleet", "ice pellets", "freezing"):
		return weather.ConditionSleet
	case common.HasAny(text, "snow", "blizzard"):
		return weather.ConditionSnow
	case common.HasAny(text, "drizzle"):
		return weather.ConditionDrizzle
	case common.HasAny(text, "rain", "shower"):
		return weather.ConditionRain
	case common.HasAny(text, "fog"):
		return weather.ConditionFoggy
	case common.HasAny(text, "mist", "haze"):
		return weather.ConditionHaze
	case common.HasAny(text, "partly"):
		return weather.ConditionPartlyCloudy
	case common.HasAny(text, "overcast", "cloudy"):
		return weather.ConditionCloudy
	case common.HasAny(text, "sunny", "clear"):
		return weather.ConditionClear
	default:
		return weather.ConditionUnknown
	}
}

var _ weather.Provider = (*WeatherAPIProvider)(nil)
