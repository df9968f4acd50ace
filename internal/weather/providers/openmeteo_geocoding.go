package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/dailyweather/internal/weather"
	"github.com/patrickmn/go-cache"
	"github.com/sony/gobreaker"
)

const openMeteoGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"

// handleTTL bounds how long a completion handle stays selectable.
const handleTTL = 30 * time.Minute

// OpenMeteoGeocoding serves address completion and forward geocoding from the
// Open-Meteo place search. It has no reverse lookup.
type OpenMeteoGeocoding struct {
	baseURL  string
	limit    int
	language string
	httpCfg  HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
	handles  *cache.Cache
}

func NewOpenMeteoGeocoding(cfg HTTPClientConfig, limit int) *OpenMeteoGeocoding {
	if limit <= 0 {
		limit = 10
	}
	return &OpenMeteoGeocoding{
		baseURL:  openMeteoGeocodingURL,
		limit:    limit,
		language: "en",
		httpCfg:  cfg,
		circuit:  newBreaker("openmeteo-geocoding"),
		handles:  cache.New(handleTTL, 2*handleTTL),
	}
}

// WithBaseURL points the search at another endpoint.
func (g *OpenMeteoGeocoding) WithBaseURL(u string) *OpenMeteoGeocoding {
	g.baseURL = u
	return g
}

type openMeteoPlace struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
	Admin1    string  `json:"admin1"`
}

func (g *OpenMeteoGeocoding) search(ctx context.Context, name string, count int) ([]openMeteoPlace, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("name", name)
		values.Set("count", strconv.Itoa(count))
		values.Set("language", g.language)
		values.Set("format", "json")
		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", g.baseURL, values.Encode()), nil)
	}

	resp, err := doRequestWithResilience(ctx, g.httpCfg, g.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Results []openMeteoPlace `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode geocoding response: %w", err)
	}
	return payload.Results, nil
}

// Complete returns candidates for a partial query. Blank fragments yield no candidates.
func (g *OpenMeteoGeocoding) Complete(ctx context.Context, fragment string) ([]weather.Candidate, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil, nil
	}

	places, err := g.search(ctx, fragment, g.limit)
	if err != nil {
		return nil, err
	}

	candidates := make([]weather.Candidate, 0, len(places))
	for _, p := range places {
		handle := strconv.FormatInt(p.ID, 10)
		g.handles.Set(handle, weather.Place{
			Name:       p.Name,
			Coordinate: weather.Coordinate{Latitude: p.Latitude, Longitude: p.Longitude},
		}, cache.DefaultExpiration)

		candidates = append(candidates, weather.Candidate{
			Title:    p.Name,
			Subtitle: joinNonEmpty(", ", p.Admin1, p.Country),
			Handle:   handle,
		})
	}
	return candidates, nil
}

// Resolve returns the place behind a handle handed out by Complete.
func (g *OpenMeteoGeocoding) Resolve(ctx context.Context, handle string) (weather.Place, error) {
	v, ok := g.handles.Get(handle)
	if !ok {
		return weather.Place{}, fmt.Errorf("%w: %q", weather.ErrUnknownCandidate, handle)
	}
	return v.(weather.Place), nil
}

func (g *OpenMeteoGeocoding) Forward(ctx context.Context, name string) (weather.Coordinate, error) {
	places, err := g.search(ctx, name, 1)
	if err != nil {
		return weather.Coordinate{}, fmt.Errorf("%w: %v", weather.ErrGeocodingFailed, err)
	}
	if len(places) == 0 {
		return weather.Coordinate{}, fmt.Errorf("%w: no match for %q", weather.ErrGeocodingFailed, name)
	}
	return weather.Coordinate{Latitude: places[0].Latitude, Longitude: places[0].Longitude}, nil
}

func (g *OpenMeteoGeocoding) Reverse(ctx context.Context, coord weather.Coordinate) (string, error) {
	return "", fmt.Errorf("%w: reverse lookup not supported by open-meteo", weather.ErrGeocodingFailed)
}

func joinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
