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

func newSearchServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenMeteoGeocodingCompleteAndResolve(t *testing.T) {
	srv := newSearchServer(t, `{"results":[
		{"id":1838524,"name":"Busan","latitude":35.1028,"longitude":129.0403,"country":"South Korea","admin1":"Busan"},
		{"id":99,"name":"Busanga","latitude":-1.0,"longitude":2.0,"country":"Congo"}
	]}`)
	g := NewOpenMeteoGeocoding(DefaultHTTPConfig(srv.Client(), 0), 5).WithBaseURL(srv.URL)

	candidates, err := g.Complete(context.Background(), "Busa")
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, weather.Candidate{Title: "Busan", Subtitle: "Busan, South Korea", Handle: "1838524"}, candidates[0])
	assert.Equal(t, "Congo", candidates[1].Subtitle)

	place, err := g.Resolve(context.Background(), "1838524")
	require.NoError(t, err)
	assert.Equal(t, "Busan", place.Name)
	assert.InDelta(t, 35.1028, place.Coordinate.Latitude, 1e-9)

	_, err = g.Resolve(context.Background(), "nope")
	assert.ErrorIs(t, err, weather.ErrUnknownCandidate)
}

func TestOpenMeteoGeocodingBlankFragment(t *testing.T) {
	g := NewOpenMeteoGeocoding(DefaultHTTPConfig(http.DefaultClient, 0), 5).WithBaseURL("http://127.0.0.1:1")

	candidates, err := g.Complete(context.Background(), "   ")
	assert.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestOpenMeteoGeocodingForward(t *testing.T) {
	srv := newSearchServer(t, `{"results":[{"id":1,"name":"Seoul","latitude":37.566,"longitude":126.9784}]}`)
	g := NewOpenMeteoGeocoding(DefaultHTTPConfig(srv.Client(), 0), 5).WithBaseURL(srv.URL)

	coord, err := g.Forward(context.Background(), "Seoul")
	require.NoError(t, err)
	assert.Equal(t, weather.Coordinate{Latitude: 37.566, Longitude: 126.9784}, coord)

	_, err = g.Reverse(context.Background(), coord)
	assert.ErrorIs(t, err, weather.ErrGeocodingFailed)
}

func TestOpenMeteoGeocodingForwardNoMatch(t *testing.T) {
	srv := newSearchServer(t, `{"generationtime_ms":0.5}`)
	g := NewOpenMeteoGeocoding(DefaultHTTPConfig(srv.Client(), 0), 5).WithBaseURL(srv.URL)

	_, err := g.Forward(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, weather.ErrGeocodingFailed)
}
