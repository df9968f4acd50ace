package providers

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/dailyweather/internal/weather"
)

type countingGeocoder struct {
	forward    int
	reverse    int
	forwardErr error
	reverseErr error
	coord      weather.Coordinate
	name       string
}

func (g *countingGeocoder) Forward(ctx context.Context, name string) (weather.Coordinate, error) {
	g.forward++
	return g.coord, g.forwardErr
}

func (g *countingGeocoder) Reverse(ctx context.Context, coord weather.Coordinate) (string, error) {
	g.reverse++
	return g.name, g.reverseErr
}

func TestCachedGeocoderMemoizesSuccess(t *testing.T) {
	inner := &countingGeocoder{coord: weather.Coordinate{Latitude: 1, Longitude: 2}, name: "Seoul"}
	c := NewCachedGeocoder(inner, time.Minute)

	for i := 0; i < 3; i++ {
		coord, err := c.Forward(context.Background(), "Seoul")
		require.NoError(t, err)
		assert.Equal(t, inner.coord, coord)

		name, err := c.Reverse(context.Background(), inner.coord)
		require.NoError(t, err)
		assert.Equal(t, "Seoul", name)
	}
	assert.Equal(t, 1, inner.forward)
	assert.Equal(t, 1, inner.reverse)
}

func TestCachedGeocoderDoesNotCacheFailures(t *testing.T) {
	inner := &countingGeocoder{forwardErr: weather.ErrGeocodingFailed}
	c := NewCachedGeocoder(inner, time.Minute)

	_, err := c.Forward(context.Background(), "x")
	assert.Error(t, err)
	_, err = c.Forward(context.Background(), "x")
	assert.Error(t, err)
	assert.Equal(t, 2, inner.forward)
}

func TestFallbackGeocoder(t *testing.T) {
	primary := &countingGeocoder{
		forwardErr: fmt.Errorf("%w: quota", weather.ErrGeocodingFailed),
		name:       "Jung-gu",
	}
	secondary := &countingGeocoder{coord: weather.Coordinate{Latitude: 9}}
	f := NewFallbackGeocoder(primary, secondary)

	coord, err := f.Forward(context.Background(), "Seoul")
	require.NoError(t, err)
	assert.Equal(t, 9.0, coord.Latitude)
	assert.Equal(t, 1, secondary.forward)

	name, err := f.Reverse(context.Background(), coord)
	require.NoError(t, err)
	assert.Equal(t, "Jung-gu", name)
	assert.Equal(t, 0, secondary.reverse)
}

type fixedProvider struct{}

func (fixedProvider) Name() string { return "fixed" }

func (fixedProvider) Fetch(ctx context.Context, coord weather.Coordinate) (weather.Observation, error) {
	return weather.Observation{Current: weather.Current{Temperature: 1}}, nil
}

func TestRateLimitedProvider(t *testing.T) {
	p := NewRateLimitedProvider(fixedProvider{}, 1, 1)
	assert.Equal(t, "fixed [Rate Limited]", p.Name())

	_, err := p.Fetch(context.Background(), weather.Coordinate{})
	require.NoError(t, err)

	// The bucket is empty now; a cancelled context must not wait.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Fetch(ctx, weather.Coordinate{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
