package providers

import (
	"context"
	"fmt"

	"github.com/i474232898/dailyweather/internal/weather"
	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"
)

// UnknownPlace is the generic label for a reverse lookup that found an
// address without a locality or administrative area.
const UnknownPlace = "Unknown location"

// GoogleGeocoder resolves names and coordinates through the Google Geocoding API.
// The underlying client keeps its API key in a package variable, so only one
// key can be active per process.
type GoogleGeocoder struct {
	circuit *gobreaker.CircuitBreaker
}

func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{circuit: newBreaker("google-geocoding")}
}

// call runs fn through the breaker; the client has no context support so the
// call is abandoned, not aborted, when ctx ends.
func (g *GoogleGeocoder) call(ctx context.Context, fn func() (interface{}, error)) (interface{}, error) {
	type result struct {
		v   interface{}
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := g.circuit.Execute(fn)
		done <- result{v, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.v, r.err
	}
}

func (g *GoogleGeocoder) Forward(ctx context.Context, name string) (weather.Coordinate, error) {
	v, err := g.call(ctx, func() (interface{}, error) {
		return geocoder.Geocoding(geocoder.Address{City: name})
	})
	if err != nil {
		return weather.Coordinate{}, fmt.Errorf("%w: %v", weather.ErrGeocodingFailed, err)
	}
	loc := v.(geocoder.Location)
	return weather.Coordinate{Latitude: loc.Latitude, Longitude: loc.Longitude}, nil
}

func (g *GoogleGeocoder) Reverse(ctx context.Context, coord weather.Coordinate) (string, error) {
	v, err := g.call(ctx, func() (interface{}, error) {
		return geocoder.GeocodingReverse(geocoder.Location{Latitude: coord.Latitude, Longitude: coord.Longitude})
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", weather.ErrGeocodingFailed, err)
	}

	name, err := placeName(v.([]geocoder.Address))
	if err != nil {
		return "", fmt.Errorf("%w at %s", err, coord)
	}
	return name, nil
}

// placeName picks the first locality, then the first administrative area,
// then UnknownPlace.
func placeName(addresses []geocoder.Address) (string, error) {
	if len(addresses) == 0 {
		return "", fmt.Errorf("%w: no address", weather.ErrGeocodingFailed)
	}
	for _, a := range addresses {
		if a.City != "" {
			return a.City, nil
		}
	}
	for _, a := range addresses {
		if a.State != "" {
			return a.State, nil
		}
	}
	return UnknownPlace, nil
}
