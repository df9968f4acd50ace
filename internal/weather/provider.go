package weather

import (
	"context"
)

// Provider abstracts a weather data source (e.g. Open-Meteo).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, coord Coordinate) (Observation, error)
}

// Geocoder resolves between place names and coordinates.
// Both methods return ErrGeocodingFailed (wrapped) when nothing is found.
type Geocoder interface {
	Forward(ctx context.Context, name string) (Coordinate, error)
	Reverse(ctx context.Context, coord Coordinate) (string, error)
}

// Completer suggests addresses for a partial query and resolves a suggestion.
type Completer interface {
	Complete(ctx context.Context, fragment string) ([]Candidate, error)
	Resolve(ctx context.Context, handle string) (Place, error)
}
