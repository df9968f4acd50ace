package weather

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Service performs fetch units: one provider call for a coordinate, formatted
// into a display-ready Snapshot. It never mutates location state itself.
type Service struct {
	provider Provider
	now      func() time.Time
}

// NewService creates a new Service.
func NewService(provider Provider) *Service {
	return &Service{
		provider: provider,
		now:      time.Now,
	}
}

// WithClock overrides the clock used for forecast windowing.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Fetch runs one fetch unit for the named location. A non-empty name is
// written into the location_name slot. On any provider error the error is
// wrapped with ErrAcquisitionFailed and no snapshot is produced; there is
// no retry at this level.
func (s *Service) Fetch(ctx context.Context, name string, coord Coordinate) (Snapshot, error) {
	if s.provider == nil {
		return Snapshot{}, fmt.Errorf("%w: no weather provider configured", ErrAcquisitionFailed)
	}

	obs, err := s.provider.Fetch(ctx, coord)
	if err != nil {
		log.Printf("ERROR: provider %s fetch failed for %q at %s: %v", s.provider.Name(), name, coord, err)
		return Snapshot{}, fmt.Errorf("%w: %s: %v", ErrAcquisitionFailed, s.provider.Name(), err)
	}

	current := FormatCurrent(obs.Current)
	if name != "" {
		current[SlotLocationName] = name
	}

	return Snapshot{
		Current: current,
		Hourly:  Window(obs.Hourly, s.now()),
	}, nil
}
