// Package permission turns device location callbacks into fetch decisions.
//
// The device location service drives the machine by delivering Events;
// Transition is a pure function from (State, Event) to the next State and
// the Effects to carry out. A Tracker feeds events in order and executes
// the effects.
package permission

import (
	"fmt"

	"github.com/i474232898/dailyweather/internal/weather"
)

// AuthorizationState mirrors the device's location authorization.
type AuthorizationState int

const (
	Undetermined AuthorizationState = iota
	Restricted
	Denied
	Authorized
)

func (a AuthorizationState) String() string {
	switch a {
	case Undetermined:
		return "undetermined"
	case Restricted:
		return "restricted"
	case Denied:
		return "denied"
	case Authorized:
		return "authorized"
	default:
		return fmt.Sprintf("authorization(%d)", int(a))
	}
}

// ParseAuthorizationState accepts the lowercase names produced by String.
func ParseAuthorizationState(s string) (AuthorizationState, error) {
	switch s {
	case "undetermined":
		return Undetermined, nil
	case "restricted":
		return Restricted, nil
	case "denied":
		return Denied, nil
	case "authorized":
		return Authorized, nil
	}
	return Undetermined, fmt.Errorf("unknown authorization state %q", s)
}

// Phase is where the machine is within one authorization episode.
type Phase int

const (
	// PhaseIdle: nothing requested yet.
	PhaseIdle Phase = iota
	// PhaseAwaitingAuthorization: the user has been asked.
	PhaseAwaitingAuthorization
	// PhaseTracking: continuous updates are running, waiting for the first fix.
	PhaseTracking
	// PhaseLocated: a fix was received and updates were stopped.
	PhaseLocated
	// PhaseFallback: the fixed default coordinate was used.
	PhaseFallback
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaitingAuthorization:
		return "awaiting_authorization"
	case PhaseTracking:
		return "tracking"
	case PhaseLocated:
		return "located"
	case PhaseFallback:
		return "fallback"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is the machine's full state.
type State struct {
	Authorization AuthorizationState
	Phase         Phase
}

// Event is delivered by the device location service.
type Event interface{ isEvent() }

// AuthorizationChanged is sent on start and whenever the user changes settings.
type AuthorizationChanged struct{ State AuthorizationState }

// PositionReceived carries one position update.
type PositionReceived struct{ Coordinate weather.Coordinate }

// LocationFailed reports a device error such as lost signal.
type LocationFailed struct{ Err error }

func (AuthorizationChanged) isEvent() {}
func (PositionReceived) isEvent()     {}
func (LocationFailed) isEvent()       {}

// Effect is an action the Tracker carries out after a transition.
type Effect interface{ isEffect() }

type (
	RequestAuthorization struct{}
	StartUpdates         struct{}
	StopUpdates          struct{}
	// FetchFallback fetches the configured default coordinate.
	FetchFallback struct{}
	// FetchPosition fetches the device's own coordinate.
	FetchPosition struct{ Coordinate weather.Coordinate }
	// ResolvePlaceName reverse geocodes the coordinate into location_name.
	ResolvePlaceName struct{ Coordinate weather.Coordinate }
)

func (RequestAuthorization) isEffect() {}
func (StartUpdates) isEffect()         {}
func (StopUpdates) isEffect()          {}
func (FetchFallback) isEffect()        {}
func (FetchPosition) isEffect()        {}
func (ResolvePlaceName) isEffect()     {}

// Transition computes the next state and effects. It has no side effects.
func Transition(s State, e Event) (State, []Effect) {
	switch ev := e.(type) {
	case AuthorizationChanged:
		return onAuthorization(s, ev.State)

	case PositionReceived:
		// Single shot: only the first fix while tracking counts.
		if s.Phase != PhaseTracking {
			return s, nil
		}
		s.Phase = PhaseLocated
		return s, []Effect{
			StopUpdates{},
			FetchPosition{Coordinate: ev.Coordinate},
			ResolvePlaceName{Coordinate: ev.Coordinate},
		}

	case LocationFailed:
		switch s.Phase {
		case PhaseFallback, PhaseLocated:
			return s, nil
		case PhaseTracking:
			s.Phase = PhaseFallback
			return s, []Effect{StopUpdates{}, FetchFallback{}}
		default:
			s.Phase = PhaseFallback
			return s, []Effect{FetchFallback{}}
		}
	}
	return s, nil
}

func onAuthorization(s State, auth AuthorizationState) (State, []Effect) {
	var stop []Effect
	if s.Phase == PhaseTracking && auth != Authorized {
		stop = []Effect{StopUpdates{}}
	}
	s.Authorization = auth

	switch auth {
	case Undetermined:
		s.Phase = PhaseAwaitingAuthorization
		return s, append(stop, RequestAuthorization{})
	case Denied, Restricted:
		s.Phase = PhaseFallback
		return s, append(stop, FetchFallback{})
	case Authorized:
		if s.Phase == PhaseTracking {
			return s, nil
		}
		s.Phase = PhaseTracking
		return s, []Effect{StartUpdates{}}
	}
	return s, stop
}
