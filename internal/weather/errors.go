package weather

import "errors"

var (
	// ErrPermissionDenied means location access is off; callers use the fallback coordinate.
	ErrPermissionDenied = errors.New("location permission denied")
	// ErrAcquisitionFailed covers network, decoding and provider errors during a fetch.
	ErrAcquisitionFailed = errors.New("weather acquisition failed")
	// ErrGeocodingFailed is returned when a name or coordinate cannot be resolved.
	ErrGeocodingFailed = errors.New("geocoding failed")
	// ErrPersistenceUnavailable is returned when the key-value store cannot be read or written.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
	// ErrStaleResult marks a fetch result for a location that no longer exists.
	ErrStaleResult = errors.New("stale or discarded result")
	// ErrIndexOutOfRange is returned for list positions outside [0, count).
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrNoPreview is returned when confirming without a selected preview.
	ErrNoPreview = errors.New("no preview selected")
	// ErrUnknownCandidate is returned when a completion handle is unknown or expired.
	ErrUnknownCandidate = errors.New("unknown address candidate")
)
