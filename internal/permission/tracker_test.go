package permission

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEffects struct {
	calls []string
}

func (r *recordingEffects) FetchFallback() { r.calls = append(r.calls, "fallback") }

func (r *recordingEffects) FetchPosition(c FetchPosition) {
	r.calls = append(r.calls, "fetch")
}

func (r *recordingEffects) ResolvePlaceName(c ResolvePlaceName) {
	r.calls = append(r.calls, "resolve")
}

func TestTrackerAuthorizedFlow(t *testing.T) {
	device := NewRemoteDevice()
	effects := &recordingEffects{}
	tr := NewTracker(device, effects)

	tr.Handle(AuthorizationChanged{State: Undetermined})
	assert.True(t, device.Status().AuthorizationRequested)
	assert.Empty(t, effects.calls, "no fetch while undetermined")

	device.AuthorizationAnswered()
	tr.Handle(AuthorizationChanged{State: Authorized})
	assert.True(t, device.Status().Updating)
	assert.False(t, device.Status().AuthorizationRequested)

	st := tr.Handle(PositionReceived{Coordinate: seoul})
	assert.Equal(t, PhaseLocated, st.Phase)
	assert.False(t, device.Status().Updating, "updates stop after the first fix")
	assert.Equal(t, []string{"fetch", "resolve"}, effects.calls)

	tr.Handle(PositionReceived{Coordinate: seoul})
	assert.Equal(t, []string{"fetch", "resolve"}, effects.calls)
}

func TestTrackerDeviceFailure(t *testing.T) {
	device := NewRemoteDevice()
	effects := &recordingEffects{}
	tr := NewTracker(device, effects)

	tr.Handle(AuthorizationChanged{State: Authorized})
	tr.Handle(LocationFailed{Err: errors.New("kCLErrorLocationUnknown")})
	tr.Handle(LocationFailed{Err: errors.New("again")})

	require.Equal(t, []string{"fallback"}, effects.calls)
	assert.False(t, device.Status().Updating)
	assert.Equal(t, PhaseFallback, tr.State().Phase)
}
