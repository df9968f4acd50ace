package permission

import "sync"

// DeviceStatus is what a remote client polls to learn what the service wants
// from its location hardware.
type DeviceStatus struct {
	AuthorizationRequested bool `json:"authorizationRequested"`
	Updating               bool `json:"updating"`
}

// RemoteDevice is a DeviceService whose commands are picked up by a client
// over the API; the client reports back through Tracker events.
type RemoteDevice struct {
	mu     sync.Mutex
	status DeviceStatus
}

func NewRemoteDevice() *RemoteDevice {
	return &RemoteDevice{}
}

func (d *RemoteDevice) RequestAuthorization() {
	d.mu.Lock()
	d.status.AuthorizationRequested = true
	d.mu.Unlock()
}

func (d *RemoteDevice) StartUpdates() {
	d.mu.Lock()
	d.status.Updating = true
	d.mu.Unlock()
}

func (d *RemoteDevice) StopUpdates() {
	d.mu.Lock()
	d.status.Updating = false
	d.mu.Unlock()
}

// AuthorizationAnswered clears the pending request once the client reports a decision.
func (d *RemoteDevice) AuthorizationAnswered() {
	d.mu.Lock()
	d.status.AuthorizationRequested = false
	d.mu.Unlock()
}

func (d *RemoteDevice) Status() DeviceStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}
