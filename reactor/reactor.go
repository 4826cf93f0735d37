// File: reactor/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral event reactor interface for readiness-driven IO.

package reactor

// FDEventType is a bit set of readiness conditions.
type FDEventType uint32

const (
	EventRead FDEventType = 1 << iota
	EventWrite
	EventError
)

// FDCallback is invoked from Poll for every ready descriptor.
type FDCallback func(fd uintptr, events FDEventType)

// Reactor multiplexes readiness notifications for registered descriptors.
// Poll runs callbacks on the calling goroutine; Register, Modify and
// Unregister may be called from inside a callback.
type Reactor interface {
	// Register adds fd with the given interest set.
	Register(fd uintptr, events FDEventType, cb FDCallback) error

	// Modify replaces the interest set of a registered fd.
	Modify(fd uintptr, events FDEventType) error

	// Unregister removes fd. Its callback is not invoked afterwards.
	Unregister(fd uintptr) error

	// Poll waits up to timeoutMs (negative blocks) and dispatches callbacks.
	Poll(timeoutMs int) error

	// Close releases the poller.
	Close() error
}

// New constructs the platform reactor.
func New() (Reactor, error) {
	return newReactor()
}
