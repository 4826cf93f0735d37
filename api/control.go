// File: api/control.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// Control is the runtime control plane seen by relays: a config snapshot
// with reload listeners, counters, and named debug probes.
type Control interface {
	// GetConfig returns a copy of the current key/value configuration.
	GetConfig() map[string]any

	// SetConfig merges cfg into the configuration and notifies listeners.
	SetConfig(cfg map[string]any) error

	// Stats merges published metrics with the output of every probe.
	Stats() map[string]any

	// OnReload registers fn to run after configuration changes.
	OnReload(fn func())

	// RegisterDebugProbe installs a named probe; pipes register one per
	// pump direction.
	RegisterDebugProbe(name string, fn func() any)
}
