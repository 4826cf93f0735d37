// control/platform.go
// Author: momentics <momentics@gmail.com>
//
// Platform, transport and ring storage probes.

package control

import (
	"runtime"

	"github.com/momentics/hioload-vbuf/internal/transport"
	"github.com/momentics/hioload-vbuf/pool"
)

// RegisterPlatformProbes sets platform debug probes.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	dp.RegisterProbe("transport.features", func() any {
		return transport.DetectFeatures()
	})
	dp.RegisterProbe("pool.ring_storage", func() any {
		return pool.Default().Stats()
	})
}
