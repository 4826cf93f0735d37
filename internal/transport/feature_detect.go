// File: internal/transport/feature_detect.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Advertises the detected capabilities of the descriptor adapters.

package transport

import "runtime"

// Features describes how descriptor adapters behave on this platform.
type Features struct {
	// Vectored is true when FDReader/FDWriter cover both spans in one call.
	Vectored bool
	// SocketVectored is always false: Receiver/Sender use the first span.
	SocketVectored bool
	OS             string
}

// DetectFeatures returns adapter capabilities for this OS/platform.
func DetectFeatures() Features {
	return Features{
		Vectored: vectored,
		OS:       runtime.GOOS,
	}
}
