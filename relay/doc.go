// Package relay
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Descriptor pipes built on the vbuf ring engine. A Pump moves bytes one way
// (source descriptor, ring, destination descriptor); a Pipe pairs two pumps
// for a full-duplex connection. Pumps run either blocking, one goroutine per
// direction (Pipe.Run), or non-blocking under a readiness reactor (Loop),
// where would-block transfers simply wait for the next event.
//
// Pumps are not safe for concurrent use: Enqueue, Fill and Flush must be
// called from the goroutine that drives the pump. Stats may be read from
// anywhere.
package relay
