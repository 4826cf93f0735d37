// File: api/transport.go
// Author: momentics <momentics@gmail.com>
//
// Transfer contract between a ring buffer and a byte-stream endpoint.

package api

// Size modes accepted by the bulk transfer primitives in place of a byte count.
const (
	// SizeAll moves exactly everything currently available, calling the
	// transport as many times as needed.
	SizeAll = -1

	// SizeMin issues a single transport call sized to everything available
	// and returns after it, however much it moved.
	SizeMin = -2
)

// Spans describes a logical window of a ring: Spans[0] starts at the cursor
// and never crosses the end of storage, Spans[1] continues from the start of
// storage and may be empty.
type Spans [2][]byte

// Len returns the total number of bytes covered by both spans.
func (s Spans) Len() int {
	return len(s[0]) + len(s[1])
}

// Vectors returns the spans as an iovec list, omitting an empty second span.
func (s Spans) Vectors() [][]byte {
	if len(s[1]) == 0 {
		return s[:1]
	}
	return s[:]
}

// Transport moves bytes between a ring window and an external endpoint.
//
// Transfer returns the number of bytes actually moved. A would-block
// condition is a successful transfer of zero bytes, not an error. The
// endpoint context (descriptor, flags) belongs to the implementing value.
type Transport interface {
	Transfer(sp Spans) (int, error)
}

// TransportFunc adapts an ordinary function to Transport.
type TransportFunc func(sp Spans) (int, error)

// Transfer calls f(sp).
func (f TransportFunc) Transfer(sp Spans) (int, error) {
	return f(sp)
}
