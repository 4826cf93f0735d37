// Package api
// Author: momentics@gmail.com
//
// Byte ring contract for single-owner producer/consumer pipes.

package api

// ByteRing is a fixed-capacity FIFO of bytes. Implementations are not
// safe for concurrent use; the owner serializes all calls.
type ByteRing interface {
	// IsEmpty reports whether no bytes are buffered.
	IsEmpty() bool
	// IsFull reports whether no more bytes fit.
	IsFull() bool
	// Cap returns the fixed usable capacity.
	Cap() int
	// Len returns the number of buffered bytes.
	Len() int
	// Space returns Cap() - Len().
	Space() int

	Peek() (byte, bool)
	Pop() (byte, bool)
	Push(c byte) bool

	// Get copies exactly len(dst) bytes out, or nothing.
	Get(dst []byte) bool
	// Put copies exactly len(src) bytes in, or nothing.
	Put(src []byte) bool
	// IndexByte returns the logical offset of c, or -1.
	IndexByte(c byte) int
	// Clear drops all buffered bytes.
	Clear()
}
