// File: core/vbuf/vbuf.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package vbuf

import (
	"github.com/momentics/hioload-vbuf/api"
	"github.com/momentics/hioload-vbuf/pool"
)

// Ensure compile-time interface compliance.
var _ api.ByteRing = (*Buffer)(nil)

// Buffer is a single-owner byte ring.
//
// head is the offset of the next byte to write, tail the offset of the next
// byte to read; both stay in [0, len(buf)).
type Buffer struct {
	buf      []byte
	head     int
	tail     int
	capacity int
	owned    bool
}

// New allocates a ring holding up to capacity bytes. Storage comes from
// pool.Default() and goes back there on Delete.
func New(capacity int) *Buffer {
	if capacity < 1 {
		panic("vbuf: capacity must be at least 1")
	}
	return &Buffer{
		buf:      pool.Default().Get(capacity + 1),
		capacity: capacity,
		owned:    true,
	}
}

// Attach binds a ring to caller-owned memory. Usable capacity is
// len(mem)-1. The ring never releases mem.
func Attach(mem []byte) *Buffer {
	if len(mem) < 2 {
		panic("vbuf: attached memory must be at least 2 bytes")
	}
	return &Buffer{
		buf:      mem,
		capacity: len(mem) - 1,
	}
}

// Delete releases owned storage and zeroes the ring. On an attached ring it
// is equivalent to Detach.
func (b *Buffer) Delete() {
	if b.owned && b.buf != nil {
		pool.Default().Put(b.buf)
	}
	*b = Buffer{}
}

// Detach zeroes the ring without releasing its memory.
func (b *Buffer) Detach() {
	*b = Buffer{}
}

// Clear drops buffered bytes by resetting both cursors. Content is untouched.
func (b *Buffer) Clear() {
	b.head, b.tail = 0, 0
}

// IsEmpty reports whether no bytes are buffered.
func (b *Buffer) IsEmpty() bool {
	return b.head == b.tail
}

// IsFull reports whether Space() is zero.
func (b *Buffer) IsFull() bool {
	return b.Len() == b.capacity
}

// Cap returns the usable capacity fixed at construction.
func (b *Buffer) Cap() int {
	return b.capacity
}

// Len returns the number of buffered bytes.
func (b *Buffer) Len() int {
	if b.head >= b.tail {
		return b.head - b.tail
	}
	return len(b.buf) - b.tail + b.head
}

// Space returns how many more bytes fit.
func (b *Buffer) Space() int {
	return b.capacity - b.Len()
}

// tailRun is the contiguous readable run starting at tail.
func (b *Buffer) tailRun() int {
	if b.head >= b.tail {
		return b.head - b.tail
	}
	return len(b.buf) - b.tail
}

// headRun is the contiguous writable run starting at head. It may include
// the reserved slot; callers cap it by Space().
func (b *Buffer) headRun() int {
	if b.head >= b.tail {
		return len(b.buf) - b.head
	}
	return b.tail - b.head
}

// advance moves cursor off bytes forward, wrapping at end of storage.
// off never exceeds len(buf)-1.
func (b *Buffer) advance(cursor, off int) int {
	cursor += off
	if cursor >= len(b.buf) {
		cursor -= len(b.buf)
	}
	return cursor
}

func (b *Buffer) mustInit() {
	if b.buf == nil {
		panic("vbuf: buffer used after Delete or Detach")
	}
}
