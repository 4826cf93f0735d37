// File: core/vbuf/bytes.go
// Author: momentics <momentics@gmail.com>
//
// Byte-level and bulk copy access.

package vbuf

import "bytes"

// Peek returns the oldest byte without consuming it; ok is false when empty.
func (b *Buffer) Peek() (c byte, ok bool) {
	if b.IsEmpty() {
		return 0, false
	}
	return b.buf[b.tail], true
}

// Pop removes and returns the oldest byte; ok is false when empty.
func (b *Buffer) Pop() (c byte, ok bool) {
	c, ok = b.Peek()
	if ok {
		b.tail = b.advance(b.tail, 1)
	}
	return c, ok
}

// Push appends c; returns false and changes nothing when full.
func (b *Buffer) Push(c byte) bool {
	b.mustInit()
	if b.IsFull() {
		return false
	}
	b.buf[b.head] = c
	b.head = b.advance(b.head, 1)
	return true
}

// Get copies exactly len(dst) bytes out of the ring. It fails without side
// effects when dst is empty or fewer than len(dst) bytes are buffered.
func (b *Buffer) Get(dst []byte) bool {
	b.mustInit()
	n := len(dst)
	if n == 0 || b.Len() < n {
		return false
	}
	first := min(n, b.tailRun())
	copy(dst, b.buf[b.tail:b.tail+first])
	copy(dst[first:], b.buf[:n-first])
	b.tail = b.advance(b.tail, n)
	return true
}

// Put copies all of src into the ring. It fails without side effects when
// src is empty or does not fit.
func (b *Buffer) Put(src []byte) bool {
	b.mustInit()
	n := len(src)
	if n == 0 || b.Space() < n {
		return false
	}
	first := min(n, b.headRun())
	copy(b.buf[b.head:b.head+first], src)
	copy(b.buf[:n-first], src[first:])
	b.head = b.advance(b.head, n)
	return true
}

// IndexByte returns the logical offset (0 is the oldest byte) of the first
// occurrence of c, or -1.
func (b *Buffer) IndexByte(c byte) int {
	if b.IsEmpty() {
		return -1
	}
	wrapped := b.head < b.tail
	end := b.head
	if wrapped {
		end = len(b.buf)
	}
	if i := bytes.IndexByte(b.buf[b.tail:end], c); i >= 0 {
		return i
	}
	if !wrapped {
		return -1
	}
	if i := bytes.IndexByte(b.buf[:b.head], c); i >= 0 {
		return len(b.buf) - b.tail + i
	}
	return -1
}
