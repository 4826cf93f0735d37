// File: core/vbuf/transfer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Generic two-span bulk transfer between the ring and an api.Transport.

package vbuf

import (
	"fmt"

	"github.com/momentics/hioload-vbuf/api"
)

// DrainTo moves buffered bytes into t, advancing the read cursor by exactly
// what t reports.
//
// size is a positive byte count, api.SizeAll or api.SizeMin. A size that
// resolves below 1 or above Len() fails with api.ErrInvalidSize before any
// I/O. When t fails after earlier calls in the same DrainTo already moved
// data, that count is returned with a nil error; the failure resurfaces on
// the next call.
func (b *Buffer) DrainTo(t api.Transport, size int) (int, error) {
	b.mustInit()
	size, once, err := resolveSize(size, b.Len())
	if err != nil {
		return 0, err
	}
	moved := 0
	for {
		first := min(size, b.tailRun())
		sp := api.Spans{b.buf[b.tail : b.tail+first], b.buf[:size-first]}
		n, err := transfer(t, sp)
		if err != nil {
			if moved > 0 {
				return moved, nil
			}
			return 0, err
		}
		b.tail = b.advance(b.tail, n)
		moved += n
		size -= n
		if size == 0 || once {
			return moved, nil
		}
	}
}

// FillFrom moves bytes from t into free space, advancing the write cursor by
// exactly what t reports. size and error semantics mirror DrainTo, bounded
// by Space() instead of Len().
func (b *Buffer) FillFrom(t api.Transport, size int) (int, error) {
	b.mustInit()
	size, once, err := resolveSize(size, b.Space())
	if err != nil {
		return 0, err
	}
	moved := 0
	for {
		first := min(size, b.headRun())
		sp := api.Spans{b.buf[b.head : b.head+first], b.buf[:size-first]}
		n, err := transfer(t, sp)
		if err != nil {
			if moved > 0 {
				return moved, nil
			}
			return 0, err
		}
		b.head = b.advance(b.head, n)
		moved += n
		size -= n
		if size == 0 || once {
			return moved, nil
		}
	}
}

// resolveSize maps the size modes onto a byte count bounded by avail.
func resolveSize(size, avail int) (n int, once bool, err error) {
	switch size {
	case api.SizeAll:
		size = avail
	case api.SizeMin:
		size, once = avail, true
	}
	if size < 1 || size > avail {
		return 0, false, fmt.Errorf("%w: requested %d, available %d", api.ErrInvalidSize, size, avail)
	}
	return size, once, nil
}

// transfer calls t and rejects counts the spans cannot account for, so a
// misbehaving transport never pushes a cursor past valid data.
func transfer(t api.Transport, sp api.Spans) (int, error) {
	n, err := t.Transfer(sp)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > sp.Len() {
		return 0, fmt.Errorf("%w: %d of %d", api.ErrShortTransport, n, sp.Len())
	}
	return n, nil
}
