// File: core/vbuf/state.go
// Author: momentics <momentics@gmail.com>
//
// Cursor snapshot and one-line report for probes and logs.

package vbuf

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// State is a point-in-time snapshot of ring accounting.
type State struct {
	Capacity int
	Size     int
	Space    int
	Head     int
	Tail     int
	Empty    bool
	Owned    bool
}

// State reports the current cursors and derived sizes.
func (b *Buffer) State() State {
	return State{
		Capacity: b.capacity,
		Size:     b.Len(),
		Space:    b.Space(),
		Head:     b.head,
		Tail:     b.tail,
		Empty:    b.IsEmpty(),
		Owned:    b.owned,
	}
}

// String renders a one-line report for logs and debug probes.
func (b *Buffer) String() string {
	s := b.State()
	return fmt.Sprintf("vbuf capacity=%s size=%s space=%s empty=%t head=%d tail=%d",
		humanize.IBytes(uint64(s.Capacity)),
		humanize.IBytes(uint64(s.Size)),
		humanize.IBytes(uint64(s.Space)),
		s.Empty, s.Head, s.Tail)
}
