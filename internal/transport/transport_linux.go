//go:build linux
// +build linux

// internal/transport/transport_linux.go
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux descriptor adapters using one readv/writev across the wrap point.

package transport

import (
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-vbuf/api"
)

const vectored = true

// Transfer implements api.Transport with readv(2).
func (fd FDReader) Transfer(sp api.Spans) (int, error) {
	iovs := sp.Vectors()
	n, err := ignoringEINTR(func() (int, error) {
		return unix.Readv(int(fd), iovs)
	})
	return readResult("readv", int(fd), 0, n, sp.Len(), err)
}

// Transfer implements api.Transport with writev(2).
func (fd FDWriter) Transfer(sp api.Spans) (int, error) {
	iovs := sp.Vectors()
	n, err := ignoringEINTR(func() (int, error) {
		return unix.Writev(int(fd), iovs)
	})
	return writeResult("writev", int(fd), 0, n, err)
}
