//go:build unix && !linux

// internal/transport/transport_unix_other.go
// Author: momentics <momentics@gmail.com>
//
// Non-Linux unix descriptor adapters. They use read/write on the first span
// only; the engine loop issues a second call for data past the wrap point.

package transport

import (
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-vbuf/api"
)

const vectored = false

// Transfer implements api.Transport with read(2).
func (fd FDReader) Transfer(sp api.Spans) (int, error) {
	n, err := ignoringEINTR(func() (int, error) {
		return unix.Read(int(fd), sp[0])
	})
	return readResult("read", int(fd), 0, n, len(sp[0]), err)
}

// Transfer implements api.Transport with write(2).
func (fd FDWriter) Transfer(sp api.Spans) (int, error) {
	n, err := ignoringEINTR(func() (int, error) {
		return unix.Write(int(fd), sp[0])
	})
	return writeResult("write", int(fd), 0, n, err)
}
