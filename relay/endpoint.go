// File: relay/endpoint.go
// Author: momentics <momentics@gmail.com>

package relay

import (
	"fmt"

	"github.com/momentics/hioload-vbuf/core/vbuf"
)

// Endpoint is one side of a pump. Socket endpoints use recv/send with Flags;
// others use read/write (vectored where the platform allows).
type Endpoint struct {
	FD     int
	Socket bool
	Flags  int
}

// FileEndpoint wraps a pipe, tty or regular file descriptor.
func FileEndpoint(fd int) Endpoint {
	return Endpoint{FD: fd}
}

// SocketEndpoint wraps a connected stream socket.
func SocketEndpoint(fd, flags int) Endpoint {
	return Endpoint{FD: fd, Socket: true, Flags: flags}
}

func (e Endpoint) fill(b *vbuf.Buffer, size int) (int, error) {
	if e.Socket {
		return b.Recv(e.FD, size, e.Flags)
	}
	return b.ReadFD(e.FD, size)
}

func (e Endpoint) drain(b *vbuf.Buffer, size int) (int, error) {
	if e.Socket {
		return b.Send(e.FD, size, e.Flags)
	}
	return b.WriteFD(e.FD, size)
}

func (e Endpoint) String() string {
	if e.Socket {
		return fmt.Sprintf("socket:%d", e.FD)
	}
	return fmt.Sprintf("fd:%d", e.FD)
}
