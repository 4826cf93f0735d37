// Package transport
// Author: momentics <momentics@gmail.com>
//
// Adapter value types. Each value is the whole transfer context and is
// passed by value; none of them hold pointers into ring storage.

package transport

import (
	"github.com/momentics/hioload-vbuf/api"
)

// FDReader reads from a plain descriptor into both spans with one readv(2).
type FDReader int

// FDWriter writes both spans to a plain descriptor with one writev(2).
type FDWriter int

// Receiver reads from a socket with recv(2) flags. Only the first span is
// used per call; the caller's transfer loop picks up the remainder.
//
// On a stream socket a zero-byte read is reported as io.EOF, the orderly
// shutdown. Datagram and seqpacket sockets report an empty message as
// (0, nil).
type Receiver struct {
	FD    int
	Flags int
}

// Sender writes to a socket with send(2) flags. Only the first span is used
// per call.
type Sender struct {
	FD    int
	Flags int
}

// Ensure compile-time interface compliance.
var (
	_ api.Transport = FDReader(0)
	_ api.Transport = FDWriter(0)
	_ api.Transport = Receiver{}
	_ api.Transport = Sender{}
	_ api.Transport = StreamReader{}
	_ api.Transport = StreamWriter{}
)

// opError builds the structured error reported for a failed syscall.
func opError(op string, fd, flags int, err error) error {
	e := api.NewError(api.ErrCodeTransport, op).
		WithContext("fd", fd).
		WithCause(err)
	if flags != 0 {
		e.WithContext("flags", flags)
	}
	return e
}
