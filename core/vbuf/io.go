// File: core/vbuf/io.go
// Author: momentics <momentics@gmail.com>
//
// Descriptor, socket and stream entry points built on DrainTo/FillFrom.

package vbuf

import (
	"io"

	"github.com/momentics/hioload-vbuf/internal/transport"
)

// ReadFD fills the ring from fd with readv(2).
func (b *Buffer) ReadFD(fd, size int) (int, error) {
	return b.FillFrom(transport.FDReader(fd), size)
}

// WriteFD drains the ring into fd with writev(2).
func (b *Buffer) WriteFD(fd, size int) (int, error) {
	return b.DrainTo(transport.FDWriter(fd), size)
}

// Recv fills the ring from socket fd with recv(2) flags. Only the span
// before the wrap point is offered per call.
func (b *Buffer) Recv(fd, size, flags int) (int, error) {
	return b.FillFrom(transport.Receiver{FD: fd, Flags: flags}, size)
}

// Send drains the ring into socket fd with send(2) flags. Only the span
// before the wrap point is offered per call.
func (b *Buffer) Send(fd, size, flags int) (int, error) {
	return b.DrainTo(transport.Sender{FD: fd, Flags: flags}, size)
}

// ReadStream fills the ring from r.
func (b *Buffer) ReadStream(r io.Reader, size int) (int, error) {
	return b.FillFrom(transport.StreamReader{R: r}, size)
}

// WriteStream drains the ring into w, using net.Buffers so connections that
// support it get a single vectored write across the wrap point.
func (b *Buffer) WriteStream(w io.Writer, size int) (int, error) {
	return b.DrainTo(transport.StreamWriter{W: w}, size)
}
