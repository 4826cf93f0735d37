// Package transport
// Author: momentics <momentics@gmail.com>
//
// Adapters over Go streams for endpoints without a raw descriptor
// (net.Conn, os.File, io.Pipe).

package transport

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"syscall"

	"github.com/momentics/hioload-vbuf/api"
)

// StreamReader fills the first span from R with a single Read.
type StreamReader struct {
	R io.Reader
}

// StreamWriter writes both spans to W. When the second span is non-empty
// the write goes through net.Buffers, which becomes one writev on
// connections that support it.
type StreamWriter struct {
	W io.Writer
}

// streamWouldBlock treats an expired deadline like EAGAIN, which lets a
// caller poll a net.Conn with short deadlines the way it would poll a
// non-blocking descriptor.
func streamWouldBlock(err error) bool {
	return errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, syscall.EAGAIN)
}

// Transfer implements api.Transport. Bytes read alongside an error are
// reported as success; the reader yields the error again on the next call.
func (s StreamReader) Transfer(sp api.Spans) (int, error) {
	n, err := s.R.Read(sp[0])
	switch {
	case n > 0:
		return n, nil
	case err == nil, streamWouldBlock(err):
		return 0, nil
	case errors.Is(err, io.EOF):
		return 0, io.EOF
	default:
		return 0, fmt.Errorf("stream read: %w", err)
	}
}

// Transfer implements api.Transport.
func (s StreamWriter) Transfer(sp api.Spans) (int, error) {
	var (
		n   int
		err error
	)
	if len(sp[1]) == 0 {
		n, err = s.W.Write(sp[0])
	} else {
		bufs := net.Buffers(sp.Vectors())
		var n64 int64
		n64, err = bufs.WriteTo(s.W)
		n = int(n64)
	}
	switch {
	case n > 0, err == nil, streamWouldBlock(err):
		return n, nil
	default:
		return 0, fmt.Errorf("stream write: %w", err)
	}
}
