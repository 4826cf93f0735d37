//go:build unix

// File: internal/transport/transport_unix.go
// Author: momentics <momentics@gmail.com>
//
// Socket adapters and errno handling shared by all unix platforms.

package transport

import (
	"errors"
	"io"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-vbuf/api"
)

// ignoringEINTR calls fn until it returns something other than EINTR.
func ignoringEINTR(fn func() (int, error)) (int, error) {
	for {
		n, err := fn()
		if !errors.Is(err, unix.EINTR) {
			return n, err
		}
	}
}

func wouldBlock(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK)
}

// readResult normalizes a read-side syscall result. want is the number of
// bytes offered; a zero return for a non-empty request is end of stream.
func readResult(op string, fd, flags, n, want int, err error) (int, error) {
	switch {
	case err == nil && n == 0 && want > 0:
		return 0, io.EOF
	case err == nil:
		return n, nil
	case wouldBlock(err):
		return 0, nil
	default:
		return 0, opError(op, fd, flags, err)
	}
}

// writeResult normalizes a write-side syscall result.
func writeResult(op string, fd, flags, n int, err error) (int, error) {
	switch {
	case err == nil:
		return n, nil
	case wouldBlock(err):
		return 0, nil
	default:
		return 0, opError(op, fd, flags, err)
	}
}

// Transfer implements api.Transport with recvfrom(2).
func (r Receiver) Transfer(sp api.Spans) (int, error) {
	n, err := ignoringEINTR(func() (int, error) {
		n, _, err := unix.Recvfrom(r.FD, sp[0], r.Flags)
		return recvResult(n, err)
	})
	if err == nil && n == 0 && len(sp[0]) > 0 && !streamSocket(r.FD) {
		// Empty datagram, not a shutdown.
		return 0, nil
	}
	return readResult("recv", r.FD, r.Flags, n, len(sp[0]), err)
}

// recvResult keeps bytes that recvfrom already consumed when only decoding
// the source address failed. A failed receive itself reports n < 0.
func recvResult(n int, err error) (int, error) {
	if err != nil && (n > 0 || (n == 0 && errors.Is(err, unix.EAFNOSUPPORT))) {
		return n, nil
	}
	return n, err
}

// streamSocket reports whether fd is a SOCK_STREAM socket. Only the
// zero-byte path asks, so the lookup costs nothing on the data path.
func streamSocket(fd int) bool {
	typ, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_TYPE)
	return err != nil || typ == unix.SOCK_STREAM
}

// Transfer implements api.Transport with sendmsg(2).
func (s Sender) Transfer(sp api.Spans) (int, error) {
	n, err := ignoringEINTR(func() (int, error) {
		return unix.SendmsgN(s.FD, sp[0], nil, nil, s.Flags)
	})
	return writeResult("send", s.FD, s.Flags, n, err)
}
