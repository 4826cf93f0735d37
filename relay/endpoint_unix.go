//go:build unix

// File: relay/endpoint_unix.go
// Author: momentics <momentics@gmail.com>

package relay

import (
	"golang.org/x/sys/unix"
)

// closeWrite signals end of stream to the peer of a socket endpoint.
// File endpoints are left open; their owner closes them.
func (e Endpoint) closeWrite() error {
	if !e.Socket {
		return nil
	}
	if err := unix.Shutdown(e.FD, unix.SHUT_WR); err != nil && err != unix.ENOTCONN {
		return err
	}
	return nil
}

// shutdown wakes goroutines blocked on a socket endpoint.
func (e Endpoint) shutdown() error {
	if !e.Socket {
		return nil
	}
	if err := unix.Shutdown(e.FD, unix.SHUT_RDWR); err != nil && err != unix.ENOTCONN {
		return err
	}
	return nil
}

func (e Endpoint) close() error {
	return unix.Close(e.FD)
}

func setNonblock(fd int) error {
	return unix.SetNonblock(fd, true)
}
