//go:build !unix

// internal/transport/transport_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub descriptor adapters for platforms without unix syscalls.

package transport

import "github.com/momentics/hioload-vbuf/api"

const vectored = false

// Transfer always fails with api.ErrNotSupported.
func (fd FDReader) Transfer(api.Spans) (int, error) { return 0, api.ErrNotSupported }

// Transfer always fails with api.ErrNotSupported.
func (fd FDWriter) Transfer(api.Spans) (int, error) { return 0, api.ErrNotSupported }

// Transfer always fails with api.ErrNotSupported.
func (r Receiver) Transfer(api.Spans) (int, error) { return 0, api.ErrNotSupported }

// Transfer always fails with api.ErrNotSupported.
func (s Sender) Transfer(api.Spans) (int, error) { return 0, api.ErrNotSupported }
