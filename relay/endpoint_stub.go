//go:build !unix

// File: relay/endpoint_stub.go
// Author: momentics <momentics@gmail.com>

package relay

import "github.com/momentics/hioload-vbuf/api"

func (e Endpoint) closeWrite() error { return nil }

func (e Endpoint) shutdown() error { return nil }

func (e Endpoint) close() error { return api.ErrNotSupported }

func setNonblock(int) error { return api.ErrNotSupported }
