// File: internal/transport/doc.go
// Package transport
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Transport adapters realizing api.Transport for plain descriptors
// (readv/writev), sockets with flags (recv/send) and Go streams. Platform
// code is strictly separated by build tags (linux / other unix / stub).
//
// Every adapter retries EINTR, reports EAGAIN as a zero-byte success and
// wraps any other failure in an *api.Error carrying the errno.

package transport
