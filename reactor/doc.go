// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor provides the poll-mode readiness reactor that drives
// non-blocking ring buffer pipes. Linux uses epoll; other platforms report
// api.ErrNotSupported.
package reactor
