// Package vbuf
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fixed-capacity circular byte buffer mediating between in-memory
// producers/consumers and byte-stream endpoints.
//
// Storage is one byte longer than the usable capacity so that full and
// empty are told apart by cursor comparison alone. Bulk transfers hand the
// transport up to two spans (before and after the wrap point) so a single
// readv/writev covers data that straddles the end of storage.
//
// A Buffer is owned by one execution context at a time; it has no locks.
package vbuf
