// File: api/pool.go
// Author: momentics <momentics@gmail.com>
//
// Pooling contract for ring storage.

package api

// BytePool recycles fixed-length byte slices used as ring storage.
type BytePool interface {
	// Get returns a slice of exactly size bytes. Content is unspecified.
	Get(size int) []byte

	// Put returns a slice obtained from Get.
	Put(buf []byte)
}
