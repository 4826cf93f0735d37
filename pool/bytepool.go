// File: pool/bytepool.go
// Author: momentics <momentics@gmail.com>
//
// Length-keyed byte slab pool backing ring buffer storage.

package pool

import (
	"sync"

	"go.uber.org/atomic"

	"github.com/momentics/hioload-vbuf/api"
)

// Ensure compile-time interface compliance.
var _ api.BytePool = (*BytePool)(nil)

// BytePool hands out byte slices of an exact length and recycles them.
// Slices of different lengths live in separate sync.Pools. Safe for
// concurrent use.
type BytePool struct {
	mu      sync.RWMutex
	classes map[int]*sync.Pool

	allocs  atomic.Int64
	reuses  atomic.Int64
	returns atomic.Int64
}

// BytePoolStats aggregates allocation/reuse counters.
type BytePoolStats struct {
	Allocs  int64
	Reuses  int64
	Returns int64
	Classes int
}

// NewBytePool creates an empty pool.
func NewBytePool() *BytePool {
	return &BytePool{classes: make(map[int]*sync.Pool)}
}

func (p *BytePool) class(size int) *sync.Pool {
	p.mu.RLock()
	sp, ok := p.classes[size]
	p.mu.RUnlock()
	if ok {
		return sp
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if sp, ok := p.classes[size]; ok {
		return sp
	}
	sp = &sync.Pool{}
	p.classes[size] = sp
	return sp
}

// Get returns a slice of exactly size bytes. Recycled slices keep their old
// content; callers must not assume zeroed memory.
func (p *BytePool) Get(size int) []byte {
	if size <= 0 {
		return nil
	}
	if v := p.class(size).Get(); v != nil {
		p.reuses.Inc()
		return *(v.(*[]byte))
	}
	p.allocs.Inc()
	return make([]byte, size)
}

// Put returns buf to the pool. The caller must not use buf afterwards.
func (p *BytePool) Put(buf []byte) {
	if cap(buf) == 0 {
		return
	}
	buf = buf[:cap(buf)]
	p.returns.Inc()
	p.class(len(buf)).Put(&buf)
}

// Stats returns a snapshot of pool counters.
func (p *BytePool) Stats() BytePoolStats {
	p.mu.RLock()
	classes := len(p.classes)
	p.mu.RUnlock()
	return BytePoolStats{
		Allocs:  p.allocs.Load(),
		Reuses:  p.reuses.Load(),
		Returns: p.returns.Load(),
		Classes: classes,
	}
}
