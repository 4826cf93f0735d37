package pool_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-vbuf/pool"
)

func TestBytePoolExactLength(t *testing.T) {
	bp := pool.NewBytePool()
	b := bp.Get(17)
	require.Len(t, b, 17)
	assert.Nil(t, bp.Get(0))

	stats := bp.Stats()
	assert.EqualValues(t, 1, stats.Allocs)
	assert.Equal(t, 1, stats.Classes)
}

func TestBytePoolReuse(t *testing.T) {
	bp := pool.NewBytePool()
	b1 := bp.Get(128)
	bp.Put(b1)
	b2 := bp.Get(128)
	require.Len(t, b2, 128)

	stats := bp.Stats()
	assert.EqualValues(t, 1, stats.Returns)
	// sync.Pool may drop entries at any GC, so reuse is not guaranteed.
	assert.EqualValues(t, 2, stats.Allocs+stats.Reuses)
}

func TestBytePoolSeparatesLengths(t *testing.T) {
	bp := pool.NewBytePool()
	bp.Put(make([]byte, 8))
	b := bp.Get(16)
	assert.Len(t, b, 16)
	assert.Equal(t, 2, bp.Stats().Classes)
}

func TestDefaultIsShared(t *testing.T) {
	assert.Same(t, pool.Default(), pool.Default())
}
