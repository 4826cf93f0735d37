// File: relay/stats.go
// Author: momentics <momentics@gmail.com>

package relay

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"go.uber.org/atomic"

	"github.com/momentics/hioload-vbuf/control"
)

// Stats is a snapshot of pump counters.
type Stats struct {
	BytesIn    int64
	BytesOut   int64
	Fills      int64
	Flushes    int64
	WouldBlock int64
	Errors     int64
	Buffered   int64
	Backlog    int64
}

// counters are written by the driving goroutine and read by probes.
type counters struct {
	bytesIn    atomic.Int64
	bytesOut   atomic.Int64
	fills      atomic.Int64
	flushes    atomic.Int64
	wouldBlock atomic.Int64
	errors     atomic.Int64
	buffered   atomic.Int64
	backlog    atomic.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{
		BytesIn:    c.bytesIn.Load(),
		BytesOut:   c.bytesOut.Load(),
		Fills:      c.fills.Load(),
		Flushes:    c.flushes.Load(),
		WouldBlock: c.wouldBlock.Load(),
		Errors:     c.errors.Load(),
		Buffered:   c.buffered.Load(),
		Backlog:    c.backlog.Load(),
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("in=%s out=%s buffered=%s fills=%d flushes=%d would_block=%d errors=%d backlog=%d",
		humanize.IBytes(uint64(s.BytesIn)),
		humanize.IBytes(uint64(s.BytesOut)),
		humanize.IBytes(uint64(s.Buffered)),
		s.Fills, s.Flushes, s.WouldBlock, s.Errors, s.Backlog)
}

// Publish writes the counters into mr under "<prefix>.<counter>".
func (s Stats) Publish(mr *control.MetricsRegistry, prefix string) {
	mr.SetAll(map[string]any{
		prefix + ".bytes_in":    s.BytesIn,
		prefix + ".bytes_out":   s.BytesOut,
		prefix + ".fills":       s.Fills,
		prefix + ".flushes":     s.Flushes,
		prefix + ".would_block": s.WouldBlock,
		prefix + ".errors":      s.Errors,
		prefix + ".buffered":    s.Buffered,
		prefix + ".backlog":     s.Backlog,
	})
}
