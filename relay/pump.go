// File: relay/pump.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package relay

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/eapache/queue"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/momentics/hioload-vbuf/api"
	"github.com/momentics/hioload-vbuf/core/vbuf"
	"github.com/momentics/hioload-vbuf/internal/logging"
)

// Pump moves bytes from src through a ring to dst.
type Pump struct {
	name    string
	src     Endpoint
	dst     Endpoint
	buf     *vbuf.Buffer
	size    int
	limiter *rate.Limiter

	backlog    *queue.Queue
	maxBacklog int

	log   *zap.Logger
	stats counters
	state atomic.Value

	eof      bool
	halfShut bool
	err      error
}

// NewPump allocates the ring and backlog for one direction.
func NewPump(name string, src, dst Endpoint, cfg Config, log *zap.Logger) *Pump {
	p := &Pump{
		name:       name,
		src:        src,
		dst:        dst,
		buf:        vbuf.New(cfg.BufferSize),
		size:       cfg.drainSize(),
		backlog:    queue.New(),
		maxBacklog: cfg.Backlog,
		log: logging.OrNop(log).With(
			zap.String("pump", name),
			zap.Stringer("src", src),
			zap.Stringer("dst", dst)),
	}
	if cfg.RateLimit > 0 {
		p.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimit)
	}
	p.sync()
	return p
}

// Name returns the label used in logs, metrics and probes.
func (p *Pump) Name() string { return p.name }

// Stats returns a snapshot of the counters. Safe from any goroutine.
func (p *Pump) Stats() Stats { return p.stats.snapshot() }

// Err returns the error that stopped the pump, if any.
func (p *Pump) Err() error { return p.err }

// Done reports whether the pump has nothing left to move: the source hit
// EOF and everything buffered was written, or a transfer failed.
func (p *Pump) Done() bool {
	return p.err != nil || (p.eof && p.pending() == 0)
}

// Enqueue schedules msg to be written to dst ahead of later source bytes.
// msg is copied. Messages that do not fit the ring wait in a bounded
// backlog; a full backlog returns api.ErrResourceExhausted.
func (p *Pump) Enqueue(msg []byte) error {
	if len(msg) == 0 {
		return nil
	}
	if p.backlog.Length() == 0 && p.buf.Put(msg) {
		p.sync()
		return nil
	}
	if p.backlog.Length() >= p.maxBacklog {
		return fmt.Errorf("pump %s backlog of %d: %w", p.name, p.maxBacklog, api.ErrResourceExhausted)
	}
	cp := append([]byte(nil), msg...)
	p.backlog.Add(&cp)
	p.flushBacklog()
	return nil
}

// flushBacklog moves queued messages into the ring in order, splitting the
// head message when only part of it fits.
func (p *Pump) flushBacklog() {
	for p.backlog.Length() > 0 {
		space := p.buf.Space()
		if space == 0 {
			break
		}
		head := p.backlog.Peek().(*[]byte)
		n := min(space, len(*head))
		p.buf.Put((*head)[:n])
		if n < len(*head) {
			*head = (*head)[n:]
			break
		}
		p.backlog.Remove()
	}
	p.sync()
}

func (p *Pump) pending() int {
	return p.buf.Len() + p.backlog.Length()
}

func (p *Pump) sync() {
	p.stats.buffered.Store(int64(p.buf.Len()))
	p.stats.backlog.Store(int64(p.backlog.Length()))
	p.state.Store(p.buf.State())
}

// BufferState returns the ring snapshot taken after the last transfer. Safe
// from any goroutine.
func (p *Pump) BufferState() vbuf.State {
	return p.state.Load().(vbuf.State)
}

// Fill performs one read from src into the free space of the ring. It
// returns (0, nil) when the ring is full or src would block, and io.EOF
// once src is exhausted.
func (p *Pump) Fill() (int, error) {
	p.flushBacklog()
	if p.eof {
		return 0, io.EOF
	}
	if p.buf.IsFull() {
		return 0, nil
	}
	n, err := p.src.fill(p.buf, api.SizeMin)
	p.stats.fills.Inc()
	p.stats.bytesIn.Add(int64(n))
	p.sync()
	switch {
	case errors.Is(err, io.EOF):
		p.eof = true
		p.log.Debug("source closed", zap.Int("buffered", p.buf.Len()))
		return n, io.EOF
	case err != nil:
		p.fail(err)
		return n, err
	case n == 0:
		p.stats.wouldBlock.Inc()
	}
	return n, nil
}

// Flush writes buffered bytes to dst using the configured mode. When a
// rate limit is set it waits on ctx for tokens and writes at most one
// limiter burst.
func (p *Pump) Flush(ctx context.Context) (int, error) {
	return p.flush(ctx, p.size, true)
}

// flush drains with the given size mode. Non-blocking callers pass
// api.SizeMin so a would-block destination returns instead of spinning.
func (p *Pump) flush(ctx context.Context, size int, limited bool) (int, error) {
	p.flushBacklog()
	if p.buf.IsEmpty() {
		return 0, nil
	}
	if limited && p.limiter != nil {
		size = min(p.buf.Len(), p.limiter.Burst())
		if err := p.limiter.WaitN(ctx, size); err != nil {
			return 0, err
		}
	}
	n, err := p.dst.drain(p.buf, size)
	p.stats.flushes.Inc()
	p.stats.bytesOut.Add(int64(n))
	p.flushBacklog()
	if err != nil {
		p.fail(err)
		return n, err
	}
	if n == 0 {
		p.stats.wouldBlock.Inc()
	}
	return n, nil
}

func (p *Pump) fail(err error) {
	if p.err == nil {
		p.err = err
		p.stats.errors.Inc()
		p.log.Warn("transfer failed", zap.Error(err))
	}
}

// finish half-closes dst once the source is exhausted and drained.
func (p *Pump) finish() error {
	if p.halfShut || p.err != nil || !p.eof || p.pending() != 0 {
		return nil
	}
	p.halfShut = true
	if err := p.dst.closeWrite(); err != nil {
		return fmt.Errorf("pump %s: close write: %w", p.name, err)
	}
	return nil
}

// Run drives the pump on blocking descriptors until src reaches EOF and the
// ring drains, a transfer fails, or ctx is cancelled. Cancellation is seen
// between transfers; a read blocked in the kernel is woken by shutting the
// descriptor down (Pipe.Close).
func (p *Pump) Run(ctx context.Context) error {
	p.log.Debug("pump started", zap.Stringer("buffer", p.buf))
	defer func() { p.log.Debug("pump stopped", zap.Stringer("stats", p.Stats())) }()
	for !p.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !p.eof && !p.buf.IsFull() {
			if _, err := p.Fill(); err != nil && !errors.Is(err, io.EOF) {
				return err
			}
		}
		if _, err := p.Flush(ctx); err != nil {
			if p.err == nil {
				return err
			}
			return p.err
		}
	}
	if p.err != nil {
		return p.err
	}
	return p.finish()
}

// Release returns the ring storage to the pool. The pump is unusable
// afterwards.
func (p *Pump) Release() {
	p.buf.Delete()
}
