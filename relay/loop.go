// File: relay/loop.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Single-threaded readiness loop. Descriptors are switched to non-blocking
// mode and every transfer runs from a reactor callback, so a would-block
// result just leaves the bytes for the next event.

package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"go.uber.org/zap"

	"github.com/momentics/hioload-vbuf/affinity"
	"github.com/momentics/hioload-vbuf/api"
	"github.com/momentics/hioload-vbuf/internal/logging"
	"github.com/momentics/hioload-vbuf/reactor"
)

// pollTimeoutMs bounds how long Run waits before rechecking ctx.
const pollTimeoutMs = 100

type fdState struct {
	readFor    *Pump
	writeFor   *Pump
	interest   reactor.FDEventType
	registered bool
}

// Loop multiplexes any number of pumps on one goroutine.
type Loop struct {
	r     reactor.Reactor
	fds   map[int]*fdState
	pumps []*Pump
	cpu   int
	log   *zap.Logger
}

// NewLoop creates the reactor. cfg.CPU pins the goroutine running Run.
func NewLoop(cfg Config, log *zap.Logger) (*Loop, error) {
	r, err := reactor.New()
	if err != nil {
		return nil, fmt.Errorf("relay loop: %w", err)
	}
	return &Loop{
		r:   r,
		fds: make(map[int]*fdState),
		cpu: cfg.CPU,
		log: logging.OrNop(log).Named("loop"),
	}, nil
}

// AddPipe adds both directions of p.
func (l *Loop) AddPipe(p *Pipe) error {
	for _, pump := range p.Pumps() {
		if err := l.Add(pump); err != nil {
			return err
		}
	}
	return nil
}

// Add puts the pump's descriptors in non-blocking mode and registers them.
// A descriptor may read for one pump and write for another.
func (l *Loop) Add(p *Pump) error {
	for _, fd := range []int{p.src.FD, p.dst.FD} {
		if err := setNonblock(fd); err != nil {
			return fmt.Errorf("relay loop: set nonblock fd %d: %w", fd, err)
		}
	}
	l.state(p.src.FD).readFor = p
	l.state(p.dst.FD).writeFor = p
	l.pumps = append(l.pumps, p)
	return l.refresh()
}

func (l *Loop) state(fd int) *fdState {
	st, ok := l.fds[fd]
	if !ok {
		st = &fdState{}
		l.fds[fd] = st
	}
	return st
}

// wants computes the interest set from the pumps attached to a descriptor.
func (st *fdState) wants() reactor.FDEventType {
	var ev reactor.FDEventType
	if p := st.readFor; p != nil && !p.eof && p.err == nil && !p.buf.IsFull() {
		ev |= reactor.EventRead
	}
	if p := st.writeFor; p != nil && p.err == nil && p.pending() > 0 {
		ev |= reactor.EventWrite
	}
	return ev
}

// idle reports whether the descriptor has nothing left to read and no
// pending writes.
func (st *fdState) idle() bool {
	return (st.readFor == nil || st.readFor.eof || st.readFor.err != nil) &&
		(st.writeFor == nil || st.writeFor.Done())
}

// refresh syncs interest sets with pump state and half-closes finished
// directions. Descriptors with no interest stay registered with an empty
// set so hangups are still reported.
func (l *Loop) refresh() error {
	for _, p := range l.pumps {
		if err := p.finish(); err != nil {
			l.log.Warn("finish pump", zap.String("pump", p.Name()), zap.Error(err))
		}
	}
	for fd, st := range l.fds {
		if st.idle() {
			if st.registered {
				if err := l.r.Unregister(uintptr(fd)); err != nil {
					return fmt.Errorf("relay loop: unregister fd %d: %w", fd, err)
				}
			}
			delete(l.fds, fd)
			continue
		}
		ev := st.wants()
		switch {
		case !st.registered:
			if err := l.r.Register(uintptr(fd), ev, l.onEvent); err != nil {
				return fmt.Errorf("relay loop: register fd %d: %w", fd, err)
			}
			st.registered = true
		case ev != st.interest:
			if err := l.r.Modify(uintptr(fd), ev); err != nil {
				return fmt.Errorf("relay loop: modify fd %d: %w", fd, err)
			}
		}
		st.interest = ev
	}
	return nil
}

func (l *Loop) onEvent(fd uintptr, events reactor.FDEventType) {
	st, ok := l.fds[int(fd)]
	if !ok {
		return
	}
	if p := st.writeFor; p != nil && events&(reactor.EventWrite|reactor.EventError) != 0 && p.err == nil {
		// Rate limits apply to blocking pumps only.
		_, _ = p.flush(context.Background(), api.SizeMin, false)
	}
	if p := st.readFor; p != nil && events&(reactor.EventRead|reactor.EventError) != 0 && !p.eof && p.err == nil {
		if _, err := p.Fill(); err != nil && !errors.Is(err, io.EOF) {
			l.log.Debug("fill failed", zap.String("pump", p.Name()), zap.Error(err))
		}
		// Push what was just read without waiting for another round.
		_, _ = p.flush(context.Background(), api.SizeMin, false)
	}
}

// Done reports whether every pump has finished.
func (l *Loop) Done() bool {
	for _, p := range l.pumps {
		if !p.Done() {
			return false
		}
	}
	return true
}

// Run polls until every pump is done or one of them fails. A cancelled ctx
// or a reactor error also ends it.
func (l *Loop) Run(ctx context.Context) error {
	if l.cpu >= 0 {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		if err := affinity.SetAffinity(l.cpu); err != nil {
			return fmt.Errorf("relay loop: %w", err)
		}
		l.log.Info("loop pinned", zap.Int("cpu", l.cpu))
	}
	for !l.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := l.firstErr(); err != nil {
			return err
		}
		if err := l.r.Poll(pollTimeoutMs); err != nil {
			return fmt.Errorf("relay loop: poll: %w", err)
		}
		if err := l.refresh(); err != nil {
			return err
		}
	}
	if err := l.refresh(); err != nil {
		return err
	}
	return l.firstErr()
}

func (l *Loop) firstErr() error {
	for _, p := range l.pumps {
		if p.err != nil {
			return fmt.Errorf("pump %s: %w", p.Name(), p.err)
		}
	}
	return nil
}

// Close releases the reactor and the ring storage of every pump.
func (l *Loop) Close() error {
	for _, p := range l.pumps {
		p.Release()
	}
	l.pumps = nil
	return l.r.Close()
}
