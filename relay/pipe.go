// File: relay/pipe.go
// Author: momentics <momentics@gmail.com>

package relay

import (
	"context"
	"sync"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/momentics/hioload-vbuf/api"
	"github.com/momentics/hioload-vbuf/control"
	"github.com/momentics/hioload-vbuf/internal/logging"
)

// Pipe relays bytes in both directions between two endpoints. Either side
// may be a split pair, e.g. stdin/stdout, by giving distinct read and write
// endpoints.
type Pipe struct {
	name string

	// Forward copies from the first source to the second destination,
	// Reverse the other way round.
	Forward *Pump
	Reverse *Pump

	ends      []Endpoint
	log       *zap.Logger
	closeOnce sync.Once
	probes    []string
	ctrl      api.Control
}

// NewPipe connects aIn/aOut (one side) with bIn/bOut (the other side).
// For a socket or other full-duplex descriptor pass the same endpoint twice.
func NewPipe(name string, aIn, aOut, bIn, bOut Endpoint, cfg Config, log *zap.Logger) *Pipe {
	log = logging.OrNop(log).With(zap.String("pipe", name))
	p := &Pipe{
		name:    name,
		Forward: NewPump(name+".forward", aIn, bOut, cfg, log),
		Reverse: NewPump(name+".reverse", bIn, aOut, cfg, log),
		log:     log,
	}
	for _, e := range []Endpoint{aIn, aOut, bIn, bOut} {
		if !p.hasEnd(e.FD) {
			p.ends = append(p.ends, e)
		}
	}
	return p
}

func (p *Pipe) hasEnd(fd int) bool {
	for _, e := range p.ends {
		if e.FD == fd {
			return true
		}
	}
	return false
}

// Pumps returns both directions.
func (p *Pipe) Pumps() []*Pump {
	return []*Pump{p.Forward, p.Reverse}
}

// Instrument registers a stats probe and a ring state probe per direction
// with ctrl. Probes are
// removed on Close.
func (p *Pipe) Instrument(ctrl api.Control) {
	p.ctrl = ctrl
	for _, pump := range p.Pumps() {
		pump := pump
		name := "relay." + pump.Name()
		ctrl.RegisterDebugProbe(name, func() any { return pump.Stats() })
		ctrl.RegisterDebugProbe(name+".buffer", func() any { return pump.BufferState() })
		p.probes = append(p.probes, name, name+".buffer")
	}
}

// Publish copies the current counters of both directions into mr.
func (p *Pipe) Publish(mr *control.MetricsRegistry) {
	for _, pump := range p.Pumps() {
		pump.Stats().Publish(mr, "relay."+pump.Name())
	}
}

// Run drives both directions on blocking descriptors, one goroutine each.
// It returns when both directions finish or the first one fails; ring
// storage is released before returning.
func (p *Pipe) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, pump := range p.Pumps() {
		pump := pump
		g.Go(func() error {
			err := pump.Run(gctx)
			if err != nil {
				// Unblock the other direction, which may sit in a read.
				p.shutdown()
			}
			return err
		})
	}
	err := g.Wait()
	for _, pump := range p.Pumps() {
		pump.Release()
	}
	if err != nil {
		p.log.Info("pipe stopped", zap.Error(err))
	} else {
		p.log.Info("pipe finished",
			zap.Stringer("forward", p.Forward.Stats()),
			zap.Stringer("reverse", p.Reverse.Stats()))
	}
	return err
}

func (p *Pipe) shutdown() {
	for _, e := range p.ends {
		_ = e.shutdown()
	}
}

// Close shuts sockets down, closes every distinct descriptor and drops the
// probes. It may be called while Run is blocked to make it return.
func (p *Pipe) Close() error {
	var result *multierror.Error
	p.closeOnce.Do(func() {
		for _, e := range p.ends {
			if err := e.shutdown(); err != nil {
				result = multierror.Append(result, err)
			}
		}
		for _, e := range p.ends {
			if err := e.close(); err != nil {
				result = multierror.Append(result, err)
			}
		}
		if un, ok := p.ctrl.(interface{ UnregisterDebugProbe(string) }); ok {
			for _, name := range p.probes {
				un.UnregisterDebugProbe(name)
			}
		}
	})
	return result.ErrorOrNil()
}
