//go:build linux

package relay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-vbuf/adapters"
	"github.com/momentics/hioload-vbuf/control"
	"github.com/momentics/hioload-vbuf/core/vbuf"
)

func TestPipeRunRelaysBothDirections(t *testing.T) {
	client, a := socketPair(t)
	b, server := socketPair(t)

	cfg := DefaultConfig()
	cfg.BufferSize = 3
	p := NewPipe("duplex", SocketEndpoint(a, 0), SocketEndpoint(a, 0),
		SocketEndpoint(b, 0), SocketEndpoint(b, 0), cfg, nil)

	_, err := unix.Write(client, []byte("request"))
	require.NoError(t, err)
	require.NoError(t, unix.Shutdown(client, unix.SHUT_WR))
	_, err = unix.Write(server, []byte("response"))
	require.NoError(t, err)
	require.NoError(t, unix.Shutdown(server, unix.SHUT_WR))

	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, "request", string(readAll(t, server)))
	assert.Equal(t, "response", string(readAll(t, client)))

	mr := control.NewMetricsRegistry()
	p.Publish(mr)
	v, ok := mr.Get("relay.duplex.forward.bytes_out")
	require.True(t, ok)
	assert.EqualValues(t, 7, v)
	v, ok = mr.Get("relay.duplex.reverse.bytes_out")
	require.True(t, ok)
	assert.EqualValues(t, 8, v)
}

func TestPipeCloseUnblocksRun(t *testing.T) {
	_, a := socketPair(t)
	b, _ := socketPair(t)
	p := NewPipe("idle", SocketEndpoint(a, 0), SocketEndpoint(a, 0),
		SocketEndpoint(b, 0), SocketEndpoint(b, 0), DefaultConfig(), nil)

	done := make(chan error, 1)
	go func() { done <- p.Run(context.Background()) }()

	time.Sleep(20 * time.Millisecond)
	_ = p.Close()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Close")
	}
}

func TestPipeInstrumentRegistersProbes(t *testing.T) {
	_, a := socketPair(t)
	b, _ := socketPair(t)
	p := NewPipe("probe", SocketEndpoint(a, 0), SocketEndpoint(a, 0),
		SocketEndpoint(b, 0), SocketEndpoint(b, 0), DefaultConfig(), nil)
	defer func() {
		for _, pump := range p.Pumps() {
			pump.Release()
		}
	}()

	ctrl := adapters.NewControlAdapter()
	p.Instrument(ctrl)

	stats := ctrl.Stats()
	assert.Contains(t, stats, "debug.relay.probe.forward")
	assert.Contains(t, stats, "debug.relay.probe.reverse")
	assert.IsType(t, Stats{}, stats["debug.relay.probe.forward"])
	state, ok := stats["debug.relay.probe.reverse.buffer"].(vbuf.State)
	require.True(t, ok)
	assert.Equal(t, DefaultConfig().BufferSize, state.Capacity)
	assert.True(t, state.Empty)

	require.NoError(t, p.Close())
	stats = ctrl.Stats()
	assert.NotContains(t, stats, "debug.relay.probe.forward")
	assert.NotContains(t, stats, "debug.relay.probe.forward.buffer")
}
