//go:build linux

package relay

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestLoopRelaysBothDirections(t *testing.T) {
	// client <-> (a | loop | b) <-> server
	client, a := socketPair(t)
	b, server := socketPair(t)

	cfg := DefaultConfig()
	cfg.BufferSize = 5
	p := NewPipe("loop", SocketEndpoint(a, 0), SocketEndpoint(a, 0),
		SocketEndpoint(b, 0), SocketEndpoint(b, 0), cfg, nil)

	l, err := NewLoop(cfg, nil)
	require.NoError(t, err)
	defer l.Close()
	require.NoError(t, l.AddPipe(p))

	_, err = unix.Write(client, []byte("ping over a tiny ring"))
	require.NoError(t, err)
	require.NoError(t, unix.Shutdown(client, unix.SHUT_WR))
	_, err = unix.Write(server, []byte("pong"))
	require.NoError(t, err)
	require.NoError(t, unix.Shutdown(server, unix.SHUT_WR))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, l.Run(ctx))
	assert.True(t, l.Done())

	assert.Equal(t, "ping over a tiny ring", string(readAll(t, server)))
	assert.Equal(t, "pong", string(readAll(t, client)))
	assert.EqualValues(t, 21, p.Forward.Stats().BytesOut)
	assert.EqualValues(t, 4, p.Reverse.Stats().BytesOut)
}

func TestLoopAddRejectsBadDescriptor(t *testing.T) {
	r, _ := pipeFDs(t)
	pump := NewPump("bad", FileEndpoint(r), FileEndpoint(-1), DefaultConfig(), nil)

	l, err := NewLoop(DefaultConfig(), nil)
	require.NoError(t, err)
	defer l.Close()
	assert.Error(t, l.Add(pump))
}

func TestLoopStopsOnBrokenDestination(t *testing.T) {
	srcR, srcW := pipeFDs(t)
	dstR, dstW := pipeFDs(t)
	require.NoError(t, unix.Close(dstR))

	pump := NewPump("broken", FileEndpoint(srcR), FileEndpoint(dstW), DefaultConfig(), nil)
	l, err := NewLoop(DefaultConfig(), nil)
	require.NoError(t, err)
	defer l.Close()
	require.NoError(t, l.Add(pump))

	_, err = unix.Write(srcW, []byte("lost"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = l.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, unix.EPIPE)
	assert.EqualValues(t, 1, pump.Stats().Errors)
}

// fillPipe writes into w until the kernel buffer is full and returns the
// number of bytes written.
func fillPipe(t *testing.T, w int) int {
	t.Helper()
	require.NoError(t, unix.SetNonblock(w, true))
	chunk := make([]byte, 4096)
	total := 0
	for {
		n, err := unix.Write(w, chunk)
		if err == unix.EAGAIN {
			return total
		}
		require.NoError(t, err)
		total += n
	}
}

func TestLoopFullDestinationWaitsForWritable(t *testing.T) {
	srcR, srcW := pipeFDs(t)
	dstR, dstW := pipeFDs(t)
	queued := fillPipe(t, dstW)

	payload := strings.Repeat("wxyz", 2048)
	_, err := unix.Write(srcW, []byte(payload))
	require.NoError(t, err)
	require.NoError(t, unix.Close(srcW))

	cfg := DefaultConfig()
	cfg.BufferSize = 64 * 1024
	pump := NewPump("stalled", FileEndpoint(srcR), FileEndpoint(dstW), cfg, nil)
	l, err := NewLoop(cfg, nil)
	require.NoError(t, err)
	defer l.Close()
	require.NoError(t, l.Add(pump))

	// Nobody reads the destination: Run must still notice the deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	start := time.Now()
	err = l.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
	st := pump.Stats()
	assert.Positive(t, st.Buffered)
	assert.Positive(t, st.WouldBlock)

	// Once the reader catches up the loop completes the copy.
	got := make(chan []byte, 1)
	go func() {
		buf := make([]byte, queued+len(payload))
		off := 0
		for off < len(buf) {
			n, err := unix.Read(dstR, buf[off:])
			if err != nil || n == 0 {
				break
			}
			off += n
		}
		got <- buf[queued:off]
	}()

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	require.NoError(t, l.Run(ctx2))
	select {
	case b := <-got:
		assert.Equal(t, payload, string(b))
	case <-time.After(5 * time.Second):
		t.Fatal("destination reader did not finish")
	}
}
