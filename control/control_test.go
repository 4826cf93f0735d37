package control_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-vbuf/control"
	"github.com/momentics/hioload-vbuf/pool"
)

type sample struct {
	Size  int    `config:"size" validate:"min=1"`
	Mode  string `config:"mode"`
	Level string `config:"logging.level"`
}

func TestConfigStoreUnpack(t *testing.T) {
	cs := control.NewConfigStore()
	cs.SetConfig(map[string]any{"size": 64, "logging.level": "debug"})

	out := sample{Mode: "all"}
	require.NoError(t, cs.Unpack(&out))
	assert.Equal(t, 64, out.Size)
	assert.Equal(t, "all", out.Mode, "absent keys keep defaults")
	assert.Equal(t, "debug", out.Level)
}

func TestConfigStoreUnpackValidates(t *testing.T) {
	cs := control.NewConfigStore()
	cs.SetConfig(map[string]any{"size": 0})
	var out sample
	assert.Error(t, cs.Unpack(&out))
}

func TestConfigStoreLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vbuf.yml")
	require.NoError(t, os.WriteFile(path, []byte("size: 128\nmode: min\n"), 0o600))

	cs := control.NewConfigStore()
	require.NoError(t, cs.LoadFile(path))
	snap := cs.GetSnapshot()
	assert.EqualValues(t, 128, snap["size"])
	assert.Equal(t, "min", snap["mode"])

	assert.Error(t, cs.LoadFile(filepath.Join(t.TempDir(), "missing.yml")))
}

func TestConfigStoreReloadListener(t *testing.T) {
	cs := control.NewConfigStore()
	fired := make(chan struct{}, 1)
	cs.OnReload(func() { fired <- struct{}{} })
	cs.SetConfig(map[string]any{"mode": "all"})

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("reload listener not invoked")
	}
}

func TestMetricsRegistry(t *testing.T) {
	mr := control.NewMetricsRegistry()
	assert.True(t, mr.Updated().IsZero())

	mr.Set("a", 1)
	mr.SetAll(map[string]any{"b": 2, "c": 3})
	v, ok := mr.Get("b")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Len(t, mr.GetSnapshot(), 3)
	assert.False(t, mr.Updated().IsZero())
}

func TestDebugProbes(t *testing.T) {
	dp := control.NewDebugProbes()
	control.RegisterPlatformProbes(dp)
	dp.RegisterProbe("x", func() any { return "ok" })

	state := dp.DumpState()
	assert.Equal(t, "ok", state["x"])
	assert.Contains(t, state, "platform.cpus")
	assert.Contains(t, state, "transport.features")
	assert.IsType(t, pool.BytePoolStats{}, state["pool.ring_storage"])

	dp.UnregisterProbe("x")
	assert.NotContains(t, dp.DumpState(), "x")
}

func TestHotReloadSync(t *testing.T) {
	calls := 0
	control.RegisterReloadHook(func() { calls++ })
	control.TriggerHotReloadSync()
	assert.Equal(t, 1, calls)
}
