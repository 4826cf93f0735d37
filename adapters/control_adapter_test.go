package adapters_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/momentics/hioload-vbuf/adapters"
	"github.com/momentics/hioload-vbuf/control"
)

func TestControlAdapterBasic(t *testing.T) {
	ctrl := adapters.NewControlAdapter()
	assert.Empty(t, ctrl.GetConfig(), "expected empty config on init")

	require.NoError(t, ctrl.SetConfig(map[string]any{"buffer_size": 1024}))
	assert.Equal(t, 1024, ctrl.GetConfig()["buffer_size"])

	ctrl.SetMetric("pump.in.bytes", int64(10))
	ctrl.RegisterDebugProbe("ring", func() any { return "state" })
	stats := ctrl.Stats()
	assert.Equal(t, int64(10), stats["pump.in.bytes"])
	assert.Equal(t, "state", stats["debug.ring"])
	assert.Contains(t, stats, "debug.platform.cpus")

	ctrl.UnregisterDebugProbe("ring")
	assert.NotContains(t, ctrl.Stats(), "debug.ring")
}

func TestControlAdapterReloadListener(t *testing.T) {
	ctrl := adapters.NewControlAdapter()
	var calls atomic.Int64
	ctrl.OnReload(func() { calls.Inc() })

	require.NoError(t, ctrl.SetConfig(map[string]any{"logging.level": "debug"}))
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	// Process-wide hooks are a separate registry.
	control.TriggerHotReloadSync()
	assert.Never(t, func() bool { return calls.Load() > 1 }, 50*time.Millisecond, 5*time.Millisecond)
}
