//go:build unix

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/momentics/hioload-vbuf/control"
	"github.com/momentics/hioload-vbuf/relay"
)

// parse runs flag parsing for the cat subcommand without executing it.
func parse(t *testing.T, args ...string) (*cobra.Command, *options) {
	t.Helper()
	var opts options
	root := &cobra.Command{Use: "vbufpipe"}
	addRelayFlags(root.PersistentFlags(), &opts)
	cat := &cobra.Command{Use: "cat", RunE: func(*cobra.Command, []string) error { return nil }}
	root.AddCommand(cat)
	root.SetArgs(append([]string{"cat"}, args...))
	require.NoError(t, root.Execute())
	return cat, &opts
}

func TestLoadConfigDefaults(t *testing.T) {
	cmd, opts := parse(t)
	_, cfg, err := loadConfig(cmd, opts)
	require.NoError(t, err)
	assert.Equal(t, relay.DefaultConfig(), cfg)
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vbufpipe.yml")
	require.NoError(t, os.WriteFile(path, []byte("buffer_size: 32\nmode: min\nbacklog: 9\n"), 0o600))

	cmd, opts := parse(t, "--config", path, "--capacity", "64", "--log-level", "debug", "--event-loop")
	ctrl, cfg, err := loadConfig(cmd, opts)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.BufferSize)
	assert.Equal(t, relay.ModeMin, cfg.Mode)
	assert.Equal(t, 9, cfg.Backlog)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, opts.eventLoop)
	assert.Equal(t, 64, ctrl.GetConfig()["buffer_size"])
}

func TestLoadConfigRejectsBadMode(t *testing.T) {
	cmd, opts := parse(t, "--mode", "sometimes")
	_, _, err := loadConfig(cmd, opts)
	assert.Error(t, err)
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"cat", "connect"} {
		c, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, c.Name())
	}
}

func TestReloadReadsFileUnderFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vbufpipe.yml")
	require.NoError(t, os.WriteFile(path, []byte("buffer_size: 32\nlogging:\n  level: info\n"), 0o600))

	cmd, opts := parse(t, "--config", path, "--capacity", "64")
	s, err := newSession(cmd, opts)
	require.NoError(t, err)
	require.False(t, s.level.Enabled(zapcore.DebugLevel))

	require.NoError(t, os.WriteFile(path, []byte("buffer_size: 16\nlogging:\n  level: debug\n"), 0o600))
	control.TriggerHotReloadSync()

	assert.Equal(t, 64, s.ctrl.GetConfig()["buffer_size"])
	assert.Eventually(t, func() bool { return s.level.Enabled(zapcore.DebugLevel) },
		time.Second, 5*time.Millisecond)
}

func TestApplyReloadIgnoresInvalidConfig(t *testing.T) {
	cmd, opts := parse(t, "--log-level", "warn")
	s, err := newSession(cmd, opts)
	require.NoError(t, err)

	require.NoError(t, s.ctrl.SetConfig(map[string]any{"mode": "sometimes", "logging.level": "debug"}))
	s.applyReload()
	assert.False(t, s.level.Enabled(zapcore.InfoLevel))
}
