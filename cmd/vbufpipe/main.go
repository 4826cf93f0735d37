//go:build unix

// File: cmd/vbufpipe/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// vbufpipe relays byte streams through vbuf rings: stdin to stdout, or
// stdin/stdout to a TCP peer.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/momentics/hioload-vbuf/adapters"
	"github.com/momentics/hioload-vbuf/relay"
)

// flagKeys maps command-line flags to relay config keys.
var flagKeys = map[string]string{
	"capacity":  "buffer_size",
	"mode":      "mode",
	"rate":      "rate_limit",
	"backlog":   "backlog",
	"cpu":       "cpu",
	"log-level": "logging.level",
	"dev-log":   "logging.development",
}

type options struct {
	configPath string
	eventLoop  bool
	banner     string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var opts options
	root := &cobra.Command{
		Use:           "vbufpipe",
		Short:         "Relay byte streams through fixed-size ring buffers",
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	addRelayFlags(root.PersistentFlags(), &opts)

	root.AddCommand(newCatCommand(&opts))
	root.AddCommand(newConnectCommand(&opts))
	return root
}

func addRelayFlags(fs *pflag.FlagSet, opts *options) {
	def := relay.DefaultConfig()
	fs.StringVarP(&opts.configPath, "config", "c", "", "YAML relay configuration file")
	fs.BoolVar(&opts.eventLoop, "event-loop", false, "Drive descriptors from a single epoll loop (pipes, ttys and sockets only)")
	fs.StringVar(&opts.banner, "banner", "", "Text written to the peer before any relayed bytes")
	fs.Int("capacity", def.BufferSize, "Ring capacity per direction, in bytes")
	fs.String("mode", def.Mode, "Flush mode: all or min")
	fs.Int("rate", def.RateLimit, "Flush rate limit in bytes per second (0 disables)")
	fs.Int("backlog", def.Backlog, "Maximum queued banner messages per direction")
	fs.Int("cpu", def.CPU, "Pin the event loop to this CPU (-1 disables)")
	fs.String("log-level", def.Logging.Level, "Log level: debug, info, warn, error")
	fs.Bool("dev-log", def.Logging.Development, "Human-readable development logging")
}

// loadConfig layers the config file and explicitly set flags into the
// control plane and unpacks the result.
func loadConfig(cmd *cobra.Command, opts *options) (*adapters.ControlAdapter, relay.Config, error) {
	ctrl := adapters.NewControlAdapter()
	if opts.configPath != "" {
		if err := ctrl.Config().LoadFile(opts.configPath); err != nil {
			return nil, relay.Config{}, err
		}
	}

	overrides, err := flagOverrides(cmd)
	if err != nil {
		return nil, relay.Config{}, err
	}
	if err := ctrl.SetConfig(overrides); err != nil {
		return nil, relay.Config{}, err
	}

	cfg, err := relay.FromStore(ctrl.Config())
	if err != nil {
		return nil, relay.Config{}, err
	}
	return ctrl, cfg, nil
}

// flagOverrides collects the explicitly set flags as config keys.
func flagOverrides(cmd *cobra.Command) (map[string]any, error) {
	overrides := make(map[string]any)
	var flagErr error
	cmd.Flags().Visit(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		v, err := flagValue(cmd.Flags(), f)
		if err != nil {
			flagErr = err
			return
		}
		overrides[key] = v
	})
	return overrides, flagErr
}

func flagValue(fs *pflag.FlagSet, f *pflag.Flag) (any, error) {
	switch f.Value.Type() {
	case "int":
		return fs.GetInt(f.Name)
	case "bool":
		return fs.GetBool(f.Name)
	case "string":
		return fs.GetString(f.Name)
	}
	return nil, fmt.Errorf("flag --%s: unsupported type %s", f.Name, f.Value.Type())
}
