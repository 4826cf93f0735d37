//go:build unix

// File: cmd/vbufpipe/commands.go
// Author: momentics <momentics@gmail.com>

package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-vbuf/adapters"
	"github.com/momentics/hioload-vbuf/internal/logging"
	"github.com/momentics/hioload-vbuf/relay"
)

// session is the state shared by cat and connect.
type session struct {
	ctrl      *adapters.ControlAdapter
	cfg       relay.Config
	log       *zap.Logger
	level     zap.AtomicLevel
	overrides map[string]any
	opts      *options
}

func newSession(cmd *cobra.Command, opts *options) (*session, error) {
	ctrl, cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}
	overrides, err := flagOverrides(cmd)
	if err != nil {
		return nil, err
	}
	log, level, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	s := &session{
		ctrl:      ctrl,
		cfg:       cfg,
		log:       log.Named("vbufpipe"),
		level:     level,
		overrides: overrides,
		opts:      opts,
	}
	s.watchReload(cmd.Context())
	return s, nil
}

func newCatCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "cat",
		Short: "Copy stdin to stdout through a ring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.log.Sync() //nolint:errcheck

			in, out := relay.FileEndpoint(unix.Stdin), relay.FileEndpoint(unix.Stdout)
			pump := relay.NewPump("cat", in, out, s.cfg, s.log)
			if opts.banner != "" {
				if err := pump.Enqueue([]byte(opts.banner)); err != nil {
					return err
				}
			}
			if opts.eventLoop {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				err = s.runLoop(ctx, func(l *relay.Loop) error { return l.Add(pump) })
			} else {
				// A blocking read on stdin cannot be interrupted, so signals
				// keep their default action here.
				err = pump.Run(cmd.Context())
				pump.Release()
			}
			pump.Stats().Publish(s.ctrl.Metrics(), "relay.cat")
			s.log.Debug("metrics", zap.Any("stats", s.ctrl.Stats()))
			return err
		},
	}
}

func newConnectCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "connect ADDR",
		Short: "Relay stdin/stdout to a TCP peer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.log.Sync() //nolint:errcheck

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fd, err := dialFD(ctx, args[0])
			if err != nil {
				return err
			}
			s.log.Info("connected", zap.String("addr", args[0]), zap.Int("fd", fd))

			peer := relay.SocketEndpoint(fd, 0)
			p := relay.NewPipe("connect", relay.FileEndpoint(unix.Stdin), relay.FileEndpoint(unix.Stdout),
				peer, peer, s.cfg, s.log)
			p.Instrument(s.ctrl)
			defer p.Close() //nolint:errcheck
			if opts.banner != "" {
				if err := p.Forward.Enqueue([]byte(opts.banner)); err != nil {
					return err
				}
			}

			if opts.eventLoop {
				err = s.runLoop(ctx, func(l *relay.Loop) error { return l.AddPipe(p) })
			} else {
				go func() {
					<-ctx.Done()
					_ = p.Close()
				}()
				err = p.Run(ctx)
			}
			p.Publish(s.ctrl.Metrics())
			s.log.Debug("metrics", zap.Any("stats", s.ctrl.Stats()))
			return err
		},
	}
}

func (s *session) runLoop(ctx context.Context, add func(*relay.Loop) error) error {
	l, err := relay.NewLoop(s.cfg, s.log)
	if err != nil {
		return err
	}
	defer l.Close() //nolint:errcheck
	if err := add(l); err != nil {
		return err
	}
	return l.Run(ctx)
}

// dialFD connects to addr and returns a blocking duplicate of the socket
// descriptor owned by the caller.
func dialFD(ctx context.Context, addr string) (int, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return -1, err
	}
	defer conn.Close()
	f, err := conn.(*net.TCPConn).File()
	if err != nil {
		return -1, fmt.Errorf("connect %s: %w", addr, err)
	}
	defer f.Close()
	fd, err := unix.Dup(int(f.Fd()))
	if err != nil {
		return -1, fmt.Errorf("connect %s: dup: %w", addr, err)
	}
	return fd, nil
}
