//go:build unix

// File: cmd/vbufpipe/reload.go
// Author: momentics <momentics@gmail.com>

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/momentics/hioload-vbuf/control"
	"github.com/momentics/hioload-vbuf/internal/logging"
	"github.com/momentics/hioload-vbuf/relay"
)

// watchReload re-reads the config file on SIGHUP. Flags keep precedence
// over the file, and the new logging level applies to the running logger.
// Ring sizes and modes are fixed for the life of a pump.
func (s *session) watchReload(ctx context.Context) {
	s.ctrl.OnReload(s.applyReload)
	control.RegisterReloadHook(s.reloadFile)

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		defer signal.Stop(hup)
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				s.log.Info("reloading configuration", zap.String("path", s.opts.configPath))
				control.TriggerHotReload()
			}
		}
	}()
}

// reloadFile merges the config file back into the store, then the flag
// overrides on top of it.
func (s *session) reloadFile() {
	if s.opts.configPath == "" {
		return
	}
	if err := s.ctrl.Config().LoadFile(s.opts.configPath); err != nil {
		s.log.Warn("config reload failed", zap.Error(err))
		return
	}
	if err := s.ctrl.SetConfig(s.overrides); err != nil {
		s.log.Warn("config reload failed", zap.Error(err))
	}
}

// applyReload runs after every store change.
func (s *session) applyReload() {
	cfg, err := relay.FromStore(s.ctrl.Config())
	if err != nil {
		s.log.Warn("ignoring invalid configuration", zap.Error(err))
		return
	}
	if err := logging.SetLevel(s.level, cfg.Logging.Level); err != nil {
		s.log.Warn("ignoring logging level", zap.Error(err))
		return
	}
	s.log.Debug("configuration applied", zap.String("logging.level", cfg.Logging.Level))
}
