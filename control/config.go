// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Thread-safe configuration store with dynamic update and hot-reload propagation.
// Typed views are produced with go-ucfg so the same validation tags apply to
// files, flags and runtime overrides.

package control

import (
	"fmt"
	"sync"

	"github.com/elastic/go-ucfg"
	"github.com/elastic/go-ucfg/yaml"
)

// ucfgOptions are shared by every unpack so dotted keys nest the same way
// everywhere ("logging.level").
var ucfgOptions = []ucfg.Option{ucfg.PathSep("."), ucfg.VarExp}

// ConfigStore is a dynamic key/value map with atomic snapshot and listener support.
type ConfigStore struct {
	mu        sync.RWMutex
	config    map[string]any
	listeners []func()
}

// NewConfigStore initializes a new config store with empty data.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{
		config:    make(map[string]any),
		listeners: make([]func(), 0),
	}
}

// GetSnapshot returns a copy of all config values.
func (cs *ConfigStore) GetSnapshot() map[string]any {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	out := make(map[string]any, len(cs.config))
	for k, v := range cs.config {
		out[k] = v
	}
	return out
}

// SetConfig merges new values and dispatches reload if needed.
func (cs *ConfigStore) SetConfig(newCfg map[string]any) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	for k, v := range newCfg {
		cs.config[k] = v
	}
	cs.dispatchReload()
}

// LoadFile merges the top-level keys of a YAML file into the store.
func (cs *ConfigStore) LoadFile(path string) error {
	cfg, err := yaml.NewConfigWithFile(path, ucfgOptions...)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	values := make(map[string]any)
	if err := cfg.Unpack(&values, ucfgOptions...); err != nil {
		return fmt.Errorf("unpack config %s: %w", path, err)
	}
	cs.SetConfig(values)
	return nil
}

// Unpack decodes the current snapshot into to, which typically carries
// `config` and `validate` struct tags. Fields absent from the store keep
// the values already present in to.
func (cs *ConfigStore) Unpack(to any) error {
	cfg, err := ucfg.NewFrom(cs.GetSnapshot(), ucfgOptions...)
	if err != nil {
		return fmt.Errorf("config snapshot: %w", err)
	}
	if err := cfg.Unpack(to, ucfgOptions...); err != nil {
		return fmt.Errorf("config unpack: %w", err)
	}
	return nil
}

// OnReload registers a listener hook called on config changes.
func (cs *ConfigStore) OnReload(fn func()) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.listeners = append(cs.listeners, fn)
}

// dispatchReload invokes all listeners.
func (cs *ConfigStore) dispatchReload() {
	for _, fn := range cs.listeners {
		go fn()
	}
}
