// File: relay/config.go
// Author: momentics <momentics@gmail.com>

package relay

import (
	"fmt"

	"github.com/elastic/go-ucfg"
	"github.com/elastic/go-ucfg/yaml"

	"github.com/momentics/hioload-vbuf/api"
	"github.com/momentics/hioload-vbuf/control"
	"github.com/momentics/hioload-vbuf/internal/logging"
)

// Drain modes.
const (
	ModeAll = "all"
	ModeMin = "min"
)

// Config holds pump and loop settings.
type Config struct {
	// BufferSize is the ring capacity of each direction, in bytes.
	BufferSize int `config:"buffer_size" validate:"min=1"`

	// Mode selects how much a flush writes: "all" keeps writing until the
	// ring is empty, "min" stops after one successful write.
	Mode string `config:"mode"`

	// RateLimit caps blocking flushes at this many bytes per second; 0
	// disables limiting. Loop-driven pumps ignore it.
	RateLimit int `config:"rate_limit" validate:"min=0"`

	// Backlog bounds the number of queued Enqueue messages per pump.
	Backlog int `config:"backlog" validate:"min=0"`

	// CPU pins the Loop thread; -1 leaves it unpinned.
	CPU int `config:"cpu"`

	Logging logging.Config `config:"logging"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		BufferSize: 16 * 1024,
		Mode:       ModeAll,
		Backlog:    256,
		CPU:        -1,
		Logging:    logging.DefaultConfig(),
	}
}

// Validate is called by ucfg after unpacking.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeAll, ModeMin:
	default:
		return fmt.Errorf("mode %q: %w", c.Mode, api.ErrInvalidArgument)
	}
	if c.CPU < -1 {
		return fmt.Errorf("cpu %d: %w", c.CPU, api.ErrInvalidArgument)
	}
	return nil
}

func (c Config) drainSize() int {
	if c.Mode == ModeMin {
		return api.SizeMin
	}
	return api.SizeAll
}

var ucfgOptions = []ucfg.Option{ucfg.PathSep("."), ucfg.VarExp}

func unpack(cfg *ucfg.Config) (Config, error) {
	out := DefaultConfig()
	if err := cfg.Unpack(&out, ucfgOptions...); err != nil {
		return Config{}, fmt.Errorf("relay config: %w", err)
	}
	return out, nil
}

// NewConfig applies values over DefaultConfig and validates the result.
func NewConfig(values map[string]any) (Config, error) {
	cfg, err := ucfg.NewFrom(values, ucfgOptions...)
	if err != nil {
		return Config{}, fmt.Errorf("relay config: %w", err)
	}
	return unpack(cfg)
}

// LoadConfig reads a YAML file over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg, err := yaml.NewConfigWithFile(path, ucfgOptions...)
	if err != nil {
		return Config{}, fmt.Errorf("relay config %s: %w", path, err)
	}
	return unpack(cfg)
}

// FromStore unpacks the current control-plane snapshot over DefaultConfig.
func FromStore(cs *control.ConfigStore) (Config, error) {
	out := DefaultConfig()
	if err := cs.Unpack(&out); err != nil {
		return Config{}, err
	}
	return out, nil
}
