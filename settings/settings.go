// Package settings loads the tuning of the locomotion core from TOML or YAML files.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oomph-ac/locomotion/locomotion"
	"github.com/oomph-ac/locomotion/oerror"
	"github.com/oomph-ac/locomotion/rotation"
	"github.com/oomph-ac/locomotion/vertical"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// Settings contains all tuning that can be configured for a character type and the simulation
// hosting it.
type Settings struct {
	Gravity    vertical.GravityProfile `toml:"gravity" yaml:"gravity"`
	Vertical   vertical.Options        `toml:"vertical" yaml:"vertical"`
	Turn       rotation.Options        `toml:"turn" yaml:"turn"`
	Locomotion locomotion.Options      `toml:"locomotion" yaml:"locomotion"`
	Simulation Simulation              `toml:"simulation" yaml:"simulation"`
	Log        Log                     `toml:"log" yaml:"log"`
}

// Simulation configures how a scene of characters is stepped.
type Simulation struct {
	// TickRate is the number of ticks per second.
	TickRate int `toml:"tick_rate" yaml:"tick_rate"`
	// Parallel ticks characters on the worker pool instead of one after another.
	Parallel bool `toml:"parallel" yaml:"parallel"`
	// Workers is the size of the worker pool. Zero uses one worker per CPU.
	Workers int `toml:"workers" yaml:"workers"`
}

// Log configures logging.
type Log struct {
	// Level is a logrus level name.
	Level string `toml:"level" yaml:"level"`
	// Trace forwards the internal trace logs of the controllers to the logger.
	Trace bool `toml:"trace" yaml:"trace"`
}

// Default returns the default settings.
func Default() Settings {
	return Settings{
		Gravity:    vertical.DefaultGravityProfile(),
		Vertical:   vertical.DefaultOptions(),
		Turn:       rotation.DefaultOptions(),
		Locomotion: locomotion.DefaultOptions(),
		Simulation: Simulation{TickRate: 60},
		Log:        Log{Level: "info"},
	}
}

// Validate returns an error wrapping oerror.ErrInvalidConfig if any of the settings are unusable.
func (s Settings) Validate() error {
	if err := s.Gravity.Validate(); err != nil {
		return err
	}
	if err := s.Vertical.Validate(); err != nil {
		return err
	}
	if err := s.Turn.Validate(); err != nil {
		return err
	}
	if err := s.Locomotion.Validate(); err != nil {
		return err
	}
	if s.Simulation.TickRate <= 0 {
		return oerror.InvalidConfig("simulation.tick_rate", "must be positive, got %v", s.Simulation.TickRate)
	}
	if s.Simulation.Workers < 0 {
		return oerror.InvalidConfig("simulation.workers", "must not be negative, got %v", s.Simulation.Workers)
	}
	return nil
}

// TickDuration returns the duration of a single tick in seconds.
func (s Settings) TickDuration() float32 {
	return 1 / float32(s.Simulation.TickRate)
}

// Marshal encodes the settings in the format matching the extension of path.
func (s Settings) Marshal(path string) ([]byte, error) {
	switch format(path) {
	case "toml":
		return toml.Marshal(s)
	case "yaml":
		return yaml.Marshal(s)
	}
	return nil, fmt.Errorf("unsupported settings format %q", filepath.Ext(path))
}

// SaveDefault will create and save the default settings file. If the file already exists, it will return an error.
func SaveDefault(path string) error {
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		return errors.New("settings file already exists")
	}
	data, err := Default().Marshal(path)
	if err != nil {
		return fmt.Errorf("failed encoding default settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed creating settings file: %w", err)
	}
	return nil
}

// Load will load the settings from your settings file, and return an error if the file does not
// exist or holds unusable values. Keys missing from the file keep their default value.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("error reading settings: %w", err)
	}
	s, err := Decode(format(path), data)
	if err != nil {
		return Settings{}, err
	}
	return s, s.Validate()
}

// Decode decodes settings in the format passed, either "toml" or "yaml", on top of the defaults.
func Decode(format string, data []byte) (Settings, error) {
	s := Default()
	switch format {
	case "toml":
		if err := decodeTOML(data, &s); err != nil {
			return Settings{}, fmt.Errorf("error decoding settings: %w", err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("error decoding settings: %w", err)
		}
	default:
		return Settings{}, fmt.Errorf("unsupported settings format %q", format)
	}
	return s, nil
}

// decodeTOML overlays the document in data onto the TOML encoding of s, then decodes the result
// back into s.
func decodeTOML(data []byte, s *Settings) error {
	tree, err := toml.LoadBytes(data)
	if err != nil {
		return err
	}
	base, err := toml.Marshal(*s)
	if err != nil {
		return err
	}
	merged, err := toml.LoadBytes(base)
	if err != nil {
		return err
	}
	overlay(merged, tree)

	var out Settings
	if err := merged.Unmarshal(&out); err != nil {
		return err
	}
	*s = out
	return nil
}

// overlay copies every key of src into dst. Tables present in both are merged key by key, any
// other value in src replaces the one in dst.
func overlay(dst, src *toml.Tree) {
	for _, key := range src.Keys() {
		value := src.Get(key)
		if table, ok := value.(*toml.Tree); ok {
			if existing, ok := dst.Get(key).(*toml.Tree); ok {
				overlay(existing, table)
				continue
			}
		}
		dst.Set(key, value)
	}
}

func format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml"
	case ".yaml", ".yml":
		return "yaml"
	}
	return ""
}
