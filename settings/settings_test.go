package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/oomph-ac/locomotion/curve"
	"github.com/oomph-ac/locomotion/oerror"
	"github.com/oomph-ac/locomotion/vertical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const partialTOML = `
[gravity]
gravity = -30.0

[[gravity.falling.keys]]
time = 0.0
value = 1.0

[[gravity.falling.keys]]
time = 1.0
value = 2.0

[turn]
max_turn_speed = 720.0

[simulation]
parallel = true
`

const partialYAML = `
gravity:
  gravity: -30
  falling:
    keys:
      - {time: 0, value: 1}
      - {time: 1, value: 2}
turn:
  max_turn_speed: 720
simulation:
  parallel: true
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	s := Default()
	assert.NoError(t, s.Validate())
	assert.InDelta(t, 1.0/60.0, s.TickDuration(), 1e-7)
}

func TestLoadPartial(t *testing.T) {
	for _, name := range []string{"settings.toml", "settings.yaml"} {
		t.Run(name, func(t *testing.T) {
			content := partialTOML
			if filepath.Ext(name) == ".yaml" {
				content = partialYAML
			}
			s, err := Load(writeFile(t, name, content))
			require.NoError(t, err)

			def := Default()
			assert.Equal(t, float32(-30), s.Gravity.Gravity)
			assert.InDelta(t, 1.5, s.Gravity.Falling.Evaluate(0.5), 1e-6)
			assert.Equal(t, def.Gravity.Rising, s.Gravity.Rising)
			assert.Equal(t, def.Gravity.TerminalVelocity, s.Gravity.TerminalVelocity)

			assert.Equal(t, float32(720), s.Turn.MaxTurnSpeed)
			assert.Equal(t, def.Turn.MovingThreshold, s.Turn.MovingThreshold)
			assert.Equal(t, def.Locomotion, s.Locomotion)
			assert.Equal(t, def.Vertical, s.Vertical)

			assert.True(t, s.Simulation.Parallel)
			assert.Equal(t, 60, s.Simulation.TickRate)
			assert.Equal(t, "info", s.Log.Level)
		})
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	_, err := Load(writeFile(t, "bad.toml", "[gravity]\ngravity = 5.0\n"))
	assert.True(t, errors.Is(err, oerror.ErrInvalidConfig))

	_, err = Load(writeFile(t, "bad.yaml", "gravity:\n  rising:\n    keys: []\n"))
	assert.True(t, errors.Is(err, oerror.ErrInvalidConfig))

	_, err = Load(writeFile(t, "bad.yml", "simulation:\n  tick_rate: 0\n"))
	assert.True(t, errors.Is(err, oerror.ErrInvalidConfig))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "settings.json", "{}"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "broken.toml", "[gravity\n"))
	assert.Error(t, err)
}

func TestSaveDefault(t *testing.T) {
	for _, name := range []string{"settings.toml", "settings.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, SaveDefault(path))
			assert.Error(t, SaveDefault(path), "file exists")

			s, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, Default(), s)
		})
	}
}

func TestRegistryInternsEqualProfiles(t *testing.T) {
	r := NewRegistry()

	a, err := r.Intern(vertical.DefaultGravityProfile())
	require.NoError(t, err)
	b, err := r.Intern(vertical.DefaultGravityProfile())
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, r.Len())

	floaty := vertical.DefaultGravityProfile()
	floaty.Falling = curve.Constant(0.5)
	c, err := r.Intern(floaty)
	require.NoError(t, err)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, r.Len())

	broken := vertical.DefaultGravityProfile()
	broken.Gravity = 1
	_, err = r.Intern(broken)
	assert.True(t, errors.Is(err, oerror.ErrInvalidConfig))
	assert.Equal(t, 2, r.Len())
}

func TestRegistryDoesNotShareCurveKeys(t *testing.T) {
	r := NewRegistry()
	s := Default()

	shared, err := r.Intern(s.Gravity)
	require.NoError(t, err)
	want := shared.Falling.Evaluate(0)

	s.Gravity.Falling.Keys[0].Value = 9
	s.Gravity.Rising.Keys[0].Value = 9
	assert.Equal(t, want, shared.Falling.Evaluate(0))
	assert.Equal(t, float32(1), shared.Rising.Evaluate(0))
}
