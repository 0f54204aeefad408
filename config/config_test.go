package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "alpha.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadOverridesOnlyGivenKeys(t *testing.T) {
	path := writeConfig(t, `
[window]
width = 800

[physics]
gravity = -20.0

[scene]
name = "stress"
stress_churn_seconds = 2.5
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.Equal(t, -20.0, cfg.Physics.Gravity)
	assert.Equal(t, 10, cfg.Physics.Iterations)
	assert.Equal(t, "stress", cfg.Scene.Name)
	assert.Equal(t, 2.5, cfg.Scene.StressChurnSeconds)
}

func TestLoadRejects(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad_toml", "[window\nwidth = 1"},
		{"zero_width", "[window]\nwidth = 0"},
		{"zero_step", "[physics]\nfixed_timestep = 0.0"},
		{"frame_below_step", "[physics]\nmax_frame_time = 0.001"},
		{"no_instances", "[renderer]\nmax_instances_per_batch = 0"},
		{"negative_capacity", "[ecs]\ninitial_capacity = -1"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, c.body)); err == nil {
				t.Fatalf("expected error for %q", c.body)
			}
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	t.Setenv(EnvPath, "")

	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	t.Setenv(EnvPath, writeConfig(t, "[logging]\nlevel = \"debug\""))
	cfg, err = LoadOrDefault("ignored.toml")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}
