package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultDays, cfg.Days)
	assert.Equal(t, DefaultTstep, cfg.Tstep)
	assert.True(t, cfg.UsesBuiltinCatalogue())
	assert.Equal(t, 1e-3, cfg.Threshold)
	assert.Equal(t, 2.0, cfg.CollisionFactor)
	assert.NoError(t, cfg.Validate())
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("probe-swarm")
	require.NotNil(t, cfg)
	assert.Equal(t, 25, cfg.Probes.Count)
	assert.Equal(t, sim.DefaultReference, cfg.Probes.Reference)
	assert.NoError(t, cfg.Validate())

	cfg.Days = 1
	assert.Equal(t, 365, GetPreset("probe-swarm").Days, "preset must not be shared")
}

func TestGetPreset_NotFound(t *testing.T) {
	assert.Nil(t, GetPreset("nonexistent"))
}

func TestListPresets(t *testing.T) {
	assert.Equal(t, []string{"close-pass", "decade", "probe-swarm", "quick", "year"}, ListPresets())
	for _, name := range ListPresets() {
		assert.NoError(t, GetPreset(name).Validate(), name)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		file    string
		content string
	}{
		{"run.yaml", "days: 42\nmode: full\nprobes:\n  count: 3\n  speed: 500\n"},
		{"run.toml", "days = 42\nmode = \"full\"\n[probes]\ncount = 3\nspeed = 500.0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			cfg, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, 42, cfg.Days)
			assert.Equal(t, "full", cfg.Mode)
			assert.Equal(t, 3, cfg.Probes.Count)
			assert.Equal(t, 500.0, cfg.Probes.Speed)
			// unset fields keep their defaults
			assert.Equal(t, DefaultTstep, cfg.Tstep)
			assert.Equal(t, DefaultProbeRadius, cfg.Probes.Radius)
		})
	}
}

func TestSaveLoad(t *testing.T) {
	for _, name := range []string{"cfg.yaml", "cfg.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			want := GetPreset("close-pass")
			require.NoError(t, Save(path, want))

			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("days = [\n"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative days", func(c *Config) { c.Days = -1 }},
		{"zero tstep", func(c *Config) { c.Tstep = 0 }},
		{"unknown mode", func(c *Config) { c.Mode = "fast" }},
		{"negative threshold", func(c *Config) { c.Threshold = -1 }},
		{"negative probes", func(c *Config) { c.Probes.Count = -2 }},
		{"probe without radius", func(c *Config) { c.Probes.Count, c.Probes.Radius = 1, 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			assert.ErrorIs(t, cfg.Validate(), dynamo.ErrInvalidConfiguration)
		})
	}
}

func TestOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = "planets"
	cfg.Probes.Reference = 5

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, sim.ModePlanets, opts.Mode)
	assert.Equal(t, 5, opts.Reference)
	assert.Equal(t, dynamo.SolarUnits(), opts.Units)

	cfg.Mode = "bogus"
	_, err = cfg.Options()
	assert.ErrorIs(t, err, dynamo.ErrInvalidConfiguration)
}
