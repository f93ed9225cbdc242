package config

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDays        = 365
	DefaultTstep       = 10.0
	DefaultProbeRadius = 1e9 // m
	DefaultProbeSpeed  = 1e4 // m/s
	DefaultOutput      = "run.dat"
)

// BuiltinCatalogue selects the built-in solar system.
const BuiltinCatalogue = "solar"

type Config struct {
	Catalogue       string      `yaml:"catalogue" toml:"catalogue"`
	Output          string      `yaml:"output" toml:"output"`
	Days            int         `yaml:"days" toml:"days"`
	Tstep           float64     `yaml:"tstep" toml:"tstep"`
	Mode            string      `yaml:"mode" toml:"mode"`
	Threshold       float64     `yaml:"threshold" toml:"threshold"`
	CollisionFactor float64     `yaml:"collision_factor" toml:"collision_factor"`
	MinSeparation   float64     `yaml:"min_separation" toml:"min_separation"`
	Probes          ProbeConfig `yaml:"probes" toml:"probes"`
}

type ProbeConfig struct {
	Count     int     `yaml:"count" toml:"count"`
	Radius    float64 `yaml:"radius" toml:"radius"`
	Speed     float64 `yaml:"speed" toml:"speed"`
	Reference int     `yaml:"reference" toml:"reference"`
}

func DefaultConfig() *Config {
	return &Config{
		Catalogue:       BuiltinCatalogue,
		Output:          DefaultOutput,
		Days:            DefaultDays,
		Tstep:           DefaultTstep,
		Mode:            string(sim.ModeAdaptive),
		Threshold:       physics.DefaultThreshold,
		CollisionFactor: physics.DefaultCollisionFactor,
		Probes: ProbeConfig{
			Radius:    DefaultProbeRadius,
			Speed:     DefaultProbeSpeed,
			Reference: sim.DefaultReference,
		},
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads a YAML or TOML file, chosen by extension, over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if isTOML(path) {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return err
		}
		data = buf.Bytes()
	} else {
		var err error
		if data, err = yaml.Marshal(cfg); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Days < 0 {
		return fmt.Errorf("%w: days must not be negative, got %d", dynamo.ErrInvalidConfiguration, c.Days)
	}
	if !(c.Tstep > 0) || math.IsInf(c.Tstep, 0) {
		return fmt.Errorf("%w: tstep must be positive, got %g", dynamo.ErrInvalidConfiguration, c.Tstep)
	}
	if _, err := sim.ParseMode(c.Mode); err != nil {
		return err
	}
	if c.Threshold < 0 || c.CollisionFactor < 0 || c.MinSeparation < 0 {
		return fmt.Errorf("%w: threshold, collision_factor and min_separation must not be negative",
			dynamo.ErrInvalidConfiguration)
	}
	p := c.Probes
	if p.Count < 0 {
		return fmt.Errorf("%w: probe count must not be negative, got %d", dynamo.ErrInvalidConfiguration, p.Count)
	}
	if p.Count > 0 && !(p.Radius > 0) {
		return fmt.Errorf("%w: probe radius must be positive, got %g", dynamo.ErrInvalidConfiguration, p.Radius)
	}
	if p.Reference < 0 {
		return fmt.Errorf("%w: probe reference must not be negative, got %d", dynamo.ErrInvalidConfiguration, p.Reference)
	}
	return nil
}

// Options converts the configuration into simulation options.
func (c *Config) Options() (sim.Options, error) {
	mode, err := sim.ParseMode(c.Mode)
	if err != nil {
		return sim.Options{}, err
	}
	opts := sim.DefaultOptions()
	opts.Mode = mode
	opts.Threshold = c.Threshold
	opts.CollisionFactor = c.CollisionFactor
	opts.MinSeparation = c.MinSeparation
	opts.Reference = c.Probes.Reference
	return opts, nil
}

func (c *Config) Launch() sim.Launch {
	return sim.Launch{Count: c.Probes.Count, Radius: c.Probes.Radius, Speed: c.Probes.Speed}
}

// UsesBuiltinCatalogue reports whether the run starts from the built-in
// solar system rather than a catalogue file.
func (c *Config) UsesBuiltinCatalogue() bool {
	return c.Catalogue == "" || c.Catalogue == BuiltinCatalogue
}
