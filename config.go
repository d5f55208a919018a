// Copyright 2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package lumi

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/tiendc/go-deepcopy"
	"gopkg.in/yaml.v3"

	"github.com/lumirt/lumi/internal/gc"
)

// Config holds every collector tunable a host can set, mirroring
// internal/gc.Config plus the YAML tag shape an operator-facing config
// file uses.
type Config struct {
	IntervalRatio   int  `yaml:"interval_ratio"`
	StepRatio       int  `yaml:"step_ratio"`
	Generational    bool `yaml:"generational"`
	Disabled        bool `yaml:"disabled"`
	HeapPageSize    int  `yaml:"heap_page_size"`
	ArenaSize       int  `yaml:"arena_size"`
	ArenaGrowable   bool `yaml:"arena_growable"`
	MajorGCIncRatio int  `yaml:"major_gc_inc_ratio"`
	MajorGCTooMany  int  `yaml:"major_gc_too_many"`
	Stress          bool `yaml:"stress"`
}

// DefaultConfig returns the spec's documented default tunables.
func DefaultConfig() Config {
	d := gc.DefaultConfig()
	return Config{
		IntervalRatio:   d.IntervalRatio,
		StepRatio:       d.StepRatio,
		Generational:    d.Generational,
		Disabled:        d.Disabled,
		HeapPageSize:    d.HeapPageSize,
		ArenaSize:       d.ArenaSize,
		ArenaGrowable:   d.ArenaGrowable,
		MajorGCIncRatio: d.MajorGCIncRatio,
		MajorGCTooMany:  d.MajorGCTooMany,
		Stress:          d.Stress,
	}
}

func (c Config) toGC() gc.Config {
	return gc.Config{
		IntervalRatio:   c.IntervalRatio,
		StepRatio:       c.StepRatio,
		Generational:    c.Generational,
		Disabled:        c.Disabled,
		HeapPageSize:    c.HeapPageSize,
		ArenaSize:       c.ArenaSize,
		ArenaGrowable:   c.ArenaGrowable,
		MajorGCIncRatio: c.MajorGCIncRatio,
		MajorGCTooMany:  c.MajorGCTooMany,
		Stress:          c.Stress,
	}
}

// Clone returns a deep copy of c. New takes a copy of whatever Config it
// is handed via this rather than aliasing the caller's value, so a host
// that keeps mutating its own Config after New does not reach into the
// live scheduler's tunables.
func (c Config) Clone() Config {
	var out Config
	if err := deepcopy.Copy(&out, &c); err != nil {
		// deepcopy only fails on unsupported field types, and every field
		// here is a plain int/bool; a failure means a field was added
		// without updating this copy path.
		panic(errors.Wrap(err, "lumi: Config.Clone"))
	}
	return out
}

// Option configures a Config at construction time.
type Option func(*Config)

// WithIntervalRatio sets the §6 interval_ratio tunable.
func WithIntervalRatio(v int) Option { return func(c *Config) { c.IntervalRatio = v } }

// WithStepRatio sets the §6 step_ratio tunable.
func WithStepRatio(v int) Option { return func(c *Config) { c.StepRatio = v } }

// WithGenerational toggles the generational overlay.
func WithGenerational(v bool) Option { return func(c *Config) { c.Generational = v } }

// WithHeapPageSize sets the page allocator's slots-per-page.
func WithHeapPageSize(v int) Option { return func(c *Config) { c.HeapPageSize = v } }

// WithArena sets the arena's capacity and whether it is allowed to grow
// past it instead of reporting ErrArenaOverflow.
func WithArena(size int, growable bool) Option {
	return func(c *Config) {
		c.ArenaSize = size
		c.ArenaGrowable = growable
	}
}

// WithStress forces a full GC before every allocation, matching the
// original implementation's MRB_GC_STRESS build mode, as a fuzzing aid.
func WithStress(v bool) Option { return func(c *Config) { c.Stress = v } }

// NewConfig builds a Config from DefaultConfig with opts applied.
func NewConfig(opts ...Option) Config {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LoadConfig reads a YAML document into a Config, starting from
// DefaultConfig so a partial document only overrides the fields it sets.
func LoadConfig(r io.Reader) (Config, error) {
	c := DefaultConfig()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "lumi: LoadConfig")
	}
	return c, nil
}

// LoadConfigFile is a convenience wrapper around LoadConfig for a path on
// disk.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "lumi: LoadConfigFile(%q)", path)
	}
	defer f.Close()
	return LoadConfig(f)
}
