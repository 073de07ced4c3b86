/*
 * config.go, part of hielo.
 *
 * Copyright 2026 The hielo authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as published by
 * the Free Software Foundation; either version 2.1 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program; if not, write to the Free Software
 * Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston,
 * MA 02110-1301, USA.
 */

package polymorph

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rmera/hielo"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// AnnealConfig contains the parameters of the annealing.
type AnnealConfig struct {
	Weight    float64       `yaml:"weight" validate:"gte=0"`
	MaxCycles int           `yaml:"max_cycles" validate:"gte=0"`
	TimeLimit time.Duration `yaml:"time_limit" validate:"gte=0"`
	Tolerance int           `yaml:"tolerance" validate:"gte=0"`
	NoBias    bool          `yaml:"no_bias"`
	Seed      int64         `yaml:"seed"`
}

// DipoleConfig contains the dipole thresholds, in Debye.
type DipoleConfig struct {
	// Below Banner, the result is celebrated.
	Banner float64 `yaml:"banner" validate:"gte=0"`
	// Above Max, the result is not written.
	Max float64 `yaml:"max" validate:"gt=0"`
}

// Config is the configuration of a generation run. The zero values of the optional
// sections mean "use the default".
type Config struct {
	Polymorph    string             `yaml:"polymorph"`
	Input        string             `yaml:"input" validate:"required"`
	Cell         *Cell              `yaml:"cell"`
	Vectors      [][]float64        `yaml:"vectors" validate:"omitempty,len=3,dive,len=3"`
	Sites        map[string]float64 `yaml:"sites" validate:"dive,keys,lowercase,endkeys,gt=0,lt=1"`
	Cutoff       float64            `yaml:"cutoff" validate:"gt=0"`
	Coordination int                `yaml:"coordination" validate:"gte=1"`
	Distance     string             `yaml:"distance" validate:"oneof=minimum-image first-image"`
	Anneal       AnnealConfig       `yaml:"anneal"`
	Dipole       DipoleConfig       `yaml:"dipole"`
	OutDir       string             `yaml:"outdir" validate:"required"`
	Samples      int                `yaml:"samples" validate:"gte=1"`
	Workers      int                `yaml:"workers" validate:"gte=0"`
	Attempts     int                `yaml:"attempts" validate:"gte=1"`
	NoCache      bool               `yaml:"no_cache"`
}

// Default returns a configuration with default values and no polymorph,
// input or lattice.
func Default() *Config {
	return &Config{
		Cutoff:       hielo.DefaultContactCutoff,
		Coordination: 2,
		Distance:     hielo.MinimumImage.String(),
		Anneal:       AnnealConfig{Weight: hielo.DefaultBiasWeight},
		Dipole:       DipoleConfig{Banner: 1.0, Max: 10.0},
		OutDir:       "output",
		Samples:      1,
		Attempts:     1,
	}
}

// FromPreset returns the default configuration for the polymorph with the given name.
func FromPreset(name string) (*Config, error) {
	p, err := Get(name)
	if err != nil {
		return nil, err
	}
	c := Default()
	c.Polymorph = p.Name
	c.Input = p.Input
	c.Cell = p.Cell
	if p.Vectors != nil {
		for _, v := range p.Vectors {
			c.Vectors = append(c.Vectors, []float64{v.X, v.Y, v.Z})
		}
	}
	c.Sites = p.Sites
	return c, nil
}

// Parse reads a YAML configuration from data. Fields absent from data take the values
// of the preset named in its "polymorph" field, if any, or the defaults.
func Parse(data []byte) (*Config, error) {
	var head struct {
		Polymorph string `yaml:"polymorph"`
		Cell      *Cell  `yaml:"cell"`
		Vectors   any    `yaml:"vectors"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("polymorph: parsing configuration: %w", err)
	}
	c := Default()
	if head.Polymorph != "" {
		var err error
		if c, err = FromPreset(head.Polymorph); err != nil {
			return nil, err
		}
		//a lattice in the file replaces the one of the preset.
		if head.Cell != nil || head.Vectors != nil {
			c.Cell, c.Vectors = nil, nil
		}
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("polymorph: parsing configuration: %w", err)
	}
	c.Polymorph = strings.ToUpper(c.Polymorph)
	return c, nil
}

// Load reads the YAML configuration file at path. See Parse.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate checks the configuration. It returns nil or an error describing all the
// failed fields.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		msgs := make([]string, 0, len(verrs))
		for _, e := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s fails %q (value %v)", e.Namespace(), e.Tag(), e.Value()))
		}
		return fmt.Errorf("polymorph: invalid configuration: %s", strings.Join(msgs, "; "))
	}
	if (c.Cell == nil) == (len(c.Vectors) == 0) {
		return fmt.Errorf("polymorph: invalid configuration: give either cell parameters or lattice vectors")
	}
	return c.SiteTable().Validate()
}

// SiteTable returns the site table of the configuration.
func (c *Config) SiteTable() hielo.SiteTable {
	return hielo.SiteTable(c.Sites)
}

// Lattice returns the lattice given by the configuration, with its distance mode.
func (c *Config) Lattice() (*hielo.Lattice, error) {
	var L *hielo.Lattice
	var err error
	switch {
	case c.Cell != nil:
		L, err = c.Cell.Lattice()
	case len(c.Vectors) == 3:
		v := make([]r3.Vec, 3)
		for i, x := range c.Vectors {
			if len(x) != 3 {
				return nil, fmt.Errorf("polymorph: lattice vector %d has %d components", i, len(x))
			}
			v[i] = r3.Vec{X: x[0], Y: x[1], Z: x[2]}
		}
		L, err = hielo.NewLattice(v[0], v[1], v[2])
	default:
		return nil, fmt.Errorf("polymorph: the configuration has no lattice")
	}
	if err != nil {
		return nil, err
	}
	if c.Distance == hielo.FirstImage.String() {
		L.Mode(hielo.FirstImage)
	}
	return L, nil
}

// Options returns the annealing options given by the configuration.
func (c *Config) Options() *hielo.Options {
	o := hielo.DefaultOptions()
	o.Weight(c.Anneal.Weight)
	o.MaxCycles(c.Anneal.MaxCycles)
	o.TimeLimit(c.Anneal.TimeLimit)
	o.Tolerance(c.Anneal.Tolerance)
	o.Bias(!c.Anneal.NoBias)
	return o
}

// Generator returns a generator set up with the configuration.
func (c *Config) Generator() *hielo.Generator {
	G := hielo.NewGenerator(c.SiteTable())
	G.Builder.Cutoff = c.Cutoff
	G.Builder.Coordination = c.Coordination
	G.Cutoff = c.Cutoff
	G.Options = c.Options()
	return G
}

// Seeds returns the seeds for the samples of the run: the configured seed
// and the following ones.
func (c *Config) Seeds() []int64 {
	n := max(c.Samples, 1)
	ret := make([]int64, n)
	for i := range ret {
		ret[i] = c.Anneal.Seed + int64(i)
	}
	return ret
}
