/*
 * presets.go, part of hielo.
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

// Package polymorph contains the parameters of the supported ice polymorphs and
// the run configuration, which can be read from YAML files.
package polymorph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rmera/hielo"
	"gonum.org/v1/gonum/spatial/r3"
)

// Cell contains crystallographic cell parameters, lengths in A and angles in degrees,
// and the number of times the cell is repeated along each vector.
type Cell struct {
	A         float64 `yaml:"a" validate:"gt=0"`
	B         float64 `yaml:"b" validate:"gt=0"`
	C         float64 `yaml:"c" validate:"gt=0"`
	Alpha     float64 `yaml:"alpha" validate:"gt=0,lt=180"`
	Beta      float64 `yaml:"beta" validate:"gt=0,lt=180"`
	Gamma     float64 `yaml:"gamma" validate:"gt=0,lt=180"`
	Supercell [3]int  `yaml:"supercell" validate:"dive,gte=0"`
}

// Lattice returns the lattice of the supercell.
func (c *Cell) Lattice() (*hielo.Lattice, error) {
	m := c.Supercell
	for i := range m {
		if m[i] == 0 {
			m[i] = 1
		}
	}
	return hielo.LatticeFromCell(c.A*float64(m[0]), c.B*float64(m[1]), c.C*float64(m[2]), c.Alpha, c.Beta, c.Gamma)
}

// Preset is a supported polymorph: where its structure is, its lattice and the target
// occupancies of its hydrogen site types.
type Preset struct {
	Name  string
	Input string
	// Only one of Cell and Vectors is set.
	Cell    *Cell
	Vectors *[3]r3.Vec
	Sites   hielo.SiteTable
}

// Lattice returns the lattice of the preset.
func (p Preset) Lattice() (*hielo.Lattice, error) {
	if p.Cell != nil {
		return p.Cell.Lattice()
	}
	if p.Vectors == nil {
		return nil, fmt.Errorf("polymorph: preset %s has no lattice", p.Name)
	}
	return hielo.NewLattice(p.Vectors[0], p.Vectors[1], p.Vectors[2])
}

func (p Preset) String() string {
	L, err := p.Lattice()
	lat := "?"
	if err == nil {
		lat = L.String()
	}
	return fmt.Sprintf("ice %-4s %-22s lattice vectors %s, %d site types", p.Name, p.Input, lat, len(p.Sites))
}

var presets = map[string]Preset{
	"III": {
		Name:  "III",
		Input: "Raw/IceIII.xyz",
		Cell:  &Cell{A: 6.676, B: 6.676, C: 6.955, Alpha: 90, Beta: 90, Gamma: 90, Supercell: [3]int{4, 4, 3}},
		Sites: hielo.SiteTable{"ha": 1.0 / 3, "hb": 1.0 / 2, "hc": 2.0 / 3},
	},
	//orthogonal cell. The original monoclinic one is a=9.09 b=7.55 c=10.25 beta=109.1
	"V": {
		Name:  "V",
		Input: "Raw/IceV_Orth2.xyz",
		Cell:  &Cell{A: 17.722, B: 22.650, C: 34.957, Alpha: 90, Beta: 90, Gamma: 90, Supercell: [3]int{2, 1, 1}},
		Sites: hielo.SiteTable{
			"he": 0.56, "hf": 0.44, "hg": 0.44, "hh": 0.29, "hi": 0.51, "hj": 0.76, "hk": 0.56,
			"hl": 0.24, "hm": 0.49, "hn": 0.71, "ho": 0.49, "hp": 0.50, "hq": 0.51, "hr": 0.50,
		},
	},
	"VI": {
		Name:    "VI",
		Input:   "Raw/IceVI_444.xyz",
		Vectors: &[3]r3.Vec{{X: 24.724}, {Y: 24.724}, {Z: 22.792}},
	},
	"VII": {
		Name:    "VII",
		Input:   "Raw/IceVII.xyz",
		Vectors: &[3]r3.Vec{{X: 26.8}, {Y: 26.8}, {Z: 26.8}},
	},
}

// Get returns the preset with the given name (case insensitive), or an error if
// it isn't supported.
func Get(name string) (Preset, error) {
	p, ok := presets[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return Preset{}, fmt.Errorf("polymorph: ice %q isn't supported, try one of %s", name, strings.Join(Names(), ", "))
	}
	//copies, so the presets can't be changed from outside.
	if p.Cell != nil {
		c := *p.Cell
		p.Cell = &c
	}
	if p.Vectors != nil {
		v := *p.Vectors
		p.Vectors = &v
	}
	sites := make(hielo.SiteTable, len(p.Sites))
	for k, v := range p.Sites {
		sites[k] = v
	}
	p.Sites = sites
	return p, nil
}

// Names returns the names of all presets, sorted.
func Names() []string {
	ret := make([]string, 0, len(presets))
	for k := range presets {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}
