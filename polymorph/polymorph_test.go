/*
 * polymorph_test.go, part of hielo.
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
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rmera/hielo"
)

func TestPresets(Te *testing.T) {
	names := Names()
	if strings.Join(names, " ") != "III V VI VII" {
		Te.Errorf("unexpected presets %v", names)
	}
	for _, n := range names {
		p, err := Get(strings.ToLower(n))
		if err != nil {
			Te.Fatal(err)
		}
		L, err := p.Lattice()
		if err != nil {
			Te.Fatalf("%s: %v", n, err)
		}
		if err := L.CheckCutoff(hielo.DefaultContactCutoff); err != nil {
			Te.Errorf("%s: %v", n, err)
		}
		if err := p.Sites.Validate(); err != nil {
			Te.Errorf("%s: %v", n, err)
		}
		Te.Log(p)
	}
	p, _ := Get("III")
	L, _ := p.Lattice()
	if math.Abs(L.Volume()-6.676*4*6.676*4*6.955*3) > 1e-6 {
		Te.Errorf("ice III supercell volume %f", L.Volume())
	}
	if math.Abs(p.Sites["ha"]+p.Sites["hc"]-1) > 1e-12 {
		Te.Errorf("ha and hc of ice III should be complementary")
	}
	p.Sites["ha"] = 0.9
	if q, _ := Get("III"); q.Sites["ha"] != 1.0/3 {
		Te.Errorf("changing a returned preset changed the preset")
	}
	if _, err := Get("Ih"); err == nil {
		Te.Errorf("ice Ih isn't supported")
	}
}

func TestParse(Te *testing.T) {
	data := []byte(`
polymorph: v
outdir: results
sites:
  he: 0.6
  hf: 0.4
anneal:
  max_cycles: 500000
  time_limit: 90s
  seed: 12
distance: first-image
samples: 3
`)
	c, err := Parse(data)
	if err != nil {
		Te.Fatal(err)
	}
	if err := c.Validate(); err != nil {
		Te.Fatal(err)
	}
	if c.Polymorph != "V" || c.Input != "Raw/IceV_Orth2.xyz" || c.OutDir != "results" {
		Te.Errorf("preset values not kept: %+v", c)
	}
	if c.Sites["he"] != 0.6 || c.Sites["hj"] != 0.76 {
		Te.Errorf("site table not merged with the preset: %v", c.Sites)
	}
	if c.Anneal.TimeLimit != 90*time.Second || c.Anneal.MaxCycles != 500000 || c.Anneal.Weight != hielo.DefaultBiasWeight {
		Te.Errorf("unexpected annealing section %+v", c.Anneal)
	}
	o := c.Options()
	if o.MaxCycles() != 500000 || o.TimeLimit() != 90*time.Second || !o.Bias() {
		Te.Errorf("unexpected options")
	}
	L, err := c.Lattice()
	if err != nil {
		Te.Fatal(err)
	}
	if L.Mode() != hielo.FirstImage {
		Te.Errorf("distance mode not set")
	}
	if s := c.Seeds(); len(s) != 3 || s[0] != 12 || s[2] != 14 {
		Te.Errorf("seeds %v", s)
	}
	G := c.Generator()
	if G.Builder.Coordination != 2 || G.Cutoff != hielo.DefaultContactCutoff || G.Builder.Table["he"] != 0.6 {
		Te.Errorf("generator not set up from the configuration")
	}
}

func TestParseOwnLattice(Te *testing.T) {
	c, err := Parse([]byte("polymorph: III\nvectors: [[10, 0, 0], [0, 10, 0], [0, 0, 10]]\n"))
	if err != nil {
		Te.Fatal(err)
	}
	if err := c.Validate(); err != nil {
		Te.Fatal(err)
	}
	L, err := c.Lattice()
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(L.Volume()-1000) > 1e-9 {
		Te.Errorf("the lattice in the file should replace the preset's, volume %f", L.Volume())
	}
}

func TestValidate(Te *testing.T) {
	bad := map[string]string{
		"no input":       "vectors: [[10, 0, 0], [0, 10, 0], [0, 0, 10]]\n",
		"no lattice":     "input: a.xyz\n",
		"both lattices":  "polymorph: III\ninput: a.xyz\nvectors: [[10, 0, 0], [0, 10, 0], [0, 0, 10]]\ncell: {a: 1, b: 1, c: 1, alpha: 90, beta: 90, gamma: 90}\n",
		"bad occupancy":  "polymorph: VI\nsites: {ha: 1.5}\n",
		"uppercase site": "polymorph: VI\nsites: {Ha: 0.5}\n",
		"bad distance":   "polymorph: VI\ndistance: closest\n",
		"bad cutoff":     "polymorph: VI\ncutoff: -1\n",
		"short vector":   "input: a.xyz\nvectors: [[10, 0], [0, 10, 0], [0, 0, 10]]\n",
	}
	for k, v := range bad {
		c, err := Parse([]byte(v))
		if err != nil {
			continue
		}
		if err := c.Validate(); err == nil {
			Te.Errorf("%s: configuration accepted", k)
		} else {
			Te.Logf("%s: %v", k, err)
		}
	}
	if _, err := Parse([]byte("polymorph: XII\n")); err == nil {
		Te.Errorf("unknown polymorph accepted")
	}
}

func TestLoad(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "run.yaml")
	if err := os.WriteFile(name, []byte("polymorph: VII\nworkers: 4\n"), 0o644); err != nil {
		Te.Fatal(err)
	}
	c, err := Load(name)
	if err != nil {
		Te.Fatal(err)
	}
	if c.Workers != 4 || c.Input != "Raw/IceVII.xyz" || len(c.Vectors) != 3 {
		Te.Errorf("unexpected configuration %+v", c)
	}
	if err := c.Validate(); err != nil {
		Te.Error(err)
	}
	if _, err := Load(filepath.Join(Te.TempDir(), "none.yaml")); err == nil {
		Te.Errorf("missing file accepted")
	}
}
