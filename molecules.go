/*
 * molecules.go, part of hielo.
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

package hielo

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// DefaultTopologyFactor multiplies the sum of covalent radii to obtain the
// bonding distance between two atoms.
const DefaultTopologyFactor = 1.3

//A map for assigning covalent radii to elements
//Values from Cordero et al., 2008 (DOI:10.1039/B801115J)
var symbolCovrad = map[string]float64{
	"H": 0.31,
	"O": 0.66,
}

//maximum number of covalent bonds for elements that have a hard limit.
//The longest ones are removed.
var symbolMaxBonds = map[string]int{
	"H": 1,
}

// Topology returns the covalent bond graph of the crystal, where node ids are atom
// indexes. Two atoms are bonded if their periodic distance is smaller than factor times
// the sum of their covalent radii (0 means DefaultTopologyFactor). Atoms whose element
// allows a limited number of bonds, such as hydrogens, keep only their shortest ones.
func Topology(C *Crystal, factor float64) (*simple.UndirectedGraph, error) {
	if C.Lattice == nil {
		return nil, newError(ErrStructural, "Topology", "crystal has no lattice")
	}
	if factor <= 0 {
		factor = DefaultTopologyFactor
	}
	radii := make([]float64, C.Len())
	for i, a := range C.Atoms {
		r, ok := symbolCovrad[a.Element()]
		if !ok {
			return nil, newError(ErrStructural, "Topology", "couldn't find the covalent radius for %s %d", a.Label, i)
		}
		radii[i] = r
	}
	type neighbor struct {
		j int
		d float64
	}
	neighs := make([][]neighbor, C.Len())
	for i := 0; i < C.Len(); i++ {
		pi := C.Pos(i)
		for j := i + 1; j < C.Len(); j++ {
			cut := factor * (radii[i] + radii[j])
			if d := C.Lattice.Distance(pi, C.Pos(j), cut); d < cut {
				neighs[i] = append(neighs[i], neighbor{j, d})
				neighs[j] = append(neighs[j], neighbor{i, d})
			}
		}
	}
	for i, n := range neighs {
		max, ok := symbolMaxBonds[C.Atom(i).Element()]
		if !ok || len(n) <= max {
			continue
		}
		sort.Slice(n, func(k, l int) bool { return n[k].d < n[l].d })
		neighs[i] = n[:max]
	}
	g := simple.NewUndirectedGraph()
	for i := range neighs {
		g.AddNode(simple.Node(i))
	}
	//a bond survives only if both ends kept it.
	for i, n := range neighs {
		for _, v := range n {
			if v.j < i {
				continue
			}
			for _, w := range neighs[v.j] {
				if w.j == i {
					g.SetEdge(simple.Edge{F: simple.Node(i), T: simple.Node(v.j)})
					break
				}
			}
		}
	}
	return g, nil
}

// components returns the connected components of g as sorted slices of ids,
// ordered by their lowest id.
func components(g graph.Undirected) [][]int {
	cc := topo.ConnectedComponents(g)
	ret := make([][]int, 0, len(cc))
	for _, c := range cc {
		ids := make([]int, len(c))
		for i, n := range c {
			ids[i] = int(n.ID())
		}
		sort.Ints(ids)
		ret = append(ret, ids)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i][0] < ret[j][0] })
	return ret
}

// Molecules groups the atoms of the crystal in molecules, the connected components
// of its covalent topology (see Topology). Molecules are ordered by their lowest atom
// index. Within each molecule, atoms are sorted by element, heaviest first (so
// oxygens go before their hydrogens), and then by index.
func Molecules(C *Crystal, factor float64) ([][]int, error) {
	g, err := Topology(C, factor)
	if err != nil {
		return nil, errDecorate(err, "Molecules")
	}
	mols := components(g)
	for _, m := range mols {
		sort.SliceStable(m, func(i, j int) bool {
			ri, rj := symbolCovrad[C.Atom(m[i]).Element()], symbolCovrad[C.Atom(m[j]).Element()]
			if ri != rj {
				return ri > rj
			}
			return m[i] < m[j]
		})
	}
	return mols, nil
}

// Reorder returns a copy of the crystal with the atoms grouped by molecule, as
// given by Molecules.
func Reorder(C *Crystal, factor float64) (*Crystal, error) {
	mols, err := Molecules(C, factor)
	if err != nil {
		return nil, errDecorate(err, "Reorder")
	}
	order := make([]int, 0, C.Len())
	for _, m := range mols {
		order = append(order, m...)
	}
	R, err := C.SomeAtoms(order)
	return R, errDecorate(err, "Reorder")
}

// BondComponents returns the connected components of the graph with the oxygens
// as nodes and the hydrogen bonds as edges. Each component can be annealed
// independently of the others.
func BondComponents(oxygens []int, bonds []*HBond) [][]int {
	g := simple.NewUndirectedGraph()
	for _, o := range oxygens {
		if g.Node(int64(o)) == nil {
			g.AddNode(simple.Node(o))
		}
	}
	for _, b := range bonds {
		if b.OA == b.OB || g.HasEdgeBetween(int64(b.OA), int64(b.OB)) {
			continue
		}
		g.SetEdge(simple.Edge{F: simple.Node(b.OA), T: simple.Node(b.OB)})
	}
	return components(g)
}
