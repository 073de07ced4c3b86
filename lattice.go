/*
 * lattice.go, part of hielo.
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
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const appzero float64 = 1e-12

// DistanceMode selects how the periodic distance is obtained from the 27 images.
type DistanceMode int

const (
	// MinimumImage returns the shortest distance among the images that pass
	// the per-axis cutoff test.
	MinimumImage DistanceMode = iota
	// FirstImage returns the distance for the first image, in the fixed
	// enumeration order, that passes the per-axis cutoff test. It reproduces
	// structures generated with older tools bit for bit.
	FirstImage
)

func (m DistanceMode) String() string {
	if m == FirstImage {
		return "first-image"
	}
	return "minimum-image"
}

// Lattice contains the three vectors of a periodic cell and the 27 image
// shifts derived from them.
type Lattice struct {
	vecs   [3]r3.Vec
	shifts [27]r3.Vec
	mode   DistanceMode
}

// NewLattice returns a lattice with the vectors a, b and c. It fails if
// the vectors don't span a cell with a non-zero volume.
func NewLattice(a, b, c r3.Vec) (*Lattice, error) {
	L := &Lattice{vecs: [3]r3.Vec{a, b, c}}
	if math.Abs(L.Volume()) < appzero {
		return nil, newError(ErrStructural, "NewLattice", "lattice vectors %v %v %v span no volume", a, b, c)
	}
	//the zero shift goes first, then +1, then -1 on each vector. The order matters
	//for FirstImage.
	n := 0
	for _, i := range [3]float64{0, 1, -1} {
		for _, j := range [3]float64{0, 1, -1} {
			for _, k := range [3]float64{0, 1, -1} {
				L.shifts[n] = r3.Add(r3.Add(r3.Scale(i, a), r3.Scale(j, b)), r3.Scale(k, c))
				n++
			}
		}
	}
	return L, nil
}

// LatticeFromCell returns the lattice for the cell parameters a, b, c (lengths) and
// alpha, beta, gamma (angles in degrees). The first vector lies on the x axis and
// the second one on the xy plane.
func LatticeFromCell(a, b, c, alpha, beta, gamma float64) (*Lattice, error) {
	if a <= 0 || b <= 0 || c <= 0 {
		return nil, newError(ErrStructural, "LatticeFromCell", "cell lengths must be positive: %g %g %g", a, b, c)
	}
	al := alpha * math.Pi / 180
	be := beta * math.Pi / 180
	ga := gamma * math.Pi / 180
	v2 := 1 - math.Pow(math.Cos(al), 2) - math.Pow(math.Cos(be), 2) - math.Pow(math.Cos(ga), 2) + 2*math.Cos(al)*math.Cos(be)*math.Cos(ga)
	if v2 <= 0 || math.Abs(math.Sin(ga)) < appzero {
		return nil, newError(ErrStructural, "LatticeFromCell", "impossible cell angles: %g %g %g", alpha, beta, gamma)
	}
	v := math.Sqrt(v2)
	va := r3.Vec{X: a}
	vb := r3.Vec{X: b * math.Cos(ga), Y: b * math.Sin(ga)}
	vc := r3.Vec{X: c * math.Cos(be), Y: c * (math.Cos(al) - math.Cos(be)*math.Cos(ga)) / math.Sin(ga), Z: c * v / math.Sin(ga)}
	L, err := NewLattice(va, vb, vc)
	return L, errDecorate(err, "LatticeFromCell")
}

// Vectors returns the three lattice vectors.
func (L *Lattice) Vectors() [3]r3.Vec {
	return L.vecs
}

// Mode returns the current distance mode and sets it
// to the given one, if any.
func (L *Lattice) Mode(mode ...DistanceMode) DistanceMode {
	ret := L.mode
	if len(mode) > 0 {
		L.mode = mode[0]
	}
	return ret
}

// Volume returns the (signed) volume of the cell.
func (L *Lattice) Volume() float64 {
	return r3.Dot(L.vecs[0], r3.Cross(L.vecs[1], L.vecs[2]))
}

// Widths returns the distances between opposite faces of the cell.
func (L *Lattice) Widths() [3]float64 {
	V := math.Abs(L.Volume())
	a, b, c := L.vecs[0], L.vecs[1], L.vecs[2]
	return [3]float64{
		V / r3.Norm(r3.Cross(b, c)),
		V / r3.Norm(r3.Cross(c, a)),
		V / r3.Norm(r3.Cross(a, b)),
	}
}

// CheckCutoff returns an error if the cell is not wider than twice the cutoff
// in every direction. Below that, a neighbor can have more than one image within
// the cutoff and Distance can miss it.
func (L *Lattice) CheckCutoff(cutoff float64) error {
	if cutoff <= 0 {
		return newError(ErrStructural, "CheckCutoff", "cutoff must be positive, got %g", cutoff)
	}
	for i, w := range L.Widths() {
		if w <= 2*cutoff {
			return newError(ErrStructural, "CheckCutoff", "cell width %.3f along vector %d is not larger than twice the cutoff %.3f", w, i, cutoff)
		}
	}
	return nil
}

// Distance returns the periodic distance between pi and pj. Images whose
// displacement exceeds cutoff along any cartesian axis are discarded without
// computing the full distance. If no image passes, cutoff itself is returned,
// so callers should test with "<".
func (L *Lattice) Distance(pi, pj r3.Vec, cutoff float64) float64 {
	d := r3.Sub(pj, pi)
	ret := cutoff
	found := false
	for _, s := range L.shifts {
		dx := d.X - s.X
		if math.Abs(dx) > cutoff {
			continue
		}
		dy := d.Y - s.Y
		if math.Abs(dy) > cutoff {
			continue
		}
		dz := d.Z - s.Z
		if math.Abs(dz) > cutoff {
			continue
		}
		n := math.Sqrt(dx*dx + dy*dy + dz*dz)
		if L.mode == FirstImage {
			return n
		}
		if !found || n < ret {
			ret = n
			found = true
		}
	}
	return ret
}

// String returns the lattice vectors in the format used in output comments.
func (L *Lattice) String() string {
	a, b, c := L.vecs[0], L.vecs[1], L.vecs[2]
	return fmt.Sprintf("[%.3f %.3f %.3f], [%.3f %.3f %.3f], [%.3f %.3f %.3f]", a.X, a.Y, a.Z, b.X, b.Y, b.Z, c.X, c.Y, c.Z)
}
