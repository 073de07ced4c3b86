/*
 * dipole.go, part of hielo.
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
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Point charges (e) of the simple water model used for the dipole check.
const (
	ChargeO = -0.8
	ChargeH = 0.4
)

// EAngs2Debye converts dipole moments from e*A to Debye.
const EAngs2Debye = 4.80245

// Dipole returns the dipole moment of the crystal, in Debye, using point charges on the
// oxygens and hydrogens and the coordinates as they are, without periodic images. Sites
// of other elements carry no charge. A well-ordered proton configuration has a dipole
// close to zero.
func Dipole(C *Crystal) r3.Vec {
	q := mat.NewVecDense(C.Len(), nil)
	for i, a := range C.Atoms {
		switch {
		case a.IsOxygen():
			q.SetVec(i, ChargeO)
		case a.IsHydrogen():
			q.SetVec(i, ChargeH)
		}
	}
	d := mat.NewVecDense(3, nil)
	d.MulVec(C.Coords.T(), q)
	d.ScaleVec(EAngs2Debye, d)
	return r3.Vec{X: d.AtVec(0), Y: d.AtVec(1), Z: d.AtVec(2)}
}
