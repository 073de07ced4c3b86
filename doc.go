/*
 * doc.go, part of hielo.
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

/*Package hielo generates proton-ordered configurations for proton-disordered ice
crystals.

The input is a periodic crystal where every oxygen-oxygen hydrogen bond carries two
candidate hydrogen positions, one close to each oxygen, and a table with the target
occupancy of each hydrogen site type. hielo picks one hydrogen per bond so that every
oxygen ends up with exactly two hydrogens (the Bernal-Fowler ice rule) while the
fraction of selected sites of each type approaches its target.

	**Pipeline**

    FindContacts finds the two oxygens near each hydrogen, using the periodic distance
	of the crystal's Lattice.

    Builder.Build pairs the hydrogens that share the same two oxygens in HBond units.

    NewState and Anneal run a biased random local search until no oxygen violates
	the ice rule.

    State.Select returns the selected atoms, and OccupancyReport compares the
	obtained occupancies with the targets.

    Dipole, Reorder and XYZWrite post-process the result. Generator runs all of the
	above, for one seed or for an ensemble of them.

Errors returned by the package can be tested with errors.Is against ErrStructural,
ErrConsistency and ErrNonConvergence.

*/
package hielo
