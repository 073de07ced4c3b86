/*
 * select.go, part of hielo.
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
	"sort"
	"strings"
)

// Select returns, sorted and without repetitions, the ids of the active oxygen
// and the present hydrogen of every bond. Once the violation is zero, these
// are the atoms of one proton-ordered configuration of the crystal.
func (S *State) Select() []int {
	seen := make(map[int]bool, 2*len(S.bonds))
	ret := make([]int, 0, 2*len(S.bonds))
	for _, b := range S.bonds {
		for _, id := range [2]int{b.o, b.ActiveH()} {
			if !seen[id] {
				seen[id] = true
				ret = append(ret, id)
			}
		}
	}
	sort.Ints(ret)
	return ret
}

// OccupancyLine compares, for one site type, the target occupancy with the fraction
// of its sites that were selected.
type OccupancyLine struct {
	Label    string
	Ideal    float64
	Real     float64
	Present  int //sites with this label in the crystal
	Selected int //sites with this label in the selection
}

func (O OccupancyLine) String() string {
	return fmt.Sprintf("Atom type %s : Ideal occupation % .3f, real occupation % .3f", O.Label, O.Ideal, O.Real)
}

// OccupancyReport returns one line for each label in table, in alphabetical order,
// comparing its target occupancy with the fraction of the sites of the crystal with that
// label that are in sel. Labels absent from the crystal get a real occupancy of 0.
func OccupancyReport(C *Crystal, sel []int, table SiteTable) []OccupancyLine {
	present := make(map[string]int)
	for _, a := range C.Atoms {
		present[a.SiteType()]++
	}
	selected := make(map[string]int)
	for _, i := range sel {
		selected[C.Atom(i).SiteType()]++
	}
	labels := table.Labels()
	ret := make([]OccupancyLine, 0, len(labels))
	for _, l := range labels {
		line := OccupancyLine{Label: l, Ideal: table[l], Present: present[l], Selected: selected[l]}
		if line.Present > 0 {
			line.Real = float64(line.Selected) / float64(line.Present)
		}
		ret = append(ret, line)
	}
	return ret
}

// FormatReport returns the lines of the report, one per line.
func FormatReport(report []OccupancyLine) string {
	s := make([]string, len(report))
	for i, v := range report {
		s[i] = v.String()
	}
	return strings.Join(s, "\n")
}
