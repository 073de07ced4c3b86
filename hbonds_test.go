/*
 * hbonds_test.go, part of hielo.
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
	"errors"
	"testing"
)

func TestNewHBondComplementarity(Te *testing.T) {
	if _, err := NewHBond(0, 1, 2, 3, 0.75, 0.75); !errors.Is(err, ErrConsistency) {
		Te.Errorf("occupancies adding up to 1.5 should be a consistency error, got %v", err)
	}
	if _, err := NewHBond(0, 1, 2, 3, 0.6, 0.395); err != nil {
		Te.Errorf("occupancies adding up to 0.995 should be accepted, got %v", err)
	}
	if _, err := NewHBond(0, 1, 2, 3, 0.6, 0.38); !errors.Is(err, ErrConsistency) {
		Te.Errorf("occupancies adding up to 0.98 should be a consistency error, got %v", err)
	}
	b, err := NewHBond(0, 1, 2, 3, 0.5, 0.5)
	if err != nil {
		Te.Fatal(err)
	}
	if b.Active() != 0 || b.ActiveH() != 2 || b.InactiveH() != 3 {
		Te.Errorf("new bond should start at OA: %s", b)
	}
}

func TestSiteTable(Te *testing.T) {
	T := SiteTable{"ha": 1.0 / 3, "hc": 2.0 / 3}
	if err := T.Validate(); err != nil {
		Te.Error(err)
	}
	if o := T.Occupancy("Ha", DefaultOccupancy); o != 1.0/3 {
		Te.Errorf("labels should be looked up in lowercase, got %f", o)
	}
	if o := T.Occupancy("hx", 0.5); o != 0.5 {
		Te.Errorf("missing label should give the default, got %f", o)
	}
	if err := (SiteTable{"ha": 1.2}).Validate(); !errors.Is(err, ErrConsistency) {
		Te.Errorf("occupancy 1.2 should be rejected, got %v", err)
	}
	if err := (SiteTable{"Ha": 0.5}).Validate(); err == nil {
		Te.Errorf("uppercase labels should be rejected")
	}
}

func TestBuildIceIc(Te *testing.T) {
	C := iceIc(Te)
	contacts, err := FindContacts(C, DefaultContactCutoff)
	if err != nil {
		Te.Fatal(err)
	}
	bonds, err := NewBuilder(nil).Build(C, contacts)
	if err != nil {
		Te.Fatal(err)
	}
	if len(bonds) != 2*len(C.Oxygens()) {
		Te.Fatalf("got %d bonds want %d", len(bonds), 2*len(C.Oxygens()))
	}
	refs := make(map[int]int)
	last := -1
	for _, b := range bonds {
		refs[b.OA]++
		refs[b.OB]++
		if min(b.HA, b.HB) <= last {
			Te.Errorf("bonds not ordered by their lowest hydrogen: %s", b)
		}
		last = min(b.HA, b.HB)
		dA := C.Lattice.Distance(C.Pos(b.OA), C.Pos(b.HA), 2.5)
		dB := C.Lattice.Distance(C.Pos(b.OA), C.Pos(b.HB), 2.5)
		if dA > dB {
			Te.Errorf("HA is not the hydrogen closer to OA in %s: %.3f %.3f", b, dA, dB)
		}
		if b.OccA != DefaultOccupancy || b.OccB != DefaultOccupancy {
			Te.Errorf("expected default occupancies in %s", b)
		}
	}
	for _, o := range C.Oxygens() {
		if refs[o] != 4 {
			Te.Errorf("oxygen %d in %d bonds", o, refs[o])
		}
	}
}

func TestBuildRing(Te *testing.T) {
	C := ring(Te, [2]string{"Ha", "Hb"})
	contacts, err := FindContacts(C, DefaultContactCutoff)
	if err != nil {
		Te.Fatal(err)
	}
	B := NewBuilder(SiteTable{"ha": 0.75, "hb": 0.25})
	//each oxygen has only two bonds, it can't follow the ice rule.
	if _, err := B.Build(C, contacts); !errors.Is(err, ErrStructural) {
		Te.Fatalf("expected a structural error, got %v", err)
	}
	B.Coordination = 1
	bonds, err := B.Build(C, contacts)
	if err != nil {
		Te.Fatal(err)
	}
	if len(bonds) != 4 {
		Te.Fatalf("got %d bonds want 4", len(bonds))
	}
	for _, b := range bonds {
		if want := B.Table.Occupancy(C.Atom(b.HA).SiteType(), 0.5); b.OccA != want {
			Te.Errorf("bond %s: occa %f want %f", b, b.OccA, want)
		}
		if want := B.Table.Occupancy(C.Atom(b.HB).SiteType(), 0.5); b.OccB != want {
			Te.Errorf("bond %s: occb %f want %f", b, b.OccB, want)
		}
	}
	//the bond across the cell boundary.
	b := bonds[3]
	if b.OA != 0 || b.OB != 3 || C.Atom(b.HA).Label != "Hb" {
		Te.Errorf("unexpected bond across the boundary: %s", b)
	}
}

func TestBuildUnsortedContacts(Te *testing.T) {
	C := ring(Te, [2]string{"Ha", "Hb"})
	contacts, err := FindContacts(C, DefaultContactCutoff)
	if err != nil {
		Te.Fatal(err)
	}
	B := NewBuilder(SiteTable{"ha": 0.75, "hb": 0.25})
	B.Coordination = 1
	want, err := B.Build(C, contacts)
	if err != nil {
		Te.Fatal(err)
	}
	//the second hydrogen of each pair lists its oxygens the other way around.
	swapped := make(ContactMap, len(contacts))
	for h, o := range contacts {
		swapped[h] = []int{o[0], o[1]}
		if h%2 == 1 {
			swapped[h] = []int{o[1], o[0]}
		}
	}
	if err := swapped.Validate(C); err != nil {
		Te.Fatal(err)
	}
	got, err := B.Build(C, swapped)
	if err != nil {
		Te.Fatal(err)
	}
	if len(got) != len(want) {
		Te.Fatalf("got %d bonds want %d", len(got), len(want))
	}
	for i, b := range got {
		w := want[i]
		if b.OA != w.OA || b.OB != w.OB || b.HA != w.HA || b.HB != w.HB {
			Te.Errorf("bond %d: %s, want %s", i, b, w)
		}
	}
}

func TestBuildInconsistentTable(Te *testing.T) {
	C := ring(Te, [2]string{"Ha", "Hb"})
	contacts, err := FindContacts(C, DefaultContactCutoff)
	if err != nil {
		Te.Fatal(err)
	}
	B := NewBuilder(SiteTable{"ha": 0.75})
	B.Coordination = 1
	if _, err := B.Build(C, contacts); !errors.Is(err, ErrConsistency) {
		Te.Errorf("0.75 + default 0.5 should be a consistency error, got %v", err)
	}
}

func TestBuildUnpairedHydrogen(Te *testing.T) {
	C := iceIc(Te)
	contacts, err := FindContacts(C, DefaultContactCutoff)
	if err != nil {
		Te.Fatal(err)
	}
	//send one hydrogen to another oxygen pair, leaving its partner alone.
	h := contacts.Hydrogens()[0]
	o := contacts[h]
	for _, v := range C.Oxygens() {
		if v != o[0] && v != o[1] {
			contacts[h] = []int{o[0], v}
			break
		}
	}
	if _, err := NewBuilder(nil).Build(C, contacts); !errors.Is(err, ErrStructural) {
		Te.Errorf("expected a structural error, got %v", err)
	}
}
