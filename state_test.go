/*
 * state_test.go, part of hielo.
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
	"context"
	"math"
	"math/rand"
	"testing"
)

func TestDisplaceIdempotent(Te *testing.T) {
	C, S := iceState(Te)
	S.Randomize(rand.New(rand.NewSource(3)))
	ox := C.Oxygens()
	for i := 0; i < S.Len(); i++ {
		coords := make([]int, len(ox))
		for j, o := range ox {
			coords[j] = S.Coord(o)
		}
		n, d := S.Occupancy("h")
		v := S.Violation()
		act := S.Bonds()[i].Active()
		S.Displace(i)
		if S.Bonds()[i].Active() == act {
			Te.Errorf("bond %d not flipped", i)
		}
		S.Displace(i)
		for j, o := range ox {
			if S.Coord(o) != coords[j] {
				Te.Errorf("bond %d: coordination of %d went from %d to %d", i, o, coords[j], S.Coord(o))
			}
		}
		if n2, d2 := S.Occupancy("h"); n2 != n || d2 != d {
			Te.Errorf("bond %d: occupancy went from %d/%d to %d/%d", i, n, d, n2, d2)
		}
		if S.Violation() != v || S.Bonds()[i].Active() != act {
			Te.Errorf("bond %d: state not restored", i)
		}
	}
}

func TestViolationIncremental(Te *testing.T) {
	_, S := iceState(Te)
	rng := rand.New(rand.NewSource(11))
	S.Randomize(rng)
	for k := 0; k < 2000; k++ {
		S.Displace(rng.Intn(S.Len()))
		if v := S.Violation(); v != freshViolation(S) || v < 0 {
			Te.Fatalf("after %d flips: incremental violation %d, from scratch %d", k+1, v, freshViolation(S))
		}
	}
}

func TestExclusivity(Te *testing.T) {
	_, S := iceState(Te)
	S.Randomize(rand.New(rand.NewSource(5)))
	check := func(when string) {
		for _, b := range S.Bonds() {
			switch {
			case b.Active() == b.OA && (b.ActiveH() != b.HA || b.InactiveH() != b.HB):
			case b.Active() == b.OB && (b.ActiveH() != b.HB || b.InactiveH() != b.HA):
			case b.Active() != b.OA && b.Active() != b.OB:
			default:
				continue
			}
			Te.Errorf("%s: bond %s has an inconsistent active hydrogen", when, b)
		}
	}
	check("before annealing")
	for i := 0; i < S.Len(); i += 3 {
		S.Displace(i)
	}
	check("after flips")
	n, d := S.Occupancy("h")
	if 2*n != d {
		Te.Errorf("exactly half of the hydrogens should be present, got %d/%d", n, d)
	}
	during := ObserverFunc(func(cycle, violation int) {
		check("during annealing")
	})
	o := DefaultOptions()
	o.MaxCycles(1000000)
	if _, err := Anneal(context.Background(), S, rand.New(rand.NewSource(5)), o, during); err != nil {
		Te.Fatal(err)
	}
	check("after annealing")
	if v := freshViolation(S); v != 0 {
		Te.Errorf("annealed state has violation %d", v)
	}
	if n, d := S.Occupancy("h"); 2*n != d {
		Te.Errorf("after annealing, exactly half of the hydrogens should be present, got %d/%d", n, d)
	}
}

func TestRandomizeFollowsOccupancy(Te *testing.T) {
	bonds, oxygens, types := pairGroups(Te, 250, 0.75)
	S, err := NewState(bonds, oxygens, types, 2)
	if err != nil {
		Te.Fatal(err)
	}
	S.Randomize(rand.New(rand.NewSource(1)))
	//1000 draws, the standard deviation is about 0.014
	if f := S.Fraction("ha"); f < 0.68 || f > 0.82 {
		Te.Errorf("initial fraction of ha %f, far from 0.75", f)
	}
	if f, g := S.Fraction("ha"), S.Fraction("hb"); math.Abs(f+g-1) > 1e-12 {
		Te.Errorf("fractions of complementary types add up to %f", f+g)
	}
}

func TestNewStateRange(Te *testing.T) {
	b, err := NewHBond(0, 1, 2, 7, 0.5, 0.5)
	if err != nil {
		Te.Fatal(err)
	}
	if _, err := NewState([]*HBond{b}, []int{0, 1}, []string{"o", "o", "h", "h"}, 2); err == nil {
		Te.Error("a bond with an atom out of range should be rejected")
	}
	if _, err := NewState(nil, []int{0, 1}, []string{"o", "o"}, 2); err == nil {
		Te.Error("an empty bond set should be rejected")
	}
}
