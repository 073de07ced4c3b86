/*
 * errors_test.go, part of hielo.
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
	"strings"
	"testing"

	v3 "github.com/rmera/hielo/v3"
)

func TestErrorDecoration(Te *testing.T) {
	err := errDecorate(newError(ErrStructural, "FindContacts", "hydrogen %d lost", 7), "Prepare")
	if !errors.Is(err, ErrStructural) || errors.Is(err, ErrConsistency) {
		Te.Errorf("wrong kind for %v", err)
	}
	s := err.Error()
	if !strings.Contains(s, "hydrogen 7 lost") || !strings.Contains(s, "FindContacts <- Prepare") {
		Te.Errorf("unexpected message %q", s)
	}
	var e *Error
	if !errors.As(err, &e) || !e.Critical() {
		Te.Errorf("structural errors are critical")
	}
	if errDecorate(nil, "x") != nil {
		Te.Errorf("decorating nil should give nil")
	}
}

func TestDecorateMatrixError(Te *testing.T) {
	_, err := v3.NewMatrix([]float64{1})
	err = errDecorate(err, "XYZRead")
	var e *v3.Error
	if !errors.As(err, &e) {
		Te.Fatalf("unexpected error %T", err)
	}
	if d := e.Decorate(""); len(d) != 2 || d[1] != "XYZRead" {
		Te.Errorf("decoration of a v3 error lost: %v", d)
	}
}

func TestNonConvergenceError(Te *testing.T) {
	err := &NonConvergenceError{&Result{StopReason: StopCycleLimit, Cycles: 10, Violation: 4}}
	if !errors.Is(err, ErrNonConvergence) || err.Critical() {
		Te.Errorf("non convergence should be a non-critical ErrNonConvergence")
	}
	if s := err.Error(); !strings.Contains(s, "10 cycles") || !strings.Contains(s, "violation 4") {
		Te.Errorf("unexpected message %q", s)
	}
}

func TestListIDs(Te *testing.T) {
	if s := listIDs([]int{1, 2, 3}, 20); s != "1, 2, 3" {
		Te.Errorf("got %q", s)
	}
	ids := make([]int, 25)
	if s := listIDs(ids, 20); !strings.HasSuffix(s, "... (5 more)") {
		Te.Errorf("got %q", s)
	}
}
