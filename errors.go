/*
 * errors.go, part of hielo.
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
	"fmt"
	"strings"
)

// Kinds of errors returned by the library. Use errors.Is to test for them.
var (
	// ErrStructural signals malformed input geometry: a hydrogen without exactly two
	// oxygen neighbors, an oxygen taking part in the wrong number of hydrogen bonds,
	// or a cell too small for the requested cutoff.
	ErrStructural = errors.New("structural input error")

	// ErrConsistency signals a broken statistical invariant: two alternate site
	// types whose occupancies are not complementary.
	ErrConsistency = errors.New("consistency error")

	// ErrNonConvergence is returned when annealing exhausts its budget.
	ErrNonConvergence = errors.New("annealing did not converge")
)

// Error is the error type for the hielo package. In addition to
// a message, it carries a "decoration", the list of functions it went through,
// and whether it is critical.
type Error struct {
	message  string
	deco     []string
	critical bool
	kind     error
}

func newError(kind error, caller string, format string, a ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, a...), deco: []string{caller}, critical: true, kind: kind}
}

// Error returns a string with the error message, its kind and decoration.
func (err *Error) Error() string {
	msg := err.message
	if err.kind != nil {
		msg = err.kind.Error() + ": " + msg
	}
	if len(err.deco) > 0 {
		msg = msg + " (" + strings.Join(err.deco, " <- ") + ")"
	}
	return msg
}

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice. An empty dec just returns the current slice.
func (err *Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

// Critical returns whether the error is critical or it can be ignored.
func (err *Error) Critical() bool { return err.critical }

// Unwrap returns the kind of the error, so errors.Is works with ErrStructural and friends.
func (err *Error) Unwrap() error { return err.kind }

// NonConvergenceError is returned by Anneal when a budget is exhausted before the
// violation reaches the tolerance. Result describes the partial state, which is left
// in the annealed State.
type NonConvergenceError struct {
	Result *Result
}

func (err *NonConvergenceError) Error() string {
	if err.Result == nil {
		return ErrNonConvergence.Error()
	}
	return fmt.Sprintf("%s: %s after %d cycles, violation %d", ErrNonConvergence, err.Result.StopReason, err.Result.Cycles, err.Result.Violation)
}

func (err *NonConvergenceError) Unwrap() error { return ErrNonConvergence }

// Critical is false: a non converged run still leaves a usable partial state.
func (err *NonConvergenceError) Critical() bool { return false }

type decorator interface {
	Decorate(string) []string
}

// errDecorate decorates err with the caller's name if err supports it, and returns it.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(decorator); ok {
		e.Decorate(caller)
	}
	return err
}

// listIDs formats at most max ids for an error message.
func listIDs(ids []int, max int) string {
	s := make([]string, 0, max+1)
	for i, v := range ids {
		if i == max {
			s = append(s, fmt.Sprintf("... (%d more)", len(ids)-max))
			break
		}
		s = append(s, fmt.Sprint(v))
	}
	return strings.Join(s, ", ")
}
