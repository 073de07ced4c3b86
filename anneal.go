/*
 * anneal.go, part of hielo.
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
	"time"
)

// DefaultBiasWeight is the weight of the occupancy bias in the acceptance criterion.
const DefaultBiasWeight = 100.0

// occupancies of complementary site types must add up to 1 within this tolerance
const fractionTolerance = 1e-6

// every how many cycles the context and the clock are checked.
const checkEvery = 1024

// Options contains the parameters of an annealing run.
type Options struct {
	weight    float64
	maxCycles int
	timeLimit time.Duration
	tolerance int
	bias      bool
	trace     bool
}

// DefaultOptions returns the default annealing options: bias weight 100, no cycle or time
// limit, zero tolerated violation, occupancy bias on and progress trace recorded.
func DefaultOptions() *Options {
	return &Options{weight: DefaultBiasWeight, bias: true, trace: true}
}

//Returns the weight of the occupancy bias and sets it, if a valid value is given.
func (O *Options) Weight(w ...float64) float64 {
	ret := O.weight
	if len(w) > 0 && w[0] >= 0 {
		O.weight = w[0]
	}
	return ret
}

//Returns the maximum number of cycles (0 means no limit), and sets it, if a valid
//value is given.
func (O *Options) MaxCycles(n ...int) int {
	ret := O.maxCycles
	if len(n) > 0 && n[0] >= 0 {
		O.maxCycles = n[0]
	}
	return ret
}

//Returns the wall-clock limit for the run (0 means no limit), and sets it, if a valid
//value is given.
func (O *Options) TimeLimit(t ...time.Duration) time.Duration {
	ret := O.timeLimit
	if len(t) > 0 && t[0] >= 0 {
		O.timeLimit = t[0]
	}
	return ret
}

//Returns the violation at which the run is considered converged, and sets it, if a valid
//value is given.
func (O *Options) Tolerance(v ...int) int {
	ret := O.tolerance
	if len(v) > 0 && v[0] >= 0 {
		O.tolerance = v[0]
	}
	return ret
}

//Returns whether the occupancy bias is applied, and sets it, if a value is given.
func (O *Options) Bias(b ...bool) bool {
	ret := O.bias
	if len(b) > 0 {
		O.bias = b[0]
	}
	return ret
}

//Returns whether the violation trace is recorded in the Result, and sets it, if a value is given.
func (O *Options) Trace(b ...bool) bool {
	ret := O.trace
	if len(b) > 0 {
		O.trace = b[0]
	}
	return ret
}

// Observer receives the progress of an annealing run. Progress is called every
// time the violation decreases.
type Observer interface {
	Progress(cycle, violation int)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(cycle, violation int)

func (f ObserverFunc) Progress(cycle, violation int) { f(cycle, violation) }

// TracePoint is the violation after a given cycle.
type TracePoint struct {
	Cycle     int
	Violation int
}

// Reasons for a run to stop.
const (
	StopConverged  = "converged"
	StopCycleLimit = "cycle limit reached"
	StopTimeLimit  = "time limit reached"
	StopCanceled   = "canceled"
)

// Result describes an annealing run.
type Result struct {
	Converged        bool
	StopReason       string
	Cycles           int
	Flips            int //flips kept
	Reverted         int //flips attempted and reverted
	Gated            int //cycles abandoned by the occupancy bias
	InitialViolation int
	Violation        int
	Elapsed          time.Duration
	Trace            []TracePoint
}

// Anneal runs the biased local search on S until its violation is not larger than the
// tolerance in o (nil means DefaultOptions()). Each cycle picks a random bond. If the
// bias is on, the move is abandoned with a probability that grows with the amount by
// which it would push the occupancies of the bond's two site types away from their
// targets. Then a flip is tried on bonds whose oxygens have different coordinations,
// and kept if it reduces their difference, kept with probability 1/2 if the difference
// doesn't change, and reverted otherwise. The violation never increases.
//
// If a cycle or time limit is reached, or ctx is canceled, Anneal returns the Result
// and also a *NonConvergenceError, leaving S in its last (and best) state. It returns an
// ErrConsistency error if the occupancy fractions of two alternate site types
// stop adding up to 1.
func Anneal(ctx context.Context, S *State, rng *rand.Rand, o *Options, observers ...Observer) (*Result, error) {
	if o == nil {
		o = DefaultOptions()
	}
	start := time.Now()
	var deadline time.Time
	if o.timeLimit > 0 {
		deadline = start.Add(o.timeLimit)
	}
	res := &Result{InitialViolation: S.Violation()}
	if o.trace {
		res.Trace = append(res.Trace, TracePoint{0, S.Violation()})
	}
	finish := func(cycle int, reason string) *Result {
		res.Cycles = cycle
		res.StopReason = reason
		res.Violation = S.Violation()
		res.Converged = reason == StopConverged
		res.Elapsed = time.Since(start)
		return res
	}
	for cycle := 0; ; cycle++ {
		if S.Violation() <= o.tolerance {
			return finish(cycle, StopConverged), nil
		}
		if o.maxCycles > 0 && cycle >= o.maxCycles {
			r := finish(cycle, StopCycleLimit)
			return r, &NonConvergenceError{r}
		}
		if cycle%checkEvery == 0 {
			if ctx.Err() != nil {
				r := finish(cycle, StopCanceled)
				return r, &NonConvergenceError{r}
			}
			if !deadline.IsZero() && time.Now().After(deadline) {
				r := finish(cycle, StopTimeLimit)
				return r, &NonConvergenceError{r}
			}
		}
		i := rng.Intn(S.Len())
		if o.bias {
			crit, err := S.criterion(i, o.weight)
			if err != nil {
				return nil, errDecorate(err, "Anneal")
			}
			if rng.Float64() > crit {
				res.Gated++
				continue
			}
		}
		cd0 := S.Imbalance(i)
		if cd0 == 0 {
			continue
		}
		prev := S.Violation()
		S.Displace(i)
		cd1 := S.Imbalance(i)
		if cd1 > cd0 || (cd1 == cd0 && rng.Float64() < 0.5) {
			S.Displace(i)
			res.Reverted++
			continue
		}
		res.Flips++
		if v := S.Violation(); v < prev {
			if o.trace {
				res.Trace = append(res.Trace, TracePoint{cycle + 1, v})
			}
			for _, obs := range observers {
				obs.Progress(cycle+1, v)
			}
		}
	}
}

// criterion returns the probability of attempting to flip the ith bond, given the
// current and target occupancies of its two hydrogens' site types.
func (S *State) criterion(i int, w float64) (float64, error) {
	b := S.bonds[i]
	h1, h2 := b.ActiveH(), b.InactiveH()
	o1, o2 := b.OccA, b.OccB
	if !b.AtA() {
		o1, o2 = o2, o1
	}
	sreal := S.Fraction(S.types[h1])
	srealp := S.Fraction(S.types[h2])
	if math.Abs(sreal+srealp-1) > fractionTolerance {
		return 0, newError(ErrConsistency, "criterion", "occupancies of site types %q (hydrogen %d) and %q (hydrogen %d) add up to %g, not 1", S.types[h1], h1, S.types[h2], h2, sreal+srealp)
	}
	dsreal := srealp - sreal
	dsideal := o2 - o1
	return math.Min(1, math.Exp(-w*(dsreal-dsideal))), nil
}
