/*
 * generate.go, part of hielo.
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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

// ContactFunc obtains the contact map of a crystal, for instance from a cache.
type ContactFunc func(C *Crystal, cutoff float64) (ContactMap, error)

// Generator runs the whole pipeline: contacts, hydrogen bonds, annealing, selection
// and post-processing.
type Generator struct {
	Builder *Builder
	Options *Options
	// Cutoff is the hydrogen-oxygen contact cutoff.
	Cutoff float64
	// TopologyFactor is used when grouping the selected atoms in molecules.
	TopologyFactor float64
	// Contacts, if not nil, replaces FindContacts.
	Contacts ContactFunc
	// Observers receive the progress of every annealing run. With GenerateMany
	// they are called from several goroutines.
	Observers []Observer
	// Logger, if nil, nothing is logged.
	Logger *slog.Logger
}

// NewGenerator returns a generator with default settings for the site table.
func NewGenerator(table SiteTable) *Generator {
	return &Generator{
		Builder:        NewBuilder(table),
		Options:        DefaultOptions(),
		Cutoff:         DefaultContactCutoff,
		TopologyFactor: DefaultTopologyFactor,
	}
}

func (G *Generator) logger() *slog.Logger {
	if G.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return G.Logger
}

// Prepared contains the part of the pipeline that doesn't depend on the random
// seed, and can be shared by many runs.
type Prepared struct {
	Crystal    *Crystal
	Contacts   ContactMap
	Bonds      []*HBond
	Components [][]int //connected components of the oxygen graph given by the bonds
}

// Prepare finds the contacts and builds the hydrogen bonds of C.
func (G *Generator) Prepare(C *Crystal) (*Prepared, error) {
	log := G.logger()
	if err := C.Corrupted(); err != nil {
		return nil, errDecorate(err, "Prepare")
	}
	if err := G.Builder.Table.Validate(); err != nil {
		return nil, errDecorate(err, "Prepare")
	}
	find := G.Contacts
	if find == nil {
		find = FindContacts
	}
	nox := len(C.Oxygens())
	target := G.Builder.Coordination
	log.Info("locating hydrogen-oxygen contacts", slog.Int("expected", 4*target*nox), slog.Float64("cutoff", G.Cutoff))
	contacts, err := find(C, G.Cutoff)
	if err != nil {
		return nil, errDecorate(err, "Prepare")
	}
	if n := contacts.Count(); n != 4*target*nox {
		log.Warn("unexpected number of contacts", slog.Int("found", n), slog.Int("expected", 4*target*nox))
	}
	log.Info("finding hydrogen-bonding quadruplets", slog.Int("expected", target*nox))
	bonds, err := G.Builder.Build(C, contacts)
	if err != nil {
		return nil, errDecorate(err, "Prepare")
	}
	if len(bonds) != target*nox {
		log.Warn("unexpected number of hydrogen bonds", slog.Int("found", len(bonds)), slog.Int("expected", target*nox))
	}
	comps := BondComponents(C.Oxygens(), bonds)
	sizes := make([]int, len(comps))
	for i, c := range comps {
		sizes[i] = len(c)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))
	if len(sizes) > 5 {
		sizes = sizes[:5]
	}
	log.Info("hydrogen-bond graph", slog.Int("bonds", len(bonds)), slog.Int("components", len(comps)), slog.Any("largest", sizes))
	return &Prepared{Crystal: C, Contacts: contacts, Bonds: bonds, Components: comps}, nil
}

// Sample is one generated proton configuration.
type Sample struct {
	Seed      int64
	RunID     uuid.UUID
	Selection []int           //ids of the selected atoms in the input crystal
	Structure *Crystal        //selected atoms, with element labels, grouped by molecule
	Report    []OccupancyLine //ideal vs real occupancies
	Dipole    r3.Vec          //Debye
	Result    *Result
	State     *State
}

// DipoleNorm returns the norm of the dipole moment of the sample.
func (S *Sample) DipoleNorm() float64 {
	return floats.Norm([]float64{S.Dipole.X, S.Dipole.Y, S.Dipole.Z}, 2)
}

// Sample anneals a copy of the bonds in P with a random generator seeded with seed,
// and builds the resulting structure. If the annealing doesn't converge, the sample
// built from the partial state is returned together with the *NonConvergenceError.
func (G *Generator) Sample(ctx context.Context, P *Prepared, seed int64, observers ...Observer) (*Sample, error) {
	C := P.Crystal
	log := G.logger().With(slog.Int64("seed", seed))
	rng := rand.New(rand.NewSource(seed))
	S, err := NewState(CopyBonds(P.Bonds), C.Oxygens(), C.SiteTypes(), G.Builder.Coordination)
	if err != nil {
		return nil, errDecorate(err, "Sample")
	}
	S.Randomize(rng)
	log.Info("annealing hydrogen positions", slog.Int("violation", S.Violation()))
	obs := append(append([]Observer{}, G.Observers...), observers...)
	res, annerr := Anneal(ctx, S, rng, G.Options, obs...)
	var nc *NonConvergenceError
	if annerr != nil && !errors.As(annerr, &nc) {
		return nil, errDecorate(annerr, "Sample")
	}
	if nc != nil {
		log.Warn("annealing did not converge", slog.String("reason", res.StopReason), slog.Int("cycles", res.Cycles), slog.Int("violation", res.Violation))
	} else {
		log.Info("annealing converged", slog.Int("cycles", res.Cycles), slog.Duration("elapsed", res.Elapsed))
	}
	ret := &Sample{Seed: seed, RunID: uuid.New(), Result: res, State: S}
	ret.Selection = S.Select()
	ret.Report = OccupancyReport(C, ret.Selection, G.Builder.Table)
	for _, l := range ret.Report {
		log.Info("occupancy", slog.String("type", l.Label), slog.Float64("ideal", l.Ideal), slog.Float64("real", l.Real))
	}
	sel, err := C.SomeAtoms(ret.Selection)
	if err != nil {
		return nil, errDecorate(err, "Sample")
	}
	sel = sel.ElementsOnly()
	ret.Dipole = Dipole(sel)
	ret.Structure, err = Reorder(sel, G.TopologyFactor)
	if err != nil {
		return nil, errDecorate(err, "Sample")
	}
	ret.Structure.Comment = fmt.Sprintf("Generated by hielo ; run %s ; dipole moment [% .2f, % .2f, % .2f] D ; lattice vectors %s",
		ret.RunID, ret.Dipole.X, ret.Dipole.Y, ret.Dipole.Z, C.Lattice)
	log.Info("dipole moment", slog.Float64("debye", ret.DipoleNorm()))
	if nc != nil {
		return ret, annerr
	}
	return ret, nil
}

// Generate prepares C and produces one sample with the given seed.
func (G *Generator) Generate(ctx context.Context, C *Crystal, seed int64, observers ...Observer) (*Sample, error) {
	P, err := G.Prepare(C)
	if err != nil {
		return nil, errDecorate(err, "Generate")
	}
	s, err := G.Sample(ctx, P, seed, observers...)
	return s, errDecorate(err, "Generate")
}

// Ensemble is a set of samples generated from the same crystal, with summary statistics
// over the converged ones.
type Ensemble struct {
	Samples      []*Sample
	Converged    int
	Occupancy    map[string][2]float64 //mean and standard deviation of the real occupancy of each site type
	DipoleMean   float64
	DipoleStdDev float64
}

// GenerateMany prepares C and produces one sample for each seed. See SampleMany.
func (G *Generator) GenerateMany(ctx context.Context, C *Crystal, seeds []int64, workers int, observers ...Observer) (*Ensemble, error) {
	P, err := G.Prepare(C)
	if err != nil {
		return nil, errDecorate(err, "GenerateMany")
	}
	E, err := G.SampleMany(ctx, P, seeds, workers, observers...)
	return E, errDecorate(err, "GenerateMany")
}

// SampleMany produces one sample of P for each seed, running at most workers of them at
// the same time (workers < 1 means one per seed). Each run is sequential and
// independent of the others. Samples that don't converge are kept, but not counted
// in the statistics. Any other error stops the ensemble.
func (G *Generator) SampleMany(ctx context.Context, P *Prepared, seeds []int64, workers int, observers ...Observer) (*Ensemble, error) {
	samples := make([]*Sample, len(seeds))
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, seed := range seeds {
		i, seed := i, seed
		g.Go(func() error {
			s, err := G.Sample(gctx, P, seed, observers...)
			if err != nil && !errors.Is(err, ErrNonConvergence) {
				return err
			}
			samples[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errDecorate(err, "SampleMany")
	}
	return summarize(samples, G.Builder.Table), nil
}

func summarize(samples []*Sample, table SiteTable) *Ensemble {
	E := &Ensemble{Samples: samples, Occupancy: make(map[string][2]float64)}
	var dips []float64
	occs := make(map[string][]float64)
	for _, s := range samples {
		if s == nil || !s.Result.Converged {
			continue
		}
		E.Converged++
		dips = append(dips, s.DipoleNorm())
		for _, l := range s.Report {
			occs[l.Label] = append(occs[l.Label], l.Real)
		}
	}
	if E.Converged == 0 {
		return E
	}
	E.DipoleMean, E.DipoleStdDev = meanStdDev(dips)
	for _, l := range table.Labels() {
		m, sd := meanStdDev(occs[l])
		E.Occupancy[l] = [2]float64{m, sd}
	}
	return E
}

// meanStdDev is stat.MeanStdDev, with a standard deviation of 0 for fewer than two values.
func meanStdDev(x []float64) (mean, std float64) {
	switch len(x) {
	case 0:
		return 0, 0
	case 1:
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}
