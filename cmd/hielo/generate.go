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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/rmera/hielo"
	"github.com/rmera/hielo/cache"
	"github.com/rmera/hielo/chemplot"
	"github.com/rmera/hielo/metrics"
	"github.com/rmera/hielo/polymorph"
	"github.com/spf13/cobra"
)

type generateFlags struct {
	polymorph, config, input string
	seed                     int64
	maxCycles                int
	timeLimit                time.Duration
	attempts, workers        int
	samples                  int
	outdir, plot, metrics    string
	legacyDistance, noCache  bool
}

func newGenerateCmd(stderr io.Writer, logger func() *slog.Logger) *cobra.Command {
	f := new(generateFlags)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate proton-ordered structures",
		Long: `Generate reads a polymorph preset and/or a YAML configuration, anneals the
hydrogen bonds of the input structure and writes the structures whose dipole moment
is small enough to the output directory. Flags override the configuration file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.configure(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runGenerate(ctx, c, f, stderr, logger())
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.polymorph, "polymorph", "p", "", "Ice polymorph preset (III, V, VI or VII)")
	fl.StringVarP(&f.config, "config", "c", "", "YAML configuration file")
	fl.StringVarP(&f.input, "input", "i", "", "Input xyz structure")
	fl.Int64Var(&f.seed, "seed", 0, "Random seed, 0 picks one from the clock")
	fl.IntVar(&f.maxCycles, "max-cycles", 0, "Maximum annealing cycles per sample, 0 for no limit")
	fl.DurationVar(&f.timeLimit, "time-limit", 0, "Maximum annealing time per sample, 0 for no limit")
	fl.IntVar(&f.attempts, "attempts", 1, "Seeds to try until a structure passes the dipole threshold")
	fl.IntVar(&f.samples, "samples", 1, "Independent samples to generate")
	fl.IntVar(&f.workers, "workers", 0, "Samples annealed at the same time, 0 for all")
	fl.StringVarP(&f.outdir, "outdir", "o", "", "Output directory")
	fl.StringVar(&f.plot, "plot", "", "Write png plots with this prefix")
	fl.StringVar(&f.metrics, "metrics", "", "Write Prometheus metrics to this textfile")
	fl.BoolVar(&f.legacyDistance, "legacy-distance", false, "Use the first periodic image within the cutoff instead of the closest one")
	fl.BoolVar(&f.noCache, "no-cache", false, "Don't read or write the contact cache")
	return cmd
}

// configure builds the configuration: defaults, then the preset, then the file, then
// the flags that were given.
func (f *generateFlags) configure(cmd *cobra.Command) (*polymorph.Config, error) {
	var c *polymorph.Config
	var err error
	switch {
	case f.config != "":
		c, err = polymorph.Load(f.config)
		if err == nil && f.polymorph != "" && c.Polymorph != "" && !samePolymorph(c.Polymorph, f.polymorph) {
			err = fmt.Errorf("the configuration is for ice %s, not %s", c.Polymorph, f.polymorph)
		}
	case f.polymorph != "":
		c, err = polymorph.FromPreset(f.polymorph)
	default:
		err = fmt.Errorf("give a polymorph or a configuration file, presets: %v", polymorph.Names())
	}
	if err != nil {
		return nil, err
	}
	changed := cmd.Flags().Changed
	if changed("input") {
		c.Input = f.input
	}
	if changed("seed") {
		c.Anneal.Seed = f.seed
	}
	if changed("max-cycles") {
		c.Anneal.MaxCycles = f.maxCycles
	}
	if changed("time-limit") {
		c.Anneal.TimeLimit = f.timeLimit
	}
	if changed("attempts") {
		c.Attempts = f.attempts
	}
	if changed("samples") {
		c.Samples = f.samples
	}
	if changed("workers") {
		c.Workers = f.workers
	}
	if changed("outdir") {
		c.OutDir = f.outdir
	}
	if f.legacyDistance {
		c.Distance = hielo.FirstImage.String()
	}
	if f.noCache {
		c.NoCache = true
	}
	if c.Anneal.Seed == 0 {
		c.Anneal.Seed = time.Now().UnixNano()
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func samePolymorph(a, b string) bool {
	pa, err1 := polymorph.Get(a)
	pb, err2 := polymorph.Get(b)
	return err1 == nil && err2 == nil && pa.Name == pb.Name
}

// readInput reads the input structure. The lattice of the configuration replaces
// any lattice given in the file.
func readInput(c *polymorph.Config) (*hielo.Crystal, error) {
	C, err := hielo.XYZFileRead(c.Input)
	if err != nil {
		return nil, err
	}
	if C.Lattice, err = c.Lattice(); err != nil {
		return nil, err
	}
	return C, nil
}

func runGenerate(ctx context.Context, c *polymorph.Config, f *generateFlags, stderr io.Writer, log *slog.Logger) error {
	C, err := readInput(c)
	if err != nil {
		return err
	}
	log.Info("structure read", slog.String("input", c.Input), slog.Int("atoms", C.Len()),
		slog.Int("oxygens", len(C.Oxygens())), slog.String("lattice", C.Lattice.String()))
	G := c.Generator()
	G.Logger = log
	if !c.NoCache {
		G.Contacts = cache.Contacts(c.Input, log)
	}
	var M *metrics.Metrics
	if f.metrics != "" {
		M = metrics.New()
		G.Observers = append(G.Observers, M)
		defer func() {
			if err := M.WriteTextfile(f.metrics); err != nil {
				log.Error("can't write metrics", slog.String("file", f.metrics), slog.Any("error", err))
			}
		}()
	}
	P, err := G.Prepare(C)
	if err != nil {
		return err
	}
	if c.Samples > 1 {
		return runEnsemble(ctx, c, f, G, P, M, stderr, log)
	}
	prog := newProgress(stderr, log)
	for i, seed := range attemptSeeds(c) {
		s, err := G.Sample(ctx, P, seed, prog)
		prog.done()
		if M != nil {
			M.ObserveSample(s)
		}
		if errors.Is(err, hielo.ErrNonConvergence) {
			if ctx.Err() != nil {
				return err
			}
			log.Warn("no valid structure with this seed", slog.Int("attempt", i+1), slog.Any("error", err))
			continue
		} else if err != nil {
			return err
		}
		fmt.Fprintln(stderr, hielo.FormatReport(s.Report))
		written, err := output(c, s, stderr, log)
		if err != nil {
			return err
		}
		if f.plot != "" {
			if err := plotSample(f.plot, s); err != nil {
				log.Error("can't plot", slog.Any("error", err))
			}
		}
		if written {
			return nil
		}
	}
	return fmt.Errorf("no structure passed the thresholds in %d attempts", c.Attempts)
}

// attemptSeeds returns the seeds for the attempts of a single-sample run.
func attemptSeeds(c *polymorph.Config) []int64 {
	ret := make([]int64, max(c.Attempts, 1))
	for i := range ret {
		ret[i] = c.Anneal.Seed + int64(i)
	}
	return ret
}

// output writes the structure of s if its dipole moment is below the threshold,
// and returns whether it did.
func output(c *polymorph.Config, s *hielo.Sample, stderr io.Writer, log *slog.Logger) (bool, error) {
	d := s.DipoleNorm()
	if d < c.Dipole.Banner {
		fmt.Fprintln(stderr, banner(d))
	}
	if d >= c.Dipole.Max {
		log.Warn("dipole moment too large, structure discarded", slog.Int64("seed", s.Seed),
			slog.Float64("debye", d), slog.Float64("max", c.Dipole.Max))
		return false, nil
	}
	name, err := hielo.NextFreeName(c.OutDir, hielo.BaseName(c.Input))
	if err != nil {
		return false, err
	}
	if err := hielo.XYZFileWrite(name, s.Structure); err != nil {
		return false, err
	}
	log.Info("structure written", slog.String("file", name), slog.Int64("seed", s.Seed), slog.String("run", s.RunID.String()))
	return true, nil
}

func plotSample(prefix string, s *hielo.Sample) error {
	if err := chemplot.TracePlot([][]hielo.TracePoint{s.Result.Trace}, "Annealing", prefix+"_trace"); err != nil {
		return err
	}
	return chemplot.OccupancyPlot(s.Report, "Occupancies", prefix+"_occupancy")
}

func runEnsemble(ctx context.Context, c *polymorph.Config, f *generateFlags, G *hielo.Generator, P *hielo.Prepared, M *metrics.Metrics, stderr io.Writer, log *slog.Logger) error {
	samples := make([]*hielo.Sample, 0, c.Samples)
	E, err := G.SampleMany(ctx, P, c.Seeds(), c.Workers)
	if err != nil {
		return err
	}
	var dipoles []float64
	traces := make([][]hielo.TracePoint, 0, len(E.Samples))
	nwritten := 0
	for _, s := range E.Samples {
		if M != nil {
			M.ObserveSample(s)
		}
		if s == nil || !s.Result.Converged {
			continue
		}
		samples = append(samples, s)
		dipoles = append(dipoles, s.DipoleNorm())
		traces = append(traces, s.Result.Trace)
		written, err := output(c, s, stderr, log)
		if err != nil {
			return err
		}
		if written {
			nwritten++
		}
	}
	log.Info("ensemble finished", slog.Int("samples", len(E.Samples)), slog.Int("converged", E.Converged),
		slog.Int("written", nwritten), slog.Float64("dipole_mean", E.DipoleMean), slog.Float64("dipole_stddev", E.DipoleStdDev))
	for _, l := range c.SiteTable().Labels() {
		o := E.Occupancy[l]
		log.Info("mean occupancy", slog.String("type", l), slog.Float64("ideal", c.Sites[l]), slog.Float64("mean", o[0]), slog.Float64("stddev", o[1]))
	}
	if f.plot != "" && len(samples) > 0 {
		if err := chemplot.TracePlot(traces, "Annealing", f.plot+"_trace"); err != nil {
			log.Error("can't plot", slog.Any("error", err))
		}
		if err := chemplot.DipolePlot(dipoles, 0, "Dipole moments", f.plot+"_dipoles"); err != nil {
			log.Error("can't plot", slog.Any("error", err))
		}
	}
	if nwritten == 0 {
		return fmt.Errorf("none of the %d samples passed the thresholds", len(E.Samples))
	}
	return nil
}
