/*
 * plot_test.go, part of hielo.
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

package chemplot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rmera/hielo"
)

func exists(Te *testing.T, name string) {
	Te.Helper()
	info, err := os.Stat(name)
	if err != nil {
		Te.Fatal(err)
	}
	if info.Size() == 0 {
		Te.Errorf("%s is empty", name)
	}
}

func TestTracePlot(Te *testing.T) {
	dir := Te.TempDir()
	t1 := []hielo.TracePoint{{Cycle: 0, Violation: 30}, {Cycle: 10, Violation: 12}, {Cycle: 200, Violation: 0}}
	t2 := []hielo.TracePoint{{Cycle: 0, Violation: 26}, {Cycle: 90, Violation: 2}}
	name := filepath.Join(dir, "trace")
	if err := TracePlot([][]hielo.TracePoint{t1, t2}, "Annealing", name); err != nil {
		Te.Fatal(err)
	}
	exists(Te, name+".png")
	if err := TracePlot(nil, "Annealing", name); err == nil {
		Te.Errorf("empty data accepted")
	}
}

func TestOccupancyPlot(Te *testing.T) {
	report := []hielo.OccupancyLine{
		{Label: "ha", Ideal: 1.0 / 3, Real: 0.34, Present: 100, Selected: 34},
		{Label: "hb", Ideal: 0.5, Real: 0.5, Present: 50, Selected: 25},
		{Label: "hc", Ideal: 2.0 / 3, Real: 0.66, Present: 100, Selected: 66},
	}
	name := filepath.Join(Te.TempDir(), "occupancy")
	if err := OccupancyPlot(report, "Ice III", name); err != nil {
		Te.Fatal(err)
	}
	exists(Te, name+".png")
}

func TestDipolePlot(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "dipoles")
	if err := DipolePlot([]float64{0.2, 0.5, 0.7, 1.1, 3.0, 0.4}, 0, "Dipoles", name); err != nil {
		Te.Fatal(err)
	}
	exists(Te, name+".png")
}

func TestColors(Te *testing.T) {
	seen := make(map[[3]uint8]bool)
	for i := 0; i < 6; i++ {
		r, g, b := colors(i, 6)
		seen[[3]uint8{r, g, b}] = true
	}
	if len(seen) != 6 {
		Te.Errorf("expected 6 different colors, got %d", len(seen))
	}
	if r, g, b := iHVS2RGB(0, 1, 0); r != 255 || g != 255 || b != 255 {
		Te.Errorf("zero saturation should give white, got %d %d %d", r, g, b)
	}
}
