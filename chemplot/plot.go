/*
 * plot.go, part of hielo.
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

// Package chemplot produces png plots of the annealing and its results.
package chemplot

import (
	"fmt"
	"image/color"
	"math"

	"github.com/rmera/hielo"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Side of the square plots, in inches.
const side = 5

func basicPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

func save(p *plot.Plot, plotname string) error {
	//The extension is added here, the format follows from it.
	return p.Save(side*vg.Inch, side*vg.Inch, plotname+".png")
}

/*TracePlot plots the violation against the cycle for one or more annealing
  traces, each in a different color. The plot is saved in plotname.png.*/
func TracePlot(traces [][]hielo.TracePoint, title, plotname string) error {
	if len(traces) == 0 {
		return fmt.Errorf("TracePlot: Given nil data")
	}
	p := basicPlot(title, "Cycle", "Violation")
	p.Y.Min = 0
	for i, t := range traces {
		if len(t) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(t))
		for j, v := range t {
			pts[j].X = float64(v.Cycle)
			pts[j].Y = float64(v.Violation)
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("TracePlot: %w", err)
		}
		r, g, b := colors(i, len(traces))
		l.LineStyle.Color = color.RGBA{R: r, G: g, B: b, A: 255}
		l.LineStyle.Width = vg.Points(1)
		p.Add(l)
		if len(traces) > 1 {
			p.Legend.Add(fmt.Sprintf("run %d", i+1), l)
		}
	}
	p.Legend.Top = true
	return save(p, plotname)
}

/*OccupancyPlot plots, as bars side by side, the ideal and real occupancies of
  each site type in report. The plot is saved in plotname.png.*/
func OccupancyPlot(report []hielo.OccupancyLine, title, plotname string) error {
	if len(report) == 0 {
		return fmt.Errorf("OccupancyPlot: Given nil data")
	}
	ideal := make(plotter.Values, len(report))
	actual := make(plotter.Values, len(report))
	names := make([]string, len(report))
	for i, l := range report {
		ideal[i] = l.Ideal
		actual[i] = l.Real
		names[i] = l.Label
	}
	p := basicPlot(title, "Site type", "Occupancy")
	p.Y.Min = 0
	p.Y.Max = 1
	width := vg.Points(10)
	for i, v := range []plotter.Values{ideal, actual} {
		bars, err := plotter.NewBarChart(v, width)
		if err != nil {
			return fmt.Errorf("OccupancyPlot: %w", err)
		}
		r, g, b := colors(i, 2)
		bars.Color = color.RGBA{R: r, G: g, B: b, A: 255}
		bars.LineStyle.Width = vg.Length(0)
		bars.Offset = width * vg.Length(2*i-1) / 2
		p.Add(bars)
		p.Legend.Add([]string{"ideal", "real"}[i], bars)
	}
	p.Legend.Top = true
	p.NominalX(names...)
	return save(p, plotname)
}

/*DipolePlot plots a histogram of the dipole moments (D) of an ensemble
  in the given number of bins. The plot is saved in plotname.png.*/
func DipolePlot(dipoles []float64, bins int, title, plotname string) error {
	if len(dipoles) == 0 {
		return fmt.Errorf("DipolePlot: Given nil data")
	}
	if bins < 1 {
		bins = int(math.Ceil(math.Sqrt(float64(len(dipoles)))))
	}
	h, err := plotter.NewHist(plotter.Values(dipoles), bins)
	if err != nil {
		return fmt.Errorf("DipolePlot: %w", err)
	}
	r, g, b := colors(0, 1)
	h.FillColor = color.RGBA{R: r, G: g, B: b, A: 255}
	p := basicPlot(title, "Dipole moment (D)", "Samples")
	p.Add(h)
	return save(p, plotname)
}
