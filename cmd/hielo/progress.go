/*
 * progress.go, part of hielo.
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
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/time/rate"
)

// progress reports the annealing: a line on the terminal, rewritten in place, and
// an occasional debug log message.
type progress struct {
	w    io.Writer
	tty  bool
	log  *slog.Logger
	line rate.Sometimes
	logs rate.Sometimes
	mu   sync.Mutex
	last string
}

func newProgress(w io.Writer, log *slog.Logger) *progress {
	tty := false
	if f, ok := w.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &progress{
		w:    w,
		tty:  tty,
		log:  log,
		line: rate.Sometimes{First: 1, Interval: 100 * time.Millisecond},
		logs: rate.Sometimes{First: 1, Interval: 5 * time.Second},
	}
}

func (p *progress) Progress(cycle, violation int) {
	if p.tty {
		p.line.Do(func() {
			p.mu.Lock()
			p.last = fmt.Sprintf("\rcycle %-10d violation %-8d", cycle, violation)
			fmt.Fprint(p.w, p.last)
			p.mu.Unlock()
		})
	}
	p.logs.Do(func() {
		p.log.Debug("annealing", slog.Int("cycle", cycle), slog.Int("violation", violation))
	})
}

// done ends the progress line, if one was written.
func (p *progress) done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last != "" {
		fmt.Fprintln(p.w)
		p.last = ""
	}
}

var bannerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#00AFAF")).
	Border(lipgloss.RoundedBorder()).
	Padding(0, 2)

// banner celebrates a structure with a small dipole moment.
func banner(dipole float64) string {
	return bannerStyle.Render(fmt.Sprintf("Ding! dipole moment %.3f D", dipole))
}
