/*
 * main.go, part of hielo.
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

// Command hielo generates proton-ordered configurations of ice polymorphs that
// follow the ice rule and the crystallographic occupancies of the hydrogen sites.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "hielo:", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Logs and progress go to stderr.
func newRootCmd(stderr io.Writer) *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   "hielo",
		Short: "Generate proton-ordered ice structures",
		Long: `hielo selects one hydrogen of every disordered hydrogen bond of an ice
structure, so every oxygen gets two hydrogens and each hydrogen site type is
occupied with its crystallographic frequency.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug messages")
	logger := func() *slog.Logger {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	}
	root.AddCommand(newGenerateCmd(stderr, logger), newPresetsCmd(), newContactsCmd(logger))
	return root
}
