/*
 * commands.go, part of hielo.
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
	"log/slog"

	"github.com/rmera/hielo"
	"github.com/rmera/hielo/cache"
	"github.com/rmera/hielo/polymorph"
	"github.com/spf13/cobra"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the supported polymorphs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, n := range polymorph.Names() {
				p, err := polymorph.Get(n)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), p)
				for _, l := range p.Sites.Labels() {
					fmt.Fprintf(cmd.OutOrStdout(), "    %-4s %.3f\n", l, p.Sites[l])
				}
			}
			return nil
		},
	}
}

func newContactsCmd(logger func() *slog.Logger) *cobra.Command {
	var name string
	var cutoff float64
	cmd := &cobra.Command{
		Use:   "contacts <input.xyz>",
		Short: "Find the hydrogen-oxygen contacts of a structure and cache them",
		Long: `Contacts searches for the hydrogen-oxygen contacts of the input structure and
writes them to the cache file next to it, replacing any previous one. The lattice is
taken from the input comment line or, failing that, from the given polymorph preset.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()
			input := args[0]
			C, err := hielo.XYZFileRead(input)
			if err != nil {
				return err
			}
			if name != "" {
				c, err := polymorph.FromPreset(name)
				if err != nil {
					return err
				}
				if C.Lattice, err = c.Lattice(); err != nil {
					return err
				}
			}
			if C.Lattice == nil {
				return fmt.Errorf("%s has no lattice vectors, give a polymorph", input)
			}
			M, err := hielo.FindContacts(C, cutoff)
			if err != nil {
				return err
			}
			sum, err := cache.Checksum(input)
			if err != nil {
				return err
			}
			out := cache.PathFor(input)
			if err := cache.Save(out, &cache.File{Version: cache.Version, Checksum: sum, Cutoff: cutoff, Contacts: M}); err != nil {
				return err
			}
			log.Info("contacts cached", slog.String("cache", out), slog.Int("hydrogens", len(M)), slog.Int("contacts", M.Count()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "polymorph", "p", "", "Take the lattice from this polymorph preset")
	cmd.Flags().Float64Var(&cutoff, "cutoff", hielo.DefaultContactCutoff, "Hydrogen-oxygen contact cutoff (A)")
	return cmd
}
