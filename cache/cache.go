/*
 * cache.go, part of hielo.
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

// Package cache stores the hydrogen-oxygen contacts of an input structure next to it,
// as zstd-compressed JSON, so they don't need to be searched for again.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/rmera/hielo"
)

// Version of the cache format. Files with other versions are ignored.
const Version = 1

// Extension of the cache files.
const Extension = ".hof"

// File is the content of a cache file.
type File struct {
	Version  int              `json:"version"`
	Checksum string           `json:"checksum"` //sha256 of the input file
	Cutoff   float64          `json:"cutoff"`
	Contacts hielo.ContactMap `json:"contacts"`
}

// PathFor returns the name of the cache file for the input file.
func PathFor(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + Extension
}

// Checksum returns the hex-encoded sha256 sum of the file.
func Checksum(name string) (string, error) {
	f, err := os.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Save writes F to the file name.
func Save(name string, F *File) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	w, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		f.Close()
		return err
	}
	if err := json.NewEncoder(w).Encode(F); err != nil {
		w.Close()
		f.Close()
		return fmt.Errorf("cache: writing %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads the cache file name.
func Load(name string) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	F := new(File)
	if err := json.NewDecoder(r).Decode(F); err != nil {
		return nil, fmt.Errorf("cache: reading %s: %w", name, err)
	}
	return F, nil
}

// Fresh returns true if F can be used for the input file with the given checksum,
// cutoff and crystal.
func (F *File) Fresh(checksum string, cutoff float64, C *hielo.Crystal) bool {
	if F.Version != Version || F.Checksum != checksum || F.Cutoff != cutoff {
		return false
	}
	return F.Contacts.Validate(C) == nil
}

// Contacts returns a contact function for the crystal read from the file input. It uses
// the cache file of input when it is fresh. Otherwise it searches for the contacts and
// tries to save them. Failing to save is only logged. log can be nil.
func Contacts(input string, log *slog.Logger) hielo.ContactFunc {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	name := PathFor(input)
	return func(C *hielo.Crystal, cutoff float64) (hielo.ContactMap, error) {
		sum, err := Checksum(input)
		if err != nil {
			//without a checksum the cache can't be trusted, but the contacts can still be found.
			log.Warn("can't checksum input, not using the contact cache", slog.String("input", input), slog.Any("error", err))
			return hielo.FindContacts(C, cutoff)
		}
		if F, err := Load(name); err == nil && F.Fresh(sum, cutoff, C) {
			log.Info("contacts read from cache", slog.String("cache", name), slog.Int("contacts", F.Contacts.Count()))
			return F.Contacts, nil
		} else if err == nil {
			log.Info("stale contact cache ignored", slog.String("cache", name))
		}
		M, err := hielo.FindContacts(C, cutoff)
		if err != nil {
			return nil, err
		}
		if err := Save(name, &File{Version: Version, Checksum: sum, Cutoff: cutoff, Contacts: M}); err != nil {
			log.Warn("can't save the contact cache", slog.String("cache", name), slog.Any("error", err))
		} else {
			log.Info("contacts cached", slog.String("cache", name))
		}
		return M, nil
	}
}
