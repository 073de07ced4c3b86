/*
 * xyz.go, part of hielo.
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
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	v3 "github.com/rmera/hielo/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

// XYZRead reads a crystal in XYZ format from r. The first field of each atom line
// is kept as the atom label, so site-type tags such as "Ha" are preserved. If the
// comment line contains lattice vectors in the format written by XYZWrite, the
// crystal gets that lattice; otherwise its Lattice is nil.
func XYZRead(r io.Reader) (*Crystal, error) {
	xyz := bufio.NewReader(r)
	line, err := xyz.ReadString('\n')
	if err != nil && line == "" {
		return nil, newError(ErrStructural, "XYZRead", "ill formatted XYZ file: empty")
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || natoms <= 0 {
		return nil, newError(ErrStructural, "XYZRead", "ill formatted XYZ file: bad number of atoms %q", strings.TrimSpace(line))
	}
	comment, err := xyz.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, newError(ErrStructural, "XYZRead", "reading comment line: %v", err)
	}
	atoms := make([]*Atom, natoms)
	coords := make([]float64, natoms*3)
	for i := 0; i < natoms; i++ {
		line, err = xyz.ReadString('\n')
		if err != nil && (err != io.EOF || strings.TrimSpace(line) == "") {
			return nil, newError(ErrStructural, "XYZRead", "file ends after %d of %d atoms", i, natoms)
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, newError(ErrStructural, "XYZRead", "atom line %d ill formed: %q", i, strings.TrimSpace(line))
		}
		atoms[i] = &Atom{Index: i, Label: fields[0]}
		for j := 0; j < 3; j++ {
			coords[i*3+j], err = strconv.ParseFloat(fields[j+1], 64)
			if err != nil {
				return nil, newError(ErrStructural, "XYZRead", "atom line %d: %v", i, err)
			}
		}
	}
	m, err := v3.NewMatrix(coords)
	if err != nil {
		return nil, errDecorate(err, "XYZRead")
	}
	C := &Crystal{Atoms: atoms, Coords: m, Comment: strings.TrimSpace(comment)}
	if L, ok := ParseLattice(C.Comment); ok {
		C.Lattice = L
	}
	return C, nil
}

// XYZFileRead reads a crystal from the XYZ file with name xyzname.
func XYZFileRead(xyzname string) (*Crystal, error) {
	f, err := os.Open(xyzname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	C, err := XYZRead(f)
	return C, errDecorate(err, "XYZFileRead "+xyzname)
}

// XYZWrite writes the crystal in XYZ format to w, with its Comment as comment line.
func XYZWrite(w io.Writer, C *Crystal) error {
	if err := C.Corrupted(); err != nil {
		return errDecorate(err, "XYZWrite")
	}
	out := bufio.NewWriter(w)
	fmt.Fprintf(out, "%-4d\n", C.Len())
	fmt.Fprintf(out, "%s\n", strings.ReplaceAll(C.Comment, "\n", " "))
	for i, a := range C.Atoms {
		p := C.Pos(i)
		fmt.Fprintf(out, "%-3s %12.6f %12.6f %12.6f\n", a.Label, p.X, p.Y, p.Z)
	}
	return out.Flush()
}

// XYZFileWrite writes the crystal to a file with name xyzname, which will be
// overwritten if it exists.
func XYZFileWrite(xyzname string, C *Crystal) error {
	out, err := os.Create(xyzname)
	if err != nil {
		return err
	}
	if err := XYZWrite(out, C); err != nil {
		out.Close()
		return errDecorate(err, "XYZFileWrite")
	}
	return out.Close()
}

var latticeRe = regexp.MustCompile(`lattice vectors\s*\[([^\]]*)\],\s*\[([^\]]*)\],\s*\[([^\]]*)\]`)

// ParseLattice looks for lattice vectors, in the format of Lattice.String, after the
// words "lattice vectors" in comment.
func ParseLattice(comment string) (*Lattice, bool) {
	m := latticeRe.FindStringSubmatch(comment)
	if m == nil {
		return nil, false
	}
	var vecs [3]r3.Vec
	for i := 0; i < 3; i++ {
		f := strings.Fields(m[i+1])
		if len(f) != 3 {
			return nil, false
		}
		var xyz [3]float64
		for j, s := range f {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, false
			}
			xyz[j] = v
		}
		vecs[i] = r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	}
	L, err := NewLattice(vecs[0], vecs[1], vecs[2])
	if err != nil {
		return nil, false
	}
	return L, true
}

// NextFreeName returns the first name of the form dir/base_NNNNN.xyz, counting from
// 00000, that doesn't exist yet. It creates dir if needed.
func NextFreeName(dir, base string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	for serial := 0; serial < 100000; serial++ {
		name := filepath.Join(dir, fmt.Sprintf("%s_%05d.xyz", base, serial))
		if _, err := os.Stat(name); os.IsNotExist(err) {
			return name, nil
		} else if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("NextFreeName: no free output name for %s in %s", base, dir)
}

// BaseName returns the name of the file at path without directory or extension.
func BaseName(path string) string {
	b := filepath.Base(path)
	return strings.TrimSuffix(b, filepath.Ext(b))
}
