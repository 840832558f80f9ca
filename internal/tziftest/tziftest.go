// Package tziftest builds small TZif files for tests.
package tziftest

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// Type is one local time type written to a generated file.
type Type struct {
	Abbr   string
	Offset int32
	IsDST  bool
}

// Build returns a TZif file with the given types and transitions at the
// given unix times, each switching to the type at the same index modulo
// len(types). A non-empty footer produces a version 2 file.
func Build(types []Type, transitions []int64, footer string) []byte {
	var abbrev bytes.Buffer
	idx := make([]byte, len(types))
	for i, t := range types {
		idx[i] = byte(abbrev.Len())
		abbrev.WriteString(t.Abbr)
		abbrev.WriteByte(0)
	}

	block := func(b *bytes.Buffer, version byte, wide bool) {
		b.WriteString("TZif")
		b.WriteByte(version)
		b.Write(make([]byte, 15))
		for _, n := range []uint32{0, 0, 0, uint32(len(transitions)), uint32(len(types)), uint32(abbrev.Len())} {
			binary.Write(b, binary.BigEndian, n)
		}
		for _, when := range transitions {
			if wide {
				binary.Write(b, binary.BigEndian, when)
			} else {
				binary.Write(b, binary.BigEndian, int32(when))
			}
		}
		for i := range transitions {
			b.WriteByte(byte(i % len(types)))
		}
		for i, t := range types {
			binary.Write(b, binary.BigEndian, t.Offset)
			if t.IsDST {
				b.WriteByte(1)
			} else {
				b.WriteByte(0)
			}
			b.WriteByte(idx[i])
		}
		b.Write(abbrev.Bytes())
	}

	var b bytes.Buffer
	if footer == "" {
		block(&b, 0, false)
		return b.Bytes()
	}
	block(&b, '2', false)
	block(&b, '2', true)
	b.WriteString("\n" + footer + "\n")
	return b.Bytes()
}

// Fixed returns a version 2 file for a zone with a single type.
func Fixed(abbr string, offset int32, footer string) []byte {
	return Build([]Type{{Abbr: abbr, Offset: offset}}, nil, footer)
}

// Write stores data at dir/name, creating parent directories.
func Write(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
