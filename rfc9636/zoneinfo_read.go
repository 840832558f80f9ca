// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Parse "zoneinfo" time zone file.
// https://github.com/golang/go/blob/master/src/time/zoneinfo_read.go
// See tzfile(5) and RFC 9636.

package rfc9636

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// maxFileSize is the max permitted size of a zone file.
const maxFileSize = 10 << 20

// ErrBadData is returned for anything that is not a well formed TZif file.
var ErrBadData = errors.New("malformed time zone information")

// Simple I/O interface to binary blob of data.
type dataIO struct {
	p     []byte
	error bool
}

func (d *dataIO) read(n int) []byte {
	if n < 0 || len(d.p) < n {
		d.p = nil
		d.error = true
		return nil
	}
	p := d.p[0:n]
	d.p = d.p[n:]
	return p
}

func (d *dataIO) big4() (n uint32, ok bool) {
	p := d.read(4)
	if len(p) < 4 {
		d.error = true
		return 0, false
	}
	return uint32(p[3]) | uint32(p[2])<<8 | uint32(p[1])<<16 | uint32(p[0])<<24, true
}

func (d *dataIO) big8() (n uint64, ok bool) {
	n1, ok1 := d.big4()
	n2, ok2 := d.big4()
	if !ok1 || !ok2 {
		d.error = true
		return 0, false
	}
	return (uint64(n1) << 32) | uint64(n2), true
}

func (d *dataIO) byte() (n byte, ok bool) {
	p := d.read(1)
	if len(p) < 1 {
		d.error = true
		return 0, false
	}
	return p[0], true
}

// rest returns the rest of the data in the buffer.
func (d *dataIO) rest() []byte {
	r := d.p
	d.p = nil
	return r
}

// Make a string by stopping at the first NUL
func byteString(p []byte) string {
	if i := bytes.IndexByte(p, 0); i != -1 {
		p = p[:i]
	}
	return string(p)
}

// header counts, in file order
const (
	nUTCLocal = iota
	nStdWall
	nLeap
	nTime
	nZone
	nChar
)

type counts [6]int

func (d *dataIO) header() (version int, n counts, err error) {
	if magic := d.read(4); string(magic) != "TZif" {
		return 0, n, ErrBadData
	}
	// 1-byte version, then 15 bytes of padding
	p := d.read(16)
	if len(p) != 16 {
		return 0, n, ErrBadData
	}
	switch p[0] {
	case 0:
		version = 1
	case '2', '3', '4':
		version = int(p[0] - '0')
	default:
		return 0, n, ErrBadData
	}
	for i := range n {
		nn, ok := d.big4()
		if !ok || uint32(int(nn)) != nn {
			return 0, n, ErrBadData
		}
		n[i] = int(nn)
	}
	return version, n, nil
}

// LoadLocationFromTZData returns a Location with the given name
// initialized from TZif formatted data.
func LoadLocationFromTZData(name string, data []byte) (*Location, error) {
	d := dataIO{data, false}

	version, n, err := d.header()
	if err != nil {
		return nil, err
	}

	// Version 2+ files repeat the data in 64-bit form after the 32-bit
	// block. Skip the 32-bit block and its header and read the second one.
	size := 4
	if version > 1 {
		d.read(n[nTime]*5 + n[nZone]*6 + n[nChar] + n[nLeap]*8 + n[nStdWall] + n[nUTCLocal])
		if d.error {
			return nil, ErrBadData
		}
		if version, n, err = d.header(); err != nil {
			return nil, err
		}
		size = 8
	}

	txtimes := dataIO{d.read(n[nTime] * size), false}
	txzones := d.read(n[nTime])
	zonedata := dataIO{d.read(n[nZone] * 6), false}
	abbrev := d.read(n[nChar])
	d.read(n[nLeap] * (size + 4))
	d.read(n[nStdWall])
	d.read(n[nUTCLocal])

	if d.error { // ran out of data
		return nil, ErrBadData
	}

	var extend string
	rest := d.rest()
	if len(rest) > 2 && rest[0] == '\n' && rest[len(rest)-1] == '\n' {
		extend = string(rest[1 : len(rest)-1])
	}

	// Reject tzdata files with no zones. There's nothing useful in them.
	if n[nZone] == 0 {
		return nil, ErrBadData
	}
	zones := make([]Zone, n[nZone])
	for i := range zones {
		off, ok := zonedata.big4()
		if !ok {
			return nil, ErrBadData
		}
		zones[i].Offset = int(int32(off))
		b, ok := zonedata.byte()
		if !ok {
			return nil, ErrBadData
		}
		zones[i].IsDST = b != 0
		if b, ok = zonedata.byte(); !ok || int(b) >= len(abbrev) {
			return nil, ErrBadData
		}
		zones[i].Name = byteString(abbrev[b:])
	}

	tx := make([]zoneTrans, n[nTime])
	for i := range tx {
		var when int64
		if size == 4 {
			n4, ok := txtimes.big4()
			if !ok {
				return nil, ErrBadData
			}
			when = int64(int32(n4))
		} else {
			n8, ok := txtimes.big8()
			if !ok {
				return nil, ErrBadData
			}
			when = int64(n8)
		}
		if int(txzones[i]) >= len(zones) {
			return nil, ErrBadData
		}
		tx[i] = zoneTrans{when: when, index: txzones[i]}
	}

	if len(tx) == 0 {
		// Build fake transition to cover all time.
		// This happens in fixed locations like "Etc/GMT0".
		tx = append(tx, zoneTrans{when: alpha, index: 0})
	}

	return &Location{name: name, version: version, zone: zones, tx: tx, extend: extend}, nil
}

// LoadLocation returns the Location with the given name from the first of
// dirs that holds a parseable file for it.
func LoadLocation(name string, dirs []string) (*Location, error) {
	var firstErr error
	for _, dir := range dirs {
		data, err := readFile(filepath.Join(dir, name))
		if err == nil {
			var z *Location
			if z, err = LoadLocationFromTZData(name, data); err == nil {
				return z, nil
			}
		}
		if firstErr == nil && !errors.Is(err, fs.ErrNotExist) {
			firstErr = err
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return nil, errors.New("unknown time zone " + name)
}

func readFile(path string) ([]byte, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.Size() > maxFileSize {
		return nil, errors.New("time: file " + path + " is too large")
	}
	return os.ReadFile(path)
}
