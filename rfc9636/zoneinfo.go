// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// https://github.com/golang/go/blob/master/src/time/zoneinfo.go

// Package rfc9636 reads TZif zone files (RFC 9636) far enough to validate
// them and recover the zone types and the POSIX TZ footer.
package rfc9636

import (
	"fmt"
	"io"
)

// A Location is the parsed content of one TZif file.
type Location struct {
	name    string
	version int
	zone    []Zone
	tx      []zoneTrans

	// The tzdata information can be followed by a string that describes
	// how to handle DST transitions not recorded in tx.
	// Example string, for America/Los_Angeles: PST8PDT,M3.2.0,M11.1.0
	extend string
}

// A Zone is a single local time type such as CET.
type Zone struct {
	Name   string // abbreviated name, "CET"
	Offset int    // seconds east of UTC
	IsDST  bool
}

// A zoneTrans represents a single time zone transition.
type zoneTrans struct {
	when  int64 // transition time, in seconds since 1970 GMT
	index uint8 // the index of the zone that goes into effect at that time
}

func (l *Location) Name() string { return l.name }

// Version is the TZif format version, 1 through 4.
func (l *Location) Version() int { return l.version }

// Extend returns the POSIX TZ footer, or "" for version 1 files.
func (l *Location) Extend() string { return l.extend }

// Zones returns the local time types in file order.
func (l *Location) Zones() []Zone {
	out := make([]Zone, len(l.zone))
	copy(out, l.zone)
	return out
}

// Transitions is the number of recorded transitions, not counting the
// synthetic one added for fixed zones.
func (l *Location) Transitions() int {
	if len(l.tx) == 1 && l.tx[0].when == alpha {
		return 0
	}
	return len(l.tx)
}

// alpha is the beginning of time for zone transitions.
const alpha = -1 << 63 // math.MinInt64

func DumpLocation(w io.Writer, tzInfo *Location) {
	fmt.Fprintln(w, "Name:", tzInfo.name, "Version:", tzInfo.version)
	fmt.Fprintln(w, "Zone[", len(tzInfo.zone), "]")
	for i, zone := range tzInfo.zone {
		fmt.Fprintf(w, "  [%d]: %+v\n", i, zone)
	}
	fmt.Fprintln(w, "Transitions:", tzInfo.Transitions())
	fmt.Fprintln(w, "Extend:", tzInfo.extend)
}
