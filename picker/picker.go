// Package picker is the selection and highlight state behind the zone
// picker. It knows nothing about terminals or processes: callers feed it
// keystrokes and command results and render what it reports.
package picker

import (
	"errors"
	"fmt"
	"slices"

	"github.com/tzlist/tzselect/catalog"
)

var (
	ErrNothingSelected = errors.New("no time zone selected")
	ErrCommitPending   = errors.New("a time zone change is already in progress")
	ErrAlreadySet      = errors.New("time zone already set")
)

type Phase int

const (
	NoneSelected Phase = iota
	Selected
	Committed
)

func (p Phase) String() string {
	switch p {
	case NoneSelected:
		return "none selected"
	case Selected:
		return "selected"
	case Committed:
		return "committed"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// State is the whole application state of one picker session.
type State struct {
	catalog *catalog.Catalog

	query string
	rows  []string
	// cursor indexes rows, -1 while nothing is selected.
	cursor int

	current      string
	currentKnown bool

	phase      Phase
	selection  string
	committing bool
	message    string
}

func New(c *catalog.Catalog) *State {
	return &State{
		catalog: c,
		rows:    c.Filter(""),
		cursor:  -1,
	}
}

func (s *State) Catalog() *catalog.Catalog { return s.catalog }
func (s *State) Query() string             { return s.query }

// Rows are the catalog entries visible for the current query. The slice
// must not be modified.
func (s *State) Rows() []string { return s.rows }

// Cursor is the index in Rows of the selected row, or -1.
func (s *State) Cursor() int     { return s.cursor }
func (s *State) Phase() Phase    { return s.phase }
func (s *State) Message() string { return s.message }

// Committing reports whether a commit has begun and not yet finished.
func (s *State) Committing() bool { return s.committing }

// Selection returns the selected zone; ok is false in NoneSelected.
func (s *State) Selection() (zone string, ok bool) {
	return s.selection, s.phase != NoneSelected
}

// Current returns the host zone; ok is false while it is unknown.
func (s *State) Current() (zone string, ok bool) {
	return s.current, s.currentKnown
}

// SetCurrent records the zone read from the host.
func (s *State) SetCurrent(zone string, ok bool) {
	s.current, s.currentKnown = zone, ok && zone != ""
	if !s.currentKnown {
		s.current = ""
	}
}

// Highlighted reports whether row is the host's current zone.
func (s *State) Highlighted(row string) bool {
	return s.currentKnown && row == s.current
}

// SetQuery re-filters the catalog. The selection survives when its row is
// still visible; otherwise the first visible row is selected, or nothing
// when no row is visible. With nothing selected yet, nothing gets selected.
func (s *State) SetQuery(query string) {
	if query == s.query {
		return
	}
	s.query = query
	s.rows = s.catalog.Filter(query)

	if s.phase == NoneSelected {
		s.cursor = -1
		return
	}
	if i := slices.Index(s.rows, s.selection); i >= 0 {
		s.cursor = i
		return
	}
	if len(s.rows) == 0 {
		s.clearSelection()
		return
	}
	s.selectRow(0)
}

// Move shifts the cursor by delta rows, clamped to the list. The first
// move of a session lands on the current zone when it is visible, or the
// first row.
func (s *State) Move(delta int) {
	if len(s.rows) == 0 {
		return
	}
	if s.cursor < 0 {
		start := 0
		if s.currentKnown {
			if i := slices.Index(s.rows, s.current); i >= 0 {
				start = i
			}
		}
		s.selectRow(start)
		return
	}
	s.MoveTo(s.cursor + delta)
}

// MoveTo selects the row at index i, clamped to the list.
func (s *State) MoveTo(i int) {
	if len(s.rows) == 0 {
		return
	}
	s.selectRow(max(0, min(i, len(s.rows)-1)))
}

// SelectZone selects zone if it is visible.
func (s *State) SelectZone(zone string) bool {
	i := slices.Index(s.rows, zone)
	if i < 0 {
		return false
	}
	s.selectRow(i)
	return true
}

func (s *State) selectRow(i int) {
	s.cursor = i
	if s.phase != NoneSelected && s.rows[i] == s.selection {
		return
	}
	s.selection = s.rows[i]
	s.phase = Selected
	s.message = ""
}

func (s *State) clearSelection() {
	s.cursor = -1
	s.selection = ""
	s.phase = NoneSelected
}

// BeginCommit returns the zone to hand to the set command. Only a Selected
// zone can be committed, and only one commit may be in flight.
func (s *State) BeginCommit() (string, error) {
	if s.committing {
		return "", ErrCommitPending
	}
	switch s.phase {
	case NoneSelected:
		return "", ErrNothingSelected
	case Committed:
		return "", fmt.Errorf("%w to %s", ErrAlreadySet, s.selection)
	}
	s.committing = true
	s.message = "Setting time zone to " + s.selection + "..."
	return s.selection, nil
}

// FinishCommit applies the outcome of committing zone. Success makes zone
// the current zone and, if it is still the selection, moves to Committed.
// Failure keeps the selection and reports err.
func (s *State) FinishCommit(zone string, err error) {
	s.committing = false
	if err != nil {
		s.message = fmt.Sprintf("Could not set time zone to %s: %v", zone, err)
		if s.phase == Committed {
			s.phase = Selected
		}
		return
	}
	s.current, s.currentKnown = zone, true
	s.message = "Time zone set to " + zone
	if s.phase != NoneSelected && s.selection == zone {
		s.phase = Committed
	}
}
