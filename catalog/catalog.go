// Package catalog holds the sorted, immutable list of time zone identifiers
// offered for selection, and the substring predicate used to filter it.
package catalog

import (
	"errors"
	"slices"
	"strings"

	"github.com/tzlist/tzselect/posix/tzposix"
)

// ErrEmpty is returned when no zone could be loaded.
var ErrEmpty = errors.New("no time zones found")

// Zone is one selectable identifier.
type Zone struct {
	Name string
	// Target is the canonical zone when Name is a link, "" otherwise.
	Target string
	// Extend is the POSIX TZ footer of the zone file.
	Extend string
}

// IsLink reports whether z is an alias of another zone.
func (z Zone) IsLink() bool { return z.Target != "" }

// Catalog is a name-sorted set of zones. It is never mutated after New.
type Catalog struct {
	zones []Zone
	index map[string]int
}

// New sorts zones by name and drops duplicate names, keeping the first.
func New(zones []Zone) *Catalog {
	sorted := slices.Clone(zones)
	slices.SortStableFunc(sorted, func(a, b Zone) int { return strings.Compare(a.Name, b.Name) })
	sorted = slices.CompactFunc(sorted, func(a, b Zone) bool { return a.Name == b.Name })

	c := &Catalog{zones: sorted, index: make(map[string]int, len(sorted))}
	for i, z := range sorted {
		c.index[z.Name] = i
	}
	return c
}

// FromNames builds a catalog of canonical zones with no footer.
func FromNames(names ...string) *Catalog {
	zones := make([]Zone, len(names))
	for i, n := range names {
		zones[i] = Zone{Name: n}
	}
	return New(zones)
}

func (c *Catalog) Len() int { return len(c.zones) }

// Names returns every identifier in order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.zones))
	for i, z := range c.zones {
		names[i] = z.Name
	}
	return names
}

func (c *Catalog) Contains(name string) bool {
	_, ok := c.index[name]
	return ok
}

func (c *Catalog) Lookup(name string) (Zone, bool) {
	i, ok := c.index[name]
	if !ok {
		return Zone{}, false
	}
	return c.zones[i], true
}

// Canonical follows a link to its target. Names that are not links, or not
// in the catalog, are returned unchanged.
func (c *Catalog) Canonical(name string) string {
	if z, ok := c.Lookup(name); ok && z.IsLink() {
		return z.Target
	}
	return name
}

// Describe summarises an entry for display, e.g.
// "Japan (link to Asia/Tokyo): JST (UTC +09:00), no daylight saving time".
func (c *Catalog) Describe(name string) string {
	z, ok := c.Lookup(name)
	if !ok {
		return name
	}
	label := z.Name
	if z.IsLink() {
		label += " (link to " + z.Target + ")"
	}
	if z.Extend == "" {
		return label
	}
	d, err := tzposix.Describe(z.Extend)
	if err != nil {
		return label + ": " + z.Extend
	}
	return label + ": " + d.String()
}

// Filter returns, in catalog order, the names visible for query.
func (c *Catalog) Filter(query string) []string {
	out := make([]string, 0, len(c.zones))
	for _, z := range c.zones {
		if Visible(query, z.Name) {
			out = append(out, z.Name)
		}
	}
	return out
}

// Visible reports whether candidate matches query: an empty query matches
// everything, otherwise candidate must contain query ignoring case.
func Visible(query, candidate string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(candidate), strings.ToLower(query))
}
