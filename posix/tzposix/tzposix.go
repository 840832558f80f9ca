// Package tzposix describes POSIX TZ strings, the footer carried by TZif
// version 2+ files, in plain English.
package tzposix

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Named groups:
//  1. Standard Time Abbr
//  2. STD Offset
//  3. Optional DST Abbr
//  4. Optional DST Offset (one hour ahead of standard if absent)
//  5. Optional DST Start Rule
//  6. Optional DST End Rule
var tzRegex = regexp.MustCompile(`^(?<StdName>[[:alpha:]]{3,}|<[[:alnum:]+-]+>)` +
	`(?<StdOffset>[-+]?[0-9]+(?::[0-9]+){0,2})` +
	`(?<DstName>[[:alpha:]]{3,}|<[[:alnum:]+-]+>)?` +
	`(?<DstOffset>[-+]?[0-9]+(?::[0-9]+){0,2})?` +
	`,?(?<StartRule>(?:J?[0-9]+|M[0-9]+(?:\.[0-9]+){0,2})(?:/[+-]?[0-9]+(?::[0-9]+){0,2})?)?` +
	`,?(?<EndRule>(?:J?[0-9]+|M[0-9]+(?:\.[0-9]+){0,2})(?:/[+-]?[0-9]+(?::[0-9]+){0,2})?)?$`)

// Description is the decoded form of a POSIX TZ string. Daylight and Rules
// are empty for zones without daylight saving time.
type Description struct {
	Standard string // "CET (UTC +01:00)"
	Daylight string // "CEST (UTC +02:00)"
	Rules    string // "Starts on the last Sunday of March at 02:00:00, Ends ..."
}

// Describe decodes posixTZ, e.g. "EST5EDT,M3.2.0/02:00:00,M11.1.0/02:00:00".
func Describe(posixTZ string) (Description, error) {
	var d Description
	m := tzRegex.FindStringSubmatch(posixTZ)
	if m == nil {
		return d, fmt.Errorf("invalid POSIX TZ string format: %s", posixTZ)
	}
	stdAbbr, stdOffsetStr, dstAbbr, dstOffsetStr, startRule, endRule := m[1], m[2], m[3], m[4], m[5], m[6]

	stdOffset, err := parseOffset(stdOffsetStr)
	if err != nil {
		return d, fmt.Errorf("invalid standard offset: %w", err)
	}
	d.Standard = fmt.Sprintf("%s (UTC%s)", stdAbbr, formatOffset(stdOffset))
	if dstAbbr == "" {
		return d, nil
	}

	// POSIX offsets grow westward, so one hour ahead is one hour less.
	dstOffset := stdOffset - 3600
	if dstOffsetStr != "" {
		if dstOffset, err = parseOffset(dstOffsetStr); err != nil {
			return d, fmt.Errorf("invalid daylight offset: %w", err)
		}
	}
	d.Daylight = fmt.Sprintf("%s (UTC%s)", dstAbbr, formatOffset(dstOffset))

	if startRule != "" && endRule != "" {
		d.Rules = fmt.Sprintf("Starts %s, Ends %s", parseRule(startRule), parseRule(endRule))
	}
	return d, nil
}

// String is a one line summary.
func (d Description) String() string {
	if d.Daylight == "" {
		return d.Standard + ", no daylight saving time"
	}
	if d.Rules == "" {
		return d.Standard + " / " + d.Daylight
	}
	return d.Standard + " / " + d.Daylight + "; " + d.Rules
}

// HumanReadableTZ parses a POSIX TZ string and returns a multi line
// description.
func HumanReadableTZ(posixTZ string) (string, error) {
	d, err := Describe(posixTZ)
	if err != nil {
		return "", err
	}
	std := "Standard Time: " + d.Standard
	if d.Daylight == "" {
		return std + "\n(No Daylight Saving Time rules)", nil
	}
	out := std + "\nDaylight Time: " + d.Daylight
	if d.Rules != "" {
		out += "\nRules: " + d.Rules
	}
	return out, nil
}

// parseOffset converts a POSIX offset string (e.g., "5", "-10:30") to seconds west of UTC
func parseOffset(offsetStr string) (int, error) {
	sign := 1
	if s, ok := strings.CutPrefix(offsetStr, "+"); ok {
		offsetStr = s
	} else if s, ok := strings.CutPrefix(offsetStr, "-"); ok {
		offsetStr = s
		sign = -1
	}

	h, m, s, err := splitClock(offsetStr)
	if err != nil {
		return 0, err
	}
	return sign * (h*3600 + m*60 + s), nil
}

// splitClock parses hh[:mm[:ss]].
func splitClock(str string) (h, m, s int, err error) {
	parts := strings.Split(str, ":")
	fields := []*int{&h, &m, &s}
	for i, p := range parts {
		if i >= len(fields) {
			break
		}
		if *fields[i], err = strconv.Atoi(p); err != nil {
			return 0, 0, 0, err
		}
	}
	return h, m, s, nil
}

// formatOffset converts seconds west of UTC to " +HH:MM" notation.
func formatOffset(offsetSeconds int) string {
	sign := "+"
	if offsetSeconds > 0 {
		sign = "-" // POSIX is backwards, so >0 seconds is actually UTC-X
	}
	abs := offsetSeconds
	if abs < 0 {
		abs = -abs
	}

	hours := abs / 3600
	minutes := (abs % 3600) / 60
	seconds := abs % 60
	if seconds != 0 {
		return fmt.Sprintf(" %s%02d:%02d:%02d", sign, hours, minutes, seconds)
	}
	return fmt.Sprintf(" %s%02d:%02d", sign, hours, minutes)
}

var (
	months   = []string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"}
	weekDesc = map[string]string{"1": "first", "2": "second", "3": "third", "4": "fourth", "5": "last"}
	dayDesc  = map[string]string{"0": "Sunday", "1": "Monday", "2": "Tuesday", "3": "Wednesday", "4": "Thursday", "5": "Friday", "6": "Saturday"}
)

// parseRule converts a POSIX rule string (e.g., "M3.2.0/02:00:00") to a description
func parseRule(rule string) string {
	date, clock, hasClock := strings.Cut(rule, "/")

	// The transition time defaults to 02:00:00 and may be negative or
	// exceed 24 hours, as in Asia/Jerusalem's M3.4.4/26.
	h, m, s := 2, 0, 0
	if hasClock {
		neg := strings.HasPrefix(clock, "-")
		var err error
		if h, m, s, err = splitClock(strings.TrimLeft(clock, "+-")); err != nil {
			return "Rule: " + rule
		}
		if neg {
			h, m, s = -h, -m, -s
		}
	}

	switch {
	case rule == "0/0":
		return "from the start of the year"
	case rule == "J365/25":
		return "at the end of the year"
	case strings.HasPrefix(date, "M"):
		parts := strings.Split(strings.TrimPrefix(date, "M"), ".")
		month := atoi(parts[0])
		if len(parts) != 3 || month < 1 || month > 12 || weekDesc[parts[1]] == "" || dayDesc[parts[2]] == "" {
			return "Rule: " + rule
		}
		return fmt.Sprintf("on the %s %s of %s at %s", weekDesc[parts[1]], dayDesc[parts[2]], months[month-1], clockDesc(h, m, s))
	case strings.HasPrefix(date, "J"):
		return fmt.Sprintf("on Julian Day %s at %s", strings.TrimPrefix(date, "J"), clockDesc(h, m, s))
	default:
		return fmt.Sprintf("on day %s of the year at %s", date, clockDesc(h, m, s))
	}
}

// clockDesc renders a transition time, folding hours outside 0..23 into a
// day shift.
func clockDesc(h, m, s int) string {
	total := h*3600 + m*60 + s
	days := 0
	for total >= 24*3600 {
		total -= 24 * 3600
		days++
	}
	for total < 0 {
		total += 24 * 3600
		days--
	}
	clock := fmt.Sprintf("%02d:%02d:%02d", total/3600, total%3600/60, total%60)
	switch {
	case days == 1 && total == 0:
		return "midnight of the next day"
	case days == 1:
		return clock + " the next day"
	case days > 1:
		return fmt.Sprintf("%s, %d days later", clock, days)
	case days == -1:
		return clock + " the previous day"
	case days < -1:
		return fmt.Sprintf("%s, %d days earlier", clock, -days)
	}
	return clock
}

func atoi(s string) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return 0
}
