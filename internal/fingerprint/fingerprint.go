// Package fingerprint reduces a set of earnings events to a deterministic
// string so schedule changes can be detected cheaply without storing the
// full prior event set.
package fingerprint

import (
	"sort"
	"strings"

	"github.com/valeriluca/earnings-calendar/internal/model"
)

const (
	// tupleSep joins the fields of one event.
	tupleSep = "|"
	// eventSep joins sorted event tuples.
	eventSep = "::"
	// unknownTime replaces a missing time bucket so the fingerprint is
	// stable whether the field is absent or explicitly unknown.
	unknownTime = "unknown"
)

// Compute returns the fingerprint of an event set. Pure: no I/O, no side
// effects. Two inputs produce the same fingerprint iff they contain the
// same (symbol, date, time) triples, regardless of order. The empty set
// yields "".
func Compute(events []model.EarningsEvent) string {
	if len(events) == 0 {
		return ""
	}

	sorted := make([]model.EarningsEvent, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		if sorted[i].Symbol != sorted[j].Symbol {
			return sorted[i].Symbol < sorted[j].Symbol
		}
		// Final tie-break keeps the result order-independent when one
		// symbol reports twice on the same day with different buckets.
		return sorted[i].Time < sorted[j].Time
	})

	tuples := make([]string, 0, len(sorted))
	for _, e := range sorted {
		t := string(e.Time)
		if t == "" {
			t = unknownTime
		}
		tuples = append(tuples, e.Symbol+tupleSep+e.Date+tupleSep+t)
	}
	return strings.Join(tuples, eventSep)
}
