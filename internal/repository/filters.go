package repository

import (
	"time"

	"carelog/internal/models"
)

// Pure filter functions over loaded collections. They never fail: events with
// missing or unparseable timestamps simply fall out of date-based filters.

// FilterByUser returns the events belonging to userID, order preserving.
func FilterByUser(events []models.CareEvent, userID string) []models.CareEvent {
	var out []models.CareEvent
	for _, e := range events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

// FilterOnDay returns the events whose timestamp falls on the same local
// calendar day as day. The comparison uses the process-local zone, mirroring
// the calendar semantics of the record sheets (including the known midnight
// edge for events recorded in another zone).
func FilterOnDay(events []models.CareEvent, day time.Time) []models.CareEvent {
	var out []models.CareEvent
	for _, e := range events {
		ts, ok := ParseEventTime(e)
		if !ok {
			continue
		}
		if sameLocalDay(ts, day) {
			out = append(out, e)
		}
	}
	return out
}

// FilterByDate is FilterOnDay for a YYYY-MM-DD date string. An unparseable
// date yields no results.
func FilterByDate(events []models.CareEvent, date string) []models.CareEvent {
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return nil
	}
	return FilterOnDay(events, day)
}

// FilterSince returns the events recorded at or after cutoff, used for
// last-N-days window selection.
func FilterSince(events []models.CareEvent, cutoff time.Time) []models.CareEvent {
	var out []models.CareEvent
	for _, e := range events {
		ts, ok := ParseEventTime(e)
		if !ok {
			continue
		}
		if !ts.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out
}

// ParseEventTime parses an event's timestamp. The second result is false when
// the timestamp is absent or malformed.
func ParseEventTime(e models.CareEvent) (time.Time, bool) {
	if e.Timestamp == "" {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, e.Timestamp)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func sameLocalDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}
