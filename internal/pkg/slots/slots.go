// Package slots converts between a tutor's stored availability (one
// materialized hour-aligned UTC timestamp per recurring weekly slot) and the
// compact weekly form the schedule UI works with: merged
// (weekday, startHour, endHour) ranges.
package slots

import (
	"sort"
	"time"
)

// Range is a contiguous block of bookable hours on one weekday.
// EndHour is exclusive, so {Mon, 10, 12} covers the 10:00 and 11:00 slots.
type Range struct {
	Weekday   time.Weekday `json:"weekday"`
	StartHour int          `json:"start_hour"`
	EndHour   int          `json:"end_hour"`
}

// Hours returns how many one-hour slots the range spans.
func (r Range) Hours() int {
	if r.EndHour <= r.StartHour {
		return 0
	}
	return r.EndHour - r.StartHour
}

// ToRanges groups timestamps by UTC weekday, sorts hours ascending and
// merges consecutive hours into one range per block. A gap starts a new
// range. Output is ordered Sunday..Saturday, then by start hour.
func ToRanges(stamps []time.Time) []Range {
	hoursByDay := make(map[time.Weekday][]int)
	for _, ts := range stamps {
		ts = ts.UTC()
		day := ts.Weekday()
		hoursByDay[day] = append(hoursByDay[day], ts.Hour())
	}

	out := make([]Range, 0, len(stamps))
	for day := time.Sunday; day <= time.Saturday; day++ {
		hours := hoursByDay[day]
		if len(hours) == 0 {
			continue
		}
		sort.Ints(hours)

		var cur *Range
		for _, h := range hours {
			if cur != nil && cur.EndHour == h {
				cur.EndHour = h + 1
				continue
			}
			if cur != nil && h < cur.EndHour {
				// duplicate hour
				continue
			}
			if cur != nil {
				out = append(out, *cur)
			}
			cur = &Range{Weekday: day, StartHour: h, EndHour: h + 1}
		}
		if cur != nil {
			out = append(out, *cur)
		}
	}
	return out
}

// Materialize expands ranges back into concrete slot timestamps: for each
// hour in [StartHour, EndHour), the next occurrence of that weekday/hour at
// or after now, in UTC. Two calls at different wall-clock times may return
// different concrete dates for the same logical range; callers compare slots
// by weekday and hour, not by date.
func Materialize(ranges []Range, now time.Time) []time.Time {
	now = now.UTC()
	out := make([]time.Time, 0, len(ranges))
	for _, r := range ranges {
		start := clampHour(r.StartHour)
		end := clampHour(r.EndHour)
		for h := start; h < end; h++ {
			out = append(out, NextOccurrence(r.Weekday, h, now))
		}
	}
	return out
}

// NextOccurrence returns the first weekday/hour instant at or after now,
// hour-aligned, UTC.
func NextOccurrence(day time.Weekday, hour int, now time.Time) time.Time {
	now = now.UTC()
	if hour < 0 {
		hour = 0
	}
	if hour > 23 {
		hour = 23
	}

	daysAhead := (int(day) - int(now.Weekday()) + 7) % 7
	candidate := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC).
		AddDate(0, 0, daysAhead)
	if candidate.Before(now) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}

// Normalize truncates every timestamp to its hour in UTC, the canonical form
// availability is stored in.
func Normalize(stamps []time.Time) []time.Time {
	out := make([]time.Time, 0, len(stamps))
	for _, ts := range stamps {
		ts = ts.UTC()
		out = append(out, time.Date(ts.Year(), ts.Month(), ts.Day(), ts.Hour(), 0, 0, 0, time.UTC))
	}
	return out
}

// Covers reports whether the requested instant lands on one of the stored
// slots. Stored slots recur weekly, so only weekday and hour matter; the
// concrete dates they were materialized on may already be in the past.
func Covers(stamps []time.Time, requested time.Time) bool {
	requested = requested.UTC()
	for _, ts := range stamps {
		ts = ts.UTC()
		if ts.Weekday() == requested.Weekday() && ts.Hour() == requested.Hour() {
			return true
		}
	}
	return false
}

func clampHour(h int) int {
	if h < 0 {
		return 0
	}
	if h > 24 {
		return 24
	}
	return h
}
