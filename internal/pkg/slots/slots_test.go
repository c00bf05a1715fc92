package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slotAt builds an hour-aligned UTC timestamp on a fixed week:
// 2025-07-13 is a Sunday.
func slotAt(t *testing.T, day time.Weekday, hour int) time.Time {
	t.Helper()
	base := time.Date(2025, 7, 13, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, int(day)).Add(time.Duration(hour) * time.Hour)
}

func TestToRangesMergesConsecutiveHours(t *testing.T) {
	stamps := []time.Time{
		slotAt(t, time.Wednesday, 14),
		slotAt(t, time.Monday, 11),
		slotAt(t, time.Monday, 10),
	}

	got := ToRanges(stamps)

	require.Len(t, got, 2)
	assert.Equal(t, Range{Weekday: time.Monday, StartHour: 10, EndHour: 12}, got[0])
	assert.Equal(t, Range{Weekday: time.Wednesday, StartHour: 14, EndHour: 15}, got[1])
}

func TestToRangesGapStartsNewRange(t *testing.T) {
	stamps := []time.Time{
		slotAt(t, time.Friday, 9),
		slotAt(t, time.Friday, 10),
		slotAt(t, time.Friday, 13),
	}

	got := ToRanges(stamps)

	require.Len(t, got, 2)
	assert.Equal(t, Range{Weekday: time.Friday, StartHour: 9, EndHour: 11}, got[0])
	assert.Equal(t, Range{Weekday: time.Friday, StartHour: 13, EndHour: 14}, got[1])
}

func TestToRangesIgnoresDuplicateHours(t *testing.T) {
	stamps := []time.Time{
		slotAt(t, time.Tuesday, 8),
		slotAt(t, time.Tuesday, 8),
		slotAt(t, time.Tuesday, 9),
	}

	got := ToRanges(stamps)

	require.Len(t, got, 1)
	assert.Equal(t, Range{Weekday: time.Tuesday, StartHour: 8, EndHour: 10}, got[0])
}

func TestToRangesEmpty(t *testing.T) {
	assert.Empty(t, ToRanges(nil))
	assert.Empty(t, Materialize(nil, time.Now()))
}

func TestToRangesFullDayIsSingleBlock(t *testing.T) {
	var stamps []time.Time
	for h := 0; h < 24; h++ {
		stamps = append(stamps, slotAt(t, time.Saturday, h))
	}

	got := ToRanges(stamps)

	require.Len(t, got, 1)
	assert.Equal(t, Range{Weekday: time.Saturday, StartHour: 0, EndHour: 24}, got[0])
	assert.Equal(t, 24, got[0].Hours())
}

func TestMaterializeProducesUpcomingHourAlignedSlots(t *testing.T) {
	now := time.Date(2025, 7, 16, 12, 30, 0, 0, time.UTC) // Wednesday noon
	ranges := []Range{
		{Weekday: time.Monday, StartHour: 10, EndHour: 12},
		{Weekday: time.Wednesday, StartHour: 14, EndHour: 15},
	}

	got := Materialize(ranges, now)

	require.Len(t, got, 3)
	for _, ts := range got {
		assert.False(t, ts.Before(now), "slot %v must not be in the past", ts)
		assert.Zero(t, ts.Minute())
		assert.Zero(t, ts.Second())
	}
	// Wednesday 14:00 is still ahead today, Monday rolls to next week.
	assert.Equal(t, time.Date(2025, 7, 21, 10, 0, 0, 0, time.UTC), got[0])
	assert.Equal(t, time.Date(2025, 7, 21, 11, 0, 0, 0, time.UTC), got[1])
	assert.Equal(t, time.Date(2025, 7, 16, 14, 0, 0, 0, time.UTC), got[2])
}

func TestRoundTripPreservesWeekdayHourSet(t *testing.T) {
	ranges := []Range{
		{Weekday: time.Sunday, StartHour: 0, EndHour: 3},
		{Weekday: time.Thursday, StartHour: 19, EndHour: 21},
	}

	stamps := Materialize(ranges, time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	got := ToRanges(stamps)

	assert.Equal(t, ranges, got)
}

func TestMaterializeClampsHours(t *testing.T) {
	got := Materialize([]Range{{Weekday: time.Monday, StartHour: -2, EndHour: 26}}, time.Now())
	assert.Len(t, got, 24)
}

func TestNextOccurrenceExactInstantIsKept(t *testing.T) {
	now := time.Date(2025, 7, 14, 10, 0, 0, 0, time.UTC) // Monday 10:00
	got := NextOccurrence(time.Monday, 10, now)
	assert.Equal(t, now, got)
}

func TestCoversMatchesByWeekdayAndHour(t *testing.T) {
	stored := []time.Time{slotAt(t, time.Monday, 10)}

	// Same logical slot three weeks later still counts.
	requested := slotAt(t, time.Monday, 10).AddDate(0, 0, 21)
	assert.True(t, Covers(stored, requested))

	assert.False(t, Covers(stored, slotAt(t, time.Monday, 11)))
	assert.False(t, Covers(stored, slotAt(t, time.Tuesday, 10)))
}

func TestNormalizeTruncatesToHour(t *testing.T) {
	ts := time.Date(2025, 7, 14, 10, 45, 12, 999, time.FixedZone("x", 3600))
	got := Normalize([]time.Time{ts})
	require.Len(t, got, 1)
	assert.Equal(t, time.Date(2025, 7, 14, 9, 0, 0, 0, time.UTC), got[0])
}
