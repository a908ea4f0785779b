package bonus

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func weekdayEntries(start time.Time, days int, startTime string, regular, overtime float64) []TimeEntry {
	var entries []TimeEntry
	d := start
	for len(entries) < days {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			entries = append(entries, TimeEntry{
				Date:          d,
				StartTime:     startTime,
				RegularHours:  regular,
				OvertimeHours: overtime,
			})
		}
		d = d.AddDate(0, 0, 1)
	}
	return entries
}

func TestComputeMetricsFullWeek(t *testing.T) {
	// Mon 2024-01-01 .. Sun 2024-01-07, five weekday entries at 08:30.
	entries := weekdayEntries(date(2024, 1, 1), 5, "08:30", 8, 0)
	m := ComputeMetrics(entries, date(2024, 1, 1), date(2024, 1, 7))

	if m.HoursWorked != 40 {
		t.Fatalf("expected hours 40, got %v", m.HoursWorked)
	}
	if m.PunctualityScore != 100 {
		t.Fatalf("expected punctuality 100, got %v", m.PunctualityScore)
	}
	if m.AttendanceRate != 100 {
		t.Fatalf("expected attendance 100, got %v", m.AttendanceRate)
	}
	if m.OvertimeRatio != 0 {
		t.Fatalf("expected overtime ratio 0, got %v", m.OvertimeRatio)
	}
	if m.WeeklyConsistencyScore != 100 {
		t.Fatalf("expected consistency 100, got %v", m.WeeklyConsistencyScore)
	}
}

func TestComputeMetricsNoEntries(t *testing.T) {
	m := ComputeMetrics(nil, date(2024, 1, 1), date(2024, 1, 7))
	if m.HoursWorked != 0 || m.PunctualityScore != 0 || m.AttendanceRate != 0 ||
		m.OvertimeRatio != 0 || m.WeeklyConsistencyScore != 0 {
		t.Fatalf("expected all-zero metrics, got %+v", m)
	}
}

func TestComputeMetricsWeekendOnlyPeriod(t *testing.T) {
	// Sat/Sun period has zero working days; attendance must not divide by zero.
	entries := []TimeEntry{{Date: date(2024, 1, 6), RegularHours: 4}}
	m := ComputeMetrics(entries, date(2024, 1, 6), date(2024, 1, 7))
	if m.AttendanceRate != 0 {
		t.Fatalf("expected attendance 0 for weekend-only period, got %v", m.AttendanceRate)
	}
	if m.HoursWorked != 4 {
		t.Fatalf("expected hours 4, got %v", m.HoursWorked)
	}
}

func TestComputeMetricsOvertimeRatioZeroRegular(t *testing.T) {
	entries := []TimeEntry{{Date: date(2024, 1, 1), OvertimeHours: 3}}
	m := ComputeMetrics(entries, date(2024, 1, 1), date(2024, 1, 7))
	if m.OvertimeRatio != 0 {
		t.Fatalf("expected ratio 0 when no regular hours, got %v", m.OvertimeRatio)
	}
}

func TestComputeMetricsOvertimeRatio(t *testing.T) {
	entries := []TimeEntry{
		{Date: date(2024, 1, 1), RegularHours: 8, OvertimeHours: 2},
		{Date: date(2024, 1, 2), RegularHours: 8, OvertimeHours: 0},
	}
	m := ComputeMetrics(entries, date(2024, 1, 1), date(2024, 1, 7))
	if m.OvertimeRatio != 0.125 {
		t.Fatalf("expected ratio 0.125, got %v", m.OvertimeRatio)
	}
}

func TestComputeMetricsIgnoresEntriesOutsidePeriod(t *testing.T) {
	entries := []TimeEntry{
		{Date: date(2023, 12, 29), RegularHours: 8},
		{Date: date(2024, 1, 2), RegularHours: 8},
		{Date: date(2024, 1, 9), RegularHours: 8},
	}
	m := ComputeMetrics(entries, date(2024, 1, 1), date(2024, 1, 7))
	if m.HoursWorked != 8 {
		t.Fatalf("expected only in-period hours, got %v", m.HoursWorked)
	}
}

func TestComputeMetricsPunctualityUnparsableStartTime(t *testing.T) {
	entries := []TimeEntry{
		{Date: date(2024, 1, 1), StartTime: "09:00", RegularHours: 8},
		{Date: date(2024, 1, 2), StartTime: "10:15", RegularHours: 8},
		{Date: date(2024, 1, 3), StartTime: "bogus", RegularHours: 8},
		{Date: date(2024, 1, 4), RegularHours: 8},
	}
	m := ComputeMetrics(entries, date(2024, 1, 1), date(2024, 1, 7))
	// 1 punctual of 4 entries.
	if m.PunctualityScore != 25 {
		t.Fatalf("expected punctuality 25, got %v", m.PunctualityScore)
	}
}

func TestWeeklyConsistencyBoundary(t *testing.T) {
	// Exactly four distinct worked dates in the single week: consistent.
	entries := weekdayEntries(date(2024, 1, 1), 4, "", 8, 0)
	m := ComputeMetrics(entries, date(2024, 1, 1), date(2024, 1, 7))
	if m.WeeklyConsistencyScore != 100 {
		t.Fatalf("expected 100 with 4 worked days, got %v", m.WeeklyConsistencyScore)
	}

	// Three days is below the bar.
	entries = weekdayEntries(date(2024, 1, 1), 3, "", 8, 0)
	m = ComputeMetrics(entries, date(2024, 1, 1), date(2024, 1, 7))
	if m.WeeklyConsistencyScore != 0 {
		t.Fatalf("expected 0 with 3 worked days, got %v", m.WeeklyConsistencyScore)
	}
}

func TestWeeklyConsistencyMidweekPeriodStart(t *testing.T) {
	// Period starts Wed 2024-01-03; its week is anchored at Mon 2024-01-01.
	// Two Monday-aligned weeks overlap the period.
	entries := append(
		weekdayEntries(date(2024, 1, 3), 3, "", 8, 0),
		weekdayEntries(date(2024, 1, 8), 5, "", 8, 0)...,
	)
	m := ComputeMetrics(entries, date(2024, 1, 3), date(2024, 1, 14))
	// Week one has 3 worked days, week two has 5: 50%.
	if m.WeeklyConsistencyScore != 50 {
		t.Fatalf("expected consistency 50, got %v", m.WeeklyConsistencyScore)
	}
}

func TestMondayOnOrBefore(t *testing.T) {
	cases := []struct {
		in   time.Time
		want time.Time
	}{
		{date(2024, 1, 1), date(2024, 1, 1)},  // Monday maps to itself
		{date(2024, 1, 3), date(2024, 1, 1)},  // Wednesday
		{date(2024, 1, 7), date(2024, 1, 1)},  // Sunday belongs to the prior Monday
		{date(2024, 1, 8), date(2024, 1, 8)},  // next Monday
	}
	for _, tc := range cases {
		if got := mondayOnOrBefore(tc.in); !got.Equal(tc.want) {
			t.Fatalf("mondayOnOrBefore(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
