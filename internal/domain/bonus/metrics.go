package bonus

import (
	"time"
)

// ComputeMetrics aggregates time entries over the inclusive [periodStart,
// periodEnd] calendar-date window. Dates are compared at day granularity;
// callers must normalize timezones before entries reach the engine. Every
// ratio guards its denominator and yields 0 instead of NaN/Inf.
func ComputeMetrics(entries []TimeEntry, periodStart, periodEnd time.Time) Metrics {
	start := dateOnly(periodStart)
	end := dateOnly(periodEnd)

	var inPeriod []TimeEntry
	for _, e := range entries {
		d := dateOnly(e.Date)
		if !d.Before(start) && !d.After(end) {
			inPeriod = append(inPeriod, e)
		}
	}

	return Metrics{
		HoursWorked:            totalHours(inPeriod),
		PunctualityScore:       punctualityScore(inPeriod),
		AttendanceRate:         attendanceRate(inPeriod, start, end),
		OvertimeRatio:          overtimeRatio(inPeriod),
		WeeklyConsistencyScore: weeklyConsistencyScore(inPeriod, start, end),
	}
}

func totalHours(entries []TimeEntry) float64 {
	var total float64
	for _, e := range entries {
		total += e.RegularHours + e.OvertimeHours
	}
	return total
}

// punctualityScore is the share of entries clocked in at or before 09:xx.
// Entries without a parsable start time stay in the denominator but never
// count as punctual.
func punctualityScore(entries []TimeEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	punctual := 0
	for _, e := range entries {
		if hour, ok := parseStartHour(e.StartTime); ok && hour <= punctualStartHour {
			punctual++
		}
	}
	return float64(punctual) / float64(len(entries)) * 100
}

func attendanceRate(entries []TimeEntry, start, end time.Time) float64 {
	working := countWorkingDays(start, end)
	if working == 0 {
		return 0
	}
	return float64(countDistinctDates(entries)) / float64(working) * 100
}

func overtimeRatio(entries []TimeEntry) float64 {
	var regular, overtime float64
	for _, e := range entries {
		regular += e.RegularHours
		overtime += e.OvertimeHours
	}
	if regular == 0 {
		return 0
	}
	return overtime / regular
}

// weeklyConsistencyScore segments the period into Monday-aligned 7-day weeks,
// starting at the Monday on or before periodStart, and scores the share of
// weeks with at least consistentWeekMinDays distinct worked dates.
func weeklyConsistencyScore(entries []TimeEntry, start, end time.Time) float64 {
	worked := make(map[time.Time]bool, len(entries))
	for _, e := range entries {
		worked[dateOnly(e.Date)] = true
	}

	totalWeeks := 0
	consistentWeeks := 0
	for weekStart := mondayOnOrBefore(start); !weekStart.After(end); weekStart = weekStart.AddDate(0, 0, 7) {
		totalWeeks++
		daysWorked := 0
		for i := 0; i < 7; i++ {
			if worked[weekStart.AddDate(0, 0, i)] {
				daysWorked++
			}
		}
		if daysWorked >= consistentWeekMinDays {
			consistentWeeks++
		}
	}
	if totalWeeks == 0 {
		return 0
	}
	return float64(consistentWeeks) / float64(totalWeeks) * 100
}

func countWorkingDays(start, end time.Time) int {
	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			count++
		}
	}
	return count
}

func countDistinctDates(entries []TimeEntry) int {
	seen := make(map[time.Time]bool, len(entries))
	for _, e := range entries {
		seen[dateOnly(e.Date)] = true
	}
	return len(seen)
}

func parseStartHour(startTime string) (int, bool) {
	if startTime == "" {
		return 0, false
	}
	parsed, err := time.Parse("15:04", startTime)
	if err != nil {
		return 0, false
	}
	return parsed.Hour(), true
}

func mondayOnOrBefore(d time.Time) time.Time {
	// time.Weekday numbers Sunday as 0; shift so Monday is 0.
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
