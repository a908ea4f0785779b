package work

import (
	"fmt"
	"time"
)

// The statutory ceiling used for form validation of overtime policies. This
// is a plausibility bound, not a legal compliance check.
const absoluteWeeklyHoursCap = 80

func ValidateEntry(e TimeEntry) error {
	if e.EntryDate.IsZero() {
		return fmt.Errorf("%w: entry date is required", ErrInvalidEntry)
	}
	if e.RegularHours < 0 || e.OvertimeHours < 0 {
		return fmt.Errorf("%w: hours must not be negative", ErrInvalidEntry)
	}
	if e.RegularHours+e.OvertimeHours > 24 {
		return fmt.Errorf("%w: more than 24 hours on one day", ErrInvalidEntry)
	}
	if e.StartTime != "" {
		if _, err := time.Parse("15:04", e.StartTime); err != nil {
			return fmt.Errorf("%w: start time must be HH:MM", ErrInvalidEntry)
		}
	}
	return nil
}

func ValidatePolicy(p OvertimePolicy) error {
	if p.MaxWeeklyHours <= 0 {
		return fmt.Errorf("%w: max weekly hours must be positive", ErrInvalidPolicy)
	}
	if p.MaxWeeklyHours > absoluteWeeklyHoursCap {
		return fmt.Errorf("%w: max weekly hours must not exceed %d", ErrInvalidPolicy, absoluteWeeklyHoursCap)
	}
	if p.MaxMonthlyOvertime < 0 {
		return fmt.Errorf("%w: max monthly overtime must not be negative", ErrInvalidPolicy)
	}
	return nil
}
