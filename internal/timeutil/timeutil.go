// Package timeutil resolves report query ranges and formats durations.
//
// Day boundaries are anchored to local midnight at resolution time, so a
// "day" matches the user's wall-clock day regardless of an entry's absolute
// UTC timestamp.
package timeutil

import (
	"fmt"
	"time"

	"clocking/internal/domain"
)

const dateFormat = "2006-01-02"

// OffsetRange resolves an offset-in-days-back query to UTC bounds.
//
// The start is (today - daysOffset) at local midnight. When days is non-nil
// the end is days later at local midnight; when nil the end bound is open,
// meaning "now" to the caller, so an in-progress day is measured only up to
// the present moment.
func OffsetRange(daysOffset int, days *int) (time.Time, *time.Time) {
	now := time.Now().Local()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := midnight.AddDate(0, 0, -daysOffset)

	var end *time.Time
	if days != nil {
		e := start.AddDate(0, 0, *days).UTC()
		end = &e
	}
	return start.UTC(), end
}

// DateRange resolves an inclusive local-date-string pair to UTC bounds:
// [dayStart 00:00:00, dayEnd 23:59:59] in local time.
func DateRange(dayStart, dayEnd string) (time.Time, time.Time, error) {
	startDate, err := time.ParseInLocation(dateFormat, dayStart, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, domain.InvalidInputError{Reason: "invalid format of day_start"}
	}
	endDate, err := time.ParseInLocation(dateFormat, dayEnd, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, domain.InvalidInputError{Reason: "invalid format of day_end"}
	}
	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, domain.InvalidInputError{Reason: "invalid date range: day_end must not be before day_start"}
	}

	end := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 23, 59, 59, 0, time.Local)
	return startDate.UTC(), end.UTC(), nil
}

const (
	hourMinutes = 60
	dayMinutes  = hourMinutes * 24
)

// FormatDuration renders a duration as 0:MM below an hour, H:MM below a day,
// and D:HH:MM at a day or more. Minutes and hours are zero-padded to two
// digits; the leading unit is not.
func FormatDuration(d time.Duration) string {
	total := int64(d.Minutes())
	switch {
	case total < hourMinutes:
		return fmt.Sprintf("0:%02d", total)
	case total < dayMinutes:
		return fmt.Sprintf("%d:%02d", total/hourMinutes, total%hourMinutes)
	default:
		remains := total % dayMinutes
		return fmt.Sprintf("%d:%02d:%02d", total/dayMinutes, remains/hourMinutes, remains%hourMinutes)
	}
}
