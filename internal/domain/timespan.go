package domain

import (
	"fmt"
	"time"
)

const localNoDateFormat = "15:04"

// TimeSpan is a validated (start, end) pair with positive duration, in local
// time. Construct only through NewTimeSpan; never mutated after creation.
type TimeSpan struct {
	start time.Time
	end   time.Time
}

// NewTimeSpan builds a TimeSpan, failing when end is not after start.
func NewTimeSpan(start, end time.Time) (TimeSpan, error) {
	if !end.After(start) {
		return TimeSpan{}, InvalidInputError{Reason: "time span end must be after start"}
	}
	return TimeSpan{start: start, end: end}, nil
}

func (s TimeSpan) Start() time.Time        { return s.start }
func (s TimeSpan) End() time.Time          { return s.end }
func (s TimeSpan) Duration() time.Duration { return s.end.Sub(s.start) }

// Before orders spans by start time.
func (s TimeSpan) Before(other TimeSpan) bool { return s.start.Before(other.start) }

// Format renders the span with full timestamps; FormatTimeOnly drops the
// date part for sub-day granularity.
func (s TimeSpan) Format(dur string) string {
	return fmt.Sprintf("%s ~ %s, %s",
		s.start.Format(LocalTimeFormat), s.end.Format(LocalTimeFormat), dur)
}

func (s TimeSpan) FormatTimeOnly(dur string) string {
	return fmt.Sprintf("%s ~ %s, %s",
		s.start.Format(localNoDateFormat), s.end.Format(localNoDateFormat), dur)
}
