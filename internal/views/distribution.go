package views

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"clocking/internal/domain"
	"clocking/internal/timeutil"
)

// IdleLabel marks synthesized gap-filling spans in distribution views.
const IdleLabel = "<idle>"

// Clock is a time of day within the working window.
type Clock struct {
	Hour   int
	Minute int
}

func (c Clock) at(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, 0, 0, date.Location())
}

// Window is the configured local daily time range used as the bounds for
// idle-gap synthesis.
type Window struct {
	Start Clock
	End   Clock
}

// DefaultWindow is the 08:00-21:00 working window.
var DefaultWindow = Window{Start: Clock{Hour: 8}, End: Clock{Hour: 21}}

// LabeledSpan is a span attributed to an entry title, or to IdleLabel for
// synthesized gaps.
type LabeledSpan struct {
	Label string
	Span  domain.TimeSpan
}

// DailyDistribution partitions each date's working window into real spans
// and synthesized idle gaps.
type DailyDistribution struct {
	dates []string
	days  map[string][]LabeledSpan
}

func NewDailyDistribution(entries []domain.FinishedEntry, window Window) *DailyDistribution {
	byDate := make(map[string][]LabeledSpan)
	dayStart := make(map[string]time.Time)
	v := &DailyDistribution{days: make(map[string][]LabeledSpan)}

	for _, e := range entries {
		span, ok := localSpan(e)
		if !ok {
			continue
		}
		date := localDate(e)
		if _, seen := byDate[date]; !seen {
			v.dates = append(v.dates, date)
			start := e.ID.Start.Local()
			dayStart[date] = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
		}
		byDate[date] = append(byDate[date], LabeledSpan{Label: e.ID.Title, Span: span})
	}
	sort.Strings(v.dates)

	for date, spans := range byDate {
		v.days[date] = PartitionDay(dayStart[date], spans, window)
	}
	return v
}

// PartitionDay synthesizes a complete, gap-free partition of the working
// window on the given date: real spans in start order, with an idle span for
// every uncovered interval. Overlapping or back-to-back spans are processed
// in start order; a span starting at or before the cursor produces no idle
// span, and the cursor never moves backwards. A day with no real spans
// yields a single idle span covering the whole window.
func PartitionDay(date time.Time, spans []LabeledSpan, window Window) []LabeledSpan {
	sorted := make([]LabeledSpan, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Span.Before(sorted[j].Span)
	})

	cursor := window.Start.at(date)
	windowEnd := window.End.at(date)

	var out []LabeledSpan
	for _, s := range sorted {
		if gap, err := domain.NewTimeSpan(cursor, s.Span.Start()); err == nil {
			out = append(out, LabeledSpan{Label: IdleLabel, Span: gap})
		}
		out = append(out, s)
		if s.Span.End().After(cursor) {
			cursor = s.Span.End()
		}
	}
	if trailing, err := domain.NewTimeSpan(cursor, windowEnd); err == nil {
		out = append(out, LabeledSpan{Label: IdleLabel, Span: trailing})
	}
	return out
}

// Day returns the partition for one date key (yyyy-mm-dd).
func (v *DailyDistribution) Day(date string) []LabeledSpan { return v.days[date] }

// Text renders the distribution at sub-day granularity, dropping idle spans
// of zero minutes.
func (v *DailyDistribution) Text() string { return v.render(true) }

// TextFull renders every span with full timestamps, including zero-minute
// idle gaps.
func (v *DailyDistribution) TextFull() string { return v.render(false) }

func (v *DailyDistribution) render(compact bool) string {
	var b strings.Builder
	for _, date := range v.dates {
		fmt.Fprintf(&b, "%s: \n", date)
		for _, s := range v.days[date] {
			if compact && s.Label == IdleLabel && int64(s.Span.Duration().Minutes()) <= 0 {
				continue
			}
			dur := timeutil.FormatDuration(s.Span.Duration())
			if compact {
				fmt.Fprintf(&b, "\t%s: %s\n", s.Label, s.Span.FormatTimeOnly(dur))
			} else {
				fmt.Fprintf(&b, "\t%s: %s\n", s.Label, s.Span.Format(dur))
			}
		}
	}
	return b.String()
}

func (v *DailyDistribution) HTML() string { return textFragment(v.Text()) }
