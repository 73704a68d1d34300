// Package views turns slices of finished entries into read-only report
// views. All views are pure and deterministic with respect to their input
// slice; none touch the store.
package views

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"clocking/internal/domain"
	"clocking/internal/timeutil"
)

const localDateFormat = "2006-01-02"

// View is a rendered report: plain text for the terminal, an HTML fragment
// for the web page.
type View interface {
	Text() string
	HTML() string
}

// For maps a view-type selector to a view: "daily" is the daily summary,
// "detail" the per-title detail, "dist" the daily distribution; anything
// else falls back to the daily detail.
func For(kind string, entries []domain.FinishedEntry, window Window) View {
	switch kind {
	case "daily":
		return NewDailySummary(entries)
	case "detail":
		return NewEntryDetail(entries)
	case "dist":
		return NewDailyDistribution(entries, window)
	default:
		return NewDailyDetail(entries)
	}
}

// localSpan converts an entry to a local-time span. Entries that violate the
// end > start invariant cannot form a span and are reported to the caller.
func localSpan(e domain.FinishedEntry) (domain.TimeSpan, bool) {
	span, err := domain.NewTimeSpan(e.ID.Start.Local(), e.End.Local())
	return span, err == nil
}

func localDate(e domain.FinishedEntry) string {
	return e.ID.Start.Local().Format(localDateFormat)
}

// DailySummary sums entry durations grouped by the local calendar date of
// their start.
type DailySummary struct {
	dates  []string
	totals map[string]time.Duration
}

func NewDailySummary(entries []domain.FinishedEntry) *DailySummary {
	v := &DailySummary{totals: make(map[string]time.Duration)}
	for _, e := range entries {
		date := localDate(e)
		if _, seen := v.totals[date]; !seen {
			v.dates = append(v.dates, date)
		}
		v.totals[date] += e.Duration()
	}
	sort.Strings(v.dates)
	return v
}

func (v *DailySummary) Text() string {
	var b strings.Builder
	var total time.Duration
	for _, date := range v.dates {
		fmt.Fprintf(&b, "%s: %s\n", date, timeutil.FormatDuration(v.totals[date]))
		total += v.totals[date]
	}
	if len(v.dates) > 1 {
		fmt.Fprintf(&b, "(Total): %s\n", timeutil.FormatDuration(total))
	}
	return b.String()
}

func (v *DailySummary) HTML() string { return textFragment(v.Text()) }

// EntryDetail groups spans by title, listing each occurrence with a
// per-title total.
type EntryDetail struct {
	titles  []string
	efforts map[string][]domain.TimeSpan
}

func NewEntryDetail(entries []domain.FinishedEntry) *EntryDetail {
	v := &EntryDetail{efforts: make(map[string][]domain.TimeSpan)}
	for _, e := range entries {
		span, ok := localSpan(e)
		if !ok {
			continue
		}
		title := e.ID.Title
		if _, seen := v.efforts[title]; !seen {
			v.titles = append(v.titles, title)
		}
		v.efforts[title] = append(v.efforts[title], span)
	}
	sort.Strings(v.titles)
	return v
}

func (v *EntryDetail) Text() string {
	var b strings.Builder
	for _, title := range v.titles {
		fmt.Fprintf(&b, "%s:\n", title)
		var total time.Duration
		for _, span := range v.efforts[title] {
			fmt.Fprintf(&b, "\t%s\n", span.Format(timeutil.FormatDuration(span.Duration())))
			total += span.Duration()
		}
		fmt.Fprintf(&b, "\t(Total): %s\n\n", timeutil.FormatDuration(total))
	}
	return b.String()
}

func (v *EntryDetail) HTML() string { return textFragment(v.Text()) }

// DailyDetail is the two-level grouping: date, then title, each with a
// subtotal and a grand total across dates. It is the default report view.
type DailyDetail struct {
	dates  []string
	detail map[string]map[string]time.Duration
}

func NewDailyDetail(entries []domain.FinishedEntry) *DailyDetail {
	v := &DailyDetail{detail: make(map[string]map[string]time.Duration)}
	for _, e := range entries {
		date := localDate(e)
		if _, seen := v.detail[date]; !seen {
			v.dates = append(v.dates, date)
			v.detail[date] = make(map[string]time.Duration)
		}
		v.detail[date][e.ID.Title] += e.Duration()
	}
	sort.Strings(v.dates)
	return v
}

func (v *DailyDetail) Text() string {
	var b strings.Builder
	var total time.Duration
	for _, date := range v.dates {
		fmt.Fprintf(&b, "%s: \n", date)

		titles := make([]string, 0, len(v.detail[date]))
		for title := range v.detail[date] {
			titles = append(titles, title)
		}
		sort.Strings(titles)

		var dayTotal time.Duration
		for _, title := range titles {
			d := v.detail[date][title]
			fmt.Fprintf(&b, "\t%s: %s\n", title, timeutil.FormatDuration(d))
			dayTotal += d
		}
		fmt.Fprintf(&b, "\t(Total): %s\n\n", timeutil.FormatDuration(dayTotal))
		total += dayTotal
	}
	if len(v.dates) > 1 {
		fmt.Fprintf(&b, "(Total): %s\n", timeutil.FormatDuration(total))
	}
	return b.String()
}

func (v *DailyDetail) HTML() string { return textFragment(v.Text()) }
