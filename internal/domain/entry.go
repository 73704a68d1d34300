// Package domain holds the clocking entry model: identities, unfinished and
// finished entries, validated time spans, and the typed errors the store
// reports. Values handed out by the store are independent copies; nothing in
// this package carries shared mutable state.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// LocalTimeFormat is the display format for entry timestamps in local time.
const LocalTimeFormat = "2006-01-02 Mon 15:04"

// EntryID identifies a clocking entry by its natural (title, start) key.
// Start is stored in UTC. Immutable once created.
type EntryID struct {
	Title string    `json:"title"`
	Start time.Time `json:"start"`
}

// UnfinishedEntry is an entry whose end is not set yet. The store allows at
// most one unfinished entry system-wide.
type UnfinishedEntry struct {
	ID    EntryID `json:"id"`
	Notes string  `json:"notes"`
}

// StartedMinutes returns how many whole minutes ago the entry was started.
func (e UnfinishedEntry) StartedMinutes() int64 {
	return int64(time.Since(e.ID.Start).Minutes())
}

func (e UnfinishedEntry) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", e.ID.Title)
	fmt.Fprintf(&b, "\tStarted at: %s\n", e.ID.Start.Local().Format(LocalTimeFormat))
	writeNotes(&b, e.Notes)
	return b.String()
}

// FinishedEntry is an entry with both start and end set, end > start.
type FinishedEntry struct {
	ID    EntryID   `json:"id"`
	End   time.Time `json:"end"`
	Notes string    `json:"notes"`
}

// Duration returns the entry's span length.
func (e FinishedEntry) Duration() time.Duration {
	return e.End.Sub(e.ID.Start)
}

func (e FinishedEntry) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", e.ID.Title)
	fmt.Fprintf(&b, "\t%s ~ %s\n",
		e.ID.Start.Local().Format(LocalTimeFormat),
		e.End.Local().Format(LocalTimeFormat))
	writeNotes(&b, e.Notes)
	return b.String()
}

func writeNotes(b *strings.Builder, notes string) {
	if notes == "" {
		return
	}
	b.WriteString("\tNotes:\n")
	for _, line := range strings.Split(strings.TrimRight(notes, "\n"), "\n") {
		fmt.Fprintf(b, "\t  %s\n", line)
	}
}
