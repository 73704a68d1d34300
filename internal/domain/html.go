package domain

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
)

// HTMLSegment renders the entry as an HTML fragment. Notes are treated as
// Markdown.
func (e FinishedEntry) HTMLSegment() string {
	md := fmt.Sprintf("## %s\n **%s** ~ **%s** \n\n %s",
		e.ID.Title,
		e.ID.Start.Local().Format(LocalTimeFormat),
		e.End.Local().Format(LocalTimeFormat),
		e.Notes)

	var b strings.Builder
	if err := goldmark.Convert([]byte(md), &b); err != nil {
		// Markdown conversion only fails on writer errors, which a
		// strings.Builder cannot produce.
		return ""
	}
	return b.String()
}
