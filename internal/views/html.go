package views

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
)

// textFragment wraps a plain-text report in a fenced code block and renders
// it to an HTML fragment, keeping the report's alignment intact in the web
// page.
func textFragment(text string) string {
	md := fmt.Sprintf("```\n%s```\n", text)
	var b strings.Builder
	if err := goldmark.Convert([]byte(md), &b); err != nil {
		return ""
	}
	return b.String()
}
