package export

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// renderMarkdown produces a document with a metadata header and one
// paragraph per caption.
func renderMarkdown(tr Transcript) string {
	var b strings.Builder

	title := "Caption Transcript"
	if tr.Session != nil && tr.Session.Title != "" {
		title = tr.Session.Title
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	if attendees := attendeeNames(tr); len(attendees) > 0 {
		fmt.Fprintf(&b, "- Attendees: %s\n", strings.Join(attendees, ", "))
	}
	if tr.Session != nil {
		fmt.Fprintf(&b, "- Platform: `%s`\n", tr.Session.Platform)
		fmt.Fprintf(&b, "- Session: `%s`\n", tr.Session.ID)
		if d := tr.Session.Duration(); d > 0 {
			fmt.Fprintf(&b, "- Duration: %s\n", d.Truncate(time.Second))
		}
	}
	fmt.Fprintf(&b, "- Generated: %s\n", time.Now().Format(time.RFC3339))
	b.WriteString("\n---\n\n")

	for _, entry := range tr.Captions {
		ts := entry.ObservedAt.Local().Format("15:04:05")
		if entry.Speaker != "" {
			fmt.Fprintf(&b, "[%s] %s: %s\n\n", ts, entry.Speaker, strings.TrimSpace(entry.Text))
		} else {
			fmt.Fprintf(&b, "[%s] %s\n\n", ts, strings.TrimSpace(entry.Text))
		}
	}
	return b.String()
}

// attendeeNames lists the distinct speakers in order of first appearance,
// title-cased for display.
func attendeeNames(tr Transcript) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, entry := range tr.Captions {
		if entry.Speaker == "" {
			continue
		}
		if _, ok := seen[entry.Speaker]; ok {
			continue
		}
		seen[entry.Speaker] = struct{}{}
		names = append(names, titleCaser.String(entry.Speaker))
	}
	return names
}
