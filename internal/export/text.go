package export

import (
	"fmt"
	"strings"
	"time"
)

// renderText produces the plain transcript layout: a small header block
// followed by one line per caption.
func renderText(tr Transcript) string {
	var b strings.Builder

	b.WriteString("Caption Session Transcript\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&b, "Generated: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	if tr.Session != nil {
		fmt.Fprintf(&b, "Session ID: %s\n", tr.Session.ID)
		fmt.Fprintf(&b, "Platform: %s\n", tr.Session.Platform)
	}
	fmt.Fprintf(&b, "Total Entries: %d\n", len(tr.Captions))
	b.WriteString("\n--- TRANSCRIPT ---\n\n")

	if len(tr.Captions) == 0 {
		b.WriteString("No transcript data available.\n")
		return b.String()
	}

	for _, entry := range tr.Captions {
		speaker := entry.Speaker
		if speaker == "" {
			speaker = "Speaker"
		}
		fmt.Fprintf(&b, "[%s] %s: %s\n", entry.ObservedAt.Local().Format("15:04:05"), speaker, entry.Text)
	}
	return b.String()
}
