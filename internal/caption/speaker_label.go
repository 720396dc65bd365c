package caption

import (
	"regexp"
	"strings"
)

// Explicit speaker labels appear ahead of the caption text on meeting
// platforms in one of three shapes: "Name: text", "Name - text", or
// "Name > text". Labels are 2-30 characters of letters, digits, spaces,
// underscores, and hyphens. Patterns are tried in this fixed order; the
// first match wins, and a parsed label always takes priority over the
// turn-taking heuristic.
var speakerLabelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^([A-Za-z0-9 _-]{2,30}):\s+(.+)$`),
	regexp.MustCompile(`^([A-Za-z0-9 _-]{2,30}?)\s-\s(.+)$`),
	regexp.MustCompile(`^([A-Za-z0-9 _-]{2,30}?)\s>\s(.+)$`),
}

// ParseSpeakerLabel splits an explicit speaker label off the front of text.
// It returns the label, the remaining utterance text, and whether a label
// was found.
func ParseSpeakerLabel(text string) (string, string, bool) {
	for _, pattern := range speakerLabelPatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		label := strings.TrimSpace(match[1])
		rest := strings.TrimSpace(match[2])
		if len(label) < 2 || rest == "" {
			continue
		}
		return label, rest, true
	}
	return "", text, false
}
