package textutil

import (
	"regexp"
	"strings"
)

// timecodePattern matches embedded player time displays such as "0:04" or
// "1:23 / 9:36" that platforms render adjacent to caption text.
var timecodePattern = regexp.MustCompile(`\d+:\d+(\s*/\s*\d+:\d+)?`)

// whitespacePattern matches runs of whitespace for collapsing.
var whitespacePattern = regexp.MustCompile(`\s+`)

// maxWordRepeats caps how many consecutive copies of the same word survive
// normalization. Rolling caption renderers re-emit the trailing word many
// times before advancing; two copies is enough to keep genuine repetition
// ("very very") intact.
const maxWordRepeats = 2

// Normalize cleans raw caption text extracted from the DOM. It collapses
// whitespace runs, strips embedded timecode displays, and drops excess
// consecutive word repeats. Pure function; returns "" when nothing
// meaningful survives.
func Normalize(raw string) string {
	text := whitespacePattern.ReplaceAllString(strings.TrimSpace(raw), " ")
	if text == "" {
		return ""
	}
	text = timecodePattern.ReplaceAllString(text, "")

	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	out := make([]string, 0, len(words))
	repeats := 0
	for i, word := range words {
		if i > 0 && word == words[i-1] {
			repeats++
		} else {
			repeats = 0
		}
		if repeats >= maxWordRepeats {
			continue
		}
		out = append(out, word)
	}
	return strings.Join(out, " ")
}
