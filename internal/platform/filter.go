package platform

import (
	"regexp"
	"strings"
)

// Candidate is one selector-matched DOM element, reduced to the attributes
// the content filter needs: its visible text and the class names of the
// element and its ancestors.
type Candidate struct {
	Text    string
	Classes []string
}

// pureTimePattern matches player time displays like "0:04 / 9:36" or "12:34".
var pureTimePattern = regexp.MustCompile(`^\d+:\d+(\s*/\s*\d+:\d+)?$`)

// trackTimePattern matches playlist rows that combine a track number or title
// with a running time, e.g. "3. Some Song 4:12".
var trackTimePattern = regexp.MustCompile(`^\d+\.?\s+.*\d+:\d+`)

// chromeClassFragments identify player chrome, metadata, and tooltip nodes
// that share a subtree with caption text on YouTube-class platforms.
var chromeClassFragments = []string{
	"ytp-time-display",
	"ytp-chrome",
	"ytp-progress",
	"ytp-tooltip",
	"ytp-menuitem",
	"title",
	"channel",
	"ytd-video-owner",
}

// captionmarkerFragments are the class markers an element must carry (itself
// or via an ancestor) to be recognized as part of the caption container.
var captionMarkerFragments = []string{
	"ytp-caption-segment",
	"ytp-caption-window",
	"captions-text",
	"caption-visual-line",
	"caption-window",
}

// Accept applies the platform's content-shape filter to one candidate.
// Platforms without a filter accept every selector match with non-empty text.
//
// For filtered platforms the candidate is rejected when its text looks like
// player chrome (pure time display, track listing rows) or when any class in
// its ancestry marks chrome, and it must positively carry a caption-container
// marker to pass.
func Accept(p Platform, c Candidate) bool {
	text := strings.TrimSpace(c.Text)
	if text == "" {
		return false
	}
	if !NeedsContentFilter(p) {
		return true
	}

	if pureTimePattern.MatchString(text) {
		return false
	}
	if trackTimePattern.MatchString(text) {
		return false
	}

	marked := false
	for _, class := range c.Classes {
		lowered := strings.ToLower(class)
		for _, fragment := range chromeClassFragments {
			if strings.Contains(lowered, fragment) {
				return false
			}
		}
		for _, fragment := range captionMarkerFragments {
			if strings.Contains(lowered, fragment) {
				marked = true
			}
		}
	}
	return marked
}
