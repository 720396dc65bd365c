package platform

import "testing"

func TestAcceptUnfilteredPlatforms(t *testing.T) {
	c := Candidate{Text: "hello there", Classes: []string{"random-class"}}
	for _, p := range []Platform{Meet, Teams, Zoom} {
		if !Accept(p, c) {
			t.Errorf("platform %s should accept selector matches without filtering", p)
		}
	}
	if Accept(Meet, Candidate{Text: "   "}) {
		t.Error("whitespace-only candidates are never accepted")
	}
}

func TestAcceptYouTubeCaptionSegment(t *testing.T) {
	c := Candidate{
		Text:    "so today we're going to talk about",
		Classes: []string{"ytp-caption-segment"},
	}
	if !Accept(YouTube, c) {
		t.Error("caption segment should pass the content filter")
	}
}

func TestAcceptYouTubeRejections(t *testing.T) {
	tests := []struct {
		name string
		c    Candidate
	}{
		{
			name: "pure time display",
			c:    Candidate{Text: "0:04 / 9:36", Classes: []string{"ytp-caption-segment"}},
		},
		{
			name: "bare timecode",
			c:    Candidate{Text: "12:34", Classes: []string{"ytp-caption-segment"}},
		},
		{
			name: "track number plus time",
			c:    Candidate{Text: "3. Opening Theme 4:12", Classes: []string{"ytp-caption-segment"}},
		},
		{
			name: "player chrome descendant",
			c:    Candidate{Text: "some caption words", Classes: []string{"ytp-chrome-bottom", "ytp-caption-segment"}},
		},
		{
			name: "tooltip text",
			c:    Candidate{Text: "Subtitles/closed captions", Classes: []string{"ytp-tooltip-text", "ytp-caption-segment"}},
		},
		{
			name: "video title",
			c:    Candidate{Text: "My Great Video", Classes: []string{"ytd-watch-metadata", "title"}},
		},
		{
			name: "no caption marker",
			c:    Candidate{Text: "perfectly ordinary words", Classes: []string{"some-overlay"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if Accept(YouTube, tt.c) {
				t.Errorf("candidate should be rejected: %+v", tt.c)
			}
		})
	}
}
