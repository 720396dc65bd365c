package platform

// Selector patterns are ordered most-specific first: the resolver walks the
// list and keeps candidates from the first selector that matches anything.
// Platforms revise their DOM regularly, so each list carries older fallbacks.

var meetSelectors = []string{
	"[jsname='dsyhDe']",
	"[jsname='tgaKEf']",
	".iTTPOb",
	".a4cQT",
	"[jscontroller='KPn5nb'] span",
}

var youtubeSelectors = []string{
	".ytp-caption-segment",
	".captions-text .caption-visual-line",
	".caption-window .captions-text",
	".html5-video-player .ytp-caption-window-container",
}

var teamsSelectors = []string{
	"[data-tid='closed-caption-text']",
	"[data-tid='closed-caption-v2-virtual-list-content'] span",
	".ui-chat__message__content",
}

var zoomSelectors = []string{
	".live-transcription-subtitle__item",
	"#live-transcription-subtitle",
	".zmu-live-transcript span",
}

// Selectors returns the ordered CSS selector list for the platform's caption
// region. The list is recomputed by callers on every resolution pass; an
// empty extraction result means "captions not available yet", never an error.
func Selectors(p Platform) []string {
	switch p {
	case Meet:
		return meetSelectors
	case YouTube:
		return youtubeSelectors
	case Teams:
		return teamsSelectors
	case Zoom:
		return zoomSelectors
	}
	return nil
}

// NeedsContentFilter reports whether selector matches on this platform must
// additionally pass the content-shape filter. YouTube interleaves caption
// nodes with player chrome, titles, and tooltips inside the same subtree, so
// selector matching alone produces false positives there.
func NeedsContentFilter(p Platform) bool {
	return p == YouTube
}

// NeedsPolling reports whether the platform's caption region requires the
// interval re-extraction fallback in addition to mutation events. YouTube's
// caption window swaps text nodes in place without reliably firing observable
// mutations on the container.
func NeedsPolling(p Platform) bool {
	return p == YouTube || p == Zoom
}
