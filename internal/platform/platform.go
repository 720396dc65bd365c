package platform

import (
	"fmt"
	"strings"
)

// Platform identifies a supported caption source site.
type Platform string

const (
	Meet    Platform = "meet"
	YouTube Platform = "youtube"
	Teams   Platform = "teams"
	Zoom    Platform = "zoom"
)

// All lists the supported platforms in a stable order.
func All() []Platform {
	return []Platform{Meet, YouTube, Teams, Zoom}
}

// Parse resolves a platform identifier from config or CLI input.
func Parse(value string) (Platform, error) {
	switch Platform(strings.ToLower(strings.TrimSpace(value))) {
	case Meet:
		return Meet, nil
	case YouTube:
		return YouTube, nil
	case Teams:
		return Teams, nil
	case Zoom:
		return Zoom, nil
	}
	return "", fmt.Errorf("unknown platform %q", value)
}

// DisplayName returns the human-readable site name.
func (p Platform) DisplayName() string {
	switch p {
	case Meet:
		return "Google Meet"
	case YouTube:
		return "YouTube"
	case Teams:
		return "Microsoft Teams"
	case Zoom:
		return "Zoom"
	}
	return string(p)
}

// ExplicitSpeakerLabels reports whether the platform renders speaker names
// inside its caption region. Meeting platforms do; YouTube captions never
// carry labels, so heuristic attribution is the only option there.
func (p Platform) ExplicitSpeakerLabels() bool {
	return p == Meet || p == Teams || p == Zoom
}
