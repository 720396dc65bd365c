package platform

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Platform
		wantErr bool
	}{
		{"meet", Meet, false},
		{" YouTube ", YouTube, false},
		{"teams", Teams, false},
		{"zoom", Zoom, false},
		{"skype", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Parse(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSelectorsNonEmpty(t *testing.T) {
	for _, p := range All() {
		if len(Selectors(p)) == 0 {
			t.Errorf("platform %s has no selectors", p)
		}
	}
}

func TestExplicitSpeakerLabels(t *testing.T) {
	if YouTube.ExplicitSpeakerLabels() {
		t.Error("youtube captions never carry speaker labels")
	}
	if !Meet.ExplicitSpeakerLabels() {
		t.Error("meet captions carry speaker labels")
	}
}
