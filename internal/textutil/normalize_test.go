package textutil

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "collapses whitespace",
			input: "  hello   there\n\tworld  ",
			want:  "hello there world",
		},
		{
			name:  "strips time display",
			input: "hello 0:04 / 9:36 world",
			want:  "hello world",
		},
		{
			name:  "strips bare timecode",
			input: "12:34 welcome back",
			want:  "welcome back",
		},
		{
			name:  "caps word repeats at two",
			input: "go go go go go home",
			want:  "go go home",
		},
		{
			name:  "keeps double repeat",
			input: "it was very very good",
			want:  "it was very very good",
		},
		{
			name:  "repeat collapse is case sensitive",
			input: "Go go go",
			want:  "Go go go",
		},
		{
			name:  "empty input",
			input: "   ",
			want:  "",
		},
		{
			name:  "only timecode",
			input: "0:04 / 9:36",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"meet 2026-08-30 10:04", "meet 2026-08-30 10-04"},
		{"what/ever", "what-ever"},
		{"a<b>c?", "abc"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.input); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
