package util

import "testing"

func TestNormalizeCategorySlug(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Science Fiction", "science-fiction"},
		{"sci_fi", "sci-fi"},
		{"SCI-FI", "sci-fi"},
		{"Self Help / Business", "self-help-business"},
		{"  multi   word ", "multi-word"},
		{"--leading--", "leading"},
		{"🚀 Space Opera!", "space-opera"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tt := range tests {
		if got := NormalizeCategorySlug(tt.input); got != tt.want {
			t.Errorf("NormalizeCategorySlug(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
