package sanitizer

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trim spaces",
			input: "  Tony's Chair  ",
			want:  "Tony's Chair",
		},
		{
			name:  "multiple spaces between words",
			input: "Tony's    Chair",
			want:  "Tony's Chair",
		},
		{
			name:  "tabs and newlines",
			input: "Tony's\t\nChair",
			want:  "Tony's Chair",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n  ",
			want:  "",
		},
		{
			name:  "preserve special characters",
			input: " Fade & Shave™ ",
			want:  "Fade & Shave™",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeName(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeName_Idempotent(t *testing.T) {
	input := "  Beard   Trim "
	once := NormalizeName(input)
	twice := NormalizeName(once)
	if once != twice {
		t.Errorf("NormalizeName is not idempotent: %q != %q", once, twice)
	}
}

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercases",
			input: "Haircut",
			want:  "haircut",
		},
		{
			name:  "collapses and lowercases",
			input: "  Hot   Towel SHAVE ",
			want:  "hot towel shave",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeLabel(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeLabel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
