package countries

import "testing"

func TestCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Finland", "FI"},
		{"FI", "FI"},
		{"fi", "FI"},
		{"finland", "FI"},
		{" Germany ", "DE"},
		{"UK", "GB"},
		{"United Kingdom", "GB"},
		{"Great Britain", "GB"},
		{"FYROM", "MK"},
		{"Kosovo", "XK"},
		{"Northern Ireland", "GB-NIR"},
		{"Turkiye", "TR"},
		{"TÜRKIYE", "TR"},
		{"Moldova", "MD"},
		{"Bosnia", "BA"},
		{"Germny", "DE"},
		{"Swedn", "SE"},
		{"Atlantis", "Atlantis"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Code(tt.input); got != tt.expected {
				t.Errorf("Code(%q): expected %q, got %q", tt.input, tt.expected, got)
			}
		})
	}
}

func TestCodeShortQueriesNeedExactMatch(t *testing.T) {
	// "in" appears in several names but is not a country
	if got := Code("in"); got != "in" {
		t.Errorf("Expected short query unchanged, got %q", got)
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		code     string
		expected string
		ok       bool
	}{
		{"GB", "Great Britain", true},
		{"GB-NIR", "Northern Ireland", true},
		{"HR", "Croatia", true},
		{"ZZ", "", false},
	}
	for _, tt := range tests {
		got, ok := Name(tt.code)
		if got != tt.expected || ok != tt.ok {
			t.Errorf("Name(%q): expected %q/%v, got %q/%v", tt.code, tt.expected, tt.ok, got, ok)
		}
	}
}

func TestAreasResolve(t *testing.T) {
	for _, a := range Areas {
		if got := Code(a.Name); got != a.Code {
			t.Errorf("Area %s: name %q resolves to %q", a.Code, a.Name, got)
		}
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		d    int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"sweden", "swedn", 1},
		{"ö", "o", 1},
	}
	for _, tt := range tests {
		if got := levenshtein(tt.a, tt.b); got != tt.d {
			t.Errorf("levenshtein(%q, %q): expected %d, got %d", tt.a, tt.b, tt.d, got)
		}
	}
}
