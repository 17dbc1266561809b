package stemmer

import "testing"

func TestStem(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"network", "network"},
		{"networks", "network"},
		{"security", "secur"},
		{"policy", "polici"},
		{"policies", "polici"},
		{"Running", "run"},
		{"is", "is"},
		{"communication", "commun"},
		{"generalization", "gener"},
		{"firewall", "firewal"},
		{"secure", "secur"},
		{"relational", "relat"},
		{"hopping", "hop"},
	}
	for _, tt := range tests {
		if got := Stem(tt.in); got != tt.want {
			t.Errorf("Stem(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStemNeverEndsWithApostrophe(t *testing.T) {
	for _, in := range []string{"students'", "dogs'", "o'"} {
		got := Stem(in)
		if len(got) > 0 && got[len(got)-1] == '\'' {
			t.Errorf("Stem(%q) = %q still ends with an apostrophe", in, got)
		}
	}
}
