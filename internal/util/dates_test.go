package util

import "testing"

func TestParseDate(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"2024-03-15", "2024-03-15"},
		{"03/15/2024", "2024-03-15"},
		{"3/5/2024", "2024-03-05"},
		{"March 15, 2024", "2024-03-15"},
		{"Mar 15 2024", "2024-03-15"},
		{"2024/03/15", "2024-03-15"},
		{"03-15-2024", "2024-03-15"},
	}
	for _, tc := range cases {
		got := ParseDate(tc.input)
		if got == nil {
			t.Fatalf("%q: no parse", tc.input)
		}
		if got.Format("2006-01-02") != tc.want {
			t.Fatalf("%q: got %s want %s", tc.input, got.Format("2006-01-02"), tc.want)
		}
	}
}

func TestParseDateAmbiguousPrefersMonthFirst(t *testing.T) {
	got := ParseDate("03/04/2024")
	if got == nil {
		t.Fatal("no parse")
	}
	if got.Format("2006-01-02") != "2024-03-04" {
		t.Fatalf("got %s", got.Format("2006-01-02"))
	}
}

func TestParseDateInvalid(t *testing.T) {
	for _, input := range []string{"", "yesterday", "13/32/2024"} {
		if got := ParseDate(input); got != nil {
			t.Fatalf("%q: expected nil, got %v", input, got)
		}
	}
}
