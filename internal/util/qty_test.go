package util

import "testing"

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"2", "2"},
		{"1.5", "1.5"},
		{"3x", "3"},
		{" 4 ", "4"},
		{"", "1"},
		{"abc", "1"},
		{"0", "1"},
		{"-2", "1"},
		{"-0.5", "1"},
	}
	for _, tc := range cases {
		if got := ParseQuantity(tc.input); got.String() != tc.want {
			t.Fatalf("%q: got %s want %s", tc.input, got.String(), tc.want)
		}
	}
}

func TestQuantityValid(t *testing.T) {
	valid := []string{"2", "0.25", "10 ct"}
	for _, input := range valid {
		if !QuantityValid(input) {
			t.Fatalf("%q: expected valid", input)
		}
	}
	invalid := []string{"", "abc", "0", "-2"}
	for _, input := range invalid {
		if QuantityValid(input) {
			t.Fatalf("%q: expected invalid", input)
		}
	}
}
