package types

import "testing"

func TestSplitStreet(t *testing.T) {
	cases := []struct {
		in     string
		name   string
		number string
	}{
		{"Hoofdstraat 12", "Hoofdstraat", "12"},
		{"Main Street 12a", "Main Street", "12a"},
		{"Dorpsweg 1-3", "Dorpsweg", "1-3"},
		{"Kanaalkade 12a - 14", "Kanaalkade", "12a - 14"},
		{"Lindenlaan", "Lindenlaan", ""},
		{"Main St 12 apt", "Main St", "12"},
		{"  Plein 1944 100  ", "Plein", "1944"},
	}
	for _, tc := range cases {
		name, number := SplitStreet(tc.in)
		if name != tc.name || number != tc.number {
			t.Fatalf("SplitStreet(%q) = (%q, %q), want (%q, %q)", tc.in, name, number, tc.name, tc.number)
		}
	}
}
