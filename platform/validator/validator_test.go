package validator

import "testing"

func TestPostalCodeTag(t *testing.T) {
	val := New()

	cases := []struct {
		in    string
		valid bool
	}{
		{"560001", true},
		{"1012 AB", true},
		{"SW1A-1AA", true},
		{"1", false},
		{"56000!", false},
		{"", false},
	}
	for _, tc := range cases {
		err := val.Var(tc.in, "postalcode")
		if tc.valid && err != nil {
			t.Fatalf("expected %q to be valid, got %v", tc.in, err)
		}
		if !tc.valid && err == nil {
			t.Fatalf("expected %q to be rejected", tc.in)
		}
	}
}
