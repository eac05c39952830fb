package sanitize

import "testing"

func TestText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  MacBook   Pro\n2019 ", "MacBook Pro 2019"},
		{"<b>Dell</b> XPS", "Dell XPS"},
		{"&lt;script&gt;alert(1)&lt;/script&gt;Flat 4", "alert(1)Flat 4"},
		{"Tom &amp; Jerry Apartments", "Tom & Jerry Apartments"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := Text(tc.in); got != tc.want {
			t.Fatalf("Text(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}
