package slug

import "testing"

func TestMake(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Japan", "japan"},
		{"  France  ", "france"},
		{"New Zealand", "new-zealand"},
		{"Papua   New   Guinea", "papua-new-guinea"},
		{"CÔTE D'IVOIRE", "côte-d'ivoire"}, // diacritics and punctuation kept
		{"already-slugged", "already-slugged"},
		{"", ""},
		{"   ", ""},
	}

	for _, c := range cases {
		if got := Make(c.in); got != c.want {
			t.Errorf("Make(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMakeIdempotent(t *testing.T) {
	inputs := []string{"Japan", "  New  Zealand ", "côte d'ivoire", "a b-c  d", ""}
	for _, in := range inputs {
		once := Make(in)
		twice := Make(once)
		if once != twice {
			t.Errorf("Make not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestDisplay(t *testing.T) {
	if got := Display("new-zealand"); got != "new zealand" {
		t.Errorf("Display(new-zealand) = %q", got)
	}
	// Lossy round trip: original hyphens become spaces too.
	if got := Display(Make("Guinea-Bissau")); got != "guinea bissau" {
		t.Errorf("Display(Make(Guinea-Bissau)) = %q", got)
	}
}
