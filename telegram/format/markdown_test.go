package format

import "testing"

func TestEscapeMarkdown(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"foo_bar", `foo\_bar`},
		{"*bold*", `\*bold\*`},
		{"[half a link", `\[half a link`},
		{"back`tick", "back\\`tick"},
		{"", ""},
	}
	for _, c := range cases {
		if got := EscapeMarkdown(c.in); got != c.want {
			t.Errorf("EscapeMarkdown(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
