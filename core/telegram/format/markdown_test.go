package format

import "testing"

func TestEscapeMarkdownV1(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a_b*c", `a\_b\*c`},
		{"code `x` [link]", "code \\`x\\` \\[link]"},
		{`back\slash`, `back\\slash`},
		{"тайский счёт_1", `тайский счёт\_1`},
	}
	for _, tc := range cases {
		got, err := EscapeMarkdown(tc.in, MarkdownV1)
		if err != nil {
			t.Errorf("EscapeMarkdown(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("EscapeMarkdown(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEscapeMarkdownV2(t *testing.T) {
	got, err := EscapeMarkdown("a.b!c(d)", MarkdownV2)
	if err != nil {
		t.Fatal(err)
	}
	if want := `a\.b\!c\(d\)`; got != want {
		t.Errorf("EscapeMarkdown = %q, want %q", got, want)
	}
}

func TestEscapeMarkdownBadVersion(t *testing.T) {
	if _, err := EscapeMarkdown("x", 3); err == nil {
		t.Fatal("unsupported version accepted")
	}
}
