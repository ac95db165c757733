package finance

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want Money
	}{
		{"100.50", 10050},
		{"100,50", 10050},
		{"100", 10000},
		{"0.05", 5},
		{".5", 50},
		{"7.1", 710},
		{"-3.70", -370},
		{"+12", 1200},
		{" 42 ", 4200},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if err != nil {
			t.Errorf("ParseAmount(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseAmount(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseAmountRejects(t *testing.T) {
	rejects := []string{
		"", " ", ".", "-", "1.234", "abc", "10.5x", "1..2",
		// signs buried past the leading position must not reach ParseInt
		"1.-5", "0.-1", "1.+5", "--5", "+-5", "1e2",
	}
	for _, in := range rejects {
		if _, err := ParseAmount(in); !errors.Is(err, ErrBadAmount) {
			t.Errorf("ParseAmount(%q) accepted, err=%v", in, err)
		}
	}
}

func TestMoneyFormat(t *testing.T) {
	cases := []struct {
		in   Money
		want string
	}{
		{10050, "100.50"},
		{5, "0.05"},
		{-370, "-3.70"},
		{0, "0.00"},
	}
	for _, tc := range cases {
		if got := tc.in.Format(); got != tc.want {
			t.Errorf("%d.Format() = %q, want %q", tc.in, got, tc.want)
		}
	}
	if got := Money(10050).FormatWith("USD"); got != "100.50 USD" {
		t.Errorf("FormatWith = %q", got)
	}
}
