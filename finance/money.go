// Package finance holds the domain model of the bot: profiles, their money
// accounts, spending categories, and the records that move balances.
package finance

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Money is an amount in minor units (cents, kopecks). All arithmetic and
// storage use minor units; formatting happens at the edge.
type Money int64

// ErrBadAmount reports user input that does not parse as a money amount.
var ErrBadAmount = errors.New("finance: invalid amount")

// ParseAmount converts user input like "100.50" or "-3,7" into minor units.
// At most two decimal places are accepted; a third would silently change the
// value, so it is rejected instead.
func ParseAmount(input string) (Money, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrBadAmount)
	}
	s = strings.ReplaceAll(s, ",", ".")

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	if s == "" || s == "." {
		return 0, fmt.Errorf("%w: %q", ErrBadAmount, input)
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("%w: more than two decimal places in %q", ErrBadAmount, input)
	}
	for len(frac) < 2 {
		frac += "0"
	}

	// ParseInt alone would accept an inner sign ("1.-5") and turn garbage
	// into a wrong value; only bare digits may remain at this point.
	if !digitsOnly(whole) || !digitsOnly(frac) {
		return 0, fmt.Errorf("%w: %q", ErrBadAmount, input)
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadAmount, input)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadAmount, input)
	}

	v := units*100 + cents
	if neg {
		v = -v
	}
	return Money(v), nil
}

func digitsOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Format renders the amount with two decimal places, e.g. "100.50".
func (m Money) Format() string {
	v := int64(m)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// FormatWith appends a currency code: "100.50 USD".
func (m Money) FormatWith(currency string) string {
	if currency == "" {
		return m.Format()
	}
	return m.Format() + " " + currency
}
