// Package core holds the expense domain model: money handling, input
// normalization and validation, and the month/day aggregation report.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// Money is an amount in the smallest currency unit. All arithmetic is
// integer arithmetic; there is no floating-point accumulation anywhere.
type Money struct {
	Units int64
}

func (m Money) Validate() error {
	if m.Units <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Units: m.Units + o.Units}
}

// ParseAmount converts a form value to Money. Only positive integers are
// accepted: no sign, no decimal separator, no grouping characters.
//
// Examples:
//
//	ParseAmount("25000") -> Money{25000}, nil
//	ParseAmount("0")     -> ErrInvalidAmount
//	ParseAmount("12.5")  -> ErrInvalidAmount
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if v <= 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Units: v}, nil
}

// Format renders the amount with thousands separators for display,
// e.g. "¥25,000". Calculations always use Units directly.
func (m Money) Format() string {
	units := m.Units
	neg := units < 0
	if neg {
		units = -units
	}
	digits := strconv.FormatInt(units, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("¥")
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
		if len(digits) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteByte(',')
		}
	}
	return b.String()
}
