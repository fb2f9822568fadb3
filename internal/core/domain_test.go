package core

import (
	"errors"
	"testing"
	"time"
)

func TestExpenseInputValidateOrder(t *testing.T) {
	good := ExpenseInput{
		Category: "Food",
		Payment:  PaymentCash,
		Amount:   Money{Units: 100},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		in   ExpenseInput
		want error
	}{
		{
			name: "empty category wins over bad amount",
			in:   ExpenseInput{Category: "", Payment: PaymentCash, Amount: Money{Units: 0}},
			want: ErrEmptyCategory,
		},
		{
			name: "cashless without sub-type",
			in:   ExpenseInput{Category: "Food", Payment: PaymentCashless, Amount: Money{Units: 100}},
			want: ErrEmptyCashlessType,
		},
		{
			name: "zero amount",
			in:   ExpenseInput{Category: "Food", Payment: PaymentCash, Amount: Money{Units: 0}},
			want: ErrInvalidAmount,
		},
		{
			name: "negative amount",
			in:   ExpenseInput{Category: "Food", Payment: PaymentCash, Amount: Money{Units: -5}},
			want: ErrInvalidAmount,
		},
		{
			name: "unknown payment type",
			in:   ExpenseInput{Category: "Food", Payment: "check", Amount: Money{Units: 100}},
			want: ErrInvalidPaymentType,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.in.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestNormalizeAutoTime(t *testing.T) {
	staged := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	now := time.Date(2026, 8, 24, 12, 34, 56, 0, time.UTC)

	in := ExpenseInput{SpentAt: staged, AutoTime: true}
	in.Normalize(now)
	if !in.SpentAt.Equal(now) {
		t.Fatalf("auto-time should stamp submission instant, got %v", in.SpentAt)
	}

	in = ExpenseInput{SpentAt: staged, AutoTime: false}
	in.Normalize(now)
	if !in.SpentAt.Equal(staged) {
		t.Fatalf("manual time should be preserved, got %v", in.SpentAt)
	}
}

func TestNormalizeCashDropsCashlessType(t *testing.T) {
	in := ExpenseInput{Payment: PaymentCash, CashlessType: "Credit Card"}
	in.Normalize(time.Now())
	if in.CashlessType != "" {
		t.Fatalf("cash payment must drop cashless sub-type, got %q", in.CashlessType)
	}

	in = ExpenseInput{Payment: PaymentCashless, CashlessType: " IC Card "}
	in.Normalize(time.Now())
	if in.CashlessType != "IC Card" {
		t.Fatalf("cashless sub-type should be trimmed, got %q", in.CashlessType)
	}
}

func TestNormalizeBlankComment(t *testing.T) {
	in := ExpenseInput{Comment: "   "}
	in.Normalize(time.Now())
	if in.Comment != "" {
		t.Fatalf("blank comment should collapse to absent, got %q", in.Comment)
	}
}

func TestResolveIcon(t *testing.T) {
	cats := []Category{
		{Name: "Food", Icon: "🍜", Active: true},
		{Name: "Misc", Icon: "📦", Active: false},
		{Name: "Transport", Icon: "", Active: true},
	}

	cases := []struct {
		name string
		want string
	}{
		{"Food", "🍜"},
		{"Misc", DefaultIcon},      // deactivated category falls back
		{"Transport", DefaultIcon}, // active but no glyph
		{"Unknown", DefaultIcon},
	}
	for _, tc := range cases {
		if got := ResolveIcon(cats, tc.name); got != tc.want {
			t.Fatalf("ResolveIcon(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}
