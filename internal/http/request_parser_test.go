package http

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"kakeibo/internal/core"
)

func TestParseExpenseForm(t *testing.T) {
	jst, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	tests := []struct {
		name    string
		form    url.Values
		loc     *time.Location
		want    core.ExpenseInput
		wantErr bool
	}{
		{
			name: "auto time cash entry",
			form: url.Values{
				"category":     {"Food"},
				"payment_type": {"cash"},
				"amount":       {"1500"},
				"auto_time":    {"on"},
			},
			loc: time.UTC,
			want: core.ExpenseInput{
				UserID:   7,
				Category: "Food",
				Payment:  core.PaymentCash,
				Amount:   core.Money{Units: 1500},
				AutoTime: true,
			},
		},
		{
			name: "manual timestamp parsed in display timezone",
			form: url.Values{
				"category":      {"Transport"},
				"payment_type":  {"cashless"},
				"cashless_type": {"IC Card"},
				"amount":        {"210"},
				"spent_at":      {"2026-08-24T09:30"},
			},
			loc: jst,
			want: core.ExpenseInput{
				UserID:       7,
				Category:     "Transport",
				Payment:      core.PaymentCashless,
				CashlessType: "IC Card",
				Amount:       core.Money{Units: 210},
				SpentAt:      time.Date(2026, 8, 24, 9, 30, 0, 0, jst),
			},
		},
		{
			name: "missing manual timestamp falls back to auto time",
			form: url.Values{
				"category":     {"Food"},
				"payment_type": {"cash"},
				"amount":       {"800"},
			},
			loc: time.UTC,
			want: core.ExpenseInput{
				UserID:   7,
				Category: "Food",
				Payment:  core.PaymentCash,
				Amount:   core.Money{Units: 800},
				AutoTime: true,
			},
		},
		{
			name: "unparseable amount stages zero for ordered validation",
			form: url.Values{
				"category":     {"Food"},
				"payment_type": {"cash"},
				"amount":       {"12.50"},
				"auto_time":    {"on"},
			},
			loc: time.UTC,
			want: core.ExpenseInput{
				UserID:   7,
				Category: "Food",
				Payment:  core.PaymentCash,
				AutoTime: true,
			},
		},
		{
			name: "malformed manual timestamp fails",
			form: url.Values{
				"category":     {"Food"},
				"payment_type": {"cash"},
				"amount":       {"500"},
				"spent_at":     {"yesterday"},
			},
			loc:     time.UTC,
			wantErr: true,
		},
		{
			name: "whitespace trimmed from fields",
			form: url.Values{
				"category":     {"  Food  "},
				"payment_type": {"cash"},
				"amount":       {" 300 "},
				"comment":      {"  lunch  "},
				"auto_time":    {"on"},
			},
			loc: time.UTC,
			want: core.ExpenseInput{
				UserID:   7,
				Category: "Food",
				Payment:  core.PaymentCash,
				Amount:   core.Money{Units: 300},
				Comment:  "lunch",
				AutoTime: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseExpenseForm(tt.form, 7, tt.loc)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Category != tt.want.Category || got.Payment != tt.want.Payment ||
				got.CashlessType != tt.want.CashlessType || got.Amount != tt.want.Amount ||
				got.Comment != tt.want.Comment || got.AutoTime != tt.want.AutoTime ||
				got.UserID != tt.want.UserID {
				t.Errorf("parseExpenseForm() = %+v, want %+v", got, tt.want)
			}
			if !tt.want.AutoTime && !got.SpentAt.Equal(tt.want.SpentAt) {
				t.Errorf("SpentAt = %v, want %v", got.SpentAt, tt.want.SpentAt)
			}
		})
	}
}

func TestValidationMessageOrder(t *testing.T) {
	// An input missing everything reports the category first, matching
	// the form layout.
	in := core.ExpenseInput{}
	in.Normalize(time.Now())
	err := in.Validate()
	if !errors.Is(err, core.ErrEmptyCategory) {
		t.Errorf("first failure = %v, want ErrEmptyCategory", err)
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello  ", "hello"},
		{"a\x00b", "ab"},
		{"line1\nline2", "line1\nline2"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
