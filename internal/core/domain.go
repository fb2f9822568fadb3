package core

import (
	"errors"
	"strings"
	"time"
)

const (
	PaymentCash     PaymentType = "cash"
	PaymentCashless PaymentType = "cashless"
)

// DefaultIcon is the glyph shown when an expense's stored category name
// no longer matches any fetched category row.
const DefaultIcon = "💳"

type (
	PaymentType string

	// Expense is a persisted expense row. Rows are created once and
	// deleted individually; the application never updates them.
	Expense struct {
		ID           int64
		UserID       int64
		SpentAt      time.Time // stored UTC
		AutoTime     bool
		Category     string // stored display name, not a foreign key
		Payment      PaymentType
		CashlessType string // empty unless Payment is cashless
		Amount       Money
		Comment      string // empty means absent
		CreatedAt    time.Time
		UpdatedAt    time.Time
	}

	// ExpenseInput is the staged form state of the entry component,
	// prior to normalization and validation.
	ExpenseInput struct {
		UserID       int64
		SpentAt      time.Time
		AutoTime     bool
		Category     string
		Payment      PaymentType
		CashlessType string
		Amount       Money
		Comment      string
	}

	// Category is a read-only reference row used for selection and icon
	// lookup. Expenses keep the name they were created with even after
	// the category is renamed or deactivated.
	Category struct {
		ID     int64
		Name   string
		Icon   string
		Active bool
	}

	// CashlessType is a read-only reference row naming a cashless
	// payment sub-type (credit card, IC card, QR pay, ...).
	CashlessType struct {
		ID     int64
		Name   string
		Active bool
	}

	User struct {
		ID           int64
		Name         string
		PasswordHash string
		CreatedAt    time.Time
	}
)

var (
	ErrAuthRequired       = errors.New("authentication required")
	ErrEmptyCategory      = errors.New("empty category")
	ErrEmptyCashlessType  = errors.New("empty cashless type")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidPaymentType = errors.New("invalid payment type")
)

func (p PaymentType) Valid() bool {
	return p == PaymentCash || p == PaymentCashless
}

// Normalize applies the entry component's normalization rules in place:
// auto-time stamps the submission instant over any manually staged value,
// a cash payment drops any leftover cashless sub-type selection, and a
// blank comment collapses to absent.
func (in *ExpenseInput) Normalize(now time.Time) {
	if in.AutoTime {
		in.SpentAt = now.UTC()
	} else {
		in.SpentAt = in.SpentAt.UTC()
	}
	in.Category = strings.TrimSpace(in.Category)
	in.CashlessType = strings.TrimSpace(in.CashlessType)
	if in.Payment == PaymentCash {
		in.CashlessType = ""
	}
	in.Comment = strings.TrimSpace(in.Comment)
}

// Validate checks the staged input, first failure wins. The order mirrors
// the entry form: category, cashless sub-type, amount.
func (in ExpenseInput) Validate() error {
	if in.Category == "" {
		return ErrEmptyCategory
	}
	if !in.Payment.Valid() {
		return ErrInvalidPaymentType
	}
	if in.Payment == PaymentCashless && in.CashlessType == "" {
		return ErrEmptyCashlessType
	}
	if err := in.Amount.Validate(); err != nil {
		return err
	}
	return nil
}

// ResolveIcon looks up the stored category name against the fetched
// category list and returns its glyph, or DefaultIcon when no active
// match exists. The lookup is recomputed on every render pass.
func ResolveIcon(categories []Category, name string) string {
	for _, c := range categories {
		if c.Active && c.Name == name {
			if c.Icon != "" {
				return c.Icon
			}
			break
		}
	}
	return DefaultIcon
}
