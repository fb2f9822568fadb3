package http

import (
	"fmt"
	"net/url"
	"time"

	"kakeibo/internal/core"
)

// datetimeLocalLayout matches the value format of <input type="datetime-local">.
const datetimeLocalLayout = "2006-01-02T15:04"

// parseExpenseForm maps the entry form onto a staged input. An
// unparseable amount stages a zero value so Validate reports it in form
// order, after category and payment checks. Only a malformed manual
// timestamp fails here.
func parseExpenseForm(form url.Values, userID int64, loc *time.Location) (core.ExpenseInput, error) {
	in := core.ExpenseInput{
		UserID:       userID,
		Category:     sanitizeInput(form.Get("category")),
		Payment:      core.PaymentType(sanitizeInput(form.Get("payment_type"))),
		CashlessType: sanitizeInput(form.Get("cashless_type")),
		Comment:      sanitizeInput(form.Get("comment")),
		AutoTime:     form.Get("auto_time") != "",
	}

	if amount, err := core.ParseAmount(sanitizeInput(form.Get("amount"))); err == nil {
		in.Amount = amount
	}

	if !in.AutoTime {
		raw := sanitizeInput(form.Get("spent_at"))
		if raw == "" {
			// No manual timestamp staged; fall back to the submission
			// instant.
			in.AutoTime = true
			return in, nil
		}
		spentAt, err := time.ParseInLocation(datetimeLocalLayout, raw, loc)
		if err != nil {
			return core.ExpenseInput{}, fmt.Errorf("parse spent_at %q: %w", raw, err)
		}
		in.SpentAt = spentAt
	}

	return in, nil
}
