// Package gateway defines the typed capability surface of the data store.
// The rest of the application depends on these ports, never on a concrete
// backend.
package gateway

import (
	"context"
	"errors"
	"time"

	"kakeibo/internal/core"
)

// ErrNotFound is returned by any port when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Ports for outbound adapters.
type (
	ExpenseWriter interface {
		// InsertExpense persists a normalized, validated input and
		// returns the new row's identifier.
		InsertExpense(ctx context.Context, in core.ExpenseInput) (int64, error)
	}

	ExpenseDeleter interface {
		// DeleteExpense removes a row by identifier, scoped to its owner.
		DeleteExpense(ctx context.Context, id, ownerID int64) error
	}

	// ExpenseLister returns a user's full expense set.
	ExpenseLister interface {
		// ListExpenses returns all of the owner's expenses ordered by
		// spent_at descending.
		ListExpenses(ctx context.Context, ownerID int64) ([]core.Expense, error)
		// ExpenseByID returns a single owned row, for delete confirmation.
		ExpenseByID(ctx context.Context, id, ownerID int64) (core.Expense, error)
	}

	// ReferenceReader loads the read-only lookup rows that back the
	// entry form's selectors and the listing's icon lookup.
	ReferenceReader interface {
		// ActiveCategories returns active categories ordered by name.
		ActiveCategories(ctx context.Context) ([]core.Category, error)
		// AllCategories returns every category row, inactive included,
		// so historical expenses can still resolve an icon fallback.
		AllCategories(ctx context.Context) ([]core.Category, error)
		// ActiveCashlessTypes returns active sub-types ordered by name.
		ActiveCashlessTypes(ctx context.Context) ([]core.CashlessType, error)
	}

	UserStore interface {
		CreateUser(ctx context.Context, name, passwordHash string) (core.User, error)
		UserByName(ctx context.Context, name string) (core.User, error)
		UserByID(ctx context.Context, id int64) (core.User, error)
	}

	// SessionStore resolves the current user. Sessions are read fresh on
	// every request; there is no in-process caching of auth state.
	SessionStore interface {
		CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error
		SessionUser(ctx context.Context, token string) (core.User, error)
		RenewSession(ctx context.Context, token string, expiresAt time.Time) error
		DeleteSession(ctx context.Context, token string) error
		DeleteExpiredSessions(ctx context.Context) (int64, error)
	}
)
