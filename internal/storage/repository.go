package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"kakeibo/internal/core"
	"kakeibo/internal/gateway"

	_ "modernc.org/sqlite"
)

// ErrNotFound aliases the gateway sentinel so callers can match on
// either package.
var ErrNotFound = gateway.ErrNotFound

// SQLiteRepository implements every gateway port against a local SQLite
// database. Validation happens before the gateway; the repository is a
// pass-through.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// InsertExpense implements gateway.ExpenseWriter
func (r *SQLiteRepository) InsertExpense(ctx context.Context, in core.ExpenseInput) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (user_id, spent_at, auto_time, category, payment_type, cashless_type, amount_units, comment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.UserID,
		in.SpentAt.UTC(),
		in.AutoTime,
		in.Category,
		string(in.Payment),
		nullIfEmpty(in.CashlessType),
		in.Amount.Units,
		nullIfEmpty(in.Comment),
	)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert expense id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", id,
		"user_id", in.UserID,
		"category", in.Category,
		"amount_units", in.Amount.Units)

	return id, nil
}

// DeleteExpense implements gateway.ExpenseDeleter
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id, ownerID int64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM expenses WHERE id = ? AND user_id = ?", id, ownerID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

const expenseColumns = "id, user_id, spent_at, auto_time, category, payment_type, cashless_type, amount_units, comment, created_at, updated_at"

// ListExpenses implements gateway.ExpenseLister
func (r *SQLiteRepository) ListExpenses(ctx context.Context, ownerID int64) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE user_id = ? ORDER BY spent_at DESC, id DESC", ownerID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// ExpenseByID implements gateway.ExpenseLister
func (r *SQLiteRepository) ExpenseByID(ctx context.Context, id, ownerID int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ? AND user_id = ?", id, ownerID)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense by id: %w", err)
	}
	return e, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e            core.Expense
		payment      string
		cashlessType sql.NullString
		comment      sql.NullString
	)
	err := row.Scan(&e.ID, &e.UserID, &e.SpentAt, &e.AutoTime, &e.Category,
		&payment, &cashlessType, &e.Amount.Units, &comment, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return core.Expense{}, err
	}
	e.SpentAt = e.SpentAt.UTC()
	e.Payment = core.PaymentType(payment)
	e.CashlessType = cashlessType.String
	e.Comment = comment.String
	return e, nil
}

// ActiveCategories implements gateway.ReferenceReader
func (r *SQLiteRepository) ActiveCategories(ctx context.Context) ([]core.Category, error) {
	return r.queryCategories(ctx,
		"SELECT id, name, icon, active FROM categories WHERE active = 1 ORDER BY name ASC")
}

// AllCategories implements gateway.ReferenceReader. Inactive rows are
// included on purpose: historical expenses may reference a deactivated
// category and the listing still needs the full set for its icon lookup.
func (r *SQLiteRepository) AllCategories(ctx context.Context) ([]core.Category, error) {
	return r.queryCategories(ctx,
		"SELECT id, name, icon, active FROM categories ORDER BY name ASC")
}

func (r *SQLiteRepository) queryCategories(ctx context.Context, query string) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.Active); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// ActiveCashlessTypes implements gateway.ReferenceReader
func (r *SQLiteRepository) ActiveCashlessTypes(ctx context.Context) ([]core.CashlessType, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, active FROM cashless_types WHERE active = 1 ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("query cashless types: %w", err)
	}
	defer rows.Close()

	var types []core.CashlessType
	for rows.Next() {
		var t core.CashlessType
		if err := rows.Scan(&t.ID, &t.Name, &t.Active); err != nil {
			return nil, fmt.Errorf("scan cashless type: %w", err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// SetCategoryActive flips a category's active flag. Used by tests and
// operational tooling; there is no mutation path in the web UI.
func (r *SQLiteRepository) SetCategoryActive(ctx context.Context, name string, active bool) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE categories SET active = ? WHERE name = ?", active, name)
	if err != nil {
		return fmt.Errorf("set category active: %w", err)
	}
	return nil
}

// CreateUser implements gateway.UserStore
func (r *SQLiteRepository) CreateUser(ctx context.Context, name, passwordHash string) (core.User, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (name, password_hash) VALUES (?, ?)", name, passwordHash)
	if err != nil {
		return core.User{}, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.User{}, fmt.Errorf("create user id: %w", err)
	}
	return r.UserByID(ctx, id)
}

// UserByName implements gateway.UserStore
func (r *SQLiteRepository) UserByName(ctx context.Context, name string) (core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		"SELECT id, name, password_hash, created_at FROM users WHERE name = ?", name))
}

// UserByID implements gateway.UserStore
func (r *SQLiteRepository) UserByID(ctx context.Context, id int64) (core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		"SELECT id, name, password_hash, created_at FROM users WHERE id = ?", id))
}

func (r *SQLiteRepository) scanUser(row *sql.Row) (core.User, error) {
	var u core.User
	err := row.Scan(&u.ID, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

// CreateSession implements gateway.SessionStore
func (r *SQLiteRepository) CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)",
		token, userID, expiresAt.UTC())
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// SessionUser implements gateway.SessionStore
func (r *SQLiteRepository) SessionUser(ctx context.Context, token string) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx, `
		SELECT u.id, u.name, u.password_hash, u.created_at
		FROM sessions s
		JOIN users u ON s.user_id = u.id
		WHERE s.token = ? AND s.expires_at > ?`, token, time.Now().UTC()).
		Scan(&u.ID, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("session user: %w", err)
	}
	return u, nil
}

// RenewSession implements gateway.SessionStore
func (r *SQLiteRepository) RenewSession(ctx context.Context, token string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE sessions SET expires_at = ? WHERE token = ?", expiresAt.UTC(), token)
	if err != nil {
		return fmt.Errorf("renew session: %w", err)
	}
	return nil
}

// DeleteSession implements gateway.SessionStore
func (r *SQLiteRepository) DeleteSession(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions implements gateway.SessionStore
func (r *SQLiteRepository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE expires_at <= ?", time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions rows affected: %w", err)
	}
	return n, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
