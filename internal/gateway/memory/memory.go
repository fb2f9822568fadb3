// Package memory is an in-process backend used for local development and
// handler tests. It implements every gateway port behind a single mutex.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"kakeibo/internal/core"
	"kakeibo/internal/gateway"
)

type session struct {
	userID    int64
	expiresAt time.Time
}

type Store struct {
	mu         sync.Mutex
	nextID     int64
	nextUserID int64
	expenses   []core.Expense
	categories []core.Category
	cashless   []core.CashlessType
	users      map[int64]core.User
	sessions   map[string]session
}

// New returns a store seeded with the same reference rows the SQLite
// migrations ship.
func New() *Store {
	s := &Store{
		users:    map[int64]core.User{},
		sessions: map[string]session{},
	}
	names := []struct {
		name string
		icon string
	}{
		{"Clothing", "👕"},
		{"Entertainment", "🎮"},
		{"Food", "🍜"},
		{"Gifts", "🎁"},
		{"Groceries", "🛒"},
		{"Health", "💊"},
		{"Housing", "🏠"},
		{"Misc", "📦"},
		{"Transport", "🚃"},
		{"Utilities", "💡"},
	}
	for i, n := range names {
		s.categories = append(s.categories, core.Category{
			ID: int64(i + 1), Name: n.name, Icon: n.icon, Active: true,
		})
	}
	for i, n := range []string{"Bank Transfer", "Credit Card", "Debit Card", "IC Card", "QR Pay"} {
		s.cashless = append(s.cashless, core.CashlessType{ID: int64(i + 1), Name: n, Active: true})
	}
	return s
}

func (s *Store) InsertExpense(_ context.Context, in core.ExpenseInput) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	now := time.Now().UTC()
	s.expenses = append(s.expenses, core.Expense{
		ID:           s.nextID,
		UserID:       in.UserID,
		SpentAt:      in.SpentAt.UTC(),
		AutoTime:     in.AutoTime,
		Category:     in.Category,
		Payment:      in.Payment,
		CashlessType: in.CashlessType,
		Amount:       in.Amount,
		Comment:      in.Comment,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	return s.nextID, nil
}

func (s *Store) DeleteExpense(_ context.Context, id, ownerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.expenses {
		if e.ID == id && e.UserID == ownerID {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return nil
		}
	}
	return gateway.ErrNotFound
}

func (s *Store) ListExpenses(_ context.Context, ownerID int64) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Expense
	for _, e := range s.expenses {
		if e.UserID == ownerID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].SpentAt.Equal(out[j].SpentAt) {
			return out[i].SpentAt.After(out[j].SpentAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) ExpenseByID(_ context.Context, id, ownerID int64) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.expenses {
		if e.ID == id && e.UserID == ownerID {
			return e, nil
		}
	}
	return core.Expense{}, gateway.ErrNotFound
}

func (s *Store) ActiveCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Category
	for _, c := range s.categories {
		if c.Active {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) AllCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Category(nil), s.categories...), nil
}

func (s *Store) ActiveCashlessTypes(_ context.Context) ([]core.CashlessType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.CashlessType
	for _, t := range s.cashless {
		if t.Active {
			out = append(out, t)
		}
	}
	return out, nil
}

// SetCategoryActive flips a category's active flag. Mirrors the SQLite
// repository helper so handler tests can exercise the icon fallback.
func (s *Store) SetCategoryActive(_ context.Context, name string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].Name == name {
			s.categories[i].Active = active
			return nil
		}
	}
	return gateway.ErrNotFound
}

func (s *Store) CreateUser(_ context.Context, name, passwordHash string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Name == name {
			return core.User{}, fmt.Errorf("user %q already exists", name)
		}
	}
	s.nextUserID++
	u := core.User{
		ID:           s.nextUserID,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *Store) UserByName(_ context.Context, name string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Name == name {
			return u, nil
		}
	}
	return core.User{}, gateway.ErrNotFound
}

func (s *Store) UserByID(_ context.Context, id int64) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return core.User{}, gateway.ErrNotFound
	}
	return u, nil
}

func (s *Store) CreateSession(_ context.Context, token string, userID int64, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = session{userID: userID, expiresAt: expiresAt}
	return nil
}

func (s *Store) SessionUser(_ context.Context, token string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok || !sess.expiresAt.After(time.Now()) {
		return core.User{}, gateway.ErrNotFound
	}
	u, ok := s.users[sess.userID]
	if !ok {
		return core.User{}, gateway.ErrNotFound
	}
	return u, nil
}

func (s *Store) RenewSession(_ context.Context, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return gateway.ErrNotFound
	}
	sess.expiresAt = expiresAt
	s.sessions[token] = sess
	return nil
}

func (s *Store) DeleteSession(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *Store) DeleteExpiredSessions(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	var n int64
	for tok, sess := range s.sessions {
		if !sess.expiresAt.After(now) {
			delete(s.sessions, tok)
			n++
		}
	}
	return n, nil
}
