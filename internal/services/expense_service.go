// Package services provides business logic and orchestration services.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"kakeibo/internal/amqp"
	"kakeibo/internal/core"
	"kakeibo/internal/gateway"
)

// Store is the slice of the gateway the service needs.
type Store interface {
	gateway.ExpenseWriter
	gateway.ExpenseDeleter
	gateway.ExpenseLister
}

// EventPublisher pushes expense change notifications to the broker.
// *amqp.Client satisfies it; tests use a recorder.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, msg *amqp.ExpenseEventMessage) error
}

// ExpenseService orchestrates expense writes across the store and the
// broker, and owns the list revision counter. Every successful write
// bumps the revision; list snapshots carry the revision they were read
// under so the client can discard refreshes that arrive out of order.
type ExpenseService struct {
	store     Store
	publisher EventPublisher
	revision  atomic.Int64
}

func NewExpenseService(store Store, publisher EventPublisher) *ExpenseService {
	return &ExpenseService{
		store:     store,
		publisher: publisher,
	}
}

// Revision returns the current list revision.
func (s *ExpenseService) Revision() int64 {
	return s.revision.Load()
}

// CreateExpense normalizes and validates the staged input, persists it,
// bumps the revision and publishes a created event. The returned
// revision is the one that first includes the new row.
func (s *ExpenseService) CreateExpense(ctx context.Context, in core.ExpenseInput, now time.Time) (int64, int64, error) {
	// Ownership is checked before any field validation.
	if in.UserID == 0 {
		return 0, 0, core.ErrAuthRequired
	}

	in.Normalize(now)
	if err := in.Validate(); err != nil {
		return 0, 0, err
	}

	id, err := s.store.InsertExpense(ctx, in)
	if err != nil {
		return 0, 0, fmt.Errorf("save expense: %w", err)
	}

	rev := s.revision.Add(1)

	if err := s.publish(ctx, amqp.NewExpenseEventMessage(amqp.EventExpenseCreated, id, in.UserID, rev)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish created event",
			"id", id, "error", err)
		// The row is saved; event delivery never fails the request.
	}

	return id, rev, nil
}

// DeleteExpense removes an owned row, bumps the revision and publishes a
// deleted event. Returns gateway.ErrNotFound when the row does not exist
// or belongs to another user.
func (s *ExpenseService) DeleteExpense(ctx context.Context, id, ownerID int64) (int64, error) {
	if err := s.store.DeleteExpense(ctx, id, ownerID); err != nil {
		return 0, err
	}

	rev := s.revision.Add(1)

	if err := s.publish(ctx, amqp.NewExpenseEventMessage(amqp.EventExpenseDeleted, id, ownerID, rev)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish deleted event",
			"id", id, "error", err)
	}

	return rev, nil
}

// ListExpenses returns the owner's full expense set with the revision it
// was read under. The revision is sampled before the fetch, so a write
// racing the read can only make the snapshot's label conservative; the
// write's own refresh carries the higher revision.
func (s *ExpenseService) ListExpenses(ctx context.Context, ownerID int64) ([]core.Expense, int64, error) {
	rev := s.revision.Load()
	expenses, err := s.store.ListExpenses(ctx, ownerID)
	if err != nil {
		return nil, 0, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, rev, nil
}

// ExpenseByID returns a single owned row, for the delete confirmation.
func (s *ExpenseService) ExpenseByID(ctx context.Context, id, ownerID int64) (core.Expense, error) {
	return s.store.ExpenseByID(ctx, id, ownerID)
}

func (s *ExpenseService) publish(ctx context.Context, msg *amqp.ExpenseEventMessage) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Event publisher not available, skipping expense event",
			"event", msg.Event, "id", msg.ID)
		return nil
	}
	return s.publisher.PublishExpenseEvent(ctx, msg)
}
