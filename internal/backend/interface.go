// Package backend selects and wires a concrete data store behind the
// gateway ports.
package backend

import (
	"context"

	"kakeibo/internal/gateway"
	"kakeibo/internal/services"
)

// Backend is the unified store surface the application needs: expense
// reads and writes plus the reference, user and session ports.
type Backend interface {
	services.Store
	gateway.ReferenceReader
	gateway.UserStore
	gateway.SessionStore
}

// CleanupFunc releases backend resources at shutdown.
type CleanupFunc func() error

// BackendResult bundles the store, the expense service built on top of
// it, and an optional cleanup function.
type BackendResult struct {
	Backend Backend
	Service *services.ExpenseService
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation.
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend.
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
