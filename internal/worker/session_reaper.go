// Package worker hosts background loops that run alongside the web
// server.
package worker

import (
	"context"
	"log/slog"
	"time"

	"kakeibo/internal/gateway"
)

const DefaultReapInterval = 15 * time.Minute

// SessionReaper periodically deletes expired session rows so the
// sessions table does not grow without bound. Expired sessions are
// already invisible to lookups; the reaper is pure housekeeping.
type SessionReaper struct {
	sessions gateway.SessionStore
	interval time.Duration
}

func NewSessionReaper(sessions gateway.SessionStore, interval time.Duration) *SessionReaper {
	if interval <= 0 {
		interval = DefaultReapInterval
	}
	return &SessionReaper{
		sessions: sessions,
		interval: interval,
	}
}

// Run blocks until the context is cancelled, reaping on a ticker. One
// sweep runs immediately on start.
func (r *SessionReaper) Run(ctx context.Context) error {
	r.reap(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping session reaper", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			r.reap(ctx)
		}
	}
}

func (r *SessionReaper) reap(ctx context.Context) {
	n, err := r.sessions.DeleteExpiredSessions(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to delete expired sessions", "error", err)
		return
	}
	if n > 0 {
		slog.InfoContext(ctx, "Deleted expired sessions", "count", n)
	}
}
