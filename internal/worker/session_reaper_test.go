package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"kakeibo/internal/gateway/memory"
)

func TestSessionReaperSweepsOnStart(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	u, err := store.CreateUser(ctx, "alice", "hash")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if err := store.CreateSession(ctx, "stale", u.ID, time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if err := store.CreateSession(ctx, "fresh", u.ID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	reaper := NewSessionReaper(store, time.Hour)
	runCtx, cancel := context.WithCancel(ctx)

	done := make(chan error, 1)
	go func() {
		done <- reaper.Run(runCtx)
	}()

	// The start-up sweep runs before the first tick; give it a moment
	// and then stop the loop.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop after cancel")
	}

	if _, err := store.SessionUser(ctx, "fresh"); err != nil {
		t.Errorf("fresh session should survive the sweep: %v", err)
	}
	n, err := store.DeleteExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("DeleteExpiredSessions failed: %v", err)
	}
	if n != 0 {
		t.Errorf("start-up sweep left %d expired sessions", n)
	}
}

func TestNewSessionReaperDefaultsInterval(t *testing.T) {
	r := NewSessionReaper(memory.New(), 0)
	if r.interval != DefaultReapInterval {
		t.Errorf("interval = %v, want %v", r.interval, DefaultReapInterval)
	}
}
