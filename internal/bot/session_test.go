package bot

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Lenagitpus/hostcheckbot/internal/domain"
)

func TestSessionStore_Lifecycle(t *testing.T) {
	s := NewSessionStore(time.Minute)
	if got := s.Mode(1); got != domain.ModeNone {
		t.Fatalf("unknown user: want none, got %v", got)
	}

	first := s.Touch(1)
	if first.Mode != domain.ModeNone || first.StartedAt.IsZero() {
		t.Fatalf("first contact session wrong: %+v", first)
	}
	if s.Len() != 1 {
		t.Fatalf("want 1 session, got %d", s.Len())
	}

	s.SetMode(1, domain.ModePayload)
	if got := s.Mode(1); got != domain.ModePayload {
		t.Fatalf("want payload mode, got %v", got)
	}

	s.Reset(1)
	if got := s.Mode(1); got != domain.ModeNone {
		t.Fatalf("after reset: want none, got %v", got)
	}
	if s.Len() != 0 {
		t.Fatalf("after reset: want 0 sessions, got %d", s.Len())
	}
}

func TestSessionStore_SetModeRestartsClock(t *testing.T) {
	s := NewSessionStore(time.Minute)
	s.SetMode(1, domain.ModeMethod)
	before := s.Touch(1).StartedAt
	time.Sleep(5 * time.Millisecond)
	s.SetMode(1, domain.ModeActive)
	after := s.Touch(1).StartedAt
	if !after.After(before) {
		t.Fatalf("mode change must restart the session clock: %v vs %v", before, after)
	}
}

func TestSessionStore_EvictsIdle(t *testing.T) {
	s := NewSessionStore(10 * time.Millisecond)
	s.SetMode(1, domain.ModeMethod)
	s.SetMode(2, domain.ModeActive)

	if n := s.Evict(time.Now()); n != 0 {
		t.Fatalf("nothing idle yet, evicted %d", n)
	}
	if n := s.Evict(time.Now().Add(time.Second)); n != 2 {
		t.Fatalf("want 2 evicted, got %d", n)
	}
	if s.Len() != 0 {
		t.Fatalf("want empty store, got %d", s.Len())
	}
}

func TestSessionStore_JanitorEvictsAndStops(t *testing.T) {
	s := NewSessionStore(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Janitor(ctx, 5*time.Millisecond, zap.NewNop())
		close(done)
	}()

	s.SetMode(7, domain.ModeMethod)
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
	if s.Len() != 0 {
		t.Fatalf("idle session not evicted, %d left", s.Len())
	}
}
