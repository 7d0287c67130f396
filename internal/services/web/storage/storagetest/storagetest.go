// Package storagetest exercises the session store contract shared by every
// backend.
package storagetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	webstorage "github.com/louisbranch/ontsnapping/internal/services/web/storage"
)

// Run checks store behavior against a fresh store per subtest.
func Run(t *testing.T, newStore func(t *testing.T) webstorage.Store) {
	t.Helper()

	t.Run("create and get", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		now := time.Now().UTC().Truncate(time.Millisecond)

		want := webstorage.Session{
			ID:        "session-1",
			RoomID:    "cell",
			CreatedAt: now,
			UpdatedAt: now,
			ExpiresAt: now.Add(time.Hour),
		}
		if err := store.CreateSession(ctx, want); err != nil {
			t.Fatalf("create session: %v", err)
		}
		got, ok, err := store.GetSession(ctx, "session-1")
		if err != nil {
			t.Fatalf("get session: %v", err)
		}
		if !ok {
			t.Fatal("expected session to be found")
		}
		if got.ID != want.ID || got.RoomID != want.RoomID {
			t.Fatalf("session = %+v, want %+v", got, want)
		}
		if !got.CreatedAt.Equal(want.CreatedAt) || !got.ExpiresAt.Equal(want.ExpiresAt) {
			t.Fatalf("session times = %v/%v, want %v/%v", got.CreatedAt, got.ExpiresAt, want.CreatedAt, want.ExpiresAt)
		}
	})

	t.Run("create rejects missing fields and duplicates", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		if err := store.CreateSession(ctx, webstorage.Session{RoomID: "cell"}); err == nil {
			t.Fatal("expected error for empty session id")
		}
		if err := store.CreateSession(ctx, webstorage.Session{ID: "session-1", RoomID: "  "}); err == nil {
			t.Fatal("expected error for empty room id")
		}
		if err := store.CreateSession(ctx, webstorage.Session{ID: "session-1", RoomID: "cell"}); err != nil {
			t.Fatalf("create session: %v", err)
		}
		if err := store.CreateSession(ctx, webstorage.Session{ID: "session-1", RoomID: "tunnel"}); err == nil {
			t.Fatal("expected duplicate session id to fail")
		}
	})

	t.Run("missing and blank ids are not found", func(t *testing.T) {
		store := newStore(t)
		for _, id := range []string{"", "   ", "missing"} {
			_, ok, err := store.GetSession(context.Background(), id)
			if err != nil {
				t.Fatalf("get session %q: %v", id, err)
			}
			if ok {
				t.Fatalf("expected %q to be missing", id)
			}
		}
	})

	t.Run("expired sessions are hidden", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		past := time.Now().UTC().Add(-time.Hour)

		if err := store.CreateSession(ctx, webstorage.Session{ID: "old", RoomID: "cell", CreatedAt: past, ExpiresAt: past.Add(time.Minute)}); err != nil {
			t.Fatalf("create session: %v", err)
		}
		if _, ok, err := store.GetSession(ctx, "old"); err != nil || ok {
			t.Fatalf("get expired session = (%v, %v), want (false, nil)", ok, err)
		}
		err := store.UpdateSessionRoom(ctx, "old", "tunnel", time.Now(), time.Now().Add(time.Hour))
		if !errors.Is(err, webstorage.ErrSessionNotFound) {
			t.Fatalf("update expired session error = %v, want ErrSessionNotFound", err)
		}
	})

	t.Run("sessions without expiry never expire", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		if err := store.CreateSession(ctx, webstorage.Session{ID: "forever", RoomID: "cell"}); err != nil {
			t.Fatalf("create session: %v", err)
		}
		removed, err := store.DeleteExpiredSessions(ctx, time.Now().Add(24*365*time.Hour))
		if err != nil {
			t.Fatalf("delete expired: %v", err)
		}
		if removed != 0 {
			t.Fatalf("removed = %d, want 0", removed)
		}
		if _, ok, _ := store.GetSession(ctx, "forever"); !ok {
			t.Fatal("expected session without expiry to survive")
		}
	})

	t.Run("update moves room", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		now := time.Now().UTC().Truncate(time.Millisecond)

		if err := store.CreateSession(ctx, webstorage.Session{ID: "session-1", RoomID: "cell", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}); err != nil {
			t.Fatalf("create session: %v", err)
		}
		later := now.Add(time.Minute)
		if err := store.UpdateSessionRoom(ctx, "session-1", "tunnel", later, later.Add(time.Hour)); err != nil {
			t.Fatalf("update session: %v", err)
		}
		got, ok, err := store.GetSession(ctx, "session-1")
		if err != nil || !ok {
			t.Fatalf("get session = (%v, %v)", ok, err)
		}
		if got.RoomID != "tunnel" {
			t.Fatalf("room = %q, want %q", got.RoomID, "tunnel")
		}
		if !got.UpdatedAt.Equal(later) {
			t.Fatalf("updated at = %v, want %v", got.UpdatedAt, later)
		}
		if !got.ExpiresAt.Equal(later.Add(time.Hour)) {
			t.Fatalf("expires at = %v, want %v", got.ExpiresAt, later.Add(time.Hour))
		}
		if !got.CreatedAt.Equal(now) {
			t.Fatalf("created at = %v, want %v", got.CreatedAt, now)
		}
	})

	t.Run("update missing session", func(t *testing.T) {
		store := newStore(t)
		err := store.UpdateSessionRoom(context.Background(), "missing", "tunnel", time.Now(), time.Time{})
		if !errors.Is(err, webstorage.ErrSessionNotFound) {
			t.Fatalf("error = %v, want ErrSessionNotFound", err)
		}
		if err := store.UpdateSessionRoom(context.Background(), "missing", "", time.Now(), time.Time{}); err == nil {
			t.Fatal("expected error for empty room id")
		}
	})

	t.Run("delete", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		if err := store.CreateSession(ctx, webstorage.Session{ID: "session-1", RoomID: "cell"}); err != nil {
			t.Fatalf("create session: %v", err)
		}
		if err := store.DeleteSession(ctx, "session-1"); err != nil {
			t.Fatalf("delete session: %v", err)
		}
		if _, ok, _ := store.GetSession(ctx, "session-1"); ok {
			t.Fatal("expected session to be deleted")
		}
		if err := store.DeleteSession(ctx, "session-1"); err != nil {
			t.Fatalf("delete missing session: %v", err)
		}
	})

	t.Run("delete expired", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		now := time.Now().UTC()

		sessions := []webstorage.Session{
			{ID: "a", RoomID: "cell", ExpiresAt: now.Add(-2 * time.Hour)},
			{ID: "b", RoomID: "sewer", ExpiresAt: now.Add(-time.Minute)},
			{ID: "c", RoomID: "tunnel", ExpiresAt: now.Add(time.Hour)},
		}
		for _, session := range sessions {
			if err := store.CreateSession(ctx, session); err != nil {
				t.Fatalf("create session %q: %v", session.ID, err)
			}
		}
		removed, err := store.DeleteExpiredSessions(ctx, now)
		if err != nil {
			t.Fatalf("delete expired: %v", err)
		}
		if removed != 2 {
			t.Fatalf("removed = %d, want 2", removed)
		}
		if _, ok, _ := store.GetSession(ctx, "c"); !ok {
			t.Fatal("expected live session to survive")
		}
	})

	t.Run("concurrent updates", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		if err := store.CreateSession(ctx, webstorage.Session{ID: "session-1", RoomID: "cell"}); err != nil {
			t.Fatalf("create session: %v", err)
		}
		rooms := []string{"cell", "tunnel", "sewer", "escaped", "caught"}
		var wg sync.WaitGroup
		errs := make(chan error, 25)
		for i := range 25 {
			wg.Add(1)
			go func(roomID string) {
				defer wg.Done()
				if err := store.UpdateSessionRoom(ctx, "session-1", roomID, time.Now(), time.Time{}); err != nil {
					errs <- err
				}
			}(rooms[i%len(rooms)])
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Fatalf("concurrent update: %v", err)
		}
		got, ok, err := store.GetSession(ctx, "session-1")
		if err != nil || !ok {
			t.Fatalf("get session = (%v, %v)", ok, err)
		}
		found := false
		for _, roomID := range rooms {
			if got.RoomID == roomID {
				found = true
			}
		}
		if !found {
			t.Fatalf("room = %q, want one of %v", got.RoomID, rooms)
		}
	})
}
