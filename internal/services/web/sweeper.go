package web

import (
	"context"
	"log"
	"time"

	webstorage "github.com/louisbranch/ontsnapping/internal/services/web/storage"
)

// sweeper prunes expired sessions on a fixed interval.
type sweeper struct {
	store  webstorage.Store
	now    func() time.Time
	logger *log.Logger
}

func (s *sweeper) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *sweeper) sweep(ctx context.Context) int64 {
	removed, err := s.store.DeleteExpiredSessions(ctx, s.now().UTC())
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Printf("session sweep failed err=%v", err)
		}
		return 0
	}
	if removed > 0 {
		s.logger.Printf("session sweep removed=%d", removed)
	}
	return removed
}
