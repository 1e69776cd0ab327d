// Package trending computes the trending listing set: manually curated
// entries first, then the most-favorited products of the recent window.
package trending

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lootscout/lootscout/internal/metrics"
	"github.com/lootscout/lootscout/internal/store"
	domain "github.com/lootscout/lootscout/pkg/types"
)

// Service recomputes the trending set into an in-memory snapshot. The
// HTTP handler serves the snapshot so a trending request never touches
// the database on the hot path.
type Service struct {
	store  store.Store
	window time.Duration
	limit  int
	log    *slog.Logger

	mu       sync.RWMutex
	snapshot []domain.TrendingEntry
}

// NewService creates the trending service. window bounds the favorite
// counting period for auto entries, limit caps how many auto entries
// join the curated ones.
func NewService(st store.Store, window time.Duration, limit int, log *slog.Logger) *Service {
	if window <= 0 {
		window = 7 * 24 * time.Hour
	}
	if limit <= 0 {
		limit = 12
	}
	return &Service{
		store:  st,
		window: window,
		limit:  limit,
		log:    log,
	}
}

// Refresh recomputes the snapshot from the store.
func (s *Service) Refresh(ctx context.Context) error {
	start := time.Now()
	defer func() {
		metrics.TrendingRefreshDuration.Observe(time.Since(start).Seconds())
	}()

	manual, err := s.store.ListManualTrending(ctx)
	if err != nil {
		metrics.TrendingRefreshErrorsTotal.Inc()
		return fmt.Errorf("loading manual trending: %w", err)
	}

	manualIDs := make([]string, len(manual))
	entries := make([]domain.TrendingEntry, 0, len(manual)+s.limit)
	for i, m := range manual {
		manualIDs[i] = m.ProductID
		entries = append(entries, domain.TrendingEntry{Listing: m.Listing, Manual: true})
	}

	auto, err := s.store.ListMostFavorited(ctx, s.window, s.limit, manualIDs)
	if err != nil {
		metrics.TrendingRefreshErrorsTotal.Inc()
		return fmt.Errorf("loading most favorited: %w", err)
	}
	for _, fc := range auto {
		entries = append(entries, domain.TrendingEntry{
			Listing:       fc.Listing,
			FavoriteCount: fc.Count,
		})
	}

	s.mu.Lock()
	s.snapshot = entries
	s.mu.Unlock()

	s.log.Debug("trending snapshot refreshed",
		slog.Int("manual", len(manual)),
		slog.Int("auto", len(auto)),
	)
	return nil
}

// Snapshot returns the current trending entries. The slice is a copy;
// callers may not observe later refreshes through it.
func (s *Service) Snapshot() []domain.TrendingEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.TrendingEntry, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}
