package search

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	domain "github.com/lootscout/lootscout/pkg/types"
)

// Sessions hands out one generation-tracked Session per client key, so a
// client that fires a new search while an old one is in flight gets the
// stale result dropped instead of delivered. Idle sessions age out of
// the backing LRU.
type Sessions struct {
	svc *Service
	mu  sync.Mutex
	lru *expirable.LRU[string, *Session]
}

// NewSessions creates a session registry over the service, holding at
// most maxClients live sessions, each idle-expiring after ttl.
func NewSessions(svc *Service, maxClients int, ttl time.Duration) *Sessions {
	if maxClients <= 0 {
		maxClients = 1024
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Sessions{
		svc: svc,
		lru: expirable.NewLRU[string, *Session](maxClients, nil, ttl),
	}
}

// Search runs an untracked search, for callers without a client key.
func (s *Sessions) Search(ctx context.Context, req Request) (*Result, error) {
	return s.svc.Search(ctx, req)
}

// Sources returns the tags of all configured providers, in order.
func (s *Sessions) Sources() []domain.Source {
	return s.svc.Sources()
}

// SessionSearch runs a generation-tracked search for the client key. A
// result superseded by a newer search on the same key comes back as
// ErrSuperseded.
func (s *Sessions) SessionSearch(ctx context.Context, key string, req Request) (*Result, error) {
	s.mu.Lock()
	sess, ok := s.lru.Get(key)
	if !ok {
		sess = NewSession(s.svc)
		s.lru.Add(key, sess)
	}
	s.mu.Unlock()

	return sess.Search(ctx, req)
}
