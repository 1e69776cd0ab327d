package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lootscout/lootscout/internal/metrics"
	"github.com/lootscout/lootscout/internal/provider"
	domain "github.com/lootscout/lootscout/pkg/types"
)

// ErrSuperseded is returned when a newer search started on the same
// session before this one finished. The stale result is discarded.
var ErrSuperseded = errors.New("search superseded by a newer query")

// Options tunes the search service. Zero values fall back to sensible
// defaults in NewService.
type Options struct {
	// ProviderTimeout bounds each provider fetch.
	ProviderTimeout time.Duration
	// MergePolicy resolves title collisions across sources.
	MergePolicy domain.MergePolicy
	// DefaultSort applies when a request does not name a sort order.
	DefaultSort domain.SortOrder
	// EmptyQueryCatalog serves the static catalog set for empty query
	// text instead of fanning out to every source.
	EmptyQueryCatalog bool
	// DefaultLimit and MaxLimit bound the result page size.
	DefaultLimit int
	MaxLimit     int
	// ProviderMaxResults caps how many listings each source is asked
	// for, independent of the requested page size. Zero means no cap.
	ProviderMaxResults int
}

// Request is one search invocation.
type Request struct {
	Query    string
	Platform string
	Filters  domain.FilterSelection
	Sort     domain.SortOrder
	// Policy overrides the configured merge policy when set.
	Policy domain.MergePolicy
	Limit  int
	Offset int
}

// Result is one page of a search.
type Result struct {
	Listings []domain.Listing `json:"listings"`
	Total    int              `json:"total"`
	HasMore  bool             `json:"has_more"`
}

// Service fans a query out to every configured provider, joins the
// results and runs the combine/filter/sort pipeline. Provider order is
// fixed at construction; it decides which source wins title collisions.
type Service struct {
	providers []provider.Provider
	opts      Options
	log       *slog.Logger
}

// NewService creates the search service over the given providers.
func NewService(providers []provider.Provider, opts Options, log *slog.Logger) *Service {
	if opts.ProviderTimeout <= 0 {
		opts.ProviderTimeout = 30 * time.Second
	}
	if opts.MergePolicy == "" {
		opts.MergePolicy = domain.MergeLastWins
	}
	if opts.DefaultSort == "" {
		opts.DefaultSort = domain.SortRecency
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 16
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 100
	}
	return &Service{
		providers: providers,
		opts:      opts,
		log:       log,
	}
}

// Sources returns the tags of all configured providers, in order.
func (s *Service) Sources() []domain.Source {
	out := make([]domain.Source, len(s.providers))
	for i, p := range s.providers {
		out[i] = p.Name()
	}
	return out
}

// Search runs the full pipeline: concurrent fan-out, title dedup, query
// narrowing, facet filters, sort and limit/offset slicing. A failing
// source degrades to an empty group; Search itself only errors when the
// pipeline panics.
func (s *Service) Search(ctx context.Context, req Request) (res *Result, err error) {
	start := time.Now()
	defer func() {
		metrics.SearchDuration.Observe(time.Since(start).Seconds())
		if r := recover(); r != nil {
			metrics.SearchErrorsTotal.Inc()
			s.log.Error("search pipeline panic", slog.Any("panic", r))
			res = &Result{Listings: []domain.Listing{}}
			err = fmt.Errorf("search pipeline panic: %v", r)
		}
	}()

	groups := s.fanOut(ctx, s.targets(req), req)
	combined := Combine(s.policy(req), groups...)
	narrowed := ApplyQuery(combined, req.Query)
	filtered := ApplyFilters(narrowed, req.Filters)

	sortOrder := req.Sort
	if sortOrder == "" {
		sortOrder = s.opts.DefaultSort
	}
	Sort(filtered, sortOrder)

	return s.page(filtered, req.Limit, req.Offset), nil
}

// targets picks the providers to query. An empty query text hits only
// the catalog source when configured so; special keyword queries still
// fan out because they narrow live results.
func (s *Service) targets(req Request) []provider.Provider {
	if req.Query != "" || !s.opts.EmptyQueryCatalog {
		return s.providers
	}
	for _, p := range s.providers {
		if p.Name() == domain.SourceCatalog {
			return []provider.Provider{p}
		}
	}
	return s.providers
}

func (s *Service) policy(req Request) domain.MergePolicy {
	if req.Policy != "" {
		return req.Policy
	}
	return s.opts.MergePolicy
}

// fanOut queries all targets concurrently and waits for every one.
// Results come back indexed by target position so combine order is the
// configured provider order, not completion order.
func (s *Service) fanOut(ctx context.Context, targets []provider.Provider, req Request) [][]domain.Listing {
	limit := req.Limit
	if limit <= 0 {
		limit = s.opts.DefaultLimit
	}
	if s.opts.ProviderMaxResults > 0 && limit > s.opts.ProviderMaxResults {
		limit = s.opts.ProviderMaxResults
	}
	q := provider.Query{
		Text:       req.Query,
		Platform:   req.Platform,
		MaxResults: limit,
	}

	groups := make([][]domain.Listing, len(targets))
	var wg sync.WaitGroup
	for i, p := range targets {
		wg.Add(1)
		go func(i int, p provider.Provider) {
			defer wg.Done()
			groups[i] = s.fetchOne(ctx, p, q)
		}(i, p)
	}
	wg.Wait()
	return groups
}

// fetchOne runs a single provider fetch under the per-provider timeout.
// Errors and panics degrade to an empty group.
func (s *Service) fetchOne(ctx context.Context, p provider.Provider, q provider.Query) []domain.Listing {
	source := string(p.Name())
	start := time.Now()
	defer func() {
		metrics.ProviderFetchDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
		if r := recover(); r != nil {
			metrics.ProviderFetchesTotal.WithLabelValues(source, "panic").Inc()
			s.log.Error("provider panic",
				slog.String("source", source),
				slog.Any("panic", r),
			)
		}
	}()

	fetchCtx, cancel := context.WithTimeout(ctx, s.opts.ProviderTimeout)
	defer cancel()

	listings, err := p.Fetch(fetchCtx, q)
	if err != nil {
		metrics.ProviderFetchesTotal.WithLabelValues(source, "error").Inc()
		s.log.Warn("provider fetch failed",
			slog.String("source", source),
			slog.String("query", q.Text),
			slog.String("error", err.Error()),
		)
		return nil
	}

	metrics.ProviderFetchesTotal.WithLabelValues(source, "success").Inc()
	metrics.ProviderListingsTotal.WithLabelValues(source).Add(float64(len(listings)))
	return listings
}

func (s *Service) page(listings []domain.Listing, limit, offset int) *Result {
	total := len(listings)

	if limit <= 0 {
		limit = s.opts.DefaultLimit
	}
	if limit > s.opts.MaxLimit {
		limit = s.opts.MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	page := make([]domain.Listing, end-offset)
	copy(page, listings[offset:end])
	return &Result{
		Listings: page,
		Total:    total,
		HasMore:  end < total,
	}
}

// Session serializes searches for one consumer. Each Search claims the
// next generation; if a newer search starts before an older one
// finishes, the older result is dropped with ErrSuperseded so stale
// listings never overwrite fresh ones.
type Session struct {
	svc *Service
	gen atomic.Uint64
}

// NewSession creates a session over the service.
func NewSession(svc *Service) *Session {
	return &Session{svc: svc}
}

// Search runs one generation-tracked search.
func (s *Session) Search(ctx context.Context, req Request) (*Result, error) {
	gen := s.gen.Add(1)
	res, err := s.svc.Search(ctx, req)
	if err != nil {
		return nil, err
	}
	if s.gen.Load() != gen {
		metrics.SearchSupersededTotal.Inc()
		return nil, ErrSuperseded
	}
	return res, nil
}
