package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"trolley/internal/domain"
)

// SearchService runs price listing searches against the remote service.
// Queries are guarded by a sequence number: a query superseded before its
// result arrives is discarded at commit time, so debounced search-as-you-type
// only ever applies the most recent query's result.
type SearchService struct {
	prices domain.PriceRepository
	logger *slog.Logger

	mu       sync.Mutex
	seq      uint64
	text     string
	region   string
	ordering string
	page     int
	results  []domain.PriceListing
	hasMore  bool
}

// NewSearchService creates a new search service
func NewSearchService(prices domain.PriceRepository, region string, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchService{
		prices: prices,
		region: region,
		logger: logger,
	}
}

// Begin registers a new query and supersedes any pending one. It returns the
// sequence number to pass to Run.
func (s *SearchService) Begin(text, ordering string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.text = text
	s.ordering = ordering
	s.page = 1
	s.results = nil
	s.hasMore = false
	return s.seq
}

// Run executes the query registered under seq and commits the first page of
// results. When a newer query has superseded it, both results and errors are
// dropped silently.
func (s *SearchService) Run(ctx context.Context, seq uint64) error {
	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		return nil
	}
	q := domain.SearchQuery{Text: s.text, Region: s.region, Ordering: s.ordering, Page: 1}
	s.mu.Unlock()

	listings, hasMore, err := s.prices.SearchListings(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		s.logger.Debug("discarding superseded search", "query", q.Text)
		return nil
	}
	if err != nil {
		s.logger.Error("search failed", "error", err, "query", q.Text)
		return &domain.FetchError{Op: "search listings", Err: err}
	}

	s.results = rankListings(listings, q.Text)
	s.hasMore = hasMore
	s.logger.Debug("search complete", "query", q.Text, "results", len(listings))
	return nil
}

// LoadMore appends the next page of the current query. The page is dropped
// if the query changed while the fetch was in flight.
func (s *SearchService) LoadMore(ctx context.Context) error {
	s.mu.Lock()
	if !s.hasMore {
		s.mu.Unlock()
		return nil
	}
	seq := s.seq
	q := domain.SearchQuery{Text: s.text, Region: s.region, Ordering: s.ordering, Page: s.page + 1}
	s.mu.Unlock()

	listings, hasMore, err := s.prices.SearchListings(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return nil
	}
	if err != nil {
		s.logger.Error("failed to load more results", "error", err, "page", q.Page)
		return &domain.FetchError{Op: "load more listings", Err: err}
	}

	s.results = append(s.results, listings...)
	s.page = q.Page
	s.hasMore = hasMore
	return nil
}

// SetRegion changes the search region for subsequent queries.
func (s *SearchService) SetRegion(region string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.region = region
}

// Results returns a copy of the committed search results.
func (s *SearchService) Results() []domain.PriceListing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.PriceListing(nil), s.results...)
}

// HasMore reports whether a further page exists for the current query.
func (s *SearchService) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

// rankListings re-ranks server results by fuzzy closeness of the product
// name to the query, keeping the server order among equals.
func rankListings(listings []domain.PriceListing, query string) []domain.PriceListing {
	if len(listings) == 0 || query == "" {
		return listings
	}

	query = strings.ToLower(query)

	scores := make([]int, len(listings))
	for i, l := range listings {
		name := strings.ToLower(l.Snapshot.ProductBrand + " " + l.Snapshot.ProductName)
		rank := fuzzy.RankMatchNormalizedFold(query, name)
		if rank < 0 {
			rank = len(name) + len(query) // non-matching names sink below any match
		}
		scores[i] = rank
	}

	ranked := append([]domain.PriceListing(nil), listings...)
	order := make([]int, len(ranked))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] < scores[order[b]]
	})

	out := make([]domain.PriceListing, len(ranked))
	for i, idx := range order {
		out[i] = ranked[idx]
	}
	return out
}
