package rockauto

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/VladimirNTS/Rockauto-Rest-API/internal/models"
)

// CacheConfig controls the result cache decorator.
type CacheConfig struct {
	Enabled    bool
	ResultTTL  time.Duration
	MaxResults int
}

type cacheEntry struct {
	result    *models.SearchResult
	expiresAt time.Time
}

// CachedSearcher caches successful search results in front of another
// Searcher, keyed by the normalized query. Entries live for ResultTTL;
// when the cache is full the oldest-inserted entry is evicted first.
// With Enabled=false every call passes straight through.
type CachedSearcher struct {
	next   Searcher
	cfg    CacheConfig
	logger *slog.Logger

	mu      sync.Mutex
	entries map[string]cacheEntry
	order   []string
}

func NewCachedSearcher(next Searcher, cfg CacheConfig, logger *slog.Logger) *CachedSearcher {
	return &CachedSearcher{
		next:    next,
		cfg:     cfg,
		logger:  logger.With("component", "result_cache"),
		entries: make(map[string]cacheEntry),
	}
}

func (s *CachedSearcher) Search(ctx context.Context, query models.SearchQuery) (*models.SearchResult, error) {
	if !s.cfg.Enabled {
		return s.next.Search(ctx, query)
	}

	key := query.CacheKey()
	if result, ok := s.lookup(key); ok {
		s.logger.Debug("cache hit", "key", key)
		return result, nil
	}

	result, err := s.next.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	s.store(key, result)
	return result, nil
}

// Size reports the number of live entries.
func (s *CachedSearcher) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *CachedSearcher) lookup(key string) (*models.SearchResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		s.remove(key)
		return nil, false
	}
	return entry.result, true
}

// store inserts under a single lock so that eviction and insertion
// happen as one step.
func (s *CachedSearcher) store(key string, result *models.SearchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists {
		for len(s.entries) >= s.cfg.MaxResults && len(s.order) > 0 {
			oldest := s.order[0]
			s.remove(oldest)
			s.logger.Debug("evicted oldest cache entry", "key", oldest)
		}
		s.order = append(s.order, key)
	}

	s.entries[key] = cacheEntry{
		result:    result,
		expiresAt: time.Now().Add(s.cfg.ResultTTL),
	}
}

// remove must be called with the lock held.
func (s *CachedSearcher) remove(key string) {
	delete(s.entries, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
