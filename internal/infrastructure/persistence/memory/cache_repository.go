// Package memory provides an in-process cache repository
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
)

// DefaultTTL applies when Set is called with a zero ttl
const DefaultTTL = 24 * time.Hour

type cacheItem struct {
	value     []byte
	expiresAt time.Time
}

// CacheRepository is a map-backed cache with per-key expiry. Expired keys are
// dropped lazily on access and by a periodic sweep.
type CacheRepository struct {
	mu   sync.RWMutex
	data map[string]cacheItem
	now  func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

var _ outbound.CacheRepository = (*CacheRepository)(nil)

// Option configures a CacheRepository
type Option func(*CacheRepository)

// WithClock replaces the time source
func WithClock(now func() time.Time) Option {
	return func(r *CacheRepository) { r.now = now }
}

// NewCacheRepository creates a cache and starts its sweeper. Call Close to
// stop the sweeper.
func NewCacheRepository(sweepInterval time.Duration, opts ...Option) *CacheRepository {
	r := &CacheRepository{
		data: make(map[string]cacheItem),
		now:  time.Now,
		stop: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if sweepInterval > 0 {
		go r.sweep(sweepInterval)
	}
	return r
}

// Get returns the value of key or outbound.ErrCacheMiss
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	item, ok := r.data[key]
	r.mu.RUnlock()

	if !ok {
		return nil, outbound.ErrCacheMiss
	}
	if !r.now().Before(item.expiresAt) {
		r.Delete(ctx, key)
		return nil, outbound.ErrCacheMiss
	}

	out := make([]byte, len(item.value))
	copy(out, item.value)
	return out, nil
}

// Set stores a copy of value for ttl
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	stored := make([]byte, len(value))
	copy(stored, value)

	r.mu.Lock()
	r.data[key] = cacheItem{value: stored, expiresAt: r.now().Add(ttl)}
	r.mu.Unlock()
	return nil
}

// Delete removes a key
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	delete(r.data, key)
	r.mu.Unlock()
	return nil
}

// Exists reports whether key holds an unexpired value
func (r *CacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, err := r.Get(ctx, key)
	if err != nil {
		return false, nil
	}
	return true, nil
}

// Len returns the number of stored keys, expired ones included
func (r *CacheRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}

// Close stops the sweeper
func (r *CacheRepository) Close() error {
	r.stopOnce.Do(func() { close(r.stop) })
	return nil
}

func (r *CacheRepository) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.purgeExpired()
		case <-r.stop:
			return
		}
	}
}

func (r *CacheRepository) purgeExpired() {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, item := range r.data {
		if !now.Before(item.expiresAt) {
			delete(r.data, key)
		}
	}
}
