package matching

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/alchemorsel/recipebox/internal/domain/ingredient"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
)

// CatalogCacheKey is the shared cache key of the serialized catalog
const CatalogCacheKey = "catalog:ingredients"

// DefaultCatalogTTL is used when no TTL is configured
const DefaultCatalogTTL = 5 * time.Minute

// CatalogProvider loads the full ingredient catalog
type CatalogProvider interface {
	List(ctx context.Context) ([]ingredient.Entry, error)
}

// CacheObserver receives cache lookups, typically for metrics
type CacheObserver interface {
	CacheHit(layer string)
	CacheMiss()
}

type nopCacheObserver struct{}

func (nopCacheObserver) CacheHit(string) {}
func (nopCacheObserver) CacheMiss()      {}

// CacheConfig configures a CatalogCache
type CacheConfig struct {
	TTL      time.Duration
	Observer CacheObserver
}

// CatalogCache holds the ingredient catalog in process for TTL, backed by an
// optional shared cache. Writers must call Invalidate after changing the
// catalog.
type CatalogCache struct {
	provider CatalogProvider
	shared   outbound.CacheRepository
	ttl      time.Duration
	observer CacheObserver
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.RWMutex
	entries  []ingredient.Entry
	loadedAt time.Time
	loaded   bool
}

// NewCatalogCache creates a catalog cache. shared may be nil.
func NewCatalogCache(provider CatalogProvider, shared outbound.CacheRepository, cfg CacheConfig, logger *zap.Logger) *CatalogCache {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultCatalogTTL
	}
	if cfg.Observer == nil {
		cfg.Observer = nopCacheObserver{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogCache{
		provider: provider,
		shared:   shared,
		ttl:      cfg.TTL,
		observer: cfg.Observer,
		logger:   logger.Named("catalog-cache"),
		now:      time.Now,
	}
}

// Entries returns a copy of the catalog. When a refresh fails and an older
// copy exists, the older copy is returned and the error is only logged.
func (c *CatalogCache) Entries(ctx context.Context) ([]ingredient.Entry, error) {
	c.mu.RLock()
	if c.fresh() {
		entries := cloneEntries(c.entries)
		c.mu.RUnlock()
		c.observer.CacheHit("local")
		return entries, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fresh() {
		c.observer.CacheHit("local")
		return cloneEntries(c.entries), nil
	}

	if entries, ok := c.readShared(ctx); ok {
		c.observer.CacheHit("shared")
		c.store(entries)
		return cloneEntries(entries), nil
	}

	c.observer.CacheMiss()
	entries, err := c.provider.List(ctx)
	if err != nil {
		if c.loaded {
			c.logger.Error("Catalog refresh failed, serving stale copy",
				zap.Error(err),
				zap.Time("loaded_at", c.loadedAt),
			)
			return cloneEntries(c.entries), nil
		}
		return nil, err
	}

	c.store(entries)
	c.writeShared(ctx, entries)
	return cloneEntries(entries), nil
}

// Invalidate drops the in-process copy and the shared entry
func (c *CatalogCache) Invalidate(ctx context.Context) {
	c.mu.Lock()
	c.entries = nil
	c.loaded = false
	c.loadedAt = time.Time{}
	c.mu.Unlock()

	if c.shared == nil {
		return
	}
	if err := c.shared.Delete(ctx, CatalogCacheKey); err != nil {
		c.logger.Warn("Failed to delete shared catalog entry", zap.Error(err))
	}
}

// fresh must be called with c.mu held
func (c *CatalogCache) fresh() bool {
	return c.loaded && c.now().Sub(c.loadedAt) < c.ttl
}

func (c *CatalogCache) store(entries []ingredient.Entry) {
	c.entries = cloneEntries(entries)
	c.loadedAt = c.now()
	c.loaded = true
}

func (c *CatalogCache) readShared(ctx context.Context) ([]ingredient.Entry, bool) {
	if c.shared == nil {
		return nil, false
	}
	data, err := c.shared.Get(ctx, CatalogCacheKey)
	if err != nil {
		if !errors.Is(err, outbound.ErrCacheMiss) {
			c.logger.Warn("Shared catalog read failed", zap.Error(err))
		}
		return nil, false
	}
	var entries []ingredient.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		c.logger.Warn("Shared catalog entry is corrupt", zap.Error(err))
		return nil, false
	}
	return entries, true
}

func (c *CatalogCache) writeShared(ctx context.Context, entries []ingredient.Entry) {
	if c.shared == nil {
		return
	}
	data, err := json.Marshal(entries)
	if err != nil {
		c.logger.Warn("Failed to encode catalog", zap.Error(err))
		return
	}
	if err := c.shared.Set(ctx, CatalogCacheKey, data, c.ttl); err != nil {
		c.logger.Warn("Shared catalog write failed", zap.Error(err))
	}
}

func cloneEntries(entries []ingredient.Entry) []ingredient.Entry {
	out := make([]ingredient.Entry, len(entries))
	copy(out, entries)
	return out
}
