package extcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/m3360202/mathTest/internal/db"
	"github.com/m3360202/mathTest/internal/domain"
)

var cacheKeyPrefix = domain.KeyPrefix + "extract:"

// SourceCache marks an extraction served from the cache.
const SourceCache = "cache"

// store is the consumer interface for the extraction cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// entry is the cached JSON form of a successful extraction.
type entry struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Source   string         `json:"source"`
}

// CachedExtractor caches extracted text keyed by the SHA-256 of the file bytes.
// Only successful extractions are cached; cache failures never fail the caller.
type CachedExtractor struct {
	inner      domain.Extractor
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Extractor,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedExtractor {
	return &CachedExtractor{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Extract returns a cached extraction or calls the inner extractor.
func (c *CachedExtractor) Extract(ctx context.Context, file domain.SpooledFile) (domain.Extraction, error) {
	key, err := c.cacheKey(file.Path)
	if err != nil {
		c.logger.Warn("Failed to hash upload, bypassing cache", zap.String("file", file.Name), zap.Error(err))
		return c.extractInner(ctx, file)
	}

	if ext, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return ext, nil
	}

	c.incCache("miss")

	ext, err := c.extractInner(ctx, file)
	if err != nil {
		return domain.Extraction{}, err
	}

	c.putToCache(ctx, key, ext)
	return ext, nil
}

func (c *CachedExtractor) extractInner(ctx context.Context, file domain.SpooledFile) (domain.Extraction, error) {
	ext, err := c.inner.Extract(ctx, file)
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("extract text: %w", err)
	}
	return ext, nil
}

func (c *CachedExtractor) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedExtractor) cacheKey(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash: %w", err)
	}
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil)), nil
}

func (c *CachedExtractor) getFromCache(ctx context.Context, key string) (domain.Extraction, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached extraction", zap.String("key", key), zap.Error(err))
		}
		return domain.Extraction{}, false
	}
	if len(data) == 0 {
		return domain.Extraction{}, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		c.logger.Warn("Failed to parse cached extraction, evicting", zap.String("key", key), zap.Error(err))
		if err := c.store.Del(ctx, key); err != nil {
			c.logger.Warn("Failed to evict cached extraction", zap.String("key", key), zap.Error(err))
		}
		return domain.Extraction{}, false
	}

	return domain.Extraction{Content: e.Content, Metadata: e.Metadata, Source: SourceCache}, true
}

func (c *CachedExtractor) putToCache(ctx context.Context, key string, ext domain.Extraction) {
	data, err := json.Marshal(entry{Content: ext.Content, Metadata: ext.Metadata, Source: ext.Source})
	if err != nil {
		c.logger.Warn("Failed to encode extraction for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache extraction", zap.String("key", key), zap.Error(err))
	}
}
