package nlpcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hoover/internal/db"
	"github.com/kailas-cloud/hoover/internal/domain"
)

// Cache entry kinds, part of the key.
const (
	kindPhrases  = "phrases"
	kindEntities = "entities"
)

// store is the consumer interface for the extraction cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedExtractor caches NLP extraction results in a key-value store.
type CachedExtractor struct {
	inner      domain.Extractor
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator. ttl <= 0 keeps entries forever.
// cacheTotal is a counter vec with labels ("kind", "result"), passed explicitly.
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

// KeyPhrases returns cached key phrases or calls the inner extractor.
func (c *CachedExtractor) KeyPhrases(ctx context.Context, text string) ([]string, error) {
	key := c.cacheKey(kindPhrases, text)

	var phrases []string
	if c.getFromCache(ctx, key, &phrases) {
		c.incCache(kindPhrases, "hit")
		return phrases, nil
	}
	c.incCache(kindPhrases, "miss")

	phrases, err := c.inner.KeyPhrases(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("extract key phrases: %w", err)
	}

	c.putToCache(ctx, key, phrases)
	return phrases, nil
}

// Entities returns cached entities or calls the inner extractor.
func (c *CachedExtractor) Entities(ctx context.Context, text string) ([]domain.Entity, error) {
	key := c.cacheKey(kindEntities, text)

	var entities []cachedEntity
	if c.getFromCache(ctx, key, &entities) {
		c.incCache(kindEntities, "hit")
		return fromCached(entities), nil
	}
	c.incCache(kindEntities, "miss")

	result, err := c.inner.Entities(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("extract entities: %w", err)
	}

	c.putToCache(ctx, key, toCached(result))
	return result, nil
}

func (c *CachedExtractor) incCache(kind, result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(kind, result).Inc()
	}
}

func (c *CachedExtractor) cacheKey(kind, text string) string {
	h := sha256.Sum256([]byte(text))
	return domain.NLPCacheKeyPrefix + kind + ":" + hex.EncodeToString(h[:])
}

func (c *CachedExtractor) getFromCache(ctx context.Context, key string, dst any) bool {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached extraction", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if len(data) == 0 {
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warn("Failed to parse cached extraction", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *CachedExtractor) putToCache(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("Failed to encode extraction", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache extraction", zap.String("key", key), zap.Error(err))
	}
}

// cachedEntity is the stored form of domain.Entity.
type cachedEntity struct {
	Name     string   `json:"name"`
	Category string   `json:"category,omitempty"`
	Matches  []string `json:"matches"`
}

func toCached(entities []domain.Entity) []cachedEntity {
	out := make([]cachedEntity, len(entities))
	for i, e := range entities {
		out[i] = cachedEntity{Name: e.Name, Category: e.Category, Matches: e.Matches}
	}
	return out
}

func fromCached(entities []cachedEntity) []domain.Entity {
	out := make([]domain.Entity, len(entities))
	for i, e := range entities {
		out[i] = domain.Entity{Name: e.Name, Category: e.Category, Matches: e.Matches}
	}
	return out
}
