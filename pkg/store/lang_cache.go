package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"screennotes/pkg/domain"
)

const langCacheTTL = 24 * time.Hour

// LanguageCache wraps a Store and caches language lookups in Redis.
// The language preference is read on every inbound message, so it is the one
// hot read path worth caching. Cache failures fall through to the wrapped
// store; the cache is never authoritative.
type LanguageCache struct {
	Store
	client *redis.Client
}

// NewLanguageCache builds the caching decorator around inner.
func NewLanguageCache(inner Store, client *redis.Client) *LanguageCache {
	return &LanguageCache{Store: inner, client: client}
}

// GetUserLanguage checks Redis first and falls back to the wrapped store,
// filling the cache on a hit from below.
func (c *LanguageCache) GetUserLanguage(ownerID string) (domain.Language, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cached, err := c.client.Get(ctx, langKey(ownerID)).Result()
	if err == nil {
		lang := domain.Language(cached)
		if domain.ValidLanguage(lang) {
			return lang, true, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		slog.Warn("language cache read failed", "err", err)
	}

	lang, ok, err := c.Store.GetUserLanguage(ownerID)
	if err != nil || !ok {
		return lang, ok, err
	}
	if err := c.client.Set(ctx, langKey(ownerID), string(lang), langCacheTTL).Err(); err != nil {
		slog.Warn("language cache fill failed", "err", err)
	}
	return lang, true, nil
}

// SetUserLanguage writes through to the store and refreshes the cache.
func (c *LanguageCache) SetUserLanguage(ownerID string, lang domain.Language) error {
	if err := c.Store.SetUserLanguage(ownerID, lang); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.client.Set(ctx, langKey(ownerID), string(lang), langCacheTTL).Err(); err != nil {
		slog.Warn("language cache update failed", "err", err)
	}
	return nil
}

func langKey(ownerID string) string {
	return "screennotes:lang:" + ownerID
}
