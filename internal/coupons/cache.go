package coupons

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/mvidales/storefront-backend/pkg/db/models"
	pkgerrors "github.com/mvidales/storefront-backend/pkg/errors"
	"github.com/mvidales/storefront-backend/pkg/logger"
	"github.com/mvidales/storefront-backend/pkg/redis"
)

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CouponKey(code string) string
}

type couponFinder interface {
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	IncrementUsage(ctx context.Context, code string) error
}

// negativeEntry marks a cached "no such coupon" result so repeated lookups of
// invalid codes do not hammer the database.
const negativeEntry = "__missing__"

// CachedRepository is a read-through cache over the coupon repository.
// Cache failures degrade to direct database reads.
type CachedRepository struct {
	repo  couponFinder
	cache cacheStore
	ttl   time.Duration
	logg  *logger.Logger
}

// NewCachedRepository wraps the repository with a Redis read-through layer.
func NewCachedRepository(repo couponFinder, cache cacheStore, ttl time.Duration, logg *logger.Logger) *CachedRepository {
	return &CachedRepository{repo: repo, cache: cache, ttl: ttl, logg: logg}
}

// FindByCode returns the coupon for the normalized code, consulting the cache
// first. Both hits and misses are cached.
func (c *CachedRepository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	normalized := NormalizeCode(code)
	key := c.cache.CouponKey(normalized)

	raw, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		if raw == negativeEntry {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		var cached models.Coupon
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return &cached, nil
		}
		// Corrupt entry; drop it and fall through to the database.
		_ = c.cache.Del(ctx, key)
	case errors.Is(err, redis.ErrCacheMiss):
	default:
		c.warn(ctx, "coupon cache read failed", err)
	}

	row, err := c.repo.FindByCode(ctx, normalized)
	if err != nil {
		if coded := pkgerrors.As(err); coded != nil && coded.Code() == pkgerrors.CodeNotFound {
			c.store(ctx, key, negativeEntry)
		}
		return nil, err
	}

	if encoded, err := json.Marshal(row); err == nil {
		c.store(ctx, key, string(encoded))
	}
	return row, nil
}

// IncrementUsage bumps the counter and invalidates the cached entry so the
// next read observes the new usage count.
func (c *CachedRepository) IncrementUsage(ctx context.Context, code string) error {
	normalized := NormalizeCode(code)
	if err := c.repo.IncrementUsage(ctx, normalized); err != nil {
		return err
	}
	if err := c.cache.Del(ctx, c.cache.CouponKey(normalized)); err != nil {
		c.warn(ctx, "coupon cache invalidation failed", err)
	}
	return nil
}

func (c *CachedRepository) store(ctx context.Context, key, value string) {
	if err := c.cache.Set(ctx, key, value, c.ttl); err != nil {
		c.warn(ctx, "coupon cache write failed", err)
	}
}

func (c *CachedRepository) warn(ctx context.Context, msg string, err error) {
	if c.logg == nil {
		return
	}
	c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), msg)
}
