package anchor

import (
	"context"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/meigma/sisverify/anchor/cache"
)

// CachedResolver wraps a Resolver with a cache of anchored codes.
//
// Only successful lookups are cached. Concurrent lookups for the same
// transaction share a single call to the base resolver.
type CachedResolver struct {
	base      Resolver
	cache     cache.Cache
	namespace string
	logger    *slog.Logger
	group     singleflight.Group
}

// CachedOption configures a CachedResolver.
type CachedOption func(*CachedResolver)

// WithNamespace prefixes cache keys, typically with the anchor chain id,
// so transactions from different chains never collide.
func WithNamespace(ns string) CachedOption {
	return func(r *CachedResolver) {
		r.namespace = ns
	}
}

// WithCacheLogger sets the logger for cache diagnostics.
func WithCacheLogger(logger *slog.Logger) CachedOption {
	return func(r *CachedResolver) {
		r.logger = logger
	}
}

// NewCachedResolver wraps base with c.
func NewCachedResolver(base Resolver, c cache.Cache, opts ...CachedOption) *CachedResolver {
	r := &CachedResolver{
		base:  base,
		cache: c,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

func (r *CachedResolver) log() *slog.Logger {
	if r.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.logger
}

func (r *CachedResolver) key(txID string) string {
	if r.namespace == "" {
		return txID
	}
	return r.namespace + "/" + txID
}

// VerificationCode returns the cached code for txID or fetches it from the
// base resolver.
func (r *CachedResolver) VerificationCode(ctx context.Context, txID string) (string, error) {
	key := r.key(txID)
	if code, ok := r.cache.Get(key); ok {
		r.log().Debug("anchored code cache hit", "transaction", txID)
		return string(code), nil
	}

	result, err, _ := r.group.Do(key, func() (any, error) {
		// Another caller may have filled the cache while we waited.
		if code, ok := r.cache.Get(key); ok {
			return string(code), nil
		}
		code, err := r.base.VerificationCode(ctx, txID)
		if err != nil {
			return "", err
		}
		if err := r.cache.Put(key, []byte(code)); err != nil {
			r.log().Warn("failed to cache anchored code", "transaction", txID, "error", err)
		}
		return code, nil
	})
	if err != nil {
		return "", err
	}

	code, _ := result.(string) //nolint:errcheck // type assertion always succeeds when err is nil
	return code, nil
}
