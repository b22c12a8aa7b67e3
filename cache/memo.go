package cache

import "context"

// FillFunc produces the value for a key on a cache miss.
type FillFunc func(ctx context.Context) ([]byte, error)

// Memo fills cache misses through a callback.
//
// Contract:
// - Concurrency: Do is safe for concurrent use; concurrent misses may fill twice.
// - Errors: fill errors are returned and never cached.
type Memo struct {
	cache  Cache
	policy Policy
}

// NewMemo creates a Memo over cache using policy for TTLs.
func NewMemo(cache Cache, policy Policy) *Memo {
	return &Memo{cache: cache, policy: policy}
}

// Do returns the cached value for key, or calls fill and caches its result.
// Invalid keys and disabled policies bypass the cache.
func (m *Memo) Do(ctx context.Context, key string, fill FillFunc) ([]byte, error) {
	if fill == nil {
		return nil, ErrNilFill
	}
	if m == nil || m.cache == nil || !m.policy.ShouldCache() || ValidateKey(key) != nil {
		return fill(ctx)
	}

	if cached, ok := m.cache.Get(ctx, key); ok {
		return cached, nil
	}

	value, err := fill(ctx)
	if err != nil {
		return value, err
	}

	if ttl := m.policy.EffectiveTTL(0); ttl > 0 {
		_ = m.cache.Set(ctx, key, value, ttl)
	}
	return value, nil
}
