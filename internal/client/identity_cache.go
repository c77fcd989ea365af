package client

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// tokenCachePrefix namespaces validation cache entries in Redis.
const tokenCachePrefix = "token_validation:"

// CachedTokenValidator wraps a TokenValidator with a short-lived Redis
// cache keyed by token hash. Only successful validations are cached,
// so a revoked token is refused again at most one TTL after revocation.
// Redis failures degrade to a direct remote validation.
type CachedTokenValidator struct {
	inner TokenValidator
	rdb   *redis.Client
	ttl   time.Duration
	log   zerolog.Logger
}

// NewCachedTokenValidator creates a CachedTokenValidator. A nil rdb
// disables caching entirely (every call hits the identity service).
func NewCachedTokenValidator(inner TokenValidator, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *CachedTokenValidator {
	return &CachedTokenValidator{
		inner: inner,
		rdb:   rdb,
		ttl:   ttl,
		log:   log.With().Str("component", "token_cache").Logger(),
	}
}

// Validate returns a cached identity when present, otherwise delegates
// to the wrapped validator and caches the result.
func (v *CachedTokenValidator) Validate(ctx context.Context, token string) (*Identity, error) {
	if v.rdb == nil || v.ttl <= 0 {
		return v.inner.Validate(ctx, token)
	}

	key := tokenCacheKey(token)

	cached, err := v.rdb.Get(ctx, key).Result()
	if err == nil {
		var identity Identity
		if jsonErr := json.Unmarshal([]byte(cached), &identity); jsonErr == nil {
			return &identity, nil
		}
		// Corrupt entry; drop it and revalidate.
		v.rdb.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		v.log.Warn().Err(err).Msg("Token cache read failed, validating remotely")
	}

	identity, err := v.inner.Validate(ctx, token)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(identity)
	if err == nil {
		if setErr := v.rdb.Set(ctx, key, payload, v.ttl).Err(); setErr != nil {
			v.log.Warn().Err(setErr).Msg("Token cache write failed")
		}
	}

	return identity, nil
}

// tokenCacheKey hashes the raw token so credentials never appear as
// Redis keys.
func tokenCacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return tokenCachePrefix + hex.EncodeToString(sum[:])
}
