package usecase

import (
	"context"
	"time"
)

// SearchCache stores search pages and stat reports as JSON. Implementations
// report a miss rather than an error when the backing store is down.
type SearchCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
}

const (
	candidateSearchKeyPrefix = "candidates:search:"
	statsReportKeyPrefix     = "stats:report:"
	statsLockKeyPrefix       = "stats:lock:"
)

// CachePatterns lists the key patterns owned by the use cases, for purging.
func CachePatterns() []string {
	return []string{candidateSearchKeyPrefix + "*", statsReportKeyPrefix + "*", statsLockKeyPrefix + "*"}
}
