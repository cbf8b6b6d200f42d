// Package cache holds rendered listing responses so the admin list views do
// not re-enumerate the repository on every request. Entries are invalidated
// as a whole whenever any record is written or deleted.
package cache

import (
	"context"
	"time"
)

// ListCache stores serialized listing payloads keyed by collection and
// language filter.
type ListCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Invalidate(ctx context.Context) error
	Close() error
}
