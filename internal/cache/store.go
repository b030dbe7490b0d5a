// internal/cache/store.go

// Package cache memoizes the storefront list endpoints for a fixed freshness
// window and falls back to the last good value when a reload fails.
package cache

import (
	"context"
	"strconv"
	"time"
)

// Entry is a stored response body and the time it was loaded.
type Entry struct {
	Value    []byte
	StoredAt time.Time
}

// Store holds entries without interpreting their age. Freshness is decided by
// TTLCache, so a Store must keep stale entries around for the fallback path.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, entry Entry) error
	Clear(ctx context.Context) error
	Close() error
}

// Error is a cache sentinel error.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrLoadTimeout is returned when a loader does not finish in time and
	// there is no previous value to serve.
	ErrLoadTimeout Error = "cache load timed out"

	ErrStoreClosed Error = "cache store closed"
)

// Keys for the memoized list endpoints.
const (
	KeyProductsAll      = "products:all"
	KeyProductsFeatured = "products:featured"
	KeyCategoriesAll    = "categories:all"
)

func KeyProductsByCategory(categoryID uint) string {
	return "products:category:" + strconv.FormatUint(uint64(categoryID), 10)
}
