// Package cache stores fetched filing bodies so re-runs of the acquisition
// stage do not hammer the source servers. A memory layer serves repeats
// within one run; a disk layer survives across runs.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the fetch-cache contract shared by the memory, disk, and layered
// implementations.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey derives the cache key for a document URL. Keys carry a version
// prefix so a format change invalidates old entries wholesale.
func CacheKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return "filingrag:v1:" + hex.EncodeToString(sum[:])
}
