package cache

import "time"

// LayeredCache fronts a disk cache with a memory cache. Reads promote disk
// hits into memory; writes land in both layers.
type LayeredCache struct {
	memory Cache
	disk   Cache
}

// NewLayeredCache creates a memory-over-disk cache.
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return &LayeredCache{
		memory: NewMemoryCache(memoryTTL, 10*time.Minute),
		disk:   NewDiskCache(diskDir, diskTTL),
	}
}

// Get checks memory first, then disk, promoting disk hits into memory under
// the memory layer's default TTL.
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if body, found := c.memory.Get(key); found {
		return body, true
	}
	if body, found := c.disk.Get(key); found {
		_ = c.memory.Set(key, body, 0)
		return body, true
	}
	return nil, false
}

// Set writes the entry to disk first, then memory; the durable layer is the
// one whose failure matters.
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.disk.Set(key, value, ttl); err != nil {
		return err
	}
	return c.memory.Set(key, value, ttl)
}

// Delete removes the entry from both layers.
func (c *LayeredCache) Delete(key string) error {
	_ = c.memory.Delete(key)
	return c.disk.Delete(key)
}

// Clear drops both layers.
func (c *LayeredCache) Clear() error {
	_ = c.memory.Clear()
	return c.disk.Clear()
}
