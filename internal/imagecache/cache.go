package imagecache

import (
	"fmt"
	"image"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize is the number of decoded images kept when no size is configured.
const DefaultSize = 100

// Cache is a bounded recent-use cache of decoded images.
// Safe for concurrent use.
type Cache struct {
	lru *lru.Cache[string, image.Image]
}

// New creates a cache holding at most size images.
func New(size int) (*Cache, error) {
	l, err := lru.New[string, image.Image](size)
	if err != nil {
		return nil, fmt.Errorf("new image cache: %w", err)
	}
	return &Cache{lru: l}, nil
}

// Get returns the cached image for key.
func (c *Cache) Get(key string) (image.Image, bool) {
	return c.lru.Get(key)
}

// Put inserts or replaces the image for key, evicting the least recently used
// entry when the cache is full.
func (c *Cache) Put(key string, img image.Image) {
	c.lru.Add(key, img)
}

// Remove drops key if present.
func (c *Cache) Remove(key string) {
	c.lru.Remove(key)
}

// Clear drops every entry. Hosts call it on memory pressure.
func (c *Cache) Clear() {
	c.lru.Purge()
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	return c.lru.Len()
}
