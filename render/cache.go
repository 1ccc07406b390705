package render

import (
	"image"
	"sync"

	"github.com/milk9111/mapeditor/common"
	"github.com/zyedidia/generic/cache"
)

const DefaultCacheSize = 1024

// TileCache decodes tile references once and keeps the most recently used
// images.
type TileCache struct {
	mu       sync.Mutex
	capacity int
	lru      *cache.Cache[string, image.Image]
}

func NewTileCache(capacity int) *TileCache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	return &TileCache{
		capacity: capacity,
		lru:      cache.New[string, image.Image](capacity),
	}
}

// Image returns the decoded image for ref. Empty and oversized references
// are rejected.
func (c *TileCache) Image(ref string) (image.Image, error) {
	c.mu.Lock()
	if img, ok := c.lru.Get(ref); ok {
		c.mu.Unlock()
		return img, nil
	}
	c.mu.Unlock()

	img, err := common.DecodeImage(ref)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.lru.Put(ref, img)
	c.mu.Unlock()
	return img, nil
}

func (c *TileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Size()
}

// Clear drops every cached image.
func (c *TileCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru = cache.New[string, image.Image](c.capacity)
}
