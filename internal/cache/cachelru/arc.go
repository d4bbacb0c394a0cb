package cachelru

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"github.com/melodix-games/melodix/internal/cache"
)

func NewLRU(size int) (*LRU, error) {
	c, err := lru.NewARC(size)
	if err != nil {
		return nil, fmt.Errorf("lru new instance of lru arc cache: %v", err)
	}

	return &LRU{cache: c}, nil
}

var _ cache.Cache = (*LRU)(nil)

type LRU struct {
	cache *lru.ARCCache
}

func (c *LRU) Get(key string) (interface{}, bool) {
	return c.cache.Get(key)
}

func (c *LRU) Add(key string, value interface{}) {
	c.cache.Add(key, value)
}

func (c *LRU) Keys() []string {
	keys := c.cache.Keys()
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if s, ok := k.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (c *LRU) Delete(key string) {
	c.cache.Remove(key)
}
