package httpcache

import (
	"time"

	"github.com/hashicorp/golang-lru"
)

// MemCacheAdapter keeps cached responses in an in process lru. It is
// the default adapter of a single node setup.
type MemCacheAdapter struct {
	lruCache *lru.Cache
}

func NewMemCacheAdapter(size int) *MemCacheAdapter {
	lruCache, err := lru.New(size)
	if err != nil {
		panic(err)
	}

	return &MemCacheAdapter{lruCache: lruCache}
}

func (a *MemCacheAdapter) Get(key string) (*Response, bool) {
	value, ok := a.lruCache.Get(key)
	if !ok {
		return nil, false
	}

	res, ok := value.(*Response)
	return res, ok
}

// Set ignores the expiration; stale entries are dropped on Get by the
// client and evicted by the lru otherwise.
func (a *MemCacheAdapter) Set(key string, resp *Response, expir time.Time) {
	a.lruCache.Add(key, resp)
}

func (a *MemCacheAdapter) Remove(key string) {
	a.lruCache.Remove(key)
}
