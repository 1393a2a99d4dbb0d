package httpcache

import (
	"testing"
	"time"
)

var _ Adapter = (*RedisCacheAdapter)(nil)

// The adapter treats redis errors as cache misses, so Set with no
// reachable server must return instead of failing the caller.
func TestRedisCacheAdapterSetWithoutServer(t *testing.T) {
	a := NewRedisCacheAdapter(&RedisRingOptions{
		Addrs: map[string]string{
			"server": ":6379",
		},
	})

	expire := time.Now().Add(time.Minute)
	a.Set("elections", &Response{Value: []byte("showme"), Expiration: expire}, expire)
}
