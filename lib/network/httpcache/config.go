package httpcache

import (
	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/errors"
)

// NewAdapter builds the adapter the node config names; the node
// command validates the name, so default only triggers on a config
// assembled by hand.
func NewAdapter(cfg common.Config) (Adapter, error) {
	switch cfg.HTTPCacheAdapter {
	case common.HTTPCacheMemoryAdapterName:
		return NewMemCacheAdapter(cfg.HTTPCachePoolSize), nil
	case common.HTTPCacheRedisAdapterName:
		return NewRedisCacheAdapter(&RedisRingOptions{
			Addrs: cfg.HTTPCacheRedisAddrs,
		}), nil
	default:
		return nil, errors.New("http cache adapter not found").SetData("adapter", cfg.HTTPCacheAdapter)
	}
}
