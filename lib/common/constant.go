package common

const (
	// HTTPCachePoolSize is the number of cached responses kept by the
	// memory adapter before eviction.
	HTTPCachePoolSize int = 10000

	HTTPCacheMemoryAdapterName = "mem"
	HTTPCacheRedisAdapterName  = "redis"
)
