package common

//
// Config carries the settings shared across the node: the network id every
// operation signature is scoped to, the API rate limit rules and the HTTP
// cache setup. It is assembled once by the command line layer and handed
// down to the runner.
//
type Config struct {
	NetworkID []byte

	RateLimitRuleAPI RateLimitRule

	HTTPCacheAdapter    string
	HTTPCachePoolSize   int
	HTTPCacheRedisAddrs map[string]string

	NTPServer string
}

func NewConfig(networkID []byte) Config {
	p := Config{}

	p.NetworkID = networkID

	p.RateLimitRuleAPI = NewRateLimitRule(RateLimitAPI)

	p.HTTPCachePoolSize = HTTPCachePoolSize

	return p
}
