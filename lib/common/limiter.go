package common

import (
	"fmt"
	"time"

	"github.com/ulule/limiter"
)

var (
	// RateLimitAPI is the default rate limit for the public API endpoints.
	RateLimitAPI = limiter.Rate{
		Period: time.Minute,
		Limit:  100,
	}
)

// RateLimitRule holds the default rate and the per-IP overrides. An override
// with `Limit` of 0 disables limiting for that address.
type RateLimitRule struct {
	Default     limiter.Rate
	ByIPAddress map[string]limiter.Rate
}

func NewRateLimitRule(rate limiter.Rate) RateLimitRule {
	return RateLimitRule{
		Default:     rate,
		ByIPAddress: map[string]limiter.Rate{},
	}
}

func (r RateLimitRule) IsLimitedForIPAddress(ip string) bool {
	rate, ok := r.ByIPAddress[ip]
	if !ok {
		return r.Default.Limit > 0
	}

	return rate.Limit > 0
}

func (r RateLimitRule) GetRate(ip string) limiter.Rate {
	rate, ok := r.ByIPAddress[ip]
	if !ok {
		return r.Default
	}

	return rate
}

// Formatted renders the default rate the way the rate-limit flags accept
// it, like `100-M`.
func (r RateLimitRule) Formatted() string {
	var period string
	switch r.Default.Period {
	case time.Second:
		period = "S"
	case time.Minute:
		period = "M"
	case time.Hour:
		period = "H"
	default:
		return fmt.Sprintf("%d-%s", r.Default.Limit, r.Default.Period)
	}

	return fmt.Sprintf("%d-%s", r.Default.Limit, period)
}
