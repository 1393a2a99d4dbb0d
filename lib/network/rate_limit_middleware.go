package network

import (
	"net"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	logging "github.com/inconshreveable/log15"
	"github.com/ulule/limiter"
	"github.com/ulule/limiter/drivers/store/memory"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/errors"
	"boscoin.io/agora/lib/network/httputils"
)

// RateLimitMiddleware throttles the requests by the client ip address. The
// addresses found in `rule.ByIPAddress` get their own rate instead of
// `rule.Default`, and a rate with `Limit` of 0 means no limit.
func RateLimitMiddleware(logger logging.Logger, rule common.RateLimitRule) mux.MiddlewareFunc {
	if logger == nil {
		logger = log
	}

	defaultLimiter := limiter.New(memory.NewStore(), rule.Default)

	limiters := map[string]*limiter.Limiter{}
	for ip, rate := range rule.ByIPAddress {
		limiters[ip] = limiter.New(memory.NewStore(), rate)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				// `RemoteAddr` without port
				ip = r.RemoteAddr
			}

			lm, found := limiters[ip]
			if !found {
				lm = defaultLimiter
			}

			if lm.Rate.Limit < 1 { // no limit
				next.ServeHTTP(w, r)
				return
			}

			lmCtx, err := lm.Get(r.Context(), ip)
			if err != nil {
				logger.Error("failed to check the rate limit", "ip", ip, "err", err)
				httputils.WriteJSONError(w, err)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(lmCtx.Limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(lmCtx.Remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(lmCtx.Reset, 10))

			if lmCtx.Reached {
				logger.Debug("rate limit reached", "ip", ip)
				httputils.WriteJSONError(w, errors.TooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
