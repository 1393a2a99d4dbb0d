package httpcache

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"time"

	logging "github.com/inconshreveable/log15"

	"boscoin.io/agora/lib/common"
)

// Client caches API responses keyed by normalized request URL. Only
// GET responses are cached; error responses are skipped unless given
// an explicit ttl with WithStatusCode.
type Client struct {
	adapter     Adapter
	ttl         time.Duration
	statusCodes map[int]time.Duration
	logger      logging.Logger
}

type ClientOption func(c *Client) error

func NewClient(opts ...ClientOption) (*Client, error) {
	c := &Client{
		statusCodes: map[int]time.Duration{},
		logger:      common.NopLogger(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.adapter == nil {
		return nil, errors.New("cache client adapter is nil")
	}

	return c, nil
}

func WithAdapter(a Adapter) ClientOption {
	return func(c *Client) error {
		c.adapter = a
		return nil
	}
}

// WithExpire sets the default ttl; zero keeps entries until the
// adapter evicts them.
func WithExpire(ttl time.Duration) ClientOption {
	return func(c *Client) error {
		c.ttl = ttl
		return nil
	}
}

// WithStatusCode overrides the ttl for one status code, which also
// turns on caching for error responses.
func WithStatusCode(code int, ttl time.Duration) ClientOption {
	return func(c *Client) error {
		c.statusCodes[code] = ttl
		return nil
	}
}

func WithLogger(logger logging.Logger) ClientOption {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

func (c *Client) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.serve(next, w, r)
	})
}

func (c *Client) WrapHandlerFunc(handlerFunc http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c.serve(handlerFunc, w, r)
	}
}

func (c *Client) serve(next http.Handler, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		next.ServeHTTP(w, r)
		return
	}

	key := cacheKey(r.URL)
	if resp, ok := c.adapter.Get(key); ok {
		if resp.Expiration.IsZero() || resp.Expiration.After(time.Now()) {
			writeResponse(w, resp.Header, resp.StatusCode, resp.Value)
			c.logger.Debug("served from cache", "url", key)
			return
		}
		c.adapter.Remove(key)
	}

	rec := httptest.NewRecorder()
	next.ServeHTTP(rec, r)

	result := rec.Result()
	expire, cacheable := c.expireFor(result.StatusCode)
	if cacheable {
		c.adapter.Set(key, &Response{
			Value:      rec.Body.Bytes(),
			StatusCode: result.StatusCode,
			Header:     result.Header,
			Expiration: expire,
		}, expire)
		c.logger.Debug("response cached", "url", key, "code", result.StatusCode, "expire", expire)
	}
	writeResponse(w, result.Header, result.StatusCode, rec.Body.Bytes())
}

func (c *Client) expireFor(code int) (time.Time, bool) {
	if ttl, ok := c.statusCodes[code]; ok {
		return expiration(ttl), true
	}
	if code < 400 {
		return expiration(c.ttl), true
	}
	return time.Time{}, false
}

func expiration(ttl time.Duration) time.Time {
	if ttl == 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}

func writeResponse(w http.ResponseWriter, header http.Header, code int, body []byte) {
	for k, v := range header {
		w.Header().Set(k, strings.Join(v, ","))
	}
	w.WriteHeader(code)
	w.Write(body)
}

// cacheKey normalizes the query so parameter order does not split the
// cache.
func cacheKey(u *url.URL) string {
	q := u.Query()
	for _, vs := range q {
		sort.Strings(vs)
	}
	normalized := *u
	normalized.RawQuery = q.Encode()
	return normalized.String()
}
