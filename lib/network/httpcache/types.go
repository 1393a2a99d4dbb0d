package httpcache

import (
	"net/http"
	"time"
)

// Adapter is the storage behind Client; Get reports a miss with false
// and implementations are free to drop entries at any time.
type Adapter interface {
	Get(key string) (*Response, bool)
	Set(key string, response *Response, expiration time.Time)
	Remove(key string)
}

// Response is the cached copy of a handler's output. A zero Expiration
// means the entry does not expire.
type Response struct {
	Value      []byte
	StatusCode int
	Header     http.Header
	Expiration time.Time
}
