package httpcache

import "net/http"

// NopClient stands in for Client when caching is disabled; handlers
// pass through untouched.
type NopClient struct{}

func NewNopClient() *NopClient {
	return &NopClient{}
}

func (NopClient) WrapHandlerFunc(handlerFunc http.HandlerFunc) http.HandlerFunc {
	return handlerFunc
}
