package common

import (
	"net/http"

	"github.com/gorilla/mux"
)

// PostAndJSONMatcher rejects POST requests that do not declare a JSON
// body. The node API mounts it on every route that accepts operations,
// so malformed submissions 404 before reaching a handler.
func PostAndJSONMatcher(r *http.Request, rm *mux.RouteMatch) bool {
	if r.Method == http.MethodPost {
		return r.Header.Get("Content-Type") == "application/json"
	}

	return true
}
