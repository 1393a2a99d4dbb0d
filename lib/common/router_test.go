package common

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

func TestPostAndJSONMatcher(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc(
		"/operations",
		func(w http.ResponseWriter, r *http.Request) {
			r.Body.Close()
		},
	).Methods("GET", "POST").MatcherFunc(PostAndJSONMatcher)

	server := httptest.NewServer(router)
	defer server.Close()

	cases := []struct {
		name        string
		method      string
		contentType string
		status      int
	}{
		{"get passes without content type", "GET", "", http.StatusOK},
		{"post without content type is not matched", "POST", "", http.StatusNotFound},
		{"post with wrong content type is not matched", "POST", "text/plain", http.StatusNotFound},
		{"post with json passes", "POST", "application/json", http.StatusOK},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req, err := http.NewRequest(c.method, server.URL+"/operations", nil)
			require.NoError(t, err)
			if c.contentType != "" {
				req.Header.Set("Content-Type", c.contentType)
			}

			resp, err := server.Client().Do(req)
			require.NoError(t, err)
			resp.Body.Close()
			require.Equal(t, c.status, resp.StatusCode)
		})
	}
}
