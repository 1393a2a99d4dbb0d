package network

import (
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"boscoin.io/agora/lib/common"
)

func TestHTTP2NetworkConfigHTTPSAndTLS(t *testing.T) {
	var nodeName string = "showme"
	{ // HTTPS + TLSCertFile + TLSKeyFile
		queryValues := url.Values{}
		queryValues.Set("TLSCertFile", "faketlscert")
		queryValues.Set("TLSKeyFile", "faketlskey")

		endpoint := &common.Endpoint{
			Scheme:   "https",
			Host:     fmt.Sprintf("localhost:%s", getPort()),
			RawQuery: queryValues.Encode(),
		}

		_, err := NewHTTP2NetworkConfigFromEndpoint(nodeName, endpoint)
		require.Nil(t, err)
	}

	{ // HTTPS + TLSCertFile
		queryValues := url.Values{}
		queryValues.Set("TLSCertFile", "faketlscert")

		endpoint := &common.Endpoint{
			Scheme:   "https",
			Host:     fmt.Sprintf("localhost:%s", getPort()),
			RawQuery: queryValues.Encode(),
		}

		_, err := NewHTTP2NetworkConfigFromEndpoint(nodeName, endpoint)
		require.NotNil(t, err)
	}

	{ // HTTPS + TLSKeyFile
		queryValues := url.Values{}
		queryValues.Set("TLSKeyFile", "faketlskey")

		endpoint := &common.Endpoint{
			Scheme:   "https",
			Host:     fmt.Sprintf("localhost:%s", getPort()),
			RawQuery: queryValues.Encode(),
		}

		_, err := NewHTTP2NetworkConfigFromEndpoint(nodeName, endpoint)
		require.NotNil(t, err)
	}

	{ // HTTP
		queryValues := url.Values{}
		queryValues.Set("TLSCertFile", "faketlscert")
		queryValues.Set("TLSKeyFile", "faketlskey")

		endpoint := &common.Endpoint{
			Scheme:   "http",
			Host:     fmt.Sprintf("localhost:%s", getPort()),
			RawQuery: queryValues.Encode(),
		}

		_, err := NewHTTP2NetworkConfigFromEndpoint(nodeName, endpoint)
		require.Nil(t, err)
	}
}

func TestHTTP2NetworkConfigTimeouts(t *testing.T) {
	{ // valid timeouts
		queryValues := url.Values{}
		queryValues.Set("ReadTimeout", "10s")
		queryValues.Set("WriteTimeout", "1m")
		queryValues.Set("IdleTimeout", "5s")

		endpoint := &common.Endpoint{
			Scheme:   "http",
			Host:     fmt.Sprintf("localhost:%s", getPort()),
			RawQuery: queryValues.Encode(),
		}

		config, err := NewHTTP2NetworkConfigFromEndpoint("showme", endpoint)
		require.Nil(t, err)
		require.Equal(t, 10*time.Second, config.ReadTimeout)
		require.Equal(t, time.Minute, config.WriteTimeout)
		require.Equal(t, 5*time.Second, config.IdleTimeout)
	}

	{ // negative timeout
		queryValues := url.Values{}
		queryValues.Set("ReadTimeout", "-1s")

		endpoint := &common.Endpoint{
			Scheme:   "http",
			Host:     fmt.Sprintf("localhost:%s", getPort()),
			RawQuery: queryValues.Encode(),
		}

		_, err := NewHTTP2NetworkConfigFromEndpoint("showme", endpoint)
		require.NotNil(t, err)
	}

	{ // not a duration
		queryValues := url.Values{}
		queryValues.Set("WriteTimeout", "showme")

		endpoint := &common.Endpoint{
			Scheme:   "http",
			Host:     fmt.Sprintf("localhost:%s", getPort()),
			RawQuery: queryValues.Encode(),
		}

		_, err := NewHTTP2NetworkConfigFromEndpoint("showme", endpoint)
		require.NotNil(t, err)
	}
}
