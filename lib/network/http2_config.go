package network

import (
	"net/url"
	"strings"
	"time"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/errors"
)

type HTTP2NetworkConfig struct {
	NodeName string
	Endpoint *common.Endpoint
	Addr     string

	ReadTimeout,
	ReadHeaderTimeout,
	WriteTimeout,
	IdleTimeout time.Duration

	TLSCertFile,
	TLSKeyFile string
}

func parseServerTimeout(query url.Values, key string) (time.Duration, error) {
	timeout, err := time.ParseDuration(common.GetUrlQuery(query, key, "0s"))
	if err != nil {
		return 0, err
	}
	if timeout < 0 {
		return 0, errors.New("server timeout must not be negative").SetData("key", key)
	}
	return timeout, nil
}

// NewHTTP2NetworkConfigFromEndpoint reads the server timeouts and the TLS
// files from the query string of endpoint.
func NewHTTP2NetworkConfigFromEndpoint(nodeName string, endpoint *common.Endpoint) (*HTTP2NetworkConfig, error) {
	query := endpoint.Query()

	config := &HTTP2NetworkConfig{
		NodeName: nodeName,
		Endpoint: endpoint,
		Addr:     endpoint.Host,
	}

	var err error
	if config.ReadTimeout, err = parseServerTimeout(query, "ReadTimeout"); err != nil {
		return nil, err
	}
	if config.ReadHeaderTimeout, err = parseServerTimeout(query, "ReadHeaderTimeout"); err != nil {
		return nil, err
	}
	if config.WriteTimeout, err = parseServerTimeout(query, "WriteTimeout"); err != nil {
		return nil, err
	}
	if config.IdleTimeout, err = parseServerTimeout(query, "IdleTimeout"); err != nil {
		return nil, err
	}

	config.TLSCertFile = query.Get("TLSCertFile")
	config.TLSKeyFile = query.Get("TLSKeyFile")

	if strings.ToLower(endpoint.Scheme) == "https" && !config.IsHTTPS() {
		return nil, errors.New("https endpoint needs 'TLSCertFile' and 'TLSKeyFile'")
	}

	return config, nil
}

func (config HTTP2NetworkConfig) IsHTTPS() bool {
	return len(config.TLSCertFile) > 0 && len(config.TLSKeyFile) > 0
}

func (config HTTP2NetworkConfig) String() string {
	return string(common.MustMarshalJSON(config))
}
