package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// DefaultPort is appended to endpoints given without a port.
var DefaultPort = 12345

// CheckBindString verifies b is a `host:port` a server could bind.
func CheckBindString(b string) error {
	_, port, err := net.SplitHostPort(b)
	if err != nil {
		return err
	}

	portInt, err := strconv.ParseInt(port, 10, 64)
	if err != nil {
		return err
	}
	if portInt < 1 {
		return errors.New("invalid port")
	}

	return nil
}

// Endpoint is the url a node is reached at. The query string carries
// server options, so String drops it and renders only scheme, host and
// path.
type Endpoint url.URL

func NewEndpointFromURL(u *url.URL) *Endpoint {
	return (*Endpoint)(u)
}

func NewEndpointFromString(s string) (*Endpoint, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	return NewEndpointFromURL(u), nil
}

func (e *Endpoint) String() string {
	return (&url.URL{
		Scheme: e.Scheme,
		Host:   e.Host,
		Path:   e.Path,
	}).String()
}

func (e *Endpoint) Query() url.Values {
	return (*url.URL)(e).Query()
}

// Endpoints travel as plain url strings in json, both directions.
func (e *Endpoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

func (e *Endpoint) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	p, err := ParseEndpoint(s)
	if err != nil {
		return err
	}

	*e = *p

	return nil
}

// ParseEndpoint normalizes endpoint. A missing port becomes
// DefaultPort, loopback hosts become `localhost` and the host is
// lowercased.
func ParseEndpoint(endpoint string) (*Endpoint, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	if len(parsed.Scheme) < 1 {
		return nil, errors.New("missing scheme")
	}

	if len(parsed.Port()) < 1 {
		parsed.Host = fmt.Sprintf("%s:%d", parsed.Host, DefaultPort)
	}
	if err := CheckBindString(parsed.Host); err != nil {
		return nil, err
	}

	if len(parsed.Hostname()) < 1 || strings.HasPrefix(parsed.Host, "127.0.") {
		parsed.Host = fmt.Sprintf("localhost:%s", parsed.Port())
	}

	parsed.Host = strings.ToLower(parsed.Host)

	return (*Endpoint)(parsed), nil
}
