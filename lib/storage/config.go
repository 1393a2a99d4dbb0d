package storage

import (
	"net/url"
	"strings"

	"boscoin.io/agora/lib/errors"
)

// Config decides where the backend keeps its data. Two schemes are
// supported, `memory://` and `file:///path/to/db`.
type Config struct {
	Scheme string
	Path   string
}

func NewConfigFromString(s string) (config *Config, err error) {
	var u *url.URL
	if u, err = url.Parse(s); err != nil {
		return
	}

	return NewConfigFromURL(u)
}

func NewConfigFromURL(u *url.URL) (config *Config, err error) {
	switch u.Scheme {
	case "memory":
		config = &Config{Scheme: u.Scheme}
	case "file":
		path := u.Path
		if len(u.Host) > 0 {
			path = u.Host + u.Path
		}
		if len(strings.TrimSpace(path)) < 1 {
			err = errors.StorageCoreError.Clone().SetData("error", "empty path")
			return
		}
		config = &Config{Scheme: u.Scheme, Path: path}
	default:
		err = errors.StorageCoreError.Clone().SetData("error", "unsupported scheme")
	}

	return
}

func (c *Config) String() string {
	u := url.URL{Scheme: c.Scheme, Path: c.Path}
	return u.String()
}
